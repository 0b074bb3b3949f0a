package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/relaygate/relay/api"
)

func newOrganizationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "organization <command>",
		Aliases: []string{"org"},
		Short:   "Manage organizations",
	}
	cmd.AddCommand(newOrgListCommand())
	cmd.AddCommand(newOrgCurrentCommand())
	cmd.AddCommand(newOrgUseCommand())
	cmd.AddCommand(newOrgMembersCommand())
	cmd.AddCommand(newOrgAddMemberCommand())
	cmd.AddCommand(newOrgRemoveMemberCommand())
	return cmd
}

func newOrgListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List organizations you belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			directory.Load(ctx)
			var current string
			if org := orgSwitch.Current(); org != nil {
				current = org.ID
			}
			return printMemberships(directory.Memberships(), current)
		},
	}
}

func newOrgCurrentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			org := orgSwitch.Current()
			if org == nil {
				fmt.Println("Personal workspace")
				return nil
			}
			switch format {
			case formatJSON:
				return printJSON(org)
			default:
				return printTableRow(org.ID, org.Name)
			}
		},
	}
}

func newOrgUseCommand() *cobra.Command {
	var personal bool
	cmd := &cobra.Command{
		Use:   "use [organization]",
		Short: "Switch the current organization by id or name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if personal {
				if err := orgSwitch.SetCurrentOrganization(nil); err != nil {
					return err
				}
				if !quiet {
					fmt.Println("Switched to your personal workspace")
				}
				return nil
			}
			if len(args) == 0 {
				return errors.New("an organization id or name is required unless --personal is set")
			}

			directory.Load(ctx)
			org := directory.FindByRef(args[0])
			if org == nil {
				return errors.Errorf("you are not a member of %q", args[0])
			}
			if err := orgSwitch.SetCurrentOrganization(org); err != nil {
				return err
			}
			if !quiet {
				fmt.Printf("Switched to %q\n", org.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&personal, "personal", false, "Switch to your personal workspace")
	return cmd
}

func newOrgMembersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "members <organization>",
		Short: "List an organization's members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := resolveOrg(args[0])
			if err != nil {
				return err
			}
			members, err := relay.ListOrgMembers(ctx, org.ID)
			if err != nil {
				return err
			}
			return printMembers(members)
		},
	}
}

func newOrgAddMemberCommand() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "add-member <organization> <email>",
		Short: "Invite a user to an organization",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := resolveOrg(args[0])
			if err != nil {
				return err
			}
			member, err := relay.AddOrgMember(ctx, org.ID, api.OrgMemberSpec{
				Email: args[1],
				Role:  api.Role(role),
			})
			if err != nil {
				return err
			}
			return printMembers([]api.OrgMembership{*member})
		},
	}
	cmd.Flags().StringVar(&role, "role", string(api.RoleMember), "Role granted to the new member")
	return cmd
}

func newOrgRemoveMemberCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-member <organization> <user-id>",
		Short: "Remove a member from an organization",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			org, err := resolveOrg(args[0])
			if err != nil {
				return err
			}
			if !quiet {
				ok, err := confirm(fmt.Sprintf("Remove %q from %q?", args[1], org.Name))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			return relay.RemoveOrgMember(ctx, org.ID, args[1])
		},
	}
}

func resolveOrg(ref string) (*api.Organization, error) {
	if !directory.Loaded() {
		directory.Load(ctx)
	}
	org := directory.FindByRef(ref)
	if org == nil {
		return nil, errors.Errorf("you are not a member of %q", ref)
	}
	return org, nil
}
