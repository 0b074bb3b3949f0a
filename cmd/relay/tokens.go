package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/relaygate/relay/api"
	"github.com/relaygate/relay/forms"
)

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <command>",
		Short: "Manage personal access tokens",
	}
	cmd.AddCommand(newTokenListCommand())
	cmd.AddCommand(newTokenCreateCommand())
	cmd.AddCommand(newTokenDeleteCommand())
	return cmd
}

func newTokenListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List personal access tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := relay.ListAccessTokens(ctx)
			if err != nil {
				return err
			}
			return printAccessTokens(tokens)
		},
	}
}

func newTokenCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a personal access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := forms.AccessTokenForm{Name: args[0]}
			if err := form.Validate(); err != nil {
				return err
			}

			token, err := relay.CreateAccessToken(ctx, api.AccessTokenSpec{Name: form.Name})
			if err != nil {
				return err
			}

			if format == formatJSON {
				return printJSON(token)
			}
			// The secret is shown exactly once; list responses only carry the
			// prefix.
			fmt.Println("Token created. Store the secret now; it will not be shown again.")
			fmt.Println(color.GreenString(token.Token))
			return nil
		},
	}
}

func newTokenDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Revoke a personal access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !quiet {
				ok, err := confirm(fmt.Sprintf("Revoke token %q?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			return relay.DeleteAccessToken(ctx, args[0])
		},
	}
}
