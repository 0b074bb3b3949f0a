package main

import (
	"github.com/spf13/cobra"

	"github.com/relaygate/relay/api"
	"github.com/relaygate/relay/forms"
)

func newAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account <command>",
		Short: "Manage your account",
	}
	cmd.AddCommand(newAccountWhoAmICommand())
	cmd.AddCommand(newAccountUpdateCommand())
	cmd.AddCommand(newAccountResetPasswordCommand())
	return cmd
}

func newAccountWhoAmICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Display information about your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := relay.WhoAmI(ctx)
			if err != nil {
				return err
			}
			return printUsers([]api.User{*user})
		},
	}
}

func newAccountUpdateCommand() *cobra.Command {
	var displayName string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := api.UserPatchSpec{}
			if cmd.Flags().Changed("display-name") {
				spec.DisplayName = &displayName
			}
			user, err := relay.UpdateProfile(ctx, spec)
			if err != nil {
				return err
			}
			return printUsers([]api.User{*user})
		},
	}
	cmd.Flags().StringVar(&displayName, "display-name", "", "New display name")
	return cmd
}

func newAccountResetPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "reset-password <email>",
		Short:       "Request a password-reset email",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationNoAuth: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return sessions.ResetPassword(ctx, args[0])
		},
	}
}

func newSignupCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "signup <email>",
		Short:       "Create a new Relay account",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationNoAuth: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := prompt("Choose a password: ")
			if err != nil {
				return err
			}

			form := forms.SignUpForm{Email: args[0], Password: password}
			if err := form.Validate(); err != nil {
				return err
			}

			sess, err := relay.SignUp(ctx, form.Email, form.Password)
			if err != nil {
				return err
			}

			relayConfig.UserToken = sess.Token
			if err := writeUserToken(sess.Token); err != nil {
				return err
			}
			return printUsers([]api.User{sess.User})
		},
	}
}
