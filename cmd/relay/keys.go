package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relaygate/relay/api"
	"github.com/relaygate/relay/forms"
)

func newKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key <command>",
		Short: "Manage provider API keys",
	}
	cmd.AddCommand(newKeyListCommand())
	cmd.AddCommand(newKeyCreateCommand())
	cmd.AddCommand(newKeyDeleteCommand())
	return cmd
}

func newKeyListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List provider API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := relay.ListAPIKeys(ctx)
			if err != nil {
				return err
			}
			return printAPIKeys(keys)
		},
	}
}

func newKeyCreateCommand() *cobra.Command {
	var provider string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Connect a provider API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := prompt("Provider secret: ")
			if err != nil {
				return err
			}

			form := forms.APIKeyForm{Name: args[0], Provider: provider, Secret: secret}
			if err := form.Validate(); err != nil {
				return err
			}

			key, err := relay.CreateAPIKey(ctx, api.APIKeySpec{
				Name:     form.Name,
				Provider: form.Provider,
				Secret:   form.Secret,
			})
			if err != nil {
				return err
			}
			return printAPIKeys([]api.APIKey{*key})
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "",
		"Upstream provider, one of: "+strings.Join(forms.ProviderNames(), ", "))
	return cmd
}

func newKeyDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a provider API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !quiet {
				ok, err := confirm(fmt.Sprintf("Delete key %q? Requests routed through it will start failing", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			return relay.DeleteAPIKey(ctx, args[0])
		},
	}
}
