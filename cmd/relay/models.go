package main

import (
	"github.com/spf13/cobra"
)

func newModelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model <command>",
		Short: "Inspect available models",
	}
	cmd.AddCommand(newModelListCommand())
	return cmd
}

func newModelListCommand() *cobra.Command {
	var provider string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List models the gateway can route to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := relay.ListModels(ctx)
			if err != nil {
				return err
			}
			if provider != "" {
				filtered := models[:0]
				for _, m := range models {
					if m.Provider == provider {
						filtered = append(filtered, m)
					}
				}
				models = filtered
			}
			return printModels(models)
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "Only show models from this provider")
	return cmd
}
