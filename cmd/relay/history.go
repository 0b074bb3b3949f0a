package main

import (
	"github.com/spf13/cobra"

	"github.com/relaygate/relay/history"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <command>",
		Short: "Inspect recent playground requests",
	}
	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryClearCommand())
	return cmd
}

func newHistoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recent requests, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := history.NewLog(state).Items()
			if err != nil {
				return err
			}
			return printHistory(items)
		},
	}
}

func newHistoryClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !quiet {
				ok, err := confirm("Clear the request history?")
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			return history.NewLog(state).Clear()
		},
	}
}
