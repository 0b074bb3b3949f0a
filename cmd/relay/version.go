package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the Relay version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoAuth: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(makeVersion())
			return nil
		},
	}
}

func makeVersion() string {
	return fmt.Sprintf("Relay %s (%q)", version, commit)
}
