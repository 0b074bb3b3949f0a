package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relaygate/relay/api"
	"github.com/relaygate/relay/history"
)

func newRunCommand() *cobra.Command {
	var maxTokens int
	var temperature float64
	cmd := &cobra.Command{
		Use:   "run <model> <prompt>...",
		Short: "Send a prompt through the gateway",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := api.CompletionSpec{
				Model:       args[0],
				Prompt:      strings.Join(args[1:], " "),
				MaxTokens:   maxTokens,
				Temperature: temperature,
			}

			log := history.NewLog(state)
			item := history.NewItem(history.Request{Model: spec.Model, Prompt: spec.Prompt})

			completion, err := relay.CreateCompletion(ctx, spec)
			if err != nil {
				item.Err = err.Error()
				if logErr := log.Push(item); logErr != nil {
					return logErr
				}
				return err
			}

			item.Reply = completion
			if encoded, encodeErr := json.Marshal(completion); encodeErr == nil {
				item.Size = int64(len(encoded))
			}
			if err := log.Push(item); err != nil {
				return err
			}

			if format == formatJSON {
				return printJSON(completion)
			}
			fmt.Println(completion.Text)
			if !quiet {
				fmt.Printf(
					"\n[%s via %s: %d in / %d out tokens, $%s]\n",
					completion.Model,
					completion.Provider,
					completion.Usage.InputTokens,
					completion.Usage.OutputTokens,
					completion.Usage.Cost,
				)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Cap the completion length")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "Sampling temperature")
	return cmd
}
