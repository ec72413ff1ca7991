package main

import (
	"github.com/spf13/cobra"

	"github.com/go-go-golems/arbor/pkg/conversation"
)

func newNewCommand() *cobra.Command {
	var temperature float64
	var maxTokens int
	var sampleCount int
	var model string

	cmd := &cobra.Command{
		Use:   "new <path> <name> <system-prompt>",
		Short: "Create a new conversation file seeded with a system prompt",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			parameters, err := conversation.NewCompletionParameters(
				conversation.WithTemperature(temperature),
				conversation.WithMaxTokens(maxTokens),
				conversation.WithSampleCount(sampleCount),
				conversation.WithModel(conversation.CompletionModel(model)),
			)
			if err != nil {
				return err
			}

			conv, err := conversation.BuildConversation(parameters, args[0], args[2])
			if err != nil {
				return err
			}
			conv.SetName(args[1])

			if err := conv.Save(); err != nil {
				return err
			}

			cmd.Printf("Conversation saved at: %s\n", conv.Path())
			return nil
		},
	}

	cmd.Flags().Float64VarP(&temperature, "temperature", "t", 1.0, "sampling temperature (0.0 to 2.0)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 512, "maximum output tokens per completion")
	cmd.Flags().IntVarP(&sampleCount, "samples", "n", 1, "number of samples per completion")
	cmd.Flags().StringVar(&model, "model", string(conversation.ModelGPT35), "completion model")

	return cmd
}
