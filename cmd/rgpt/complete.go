package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-go-golems/arbor/pkg/conversation"
	"github.com/go-go-golems/arbor/pkg/providers/openai"
)

func newCompleteCommand() *cobra.Command {
	var sampleCount int
	var baseURL string

	cmd := &cobra.Command{
		Use:   "complete <path> <query>",
		Short: "Append a query to the end of a conversation and complete it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, err := conversation.LoadConversation(args[0])
			if err != nil {
				return err
			}

			latest := conv.LatestMessages()
			if len(latest) == 0 {
				return errors.New("conversation has no latest message")
			}

			queries, err := conv.AddQueries(latest[0].ID, []string{args[1]})
			if err != nil {
				return err
			}

			apiKey := viper.GetString("api-key")
			if apiKey == "" {
				return errors.New("no API key configured, set RGPT_API_KEY")
			}
			var opts []openai.Option
			if baseURL != "" {
				opts = append(opts, openai.WithBaseURL(baseURL))
			}
			provider := openai.New(apiKey, opts...)

			var override *int
			if cmd.Flags().Changed("samples") {
				override = &sampleCount
			}

			responses, err := conv.Complete(cmd.Context(), queries[0].ID, provider, override)
			if err != nil {
				return err
			}

			for _, response := range responses {
				cmd.Printf("%s\n", response.View())
			}

			return conv.Save()
		},
	}

	cmd.Flags().IntVarP(&sampleCount, "samples", "n", 1, "override the number of samples for this completion")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "OpenAI-compatible API base URL")

	return cmd
}
