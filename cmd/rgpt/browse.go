package main

import (
	"github.com/spf13/cobra"

	"github.com/go-go-golems/arbor/pkg/conversation"
	"github.com/go-go-golems/arbor/pkg/conversation/store"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <dir>",
		Short: "List the conversations stored in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(args[0])
			if err != nil {
				return err
			}

			for _, name := range s.Names() {
				conv, err := s.Get(name)
				if err != nil {
					return err
				}
				display := conv.Name()
				if display == "" {
					display = "(unnamed)"
				}
				cmd.Printf("%s\t%s\n", name, display)
			}
			return nil
		},
	}
}

func newShowCommand() *cobra.Command {
	var anchor string

	cmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Print a conversation tree depth-first, or one linear view with --anchor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, err := conversation.LoadConversation(args[0])
			if err != nil {
				return err
			}

			if anchor != "" {
				anchorID, err := conversation.ParseNodeID(anchor)
				if err != nil {
					return err
				}
				path, err := conv.MessageList(anchorID)
				if err != nil {
					return err
				}
				for _, msg := range path {
					cmd.Printf("%s\n", msg.View())
				}
				return nil
			}

			it := conv.DepthFirst()
			for msg, ok := it.Next(); ok; msg, ok = it.Next() {
				cmd.Printf("%s (%d) %s\n", msg.ID, msg.SiblingIndex, msg.View())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&anchor, "anchor", "", "message id to anchor a linear view at")

	return cmd
}
