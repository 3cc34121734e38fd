package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newAssistantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assistant",
		Short: "Storefront assistant commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "chat <message...>",
		Short: "Ask the assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"message": strings.Join(args, " ")}

			var result AssistantReply
			if err := client.Post("/api/assistant/chat", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "recommend",
		Short: "Get personalized recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Game
			if err := client.Get("/api/assistant/recommendations", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	return cmd
}
