package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ChatMessage is one direct message as returned by the chat API
type ChatMessage struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

// MessageHistory is one page of a conversation
type MessageHistory struct {
	Messages []ChatMessage `json:"messages"`
	Total    int           `json:"total"`
}

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Direct message commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "conversations",
		Short: "List conversations with unread counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []map[string]any
			if err := client.Get("/api/chat/conversations", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	historyCmd := &cobra.Command{
		Use:   "history <user-id>",
		Short: "Show message history with a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")

			var result MessageHistory
			path := fmt.Sprintf("/api/chat/%s/messages?page=%d", args[0], page)
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
	historyCmd.Flags().Int("page", 0, "Page number")
	cmd.AddCommand(historyCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "send <user-id> <message...>",
		Short: "Send a direct message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"receiver_id": args[0],
				"content":     strings.Join(args[1:], " "),
			}
			var result ChatMessage
			if err := client.Post("/api/chat/messages", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Message sent")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "read <user-id>",
		Short: "Mark a conversation as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/chat/"+args[0]+"/read", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Conversation marked read")
			return nil
		},
	})

	return cmd
}
