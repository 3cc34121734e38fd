package cli

import (
	"github.com/spf13/cobra"
)

func newFriendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Friend management commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List friends",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []User
			if err := client.Get("/api/friends", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <user-id>",
		Short: "Send a friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"user_id": args[0]}
			if err := client.Post("/api/friends/requests", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Friend request sent")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "requests",
		Short: "List incoming friend requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []map[string]any
			if err := client.Get("/api/friends/requests", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "accept <request-id>",
		Short: "Accept a friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/friends/requests/"+args[0]+"/accept", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Friend request accepted")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "decline <request-id>",
		Short: "Decline a friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/friends/requests/"+args[0]+"/decline", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Friend request declined")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <user-id>",
		Short: "Remove a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/friends/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Friend removed")
			return nil
		},
	})

	return cmd
}
