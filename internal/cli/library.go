package cli

import (
	"github.com/spf13/cobra"
)

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Library and wishlist commands",
	}

	cmd.AddCommand(newLibraryListCmd())
	cmd.AddCommand(newLibraryDownloadCmd())
	cmd.AddCommand(newLibraryPlaytimeCmd())
	cmd.AddCommand(newWishlistCmd())

	return cmd
}

func newLibraryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List owned games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []LibraryItem
			if err := client.Get("/api/library", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newLibraryDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <game-id>",
		Short: "Get the download link for an owned game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]string
			if err := client.Post("/api/games/"+args[0]+"/download", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(result["download_url"])
			return nil
		},
	}
}

func newLibraryPlaytimeCmd() *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "playtime <game-id>",
		Short: "Record play minutes for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int{"minutes": minutes}

			var result map[string]any
			if err := client.Post("/api/library/"+args[0]+"/playtime", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 0, "Minutes played (required)")
	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}

func newWishlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Wishlist commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List wishlisted games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Game
			if err := client.Get("/api/wishlist", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <game-id>",
		Short: "Add a game to the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/wishlist/"+args[0], nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Added to wishlist")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <game-id>",
		Short: "Remove a game from the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/wishlist/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Removed from wishlist")
			return nil
		},
	})

	return cmd
}
