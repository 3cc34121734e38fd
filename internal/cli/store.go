package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Catalog browsing and purchase commands",
	}

	cmd.AddCommand(newStoreSearchCmd())
	cmd.AddCommand(newStoreShowCmd())
	cmd.AddCommand(newStoreFeaturedCmd())
	cmd.AddCommand(newStoreTrendingCmd())
	cmd.AddCommand(newStoreBuyCmd())

	return cmd
}

func newStoreSearchCmd() *cobra.Command {
	var query, genre, sort string
	var page int

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if query != "" {
				params.Set("q", query)
			}
			if genre != "" {
				params.Set("genre", genre)
			}
			if sort != "" {
				params.Set("sort", sort)
			}
			params.Set("page", fmt.Sprintf("%d", page))

			var result GameList
			if err := client.Get("/api/games?"+params.Encode(), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Search text")
	cmd.Flags().StringVar(&genre, "genre", "", "Filter by genre")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort: newest, rating, downloads, price")
	cmd.Flags().IntVar(&page, "page", 0, "Page number")

	return cmd
}

func newStoreShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <game-id>",
		Short: "Show one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			if err := client.Get("/api/games/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStoreFeaturedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "featured",
		Short: "List featured games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Game
			if err := client.Get("/api/games/featured", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStoreTrendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "List trending games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Game
			if err := client.Get("/api/games/trending", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStoreBuyCmd() *cobra.Command {
	var paymentRef string

	cmd := &cobra.Command{
		Use:   "buy <game-id>",
		Short: "Purchase a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if paymentRef != "" {
				req["payment_ref"] = paymentRef
			}

			var result map[string]any
			if err := client.Post("/api/games/"+args[0]+"/purchase", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&paymentRef, "payment-ref", "", "Payment reference")

	return cmd
}
