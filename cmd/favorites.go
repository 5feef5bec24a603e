package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ElouanDeriaux/suprss/internal/api"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"favs", "starred"},
	Short:   "List starred articles",
	Long: `List starred articles across all collections.

With --stars the collection-aware listing is used instead, which can be
narrowed with --collection and --feed.

Examples:
  suprss favorites
  suprss favorites --q rust
  suprss favorites --stars --collection 3`,
	Args: cobra.NoArgs,
	RunE: runFavorites,
}

func init() {
	rootCmd.AddCommand(favoritesCmd)

	f := favoritesCmd.Flags()
	f.String("q", "", "search in title and content")
	f.Bool("stars", false, "use the collection-aware listing")
	f.Int("collection", 0, "collection id (with --stars)")
	f.Int("feed", 0, "feed id (with --stars)")
	addPageFlags(favoritesCmd)
	f.Bool("json", false, "output as JSON")
}

func runFavorites(cmd *cobra.Command, args []string) error {
	p, all, err := pageFlags(cmd)
	if err != nil {
		return err
	}
	q, _ := cmd.Flags().GetString("q")
	stars, _ := cmd.Flags().GetBool("stars")
	collectionID, _ := cmd.Flags().GetInt("collection")
	feedID, _ := cmd.Flags().GetInt("feed")

	printer := newPrinter(cmd)
	client := newAPIClient()
	articles, err := collectPages(p, all, func(limit, offset int) ([]api.Article, error) {
		if stars || collectionID > 0 || feedID > 0 {
			return client.ListStars(cmd.Context(), api.StarQuery{
				CollectionID: collectionID,
				FeedID:       feedID,
				Q:            q,
				Limit:        limit,
				Offset:       offset,
			})
		}
		return client.ListFavorites(cmd.Context(), api.FavoritesQuery{Q: q, Limit: limit, Offset: offset})
	})
	if err != nil {
		return err
	}

	if wantJSON(cmd) {
		return printer.JSON(emptyIfNil(articles))
	}
	if len(articles) == 0 {
		printer.Info("No starred articles. Star one with: suprss articles star <id>")
		return nil
	}
	printArticles(printer, articles, true)
	printPageFooter(printer, p, all, "suprss favorites")
	printer.PrintHints("favorites")
	return nil
}
