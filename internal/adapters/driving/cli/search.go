package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecsync/internal/core/services"
)

var searchTopK int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find documents similar to a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		hits, err := app.searcher.Search(ctx, args[0], searchTopK)
		if err != nil {
			return err
		}

		if len(hits) == 0 {
			cmd.Println("No results.")
			return nil
		}
		for _, hit := range hits {
			cmd.Printf("%.4f  %s\n        %s\n", hit.Similarity, hit.Path, excerpt(hit.Content, 100))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top", "k", services.DefaultTopK, "number of results")
	rootCmd.AddCommand(searchCmd)
}

// excerpt returns the first n bytes of the first non-empty line.
func excerpt(content string, n int) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > n {
			return line[:n] + "..."
		}
		return line
	}
	return ""
}
