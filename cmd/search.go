// cmd/search.go
package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/phynews/internal/search"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search papers by title and abstract",
	Long:  `Full-text search across all paper titles and abstracts.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var (
	searchLimit    int
	searchUseScore bool
)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "Maximum results to show")
	searchCmd.Flags().BoolVar(&searchUseScore, "ranked", false, "Rank by combined relevance and your recommendation score")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	searchRepo := search.NewRepository(db)
	user := currentUser(cfg)

	var results []search.SearchResult
	if searchUseScore {
		results, err = searchRepo.SearchWithScore(user, query, searchLimit)
	} else {
		results, err = searchRepo.Search(user, query, searchLimit)
	}

	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Printf("No results found for '%s'\n", query)
		return nil
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	categoryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	snippetStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	fmt.Printf("\n%s '%s' (%d results)\n\n", titleStyle.Render("SEARCH:"), query, len(results))

	for _, r := range results {
		fmt.Printf("%s %s\n", idStyle.Render(fmt.Sprintf("[%s]", r.ArxivID)), r.Title)
		fmt.Printf("    %s", categoryStyle.Render(r.Category))
		if r.Score > 0 {
			fmt.Printf(" • Score: %.2f", r.Score)
		}
		fmt.Println()

		if r.Snippet != "" {
			snippet := strings.ReplaceAll(r.Snippet, "<b>", "")
			snippet = strings.ReplaceAll(snippet, "</b>", "")
			fmt.Printf("    %s\n", snippetStyle.Render(snippet))
		}
		fmt.Println()
	}

	return nil
}
