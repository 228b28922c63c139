// cmd/list.go
package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/phynews/internal/article"
	"github.com/julienpequegnot/phynews/internal/category"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List papers",
	Long:  `List fetched papers, newest first.`,
	RunE:  runList,
}

var (
	listTop      int
	listCategory string
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVarP(&listTop, "top", "n", 20, "Number of papers to show")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only papers fetched for this category")
}

func runList(cmd *cobra.Command, args []string) error {
	var tags []string
	if listCategory != "" {
		tag, err := category.Normalize(listCategory)
		if err != nil {
			return err
		}
		tags = append(tags, tag)
	}

	_, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	articles, err := article.NewRepository(db).ListByCategories(tags, listTop)
	if err != nil {
		return err
	}

	if len(articles) == 0 {
		fmt.Println("No papers found. Run 'phynews fetch' to download papers.")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	categoryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	fmt.Println(headerStyle.Render(fmt.Sprintf(" %-12s  %-10s  %-16s  %s", "ARXIV ID", "DATE", "CATEGORY", "TITLE")))
	fmt.Println(strings.Repeat("─", 100))

	for _, a := range articles {
		date := "-"
		if a.PublishedAt != nil {
			date = a.PublishedAt.Format("2006-01-02")
		}

		fmt.Printf(" %s  %s  %s  %s\n",
			idStyle.Render(fmt.Sprintf("%-12s", a.ArxivID)),
			dateStyle.Render(fmt.Sprintf("%-10s", date)),
			categoryStyle.Render(fmt.Sprintf("%-16s", truncate(a.PrimaryCategory(), 16))),
			truncate(a.Title, 55),
		)
	}

	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
