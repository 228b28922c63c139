// cmd/show.go
package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/phynews/internal/article"
	"github.com/julienpequegnot/phynews/internal/score"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <arxiv-id>",
	Short: "Show details of a paper",
	Long:  `Display the abstract, authors and stored recommendation score of a paper.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	a, err := article.NewRepository(db).Get(args[0])
	if err != nil {
		return err
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	urlStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true)
	divider := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(strings.Repeat("━", 70))

	fmt.Println(divider)
	fmt.Println(titleStyle.Render(a.Title))
	fmt.Println(divider)

	fmt.Printf("%s %s\n", labelStyle.Render("arXiv:"), valueStyle.Render(a.ArxivID))
	if len(a.Authors) > 0 {
		fmt.Printf("%s %s\n", labelStyle.Render("Authors:"), valueStyle.Render(strings.Join(a.Authors, ", ")))
	}
	if len(a.Categories) > 0 {
		fmt.Printf("%s %s\n", labelStyle.Render("Categories:"), valueStyle.Render(strings.Join(a.Categories, " ")))
	}
	if a.PublishedAt != nil {
		fmt.Printf("%s %s\n", labelStyle.Render("Published:"), valueStyle.Render(a.PublishedAt.Format("2006-01-02 15:04")))
	}
	if a.URL != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("URL:"), urlStyle.Render(a.URL))
	}

	if s, err := score.NewRepository(db).Get(currentUser(cfg), a.ArxivID); err == nil {
		fmt.Printf("\n%s %.2f", labelStyle.Render("SCORE:"), s.Score)
		if len(s.Reasons) > 0 {
			fmt.Printf("  (%s)", strings.Join(s.Reasons, ", "))
		}
		fmt.Println()
	}

	if a.Abstract != "" {
		fmt.Printf("\n%s\n", labelStyle.Render("ABSTRACT:"))
		fmt.Println(valueStyle.Render(a.Abstract))
	}

	return nil
}
