package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/phynews/internal/article"
	"github.com/julienpequegnot/phynews/internal/graph"
	"github.com/julienpequegnot/phynews/internal/profile"
	"github.com/spf13/cobra"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show trending categories and title keywords",
	Long: `Analyzes fetched papers to identify busy categories based on recency and
frequency. Categories you view or have an affinity for rank higher.`,
	RunE:  runTrends,
}

var (
	trendsDays  int
	trendsLimit int
)

func init() {
	rootCmd.AddCommand(trendsCmd)
	trendsCmd.Flags().IntVar(&trendsDays, "days", 30, "Time window in days")
	trendsCmd.Flags().IntVarP(&trendsLimit, "limit", "l", 10, "Maximum trends to show")
}

func runTrends(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := article.NewRepository(db)
	articles, err := repo.List(1000, 0)
	if err != nil {
		return err
	}

	if len(articles) == 0 {
		fmt.Println("No papers found.")
		return nil
	}

	analyzer := graph.NewTrendAnalyzer()
	titles := make([]string, 0, len(articles))
	for _, a := range articles {
		publishedAt := a.FetchedAt
		if a.PublishedAt != nil {
			publishedAt = *a.PublishedAt
		}
		analyzer.AddArticle(a.ArxivID, a.Categories, publishedAt)
		if time.Since(publishedAt) <= time.Duration(trendsDays)*24*time.Hour {
			titles = append(titles, a.Title)
		}
	}

	user := currentUser(cfg)
	prof, err := profile.NewRepository(db).GetOrDefault(user, cfg.Weights)
	if err != nil {
		return err
	}
	analyzer.SetAffinity(prof.Categories)

	viewed, err := repo.ListViewedBy(user, time.Now().AddDate(0, 0, -trendsDays), 0)
	if err != nil {
		return err
	}
	for _, a := range viewed {
		analyzer.AddView(a.ArxivID)
	}

	trends := analyzer.GetTrends(trendsDays, trendsLimit)

	if len(trends) == 0 {
		fmt.Println("No trending categories found.")
		return nil
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	fmt.Printf("\n%s (last %d days)\n\n", titleStyle.Render("TRENDING CATEGORIES"), trendsDays)

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	maxScore := trends[0].Score

	followStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	for i, trend := range trends {
		barWidth := int((trend.Score / maxScore) * 20)
		marker := " "
		if trend.Affinity > 0 {
			marker = followStyle.Render("★")
		}
		fmt.Printf("%2d. %s %-20s %s %.1f (%d papers, %d primary, %d recent, %d viewed)\n",
			i+1,
			marker,
			trend.Category,
			barStyle.Render(strings.Repeat("█", barWidth)),
			trend.Score,
			trend.Count,
			trend.Primary,
			len(trend.RecentArticles),
			trend.Views)
	}

	if keywords := graph.TopKeywords(titles, trendsLimit); len(keywords) > 0 {
		words := make([]string, len(keywords))
		for i, k := range keywords {
			words[i] = fmt.Sprintf("%s (%d)", k.Word, k.Count)
		}
		fmt.Printf("\n%s\n  %s\n", titleStyle.Render("TITLE KEYWORDS"), strings.Join(words, ", "))
	}

	fmt.Println()
	return nil
}
