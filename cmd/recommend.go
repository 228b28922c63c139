package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/phynews/internal/database"
	"github.com/julienpequegnot/phynews/internal/pipeline"
	"github.com/julienpequegnot/phynews/internal/score"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank papers for you",
	Long: `Rebuilds your profile from what you viewed and liked, scores the newest
papers against it and stores the scores.`,
	RunE: runRecommend,
}

var (
	recommendLimit   int
	recommendExplain bool
	recommendCached  bool
)

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().IntVarP(&recommendLimit, "limit", "n", 0, "Number of papers to show (0 = use config)")
	recommendCmd.Flags().BoolVar(&recommendExplain, "explain", false, "Show the contribution of each signal")
	recommendCmd.Flags().BoolVar(&recommendCached, "cached", false, "Show the scores stored by the last ranking")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	user := currentUser(cfg)
	if recommendCached {
		limit := recommendLimit
		if limit <= 0 {
			limit = cfg.Recommend.Limit
		}
		return printStoredScores(db, user, limit)
	}

	ranked, err := pipeline.New(db, cfg).Recommend(cmd.Context(), user, recommendLimit)
	if err != nil {
		return err
	}

	if len(ranked) == 0 {
		fmt.Println("No recommendations yet. View or like a few papers first.")
		return nil
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	scoreStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	reasonStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	fmt.Printf("\n%s for %s\n\n", titleStyle.Render("RECOMMENDED"), user)

	for i, r := range ranked {
		fmt.Printf("%2d. %s %s %s\n", i+1,
			scoreStyle.Render(fmt.Sprintf("%.2f", r.Score)),
			idStyle.Render(fmt.Sprintf("[%s]", r.Article.ID)),
			r.Article.Title)
		if len(r.Reasons) > 0 {
			fmt.Printf("     %s\n", reasonStyle.Render(strings.Join(r.Reasons, " • ")))
		}
		if recommendExplain {
			for _, t := range r.Terms {
				fmt.Printf("     %-8s %.3f → %.3f\n", t.Name, t.Score, t.Contribution)
			}
		}
	}

	fmt.Println()
	return nil
}

func printStoredScores(db *database.DB, user string, limit int) error {
	stored, err := score.NewRepository(db).Top(user, limit)
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		fmt.Println("No stored scores. Run 'phynews recommend' first.")
		return nil
	}

	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	scoreStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	fmt.Printf("\nLast ranking for %s (%s)\n\n", user, stored[0].ScoredAt.Format("2006-01-02 15:04"))
	for i, s := range stored {
		fmt.Printf("%2d. %s %s %s\n", i+1,
			scoreStyle.Render(fmt.Sprintf("%.2f", s.Score)),
			idStyle.Render(fmt.Sprintf("[%s]", s.ArxivID)),
			s.Title)
	}
	fmt.Println()
	return nil
}
