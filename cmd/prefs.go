package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/phynews/internal/profile"
	"github.com/julienpequegnot/phynews/internal/scorer"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show your preference profile",
	RunE:  runPrefs,
}

func init() {
	rootCmd.AddCommand(prefsCmd)
}

var labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

func runPrefs(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	prof, err := profile.NewRepository(db).GetOrDefault(currentUser(cfg), cfg.Weights)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s %s\n", labelStyle.Render("PROFILE"), prof.UserID)
	if prof.AdaptedAt != nil {
		fmt.Printf("Weights adapted %s\n", prof.AdaptedAt.Format("2006-01-02 15:04"))
	}
	printWeights(prof.Weights)

	printAffinities("CATEGORIES", prof.Categories)
	printAffinities("AUTHORS", prof.Authors)

	if len(prof.Keywords) > 0 {
		fmt.Printf("\n%s\n  %s\n", labelStyle.Render("KEYWORDS"), strings.Join(prof.Keywords, ", "))
	}
	fmt.Println()
	return nil
}

func printWeights(w scorer.FeatureWeights) {
	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	fmt.Printf("\n%s\n", labelStyle.Render("WEIGHTS"))
	for _, row := range []struct {
		name  string
		value float64
	}{
		{"category", w.Category},
		{"author", w.Author},
		{"keyword", w.Keyword},
		{"content", w.Content},
	} {
		fmt.Printf("  %-9s %s %.3f\n", row.name, barStyle.Render(strings.Repeat("█", int(row.value*40))), row.value)
	}
}

func printAffinities(title string, m map[string]float64) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})

	fmt.Printf("\n%s\n", labelStyle.Render(title))
	for _, k := range keys {
		fmt.Printf("  %-30s %.2f\n", k, m[k])
	}
}
