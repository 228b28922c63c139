package cmd

import (
	"fmt"

	"github.com/julienpequegnot/phynews/internal/pipeline"
	"github.com/spf13/cobra"
)

var adaptCmd = &cobra.Command{
	Use:   "adapt",
	Short: "Adapt scoring weights to your history",
	Long: `Shifts the category, author, keyword and content weights towards the
signals your recent views and likes engaged with.`,
	RunE: runAdapt,
}

func init() {
	rootCmd.AddCommand(adaptCmd)
}

func runAdapt(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	p := pipeline.New(db, cfg)
	user := currentUser(cfg)
	if _, err := p.RefreshProfile(user); err != nil {
		return err
	}
	prof, counters, err := p.Adapt(user)
	if err != nil {
		return err
	}

	if counters.Total() == 0 {
		fmt.Println("No interactions recorded yet, weights unchanged.")
		printWeights(prof.Weights)
		return nil
	}

	fmt.Printf("Interactions: %d category clicks, %d author clicks, %d keyword hits, %d content hits\n",
		sum(counters.CategoryClicks), sum(counters.AuthorClicks), counters.KeywordSuccess, counters.ContentSuccess)
	printWeights(prof.Weights)
	return nil
}

func sum(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}
