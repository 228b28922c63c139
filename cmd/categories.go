package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/julienpequegnot/phynews/internal/category"
	"github.com/julienpequegnot/phynews/internal/feed"
	"github.com/spf13/cobra"
)

var followCmd = &cobra.Command{
	Use:   "follow <category>",
	Short: "Follow an arXiv category",
	Long:  `Adds an arXiv category such as quant-ph, cs.AI or hep-th to the fetched feeds.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runFollow,
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <category>",
	Short: "Stop following an arXiv category",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnfollow,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List followed categories",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(unfollowCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func runFollow(cmd *cobra.Command, args []string) error {
	tag, err := category.Normalize(args[0])
	if err != nil {
		return err
	}

	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	url := feed.QueryURL(cfg.Fetch.BaseURL, tag, cfg.Fetch.MaxResults)
	c, err := category.NewRepository(db).Follow(tag, url)
	if err != nil {
		return err
	}

	fmt.Printf("Following %s\n", c.Tag)
	fmt.Printf("  Feed: %s\n", c.FeedURL)
	return nil
}

func runUnfollow(cmd *cobra.Command, args []string) error {
	tag, err := category.Normalize(args[0])
	if err != nil {
		return err
	}

	_, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := category.NewRepository(db).Unfollow(tag); err != nil {
		return err
	}
	fmt.Printf("Unfollowed %s\n", tag)
	return nil
}

func runCategories(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	cats, err := category.NewRepository(db).List()
	if err != nil {
		return err
	}

	if len(cats) == 0 {
		fmt.Println("No categories followed. Add one with 'phynews follow <category>'")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tagStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	fmt.Println(headerStyle.Render(fmt.Sprintf(" %-20s  %s", "CATEGORY", "LAST FETCHED")))
	for _, c := range cats {
		fetched := "never"
		if c.LastFetched != nil {
			fetched = c.LastFetched.Format("2006-01-02 15:04")
		}
		fmt.Printf(" %s  %s\n", tagStyle.Render(fmt.Sprintf("%-20s", c.Tag)), dateStyle.Render(fetched))
	}
	return nil
}
