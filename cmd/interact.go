package cmd

import (
	"fmt"

	"github.com/julienpequegnot/phynews/internal/interaction"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view <arxiv-id>",
	Short: "Record that you read a paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runView,
}

var likeCmd = &cobra.Command{
	Use:   "like <arxiv-id>",
	Short: "Like a paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runLike,
}

var unlikeCmd = &cobra.Command{
	Use:   "unlike <arxiv-id>",
	Short: "Remove a like",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnlike,
}

func init() {
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(unlikeCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := interaction.NewRepository(db).RecordView(currentUser(cfg), args[0]); err != nil {
		return err
	}
	fmt.Printf("Recorded view of %s\n", args[0])
	return nil
}

func runLike(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := interaction.NewRepository(db).Like(currentUser(cfg), args[0]); err != nil {
		return err
	}
	fmt.Printf("Liked %s\n", args[0])
	return nil
}

func runUnlike(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	removed, err := interaction.NewRepository(db).Unlike(currentUser(cfg), args[0])
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("%s was not liked\n", args[0])
		return nil
	}
	fmt.Printf("Unliked %s\n", args[0])
	return nil
}
