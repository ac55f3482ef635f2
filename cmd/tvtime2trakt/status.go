package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lukearran/tvtime2trakt/internal/export"
	"github.com/lukearran/tvtime2trakt/internal/progress"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show import progress",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger("error") // keep parser warnings out of the status output

	store, err := progress.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	ex, err := export.Load(cfg.Export.Dir, log)
	if err != nil {
		return err
	}

	episodes, err := store.EpisodeCount(ctx)
	if err != nil {
		return err
	}
	movies, err := store.MovieCount(ctx)
	if err != nil {
		return err
	}

	token, err := store.Token(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Export:   %s\n", cfg.Export.Dir)
	fmt.Printf("Episodes: %d of %d imported\n", episodes, len(ex.Episodes))
	fmt.Printf("Movies:   %d of %d entries imported\n", movies, len(ex.Movies))
	switch {
	case token == nil:
		fmt.Println("Auth:     not authenticated (run 'tvtime2trakt auth')")
	case token.Valid():
		fmt.Printf("Auth:     token valid until %s\n", token.ExpiresAt.Format("2006-01-02"))
	default:
		fmt.Println("Auth:     token expired (run 'tvtime2trakt auth')")
	}
	return nil
}
