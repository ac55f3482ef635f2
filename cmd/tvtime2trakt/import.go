package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lukearran/tvtime2trakt/internal/export"
	"github.com/lukearran/tvtime2trakt/internal/importer"
	"github.com/lukearran/tvtime2trakt/internal/progress"
	"github.com/lukearran/tvtime2trakt/internal/resolve"
	"github.com/lukearran/tvtime2trakt/pkg/trakt"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the export into Trakt",
	Long: `Import the export into Trakt.

Walks the export in file order, resolves each show or movie against
the Trakt catalog (asking you to pick when a title is ambiguous),
marks it watched, and records it locally so re-running the command
only processes what's left. One request at a time, with a delay
between requests, to stay inside Trakt's rate limit.`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().Bool("shows", false, "Import only episodes")
	importCmd.Flags().Bool("movies", false, "Import only movies")
}

func runImport(cmd *cobra.Command, args []string) error {
	showsOnly, _ := cmd.Flags().GetBool("shows")
	moviesOnly, _ := cmd.Flags().GetBool("movies")
	doShows := showsOnly || !moviesOnly
	doMovies := moviesOnly || !showsOnly

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg.Import.LogLevel)

	store, err := progress.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := authenticatedClient(ctx, cfg.Trakt.ClientID, cfg.Trakt.ClientSecret, store, log)
	if err != nil {
		return err
	}

	ex, err := export.Load(cfg.Export.Dir, log)
	if err != nil {
		return err
	}
	log.Info("export loaded", "episodes", len(ex.Episodes), "movies", len(ex.Movies))

	prompter := resolve.NewTerminalPrompter(os.Stdin, os.Stdout)
	resolver := resolve.New(client, store, prompter, log)
	pipeline := importer.New(store, resolver, client, importer.Options{
		Delay:          cfg.Import.Delay,
		RateLimitWait:  cfg.Import.RateLimitWait,
		MaxErrorStreak: cfg.Import.MaxErrorStreak,
	}, log)

	if doShows {
		sum, err := pipeline.ImportEpisodes(ctx, ex.Episodes)
		printSummary("Episodes", sum)
		if err != nil {
			return importError(err)
		}
	}
	if doMovies {
		sum, err := pipeline.ImportMovies(ctx, ex.Movies)
		printSummary("Movies", sum)
		if err != nil {
			return importError(err)
		}
	}
	return nil
}

// authenticatedClient builds a Trakt client carrying a valid access
// token, refreshing the stored one if it is close to expiry.
func authenticatedClient(ctx context.Context, clientID, clientSecret string, store *progress.Store, log *slog.Logger) (*trakt.Client, error) {
	client := trakt.New(clientID, clientSecret, trakt.WithLogger(log))

	stored, err := store.Token(ctx)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, errors.New("not authenticated: run 'tvtime2trakt auth' first")
	}

	if !stored.Valid() {
		token, err := client.RefreshToken(ctx, stored.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("token expired and refresh failed (run 'tvtime2trakt auth'): %w", err)
		}
		if err := saveToken(ctx, store, token); err != nil {
			return nil, err
		}
		return client, nil
	}

	client.SetAccessToken(stored.AccessToken)
	return client, nil
}

func importError(err error) error {
	if errors.Is(err, context.Canceled) {
		fmt.Println("\nCancelled; progress so far is saved. Re-run to continue.")
		return nil
	}
	return err
}

func printSummary(label string, sum importer.Summary) {
	fmt.Printf("%s: %d submitted, %d already imported, %d skipped, %d failed\n",
		label, sum.Submitted, sum.AlreadyImported, sum.Skipped, sum.Failed)
}
