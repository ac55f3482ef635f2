package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lukearran/tvtime2trakt/internal/progress"
	"github.com/lukearran/tvtime2trakt/pkg/trakt"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize with Trakt using the device code flow",
	Long: `Authorize with Trakt using the device code flow.

Prints a code to enter at https://trakt.tv/activate, waits for
approval, and stores the resulting token next to the import progress.
Run again with --force to re-authorize.`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.Flags().Bool("force", false, "Re-authorize even if a valid token exists")
}

func runAuth(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

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

	client := trakt.New(cfg.Trakt.ClientID, cfg.Trakt.ClientSecret, trakt.WithLogger(log))

	if !force {
		stored, err := store.Token(ctx)
		if err != nil {
			return err
		}
		if stored != nil && stored.Valid() {
			fmt.Printf("Already authenticated (token valid until %s)\n", stored.ExpiresAt.Format("2006-01-02"))
			return nil
		}
		if stored != nil {
			// Expired or about to: try a silent refresh first
			if token, err := client.RefreshToken(ctx, stored.RefreshToken); err == nil {
				if err := saveToken(ctx, store, token); err != nil {
					return err
				}
				fmt.Println("Token refreshed")
				return nil
			}
			log.Warn("token refresh failed, starting device authorization")
		}
	}

	code, err := client.NewDeviceCode(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\nGo to %s and enter the code: %s\n", code.VerificationURL, code.UserCode)
	fmt.Println("Waiting for approval (Ctrl-C to cancel)...")

	token, err := client.WaitForDeviceToken(ctx, code)
	if err != nil {
		return err
	}
	if err := saveToken(ctx, store, token); err != nil {
		return err
	}

	fmt.Printf("Authorized as %s\n", cfg.Trakt.Username)
	return nil
}

func saveToken(ctx context.Context, store *progress.Store, token *trakt.Token) error {
	return store.SaveToken(ctx, progress.StoredToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt(),
	})
}
