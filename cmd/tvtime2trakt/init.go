package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lukearran/tvtime2trakt/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	initCmd.Flags().String("path", "./config.toml", "Where to write the config")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path, _ := cmd.Flags().GetString("path")

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.WriteDefault(path); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Fill in your Trakt application credentials and the export directory, then run 'tvtime2trakt auth'.")
	return nil
}
