package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"digestsim/internal/config"
	"digestsim/internal/session"
)

// initCmd prepares a workspace: the dot-dir, a default config, and a fresh
// session. Existing files are left alone so re-running is safe.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the workspace",
	Long: `Creates the .digestsim directory with a default configuration and a fresh
session. Existing files are preserved.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dotDir := filepath.Join(workspace, ".digestsim")
	if err := os.MkdirAll(dotDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dotDir, err)
	}

	configPath := filepath.Join(dotDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.DefaultConfig().Save(configPath); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", configPath)
	} else {
		fmt.Printf("Keeping existing %s\n", configPath)
	}

	sessionPath := filepath.Join(dotDir, "session.yaml")
	if _, err := os.Stat(sessionPath); os.IsNotExist(err) {
		if err := session.New().Save(workspace); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", sessionPath)
	} else {
		fmt.Printf("Keeping existing %s\n", sessionPath)
	}

	logger.Info("workspace initialized", zap.String("path", workspace))
	return nil
}
