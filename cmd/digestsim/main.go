package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"digestsim/internal/config"
	"digestsim/internal/logging"
)

var (
	// Global flags
	verbose   bool
	apiKey    string
	workspace string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "digestsim",
	Short: "digestsim - anaerobic digestion simulation workbench",
	Long: `digestsim simulates anaerobic digestion of a described feedstock with a
reduced-order ADM1 reactor model.

An AI assistant recommends influent and kinetic parameters from a plain-text
feedstock description; every recommendation lands as an explicit override the
operator can inspect and edit before running. Three side-by-side run
configurations cover different retention times, and results export as CSV or
standalone HTML reports.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			workspace, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve workspace: %w", err)
			}
		}
		workspace, err = filepath.Abs(workspace)
		if err != nil {
			return fmt.Errorf("failed to resolve workspace: %w", err)
		}

		// Category file logging is config-driven and off by default.
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("category logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY env)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// storePath resolves the run-history database path against the workspace.
func storePath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Store.DatabasePath) {
		return cfg.Store.DatabasePath
	}
	return filepath.Join(workspace, cfg.Store.DatabasePath)
}

// loadConfig loads the workspace config, applying the --api-key flag on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWorkspace(workspace)
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	return cfg, nil
}
