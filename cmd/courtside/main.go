// Package main provides the courtside command line and API server.
package main

import (
	"fmt"
	"log"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/logger"
	"github.com/yourusername/courtside/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	svc        *service.AnalyticsService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath, "Path to configuration file")

	rootCmd.AddCommand(
		newRatingsCmd(),
		newCompareKCmd(),
		newProbabilityCmd(),
		newSeriesCmd(),
		newMarketCmd(),
		newOddsCmd(),
		newServeCmd(),
		versionCmd,
	)
}

var rootCmd = &cobra.Command{
	Use:   "courtside",
	Short: "NBA Elo ratings, playoff series odds and market edges",
	Long: `Rates NBA teams with an Elo engine, turns ratings into single-game and
best-of-seven series probabilities, and compares model estimates with
betting market prices.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("courtside %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	return config.Validate(cfg)
}

func setupDependencies() error {
	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	var err error
	svc, err = service.NewFromConfig(cfg, appLog)
	if err != nil {
		return fmt.Errorf("failed to create analytics service: %w", err)
	}
	return nil
}
