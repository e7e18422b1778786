// Package main provides the podium-picks command line tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/podium-picks/internal/config"
	"github.com/yourusername/podium-picks/internal/database"
	"github.com/yourusername/podium-picks/internal/logger"
	"github.com/yourusername/podium-picks/internal/repository"
	"github.com/yourusername/podium-picks/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile   string
	seasonFlag   int
	outputFormat string
	noColor      bool

	cfg      *config.Config
	appLog   *logrus.Logger
	db       *database.DB
	services *service.Services
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().IntVarP(&seasonFlag, "season", "s", 0, "Season year (defaults to app.season)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatTable, "Output format: table or json")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

var rootCmd = &cobra.Command{
	Use:     "picks",
	Short:   "Score and project a fantasy racing prediction league",
	Long:    `Scores weekly predictions, resolves season standings and projects races and championships.`,
	Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat != formatTable && outputFormat != formatJSON {
			return fmt.Errorf("unsupported output format: %s", outputFormat)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setupDependencies(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel, logger.WithOutput(os.Stderr), logger.WithEnvironment(cfg.App.Environment))

	if cfg.Storage.Driver == config.StoragePostgres {
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	repos, err := repository.NewRepositories(cfg.Storage, db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	services, err = service.NewServices(cfg, repos.Results, appLog)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	return nil
}

// currentSeason returns the --season flag or the configured season
func currentSeason() int {
	if seasonFlag > 0 {
		return seasonFlag
	}
	return cfg.App.Season
}

func newStdoutPrinter() *printer {
	return newPrinter(os.Stdout, outputFormat, !noColor)
}
