package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile string

	// cfg is loaded once before any subcommand runs
	cfg config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "portfolio-backend",
	Short: "Portfolio backend - projects, blog posts and contact messages",
	Long: `portfolio-backend serves the JSON API behind a personal portfolio site.

Commands:
  serve         - Run the HTTP server
  migrate       - Apply or roll back database migrations
  create-admin  - Create an admin account without the setup key`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file to load before reading the environment")
}

func loadConfig(ctx context.Context) error {
	if err := godotenv.Load(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading %s file: %v\n", envFile, err)
	}

	env, err := config.LoadSSMParameters(ctx, config.New())
	if err != nil {
		return fmt.Errorf("load ssm parameters: %w", err)
	}

	cfg = config.Load(env)
	setupLogging(cfg)
	return nil
}

// setupLogging configures the global zerolog logger: console output in
// development, JSON otherwise.
func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if c.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("service", "portfolio-backend").Logger()
	}
}

func openDatabase(ctx context.Context) (database.Database, error) {
	if err := cfg.ValidateDatabase(); err != nil {
		return database.Database{}, err
	}
	db, err := database.Open(ctx, database.Options{
		URL:             cfg.DatabaseURL,
		ReplicaURL:      cfg.DatabaseReplicaURL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return database.Database{}, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}
