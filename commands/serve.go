package commands

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// errShutdownSignal marks a stop requested by SIGINT or SIGTERM.
var errShutdownSignal = errors.New("shutdown signal")

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.AutoMigrate {
		if err := db.MigrateUp(cmd.Context()); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret)
	if err != nil {
		return err
	}
	authService := auth.NewService(db.AdminRepo(), tokens, auth.NewHasher(cfg.BcryptCost), cfg.AdminKey)

	server, err := api.NewServer(cfg, api.Dependencies{
		Projects:  db.ProjectRepo(),
		BlogPosts: db.BlogPostRepo(),
		Messages:  db.ContactMessageRepo(),
		Auth:      authService,
		Verifier:  auth.NewBearerVerifier(tokens),
		Notifier:  buildNotifier(cfg),
		Health:    db,
	})
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(shutdownTimeout)
	return serveResult(fatalErr)
}

// serveResult turns the error that stopped the server into the command's
// result. A signal or a closed server is a clean exit.
func serveResult(err error) error {
	if err == nil || errors.Is(err, errShutdownSignal) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("serve: %w", err)
}

// buildNotifier returns the configured contact notification channels, or nil
// when none are configured.
func buildNotifier(c config.Config) services.Notifier {
	var notifiers []services.Notifier

	if c.ResendAPIKey != "" && c.ContactNotifyEmail != "" {
		notifiers = append(notifiers, services.NewEmailNotifier(c.ResendAPIKey, c.ResendFromEmail, splitRecipients(c.ContactNotifyEmail)))
	}
	if c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != "" && c.ContactNotifyPhone != "" {
		notifiers = append(notifiers, services.NewSMSNotifier(c.TwilioAccountSID, c.TwilioAuthToken, c.TwilioFromNumber, c.ContactNotifyPhone))
	}

	if len(notifiers) == 0 {
		log.Warn().Msg("No contact notification channel configured; messages are only stored")
		return nil
	}
	fanOut := services.NewFanOut(notifiers...)
	log.Info().Int("channels", fanOut.Len()).Msg("Contact notifications enabled")
	return fanOut
}

func splitRecipients(raw string) []string {
	var out []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%w: %s", errShutdownSignal, <-c)
}
