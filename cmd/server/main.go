package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/skybi/zoom-dashboard/internal/api"
	"github.com/skybi/zoom-dashboard/internal/config"
	"github.com/skybi/zoom-dashboard/internal/credential"
	"github.com/skybi/zoom-dashboard/internal/dashboard"
	"github.com/skybi/zoom-dashboard/internal/session/storage/inmem"
	"github.com/skybi/zoom-dashboard/internal/task"
	"github.com/skybi/zoom-dashboard/internal/zoom"
)

func main() {
	// Set up zerolog to use pretty printing
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})
	log.Info().Msg("starting up...")

	// Load the application configuration
	log.Info().Msg("loading configuration...")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	if cfg.IsEnvProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Str("config", cfg.String()).Msg("")

	// Load the operator credentials
	var validator credential.Validator
	if cfg.UsesCredentialsFile() {
		list, err := credential.LoadFile(cfg.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.CredentialsFile).Msg("could not load the credentials file")
		}
		log.Info().Int("operators", list.Size()).Msg("loaded operator credentials from file")
		validator = list
	} else {
		log.Info().Msg("using the admin credentials from the environment")
		validator = credential.NewAdmin(cfg.AdminUser, cfg.AdminPass)
	}

	// Create the Zoom API clients and the dashboard aggregator
	httpClient := &http.Client{Timeout: 30 * time.Second}
	tokens, err := zoom.NewTokenProvider(cfg.ZoomTokenURL, cfg.ZoomAccountID, cfg.ZoomClientID, cfg.ZoomClientSecret, httpClient)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create the Zoom token provider")
	}
	client := zoom.NewClient(cfg.ZoomAPIBaseURL, httpClient)
	client.UsersPageSize = cfg.ZoomUsersPageSize
	client.MeetingsPageSize = cfg.ZoomMeetingsPageSize
	client.LiveMeetingsPageSize = cfg.ZoomLiveMeetingsPageSize
	aggregator := &dashboard.Aggregator{
		Tokens:      tokens,
		Directory:   client,
		Concurrency: cfg.ZoomFetchConcurrency,
		Timeout:     cfg.ZoomRequestTimeout,
	}

	// Create the session storage and schedule a task that purges expired sessions
	sessions, err := inmem.New()
	if err != nil {
		log.Fatal().Err(err).Msg("could not create the session storage")
	}
	purgingTask := task.NewRepeating(func() {
		n, err := sessions.TerminateExpired(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("could not terminate expired sessions")
		} else if n > 0 {
			log.Info().Int("amount", n).Msg("terminated expired sessions")
		}
	}, time.Minute)
	purgingTask.Start()
	defer purgingTask.Stop(false)

	// Start up the dashboard service
	log.Info().Str("address", cfg.ListenAddress()).Msg("starting up the dashboard service...")
	apis := &api.Service{
		Config:      cfg,
		Credentials: validator,
		Sessions:    sessions,
		Dashboard:   aggregator,
	}
	apiErrs := make(chan error, 1)
	apis.Startup(apiErrs)
	go func() {
		err := <-apiErrs
		log.Fatal().Err(err).Msg("the dashboard service raised an unexpected error")
	}()
	defer func() {
		log.Info().Msg("shutting down the dashboard service...")
		apis.Shutdown()
	}()

	log.Info().Msg("done!")
	defer log.Info().Msg("shutting down...")

	// Wait for the application to be terminated
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown
}
