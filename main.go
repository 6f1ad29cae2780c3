package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/geonotes-be/internal/api"
	"github.com/isdelr/geonotes-be/internal/config"
	"github.com/isdelr/geonotes-be/internal/database"
	"github.com/isdelr/geonotes-be/internal/logger"
	"github.com/isdelr/geonotes-be/internal/metrics"
	"github.com/isdelr/geonotes-be/internal/monitoring"
	"github.com/isdelr/geonotes-be/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.IsProduction())

	// Set up the three independent stores
	usersDB, err := database.Open(cfg.UsersDatabasePath, database.UsersSchema)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize users database")
	}
	defer usersDB.Close()

	notesDB, err := database.Open(cfg.NotesDatabasePath, database.NotesSchema)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize notes database")
	}
	defer notesDB.Close()

	eventsDB, err := database.Open(cfg.EventsDatabasePath, database.EventsSchema)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize events database")
	}
	defer eventsDB.Close()

	// Set up services
	eventService := services.NewEventService(eventsDB)
	accountService := services.NewAccountService(usersDB, eventService, cfg.UserCacheTTL)
	noteService := services.NewNoteService(notesDB, eventService)

	// Set up and run the background retention scheduler
	scheduler, err := monitoring.NewScheduler(eventService, cfg.EventPruneCron, cfg.EventRetention())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	go scheduler.Run()

	health := monitoring.NewHealthChecker(map[string]monitoring.Pinger{
		"users":  usersDB,
		"notes":  notesDB,
		"events": eventsDB,
	})

	// Set up router
	router := api.NewRouter(api.Dependencies{
		AccountService: accountService,
		NoteService:    noteService,
		EventService:   eventService,
		Health:         health,
		Metrics:        metrics.New(),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
