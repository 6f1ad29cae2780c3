package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/geonotes-be/internal/api/handlers"
	"github.com/isdelr/geonotes-be/internal/metrics"
	"github.com/isdelr/geonotes-be/internal/services"
)

// Dependencies groups what the router wires into handlers.
type Dependencies struct {
	AccountService services.AccountServiceProvider
	NoteService    services.NoteServiceProvider
	EventService   services.EventServiceProvider
	Health         handlers.HealthProvider
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(deps.AccountService)
	noteHandler := handlers.NewNoteHandler(deps.NoteService)
	eventHandler := handlers.NewEventHandler(deps.EventService)

	// Accounts
	r.Post("/sign-up", accountHandler.SignUp)
	r.Post("/sign-in", accountHandler.SignIn)
	r.Get("/user/{id}", accountHandler.Get)

	// Notes
	r.Post("/create-note", noteHandler.Create)
	r.Post("/edit-note/{noteID}", noteHandler.Edit)
	r.Post("/remove-note", noteHandler.Remove)
	r.Get("/notes/{userID}", noteHandler.List)
	r.Get("/note/{userID}/{id}", noteHandler.Get)

	// Operations
	r.Get("/events", eventHandler.GetRecent)
	if deps.Health != nil {
		r.Get("/health", handlers.NewHealthHandler(deps.Health).Get)
	}
	if deps.Metrics != nil {
		r.Method("GET", "/metrics", deps.Metrics.Handler())
	}

	return r
}
