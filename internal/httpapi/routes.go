package httpapi

import (
	"net/http"

	"github.com/DoyleJ11/quiz-contest-backend/internal/engine"
	"github.com/DoyleJ11/quiz-contest-backend/internal/hub"
	"github.com/DoyleJ11/quiz-contest-backend/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Deps struct {
	Engine         *engine.Engine
	Logger         *zap.Logger
	AllowedOrigins []string
	// NewContest builds the initial state for POST /contests.
	NewContest func() engine.State
}

func SetupRoutes(h *hub.Hub, deps Deps) http.Handler {
	if deps.Engine == nil {
		deps.Engine = engine.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.NewContest == nil {
		deps.NewContest = engine.NewEmptyState
	}
	if len(deps.AllowedOrigins) == 0 {
		deps.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(WithLogging(deps.Logger))
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/bank/{locale}", BankIndex(deps.Engine))
	r.Get("/ws", ws.Handler(h, deps.Engine, deps.Logger, deps.AllowedOrigins))

	r.Route("/contests", func(r chi.Router) {
		r.Post("/", CreateContest(h, deps.Engine, deps.Logger, deps.NewContest))
		r.Get("/{code}", GetContest(h, deps.Engine))
		r.Post("/{code}/intents", PostIntent(h, deps.Engine))
		r.Delete("/{code}", DeleteContest(h))
	})

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedOrigins: deps.AllowedOrigins,
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}
