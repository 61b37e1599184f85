package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/engine"
	"github.com/vela-social/vela/pkg/utils/logging"
	"github.com/vela-social/vela/pkg/utils/safe"
)

type Server struct {
	router        *chi.Mux
	engine        *engine.Engine
	repo          interfaces.Repository
	signingSecret string
}

type Options func(*Server)

// WithSigningSecret enables HMAC signature verification on the identity
// webhook route.
func WithSigningSecret(secret string) Options {
	return func(s *Server) {
		s.signingSecret = secret
	}
}

func New(eng *engine.Engine, repo interfaces.Repository, opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		engine: eng,
		repo:   repo,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	// Identity provider webhook bridge - no auth, uses signature verification
	r.Route("/hooks/identity", func(r chi.Router) {
		if s.signingSecret != "" {
			r.Use(WebhookSignatureMiddleware(s.signingSecret))
		}
		r.Post("/", s.identityWebhookHandler)
	})

	// Application endpoints: persist rows and fire the matching events
	r.Route("/api", func(r chi.Router) {
		r.Post("/events", s.eventHandler)
		r.Post("/connections", s.createConnectionHandler)
		r.Post("/connections/{connectionID}/accept", s.connectionStatusHandler("accept"))
		r.Post("/connections/{connectionID}/reject", s.connectionStatusHandler("reject"))
		r.Post("/stories", s.createStoryHandler)
		r.Post("/messages", s.createMessageHandler)
		r.Post("/messages/{messageID}/seen", s.markSeenHandler)
	})

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, []byte(`{"status":"ok"}`))
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
