package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

type Options struct {
	// RateLimitRPS bounds public POSTs per client IP; 0 disables the limit.
	RateLimitRPS   float64
	RateLimitBurst int
	Timeout        time.Duration
}

type Server struct {
	mux   *chi.Mux
	limit func(http.Handler) http.Handler
}

func New(opts Options) *Server {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	m := chi.NewRouter()

	// All middlewares go here (before any routes are added)
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match", "X-Request-ID"},
		ExposedHeaders: []string{"ETag"},
		MaxAge:         300,
	}))
	m.Use(Observe(log.Logger))
	m.Use(Timeout(opts.Timeout))

	var lim *IPLimiter
	if opts.RateLimitRPS > 0 {
		lim = NewIPLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
	}
	return &Server{mux: m, limit: RateLimit(lim)}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
