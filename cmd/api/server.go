package main

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	leaderboardsvc "github.com/bouncegame/bounce/src/app/leaderboard"
)

type ServerConfig struct {
	Logger             *zap.Logger
	LeaderboardService *leaderboardsvc.Service
	// StaticDir holds Bounce.html and leaderboard.html.
	StaticDir string
	// Registry receives the server metrics; a private registry is created when nil.
	Registry *prometheus.Registry
}

// Server wires HTTP endpoints to the leaderboard service with observability instrumentation.
type Server struct {
	cfg            ServerConfig
	router         *mux.Router
	httpMetrics    *prometheus.HistogramVec
	requestCounter *prometheus.CounterVec
	submissions    *prometheus.CounterVec
}

func NewServer(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	srv := &Server{cfg: cfg}
	srv.initMetrics()
	srv.buildRouter()
	return srv
}

// Handler returns the full stack: CORS outermost, then panic recovery, then routing.
func (s *Server) Handler() http.Handler {
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(s.cfg.Logger)),
		handlers.PrintRecoveryStack(true),
	)
	return corsMiddleware(recovery(s.router))
}

func (s *Server) initMetrics() {
	s.httpMetrics = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bounce",
		Subsystem: "http",
		Name:      "request_latency_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "code"})
	s.requestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bounce",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by route",
	}, []string{"route", "method", "code"})
	s.submissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bounce",
		Subsystem: "leaderboard",
		Name:      "submissions_total",
		Help:      "Score submissions by outcome",
	}, []string{"result"})
	fallbacks := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "bounce",
		Subsystem: "leaderboard",
		Name:      "load_fallbacks_total",
		Help:      "Loads that degraded to an empty leaderboard",
	}, func() float64 {
		return float64(s.cfg.LeaderboardService.Fallbacks())
	})
	s.cfg.Registry.MustRegister(s.httpMetrics, s.requestCounter, s.submissions, fallbacks)
}

func (s *Server) buildRouter() {
	r := mux.NewRouter()
	r.Use(s.correlationMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.metricsMiddleware)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Handle("/leaderboard", otelhttp.NewHandler(http.HandlerFunc(s.handleGetLeaderboard), "GetLeaderboard")).Methods(http.MethodGet)
	apiRouter.Handle("/score", otelhttp.NewHandler(http.HandlerFunc(s.handleSubmitScore), "SubmitScore")).Methods(http.MethodPost)

	game := s.staticPage(gamePage)
	board := s.staticPage(leaderboardPage)
	r.Handle("/", game)
	r.Handle("/"+gamePage, game)
	r.Handle("/leaderboard", board)
	r.Handle("/"+leaderboardPage, board)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handleNotFound)
	s.router = r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, "Route not found")
}
