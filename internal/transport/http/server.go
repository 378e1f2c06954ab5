package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	analysisDomain "github.com/copilotwatch/reddit-monitor/internal/modules/analysis/domain"
	analysisRepository "github.com/copilotwatch/reddit-monitor/internal/modules/analysis/repository"
	feedService "github.com/copilotwatch/reddit-monitor/internal/modules/feed/service"
	githubClient "github.com/copilotwatch/reddit-monitor/internal/modules/github/client"
	monitorDomain "github.com/copilotwatch/reddit-monitor/internal/modules/monitor/domain"
	monitorService "github.com/copilotwatch/reddit-monitor/internal/modules/monitor/service"
	"github.com/copilotwatch/reddit-monitor/internal/modules/monitor/session"
	redditDomain "github.com/copilotwatch/reddit-monitor/internal/modules/reddit/domain"
	"github.com/copilotwatch/reddit-monitor/internal/shared/config"
	"github.com/copilotwatch/reddit-monitor/internal/transport/telegram"
	sloghttp "github.com/samber/slog-http"
)

// AIGateway is the slice of the analysis gateway the transport layer needs
type AIGateway interface {
	Ready() bool
	AnalyzeImage(ctx context.Context, imageURL string) (*analysisDomain.ImageAnalysis, error)
}

// SocialGateway is the slice of the Reddit client the transport layer needs
type SocialGateway interface {
	Ready() bool
	FetchComments(ctx context.Context, subreddit string, opts redditDomain.FetchOptions) ([]redditDomain.Comment, error)
}

// MonitorLoop drives the aggregation cycle
type MonitorLoop interface {
	Active() bool
	Start(channels []string, options monitorDomain.Options, callback monitorService.Callback) error
	Stop()
}

// Server handles HTTP requests for the monitoring API
type Server struct {
	cfg      *config.Config
	registry *session.Registry
	monitor  MonitorLoop
	ai       AIGateway
	social   SocialGateway
	github   *githubClient.Client
	analyses analysisRepository.Repository
	feeds    *feedService.Service
	notifier *telegram.Notifier
	logger   *slog.Logger
}

// New creates a new HTTP server
func New(
	cfg *config.Config,
	registry *session.Registry,
	monitor MonitorLoop,
	ai AIGateway,
	social SocialGateway,
	github *githubClient.Client,
	analyses analysisRepository.Repository,
	feeds *feedService.Service,
	notifier *telegram.Notifier,
) *Server {
	return &Server{
		cfg:      cfg,
		registry: registry,
		monitor:  monitor,
		ai:       ai,
		social:   social,
		github:   github,
		analyses: analyses,
		feeds:    feeds,
		notifier: notifier,
		logger:   slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Routes builds the request multiplexer
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/monitoring", s.handleMonitoringStatus)
	mux.HandleFunc("POST /api/monitoring", s.handleMonitoringAction)
	mux.HandleFunc("PUT /api/monitoring", s.handleMonitoringConfig)

	mux.HandleFunc("POST /api/analysis/image", s.handleAnalyzeImage)
	mux.HandleFunc("GET /api/analysis/image", s.handleAnalysisHistory)

	mux.HandleFunc("GET /api/bot/status", s.handleBotStatus)
	mux.HandleFunc("POST /api/bot/status", s.handleBotStatusAction)
	mux.HandleFunc("GET /api/bot/config", s.handleBotConfig)
	mux.HandleFunc("PUT /api/bot/config", s.handleBotConfigUpdate)

	mux.HandleFunc("GET /api/reddit/comments", s.handleRedditComments)

	mux.HandleFunc("GET /rss", s.handleRSSFeed)
	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("API server starting", "addr", addr)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(s.Routes())
	handler = sloghttp.New(s.logger)(handler)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

func (s *Server) handleRSSFeed(w http.ResponseWriter, r *http.Request) {
	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)

	feed := s.feeds.GenerateFeed(baseURL)
	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300") // Cache for 5 minutes
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
