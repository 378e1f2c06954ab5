package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	contentDomain "github.com/copilotwatch/reddit-monitor/internal/modules/content/domain"
	monitorDomain "github.com/copilotwatch/reddit-monitor/internal/modules/monitor/domain"
	redditDomain "github.com/copilotwatch/reddit-monitor/internal/modules/reddit/domain"
	sharederrors "github.com/copilotwatch/reddit-monitor/internal/shared/errors"
)

type monitoringRequest struct {
	Action     string          `json:"action"`
	Subreddits []string        `json:"subreddits"`
	Options    *optionsPayload `json:"options"`
}

// optionsPayload is a partial override of the default monitoring options.
// Pointer fields distinguish "absent" from "explicitly false/zero".
type optionsPayload struct {
	IncludeImages     *bool  `json:"includeImages"`
	IncludeLinks      *bool  `json:"includeLinks"`
	IncludeModActions *bool  `json:"includeModActions"`
	AnalyzeWithAI     *bool  `json:"analyzeWithAI"`
	Interval          *int64 `json:"interval"`
	Limit             *int   `json:"limit"`
	Sort              string `json:"sort"`
}

func (p *optionsPayload) apply(base monitorDomain.Options) (monitorDomain.Options, error) {
	if p == nil {
		return base, nil
	}
	if p.IncludeImages != nil {
		base.IncludeImages = *p.IncludeImages
	}
	if p.IncludeLinks != nil {
		base.IncludeLinks = *p.IncludeLinks
	}
	if p.IncludeModActions != nil {
		base.IncludeModActions = *p.IncludeModActions
	}
	if p.AnalyzeWithAI != nil {
		base.AnalyzeWithAI = *p.AnalyzeWithAI
	}
	if p.Interval != nil {
		if *p.Interval <= 0 {
			return base, sharederrors.ErrValidation
		}
		base.Interval = time.Duration(*p.Interval) * time.Millisecond
		base.IntervalMS = *p.Interval
	}
	if p.Limit != nil {
		if *p.Limit <= 0 {
			return base, sharederrors.ErrValidation
		}
		base.Limit = *p.Limit
	}
	if p.Sort != "" {
		sort, err := redditDomain.ParseSortOrder(p.Sort)
		if err != nil {
			return base, sharederrors.ErrValidation
		}
		base.Sort = sort
	}
	return base, nil
}

func (s *Server) handleMonitoringStatus(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.registry.Status(), "")
}

func (s *Server) handleMonitoringAction(w http.ResponseWriter, r *http.Request) {
	var req monitoringRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch req.Action {
	case "start":
		s.startMonitoring(w, req)
	case "stop":
		s.stopMonitoring(w)
	default:
		writeError(w, http.StatusBadRequest, "Invalid action, expected start or stop")
	}
}

func (s *Server) startMonitoring(w http.ResponseWriter, req monitoringRequest) {
	if s.monitor.Active() {
		writeSuccess(w, s.registry.Status(), "Monitoring is already active")
		return
	}
	if !s.social.Ready() {
		writeError(w, http.StatusServiceUnavailable, "Reddit gateway is not configured")
		return
	}

	subreddits := req.Subreddits
	options := monitorDomain.DefaultOptions(time.Duration(s.cfg.UpdateInterval) * time.Second)

	// A config staged over PUT applies at the next start unless the start
	// request itself says otherwise.
	stagedSubs, stagedOpts := s.registry.StagedConfig()
	if len(subreddits) == 0 {
		subreddits = stagedSubs
	}
	if stagedOpts != nil {
		options = *stagedOpts
	}
	if len(subreddits) == 0 {
		subreddits = s.cfg.Subreddits
	}

	options, err := req.Options.apply(options)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid monitoring options")
		return
	}

	// The session must exist before the loop's first synchronous cycle
	// reports into it.
	s.registry.StartSession(subreddits, options)

	if err := s.monitor.Start(subreddits, options, s.snapshotCallback()); err != nil {
		s.registry.StopSession()
		switch {
		case errors.Is(err, sharederrors.ErrValidation):
			writeError(w, http.StatusBadRequest, "At least one subreddit is required")
		case errors.Is(err, sharederrors.ErrGatewayNotReady):
			writeError(w, http.StatusServiceUnavailable, "Reddit gateway is not configured")
		default:
			s.logger.Error("Failed to start monitoring", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to start monitoring")
		}
		return
	}

	writeSuccess(w, s.registry.Status(), "Monitoring started")
}

func (s *Server) stopMonitoring(w http.ResponseWriter) {
	s.monitor.Stop()
	s.registry.StopSession()
	writeSuccess(w, s.registry.Status(), "Monitoring stopped")
}

func (s *Server) handleMonitoringConfig(w http.ResponseWriter, r *http.Request) {
	var req monitoringRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var staged *monitorDomain.Options
	if req.Options != nil {
		options, err := req.Options.apply(monitorDomain.DefaultOptions(time.Duration(s.cfg.UpdateInterval) * time.Second))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid monitoring options")
			return
		}
		staged = &options
	}

	s.registry.StageConfig(req.Subreddits, staged)

	message := "Configuration staged for the next start"
	if s.monitor.Active() {
		message = "Configuration staged, the running session keeps its current settings"
	}
	writeSuccess(w, s.registry.Status(), message)
}

// snapshotCallback wires a completed cycle into the registry and the optional
// alert channel.
func (s *Server) snapshotCallback() func(contentDomain.Snapshot) {
	return func(snap contentDomain.Snapshot) {
		s.registry.RecordSnapshot(snap)
		s.notifier.NotifySnapshot(context.Background(), snap)
	}
}
