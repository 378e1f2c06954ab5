package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	analysisDomain "github.com/copilotwatch/reddit-monitor/internal/modules/analysis/domain"
	analysisRepository "github.com/copilotwatch/reddit-monitor/internal/modules/analysis/repository"
	sharederrors "github.com/copilotwatch/reddit-monitor/internal/shared/errors"
	"github.com/google/uuid"
)

type analyzeImageRequest struct {
	ImageURL  string `json:"imageUrl"`
	PostID    string `json:"postId"`
	Subreddit string `json:"subreddit"`
}

const defaultHistoryLimit = 50

func (s *Server) handleAnalyzeImage(w http.ResponseWriter, r *http.Request) {
	var req analyzeImageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "imageUrl is required")
		return
	}
	if !s.ai.Ready() {
		writeError(w, http.StatusServiceUnavailable, "AI gateway is not configured")
		return
	}

	analysis, err := s.ai.AnalyzeImage(r.Context(), req.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, sharederrors.ErrGatewayNotReady):
			writeError(w, http.StatusServiceUnavailable, "AI gateway is not configured")
		case errors.Is(err, sharederrors.ErrMalformedResponse):
			writeError(w, http.StatusBadGateway, "AI service returned an unusable response")
		case errors.Is(err, sharederrors.ErrRemoteService):
			writeError(w, http.StatusBadGateway, "AI service request failed")
		default:
			s.logger.Error("Image analysis failed", "image_url", req.ImageURL, "error", err)
			writeError(w, http.StatusInternalServerError, "Image analysis failed")
		}
		return
	}

	record := &analysisDomain.ImageAnalysisRecord{
		ID:         uuid.NewString(),
		ImageURL:   req.ImageURL,
		PostID:     req.PostID,
		Subreddit:  req.Subreddit,
		Analysis:   *analysis,
		AnalyzedAt: time.Now().UTC(),
	}
	if err := s.analyses.SaveImageAnalysis(r.Context(), record); err != nil {
		// The caller still gets the analysis; history is best effort.
		s.logger.Error("Failed to persist image analysis", "record_id", record.ID, "error", err)
	}

	writeSuccess(w, record, "Image analyzed")
}

func (s *Server) handleAnalysisHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := analysisRepository.Filter{
		PostID:      query.Get("postId"),
		Subreddit:   query.Get("subreddit"),
		FlaggedOnly: query.Get("flagged") == "true",
	}

	limit := defaultHistoryLimit
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := s.analyses.ListImageAnalyses(r.Context(), filter, limit)
	if err != nil {
		s.logger.Error("Failed to read analysis history", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read analysis history")
		return
	}

	writeSuccess(w, map[string]any{
		"analyses": records,
		"count":    len(records),
		"limit":    limit,
	}, "")
}
