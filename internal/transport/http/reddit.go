package http

import (
	"net/http"
	"strconv"

	redditDomain "github.com/copilotwatch/reddit-monitor/internal/modules/reddit/domain"
)

func (s *Server) handleRedditComments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	subreddit := query.Get("subreddit")
	if subreddit == "" {
		if len(s.cfg.Subreddits) == 0 {
			writeError(w, http.StatusBadRequest, "subreddit is required")
			return
		}
		subreddit = s.cfg.Subreddits[0]
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	// Without credentials the endpoint keeps its shape and serves an empty
	// listing instead of failing.
	if !s.social.Ready() {
		writeSuccess(w, map[string]any{
			"subreddit": subreddit,
			"comments":  []redditDomain.Comment{},
			"count":     0,
		}, "Reddit gateway is not configured")
		return
	}

	comments, err := s.social.FetchComments(r.Context(), subreddit, redditDomain.FetchOptions{Limit: limit})
	if err != nil {
		s.logger.Error("Failed to fetch comments", "subreddit", subreddit, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch comments")
		return
	}

	writeSuccess(w, map[string]any{
		"subreddit": subreddit,
		"comments":  comments,
		"count":     len(comments),
	}, "")
}
