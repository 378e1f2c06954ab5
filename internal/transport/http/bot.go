package http

import (
	"net/http"
)

type botActionRequest struct {
	Action string `json:"action"`
}

type botConfigPayload struct {
	Subreddits     []string `json:"subreddits"`
	UpdateInterval int      `json:"updateInterval"`
	AutoReply      bool     `json:"autoReply"`
	ModerationMode string   `json:"moderationMode"`
}

func (s *Server) handleBotStatus(w http.ResponseWriter, r *http.Request) {
	status := s.registry.Status()

	writeSuccess(w, map[string]any{
		"isRunning":  status.IsActive,
		"uptime":     status.UptimeMS,
		"subreddits": status.Subreddits,
		"gateways": map[string]bool{
			"reddit": s.social.Ready(),
			"gemini": s.ai.Ready(),
			"github": s.github.Ready(),
		},
	}, "")
}

// handleBotStatusAction acknowledges start/stop commands without acting on
// them; the monitoring endpoint owns the actual lifecycle.
func (s *Server) handleBotStatusAction(w http.ResponseWriter, r *http.Request) {
	var req botActionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch req.Action {
	case "start", "stop":
		s.logger.Info("Bot status action received", "action", req.Action)
		writeSuccess(w, map[string]string{"action": req.Action}, "Action acknowledged")
	default:
		writeError(w, http.StatusBadRequest, "Invalid action, expected start or stop")
	}
}

func (s *Server) handleBotConfig(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, botConfigPayload{
		Subreddits:     s.cfg.Subreddits,
		UpdateInterval: s.cfg.UpdateInterval,
		AutoReply:      false,
		ModerationMode: "observe",
	}, "")
}

// handleBotConfigUpdate echoes the submitted config back without persisting
// it. Monitoring config changes go through PUT /api/monitoring.
func (s *Server) handleBotConfigUpdate(w http.ResponseWriter, r *http.Request) {
	var req botConfigPayload
	if !decodeBody(w, r, &req) {
		return
	}

	s.logger.Info("Bot config update received", "subreddits", req.Subreddits)
	writeSuccess(w, req, "Configuration accepted")
}
