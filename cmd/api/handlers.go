package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	leaderboardsvc "github.com/bouncegame/bounce/src/app/leaderboard"
	"github.com/bouncegame/bounce/src/domain/leaderboard"
	"github.com/bouncegame/bounce/src/domain/shared"
)

const maxBodyBytes = 1 << 20

type LeaderboardResponse struct {
	Scores []leaderboard.ScoreRecord `json:"scores"`
}

func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	scoreType := r.URL.Query().Get("type")
	if scoreType == "" {
		scoreType = string(leaderboard.TypeAll)
	}
	scores := s.cfg.LeaderboardService.Query(r.Context(), leaderboardsvc.QueryCommand{
		Type: shared.ScoreType(scoreType),
	})
	s.writeJSON(w, http.StatusOK, LeaderboardResponse{Scores: scores})
}

type SubmitScoreRequest struct {
	PlayerName string `json:"playerName"`
	// Score stays raw so absence, strings and numbers can be told apart.
	Score json.RawMessage `json:"score"`
	Type  string          `json:"type"`
}

type SubmitScoreResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	var req SubmitScoreRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	_, err = s.cfg.LeaderboardService.Submit(r.Context(), leaderboardsvc.SubmitCommand{
		PlayerName: shared.PlayerName(req.PlayerName),
		Score:      scoreText(req.Score),
		Type:       shared.ScoreType(req.Type),
	})
	switch {
	case err == nil:
		s.submissions.WithLabelValues("accepted").Inc()
		s.writeJSON(w, http.StatusOK, SubmitScoreResponse{Success: true, Message: "Score recorded!"})
	case errors.Is(err, leaderboard.ErrMissingFields):
		s.submissions.WithLabelValues("rejected").Inc()
		s.writeError(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, leaderboard.ErrInvalidScore):
		s.submissions.WithLabelValues("rejected").Inc()
		s.writeError(w, http.StatusBadRequest, "Invalid score")
	default:
		s.submissions.WithLabelValues("failed").Inc()
		s.cfg.Logger.Error("score submission failed",
			zap.Error(err),
			zap.String("request_id", correlationIDFromContext(r.Context())),
		)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// scoreText returns the textual form of a raw JSON score, nil when the field
// was absent. JSON strings are unquoted; other values are passed through
// verbatim and left for the domain to accept or reject.
func scoreText(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	text := string(raw)
	if raw[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err == nil {
			text = unquoted
		}
	}
	return &text
}
