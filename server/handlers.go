package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/render"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/research"
)

const failedBriefMessage = "Failed to generate a research brief."

// BriefRequest is the body of POST /brief.
type BriefRequest struct {
	UserID      string `json:"user_id"`
	Topic       string `json:"topic"`
	FollowUp    bool   `json:"follow_up"`
	SearchDepth string `json:"search_depth"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type briefListResponse struct {
	UserID string                `json:"user_id"`
	Briefs []research.FinalBrief `json:"briefs"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Research Assistant API is running."})
}

func (s *Server) handleBrief(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxRequestBodyBytes)

	var req BriefRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.Topic = strings.TrimSpace(req.Topic)
	if req.UserID == "" || req.Topic == "" {
		writeError(w, http.StatusBadRequest, "user_id and topic are required")
		return
	}
	if req.SearchDepth == "" {
		req.SearchDepth = "basic"
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.RunTimeout)
	defer cancel()

	final, err := s.runner.Run(ctx, research.State{
		Topic:       req.Topic,
		UserID:      req.UserID,
		FollowUp:    req.FollowUp,
		SearchDepth: req.SearchDepth,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("run for user '%s' timed out after %s: %v", req.UserID, s.opts.RunTimeout, err)
		} else {
			s.logger.Error("run for user '%s' failed: %v", req.UserID, err)
		}
		writeError(w, http.StatusInternalServerError, failedBriefMessage)
		return
	}

	outcome, ok := final.FinalBrief.Get()
	switch {
	case !ok:
		writeError(w, http.StatusInternalServerError, failedBriefMessage)
		return
	case !outcome.OK():
		writeError(w, http.StatusUnprocessableEntity, outcome.Failure)
		return
	}

	brief := *outcome.Brief
	if err := s.history.SaveBrief(r.Context(), req.UserID, brief); err != nil {
		s.logger.Warn("failed to save brief for user '%s': %v", req.UserID, err)
	} else {
		s.logger.Info("Brief for topic '%s' saved for user '%s'", brief.Topic, req.UserID)
	}

	writeBrief(w, r, brief)
}

func (s *Server) handleListBriefs(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	briefs, err := s.history.GetBriefsForUser(r.Context(), userID)
	if err != nil {
		s.logger.Error("list briefs for user '%s': %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to load briefs")
		return
	}
	if briefs == nil {
		briefs = []research.FinalBrief{}
	}
	writeJSON(w, http.StatusOK, briefListResponse{UserID: userID, Briefs: briefs})
}

func (s *Server) handleClearBriefs(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if err := s.history.Clear(r.Context(), userID); err != nil {
		s.logger.Error("clear briefs for user '%s': %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to clear briefs")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeBrief honours ?format=markdown|html; JSON otherwise.
func writeBrief(w http.ResponseWriter, r *http.Request, brief research.FinalBrief) {
	switch r.URL.Query().Get("format") {
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(render.Markdown(brief)))
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(render.HTML(brief)))
	default:
		writeJSON(w, http.StatusOK, brief)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
