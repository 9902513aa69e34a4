package server

import (
	"encoding/json"
	"net/http"

	"github.com/felixgeelhaar/planora/internal/errors"
	"github.com/felixgeelhaar/planora/internal/plan"
	"github.com/felixgeelhaar/planora/internal/session"
	"github.com/felixgeelhaar/planora/internal/stage"
)

// ChatRequest is the POST /api/v1/chat body. An absent session_id starts a
// new conversation.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse is the chat turn result.
type ChatResponse struct {
	SessionID       string `json:"session_id"`
	Reply           string `json:"reply"`
	CurrentStage    string `json:"current_stage"`
	StageLabel      string `json:"stage_label"`
	IsComplete      bool   `json:"is_complete"`
	ProgressPercent int    `json:"progress_percent"`
}

// SessionSummary is the GET /api/v1/session/{id} body.
type SessionSummary struct {
	SessionID    string `json:"session_id"`
	CurrentStage string `json:"current_stage"`
	StageLabel   string `json:"stage_label"`
	IsComplete   bool   `json:"is_complete"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// PlanResponse carries both representations of the compiled plan.
type PlanResponse struct {
	SessionID    string            `json:"session_id"`
	PlanJSON     *plan.ProjectPlan `json:"plan_json"`
	PlanMarkdown string            `json:"plan_markdown"`
}

type errorResponse struct {
	Detail      string   `json:"detail"`
	Code        string   `json:"code,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Detail: err.Error()}
	var pe *errors.PlanoraError
	if errors.As(err, &pe) {
		resp.Detail = pe.Message
		resp.Code = string(pe.Code)
		resp.Suggestions = pe.Suggestions
	}
	s.writeJSON(w, status, resp)
}

// handleChat runs one conversation turn. The session is created on first
// contact and saved after every turn, including re-prompt turns that do not
// advance the stage.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}
	if req.Message == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "message is required"})
		return
	}

	ctx := r.Context()

	var sess *session.Session
	if req.SessionID != "" {
		loaded, err := s.store.Get(ctx, req.SessionID)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		if loaded == nil {
			s.writeError(w, http.StatusNotFound, errors.NewSessionNotFoundError(req.SessionID))
			return
		}
		sess = loaded
	} else {
		sess = session.New()
		if err := s.store.Save(ctx, sess); err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	reply, err := s.controller.ProcessTurn(ctx, sess, req.Message)
	if err != nil {
		// The user turn is already in the log; persist it so a retry
		// carries the full conversation.
		if saveErr := s.store.Save(ctx, sess); saveErr != nil {
			s.logger.WithError(saveErr).Error("save session after failed turn")
		}
		s.writeError(w, oracleErrorStatus(err), err)
		return
	}

	if err := s.store.Save(ctx, sess); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, ChatResponse{
		SessionID:       sess.ID,
		Reply:           reply,
		CurrentStage:    string(sess.CurrentStage),
		StageLabel:      stage.Label(sess.CurrentStage),
		IsComplete:      sess.IsComplete,
		ProgressPercent: stage.Progress(sess.CurrentStage),
	})
}

// oracleErrorStatus maps turn failures to transport statuses: provider
// unreachable is 503 (retry later), provider rejected the request is 502,
// anything else is 500.
func oracleErrorStatus(err error) int {
	switch {
	case errors.HasCode(err, errors.ErrCodeOracleUnavailable):
		return http.StatusServiceUnavailable
	case errors.HasCode(err, errors.ErrCodeOracleAuth),
		errors.HasCode(err, errors.ErrCodeOracleEmptyReply):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) *session.Session {
	id := r.PathValue("id")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return nil
	}
	if sess == nil {
		s.writeError(w, http.StatusNotFound, errors.NewSessionNotFoundError(id))
		return nil
	}
	return sess
}

// handleGetSession answers GET /api/v1/session/{id} with a progress summary.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)
	if sess == nil {
		return
	}

	s.writeJSON(w, http.StatusOK, SessionSummary{
		SessionID:    sess.ID,
		CurrentStage: string(sess.CurrentStage),
		StageLabel:   stage.Label(sess.CurrentStage),
		IsComplete:   sess.IsComplete,
		CreatedAt:    sess.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    sess.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// handleDeleteSession answers DELETE /api/v1/session/{id} with 204, or 404
// for an unknown id.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)
	if sess == nil {
		return
	}

	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetPlan answers GET /api/v1/session/{id}/plan. An incomplete
// session is a 422 carrying the current stage so the caller can report
// progress; plans are recomputed on every request, never stored.
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)
	if sess == nil {
		return
	}

	p, err := s.assembler.Compile(sess)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodePlanNotReady) {
			s.writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	if fp, err := plan.Fingerprint(p); err == nil {
		s.logger.Debug("plan compiled",
			"session_id", sess.ID,
			"fingerprint", fp)
	}

	s.writeJSON(w, http.StatusOK, PlanResponse{
		SessionID:    sess.ID,
		PlanJSON:     p,
		PlanMarkdown: plan.RenderMarkdown(p),
	})
}
