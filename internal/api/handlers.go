package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"roomclip/internal/events"
	"roomclip/internal/logging"
	"roomclip/internal/services"
	"roomclip/internal/store"
)

const maxBodyBytes = 1 << 20

type sliceRequest struct {
	SessionID string `json:"sessionId"`
}

type sliceResponse struct {
	SessionID string `json:"sessionId"`
	Claimed   bool   `json:"claimed"`
}

// handleSlice triggers processing of one session. The response reports
// whether this request won the claim; an unclaimable session is not an error
// because the poll loop or another trigger may already own it.
func (s *Server) handleSlice(w http.ResponseWriter, r *http.Request) {
	var req sliceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	session, err := s.store.GetSession(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.logger.Error("session lookup failed", logging.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Terminal sessions are re-sliceable on demand: the trigger discards
	// the previous outcome and runs a fresh deterministic attempt.
	switch session.Status {
	case store.StatusError:
		err = s.store.Retry(r.Context(), session.ID)
	case store.StatusReady:
		err = s.store.Reset(r.Context(), session.ID)
	}
	if err != nil {
		s.logger.Error("session requeue failed", logging.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	claimed, err := s.trigger.ProcessOne(r.Context(), req.SessionID)
	if err != nil {
		s.logger.Error("slice trigger failed",
			logging.String(logging.FieldSessionID, req.SessionID),
			logging.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusAccepted, sliceResponse{SessionID: req.SessionID, Claimed: claimed})
}

type sessionResponse struct {
	ID           string          `json:"id"`
	Title        string          `json:"title,omitempty"`
	Status       string          `json:"status"`
	Clips        json.RawMessage `json:"clips,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	ProgressNote string          `json:"progressNote,omitempty"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	session, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.logger.Error("session lookup failed", logging.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := sessionResponse{
		ID:           session.ID,
		Title:        session.Title,
		Status:       string(session.Status),
		ErrorMessage: session.ErrorMessage,
		ProgressNote: session.ProgressNote,
	}
	if session.ClipsJSON != "" {
		resp.Clips = json.RawMessage(session.ClipsJSON)
	}
	writeJSON(w, http.StatusOK, resp)
}

type eventRequest struct {
	RoomID    string  `json:"roomId"`
	Type      string  `json:"type"`
	Timestamp float64 `json:"timestamp"`
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	eventType, ok := events.ParseType(req.Type)
	if !ok {
		writeError(w, http.StatusBadRequest, "type must be \"enter\" or \"exit\"")
		return
	}

	if _, err := s.store.GetSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.logger.Error("session lookup failed", logging.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	id, err := s.store.AddRoomEvent(r.Context(), sessionID, req.RoomID, eventType, req.Timestamp)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("add event failed", logging.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Stats(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer io.Copy(io.Discard, body)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
