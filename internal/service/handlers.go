package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"lockdown-service/internal/lockdown"
)

// ApplyLockdownRequest is the body for POST /communities/{community}/lockdowns.
type ApplyLockdownRequest struct {
	Mode   string `json:"mode"`
	Reason string `json:"reason"`
}

type applyLockdownResponse struct {
	Id string `json:"id"`
}

type lockdownResponse struct {
	Index     int       `json:"index"`
	Id        string    `json:"id"`
	Mode      string    `json:"mode"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

type handlesResponse struct {
	Roles    map[string]int `json:"roles"`
	Channels map[string]int `json:"channels"`
}

type errorResponse struct {
	Error string `json:"error"`
	Diff  string `json:"diff,omitempty"`
}

func (s *lockdownService) registerRoutes(r chi.Router) {
	r.Get("/communities/{community}/lockdowns", s.handleList)
	r.Post("/communities/{community}/lockdowns", s.handleApply)
	r.Delete("/communities/{community}/lockdowns", s.handleRemoveAll)
	r.Delete("/communities/{community}/lockdowns/{index}", s.handleRemove)
	r.Get("/communities/{community}/lockdowns/handles", s.handleGetHandles)
}

func (s *lockdownService) handleApply(w http.ResponseWriter, r *http.Request) {
	communityId := chi.URLParam(r, "community")

	var req ApplyLockdownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if req.Mode == "" {
		writeError(w, http.StatusBadRequest, "mode is required", "")
		return
	}

	id, err := s.Apply(r.Context(), communityId, req.Mode, req.Reason)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, applyLockdownResponse{Id: id.String()})
}

func (s *lockdownService) handleRemove(w http.ResponseWriter, r *http.Request) {
	communityId := chi.URLParam(r, "community")

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lockdown index", "")
		return
	}

	if err := s.Remove(r.Context(), communityId, index); err != nil {
		s.writeOperationError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *lockdownService) handleRemoveAll(w http.ResponseWriter, r *http.Request) {
	communityId := chi.URLParam(r, "community")

	if err := s.RemoveAll(r.Context(), communityId); err != nil {
		s.writeOperationError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *lockdownService) handleList(w http.ResponseWriter, r *http.Request) {
	communityId := chi.URLParam(r, "community")

	lockdowns, err := s.List(r.Context(), communityId)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}

	response := make([]lockdownResponse, len(lockdowns))
	for i, ld := range lockdowns {
		response[i] = lockdownResponse{
			Index:     i,
			Id:        ld.Id.String(),
			Mode:      ld.Mode.String(),
			Reason:    ld.Reason,
			CreatedAt: ld.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *lockdownService) handleGetHandles(w http.ResponseWriter, r *http.Request) {
	communityId := chi.URLParam(r, "community")

	handles, err := s.GetHandles(r.Context(), communityId)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, handlesResponse{
		Roles:    handles.Roles.Items(),
		Channels: handles.Channels.Items(),
	})
}

func (s *lockdownService) writeOperationError(w http.ResponseWriter, err error) {
	var testFailed *lockdown.TestFailedError
	switch {
	case errors.As(err, &testFailed):
		writeError(w, http.StatusConflict, "lockdown cannot be applied cleanly", testFailed.Diff)
	case errors.Is(err, lockdown.ErrUnknownMode):
		writeError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, lockdown.ErrChannelNotFound):
		writeError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, lockdown.ErrIndexOutOfBounds):
		writeError(w, http.StatusNotFound, err.Error(), "")
	default:
		s.logger.Errorw("lockdown operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string, diff string) {
	writeJSON(w, status, errorResponse{Error: message, Diff: diff})
}
