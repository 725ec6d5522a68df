package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mediaarena/arena/models"
	"github.com/mediaarena/arena/services"
)

type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(ss services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: ss}
}

// CreateHandler handles POST /sessions
func (h *SessionHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateSessionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, view, err := h.sessionService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"session_id": session.ID, "view": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetViewHandler handles GET /sessions/{sessionID}
func (h *SessionHandler) GetViewHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getSessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.sessionService.CurrentView(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"view": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// VoteHandler handles POST /sessions/{sessionID}/votes
func (h *SessionHandler) VoteHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getSessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Outcome models.Outcome `json:"outcome"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.sessionService.Vote(r.Context(), sessionID, input.Outcome)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"view": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RankingHandler handles GET /sessions/{sessionID}/ranking
func (h *SessionHandler) RankingHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getSessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ranking, err := h.sessionService.Ranking(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ranking": ranking}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /sessions/{sessionID}
func (h *SessionHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getSessionIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.sessionService.Delete(r.Context(), sessionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func getSessionIDFromURL(r *http.Request) (string, error) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		return "", errors.New("missing sessionID in URL")
	}
	return sessionID, nil
}
