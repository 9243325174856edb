package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
)

type SessionHandler interface {
	GetSession(w http.ResponseWriter, r *http.Request)
}

type sessionGetter interface {
	GetSession(ctx context.Context, id string) (*entity.Session, error)
}

type sessionHandler struct {
	logger  *slog.Logger
	manager sessionGetter
}

func NewSessionHandler(logger *slog.Logger, manager sessionGetter) SessionHandler {
	return &sessionHandler{
		logger:  logger.With("component", "rest"),
		manager: manager,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *sessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GetSession")

	current, err := that.manager.GetSession(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrSessionNotFound.Error()})
		return
	case err != nil:
		log.Error("failed to get session", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
		return
	}

	writeJSON(w, http.StatusOK, current)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}
