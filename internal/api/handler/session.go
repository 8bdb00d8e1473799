package handler

import (
	"net/http"
	"strconv"

	"github.com/Rrens/reply-assistant/internal/api/middleware"
	"github.com/Rrens/reply-assistant/internal/api/response"
	"github.com/Rrens/reply-assistant/internal/service"
)

// SessionHandler handles conversation history endpoints
type SessionHandler struct {
	historyService *service.HistoryService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(historyService *service.HistoryService) *SessionHandler {
	return &SessionHandler{historyService: historyService}
}

// List returns recent sessions of the conversations linked to the account
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	sessions, err := h.historyService.ListSessions(r.Context(), accountID, limit)
	if err != nil {
		response.InternalError(w, "failed to list sessions")
		return
	}

	response.OK(w, sessions)
}
