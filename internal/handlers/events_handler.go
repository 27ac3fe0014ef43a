package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/kperminova/gig-service/internal/identity"
	"github.com/kperminova/gig-service/internal/models"
	"github.com/kperminova/gig-service/internal/notification"
	"github.com/kperminova/gig-service/internal/utils"
)

// EventsHandler отдаёт уведомления пользователя потоком Server-Sent Events.
// Подключение слушает ровно один канал - канал самого вызывающего.
type EventsHandler struct {
	Hub      *notification.Hub
	Identity identity.Provider
	Logger   *log.Logger
}

// NewEventsHandler создает новый экземпляр EventsHandler.
func NewEventsHandler(hub *notification.Hub, provider identity.Provider, logger *log.Logger) *EventsHandler {
	return &EventsHandler{
		Hub:      hub,
		Identity: provider,
		Logger:   logger,
	}
}

// Subscribe обрабатывает GET запрос к /api/events.
func (h *EventsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	callerId, err := h.Identity.Identify(r)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		utils.SendErrorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.SendErrorResponse(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, cancel := h.Hub.Subscribe(callerId)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.Logger.Println(err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload); err != nil {
				h.Logger.Println(err)
				return
			}
			flusher.Flush()
		}
	}
}
