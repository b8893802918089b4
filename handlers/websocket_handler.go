package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/deckvault/match-tracker/live"
	"github.com/deckvault/match-tracker/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict Origin once the dashboard host is fixed.
		return true
	},
}

type WebSocketHandler struct {
	hub          *live.Hub
	eventService services.EventService
	logger       *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, eventService services.EventService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		eventService: eventService,
		logger:       logger,
	}
}

// ServeWs subscribes the caller to the live submission feed of one
// event.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.eventService.GetEventByID(r.Context(), eventID); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			notFoundResponse(w, r, err.Error())
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client.
		h.logger.Warn("websocket upgrade failed",
			slog.Int("event_id", eventID),
			slog.Any("error", err))
		return
	}

	h.hub.Subscribe(eventID, conn)
}
