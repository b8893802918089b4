package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/deckvault/match-tracker/services"
)

// PublicHandler serves the unauthenticated surface: reference lists,
// summaries, submission recording and the deck lookup.
type PublicHandler struct {
	eventService      services.EventService
	deckService       services.DeckService
	directoryService  services.DirectoryService
	submissionService services.SubmissionService
	summaryService    services.SummaryService
}

func NewPublicHandler(
	eventService services.EventService,
	deckService services.DeckService,
	directoryService services.DirectoryService,
	submissionService services.SubmissionService,
	summaryService services.SummaryService,
) *PublicHandler {
	return &PublicHandler{
		eventService:      eventService,
		deckService:       deckService,
		directoryService:  directoryService,
		submissionService: submissionService,
		summaryService:    summaryService,
	}
}

func (h *PublicHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PublicHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.GetAllEvents(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, events, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PublicHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.deckService.GetAllDecks(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, decks, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PublicHandler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.directoryService.ListPlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	names := make([]string, 0, len(players))
	for _, player := range players {
		names = append(names, player.Name)
	}
	if err := writeJSON(w, http.StatusOK, names, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PublicHandler) GetEventSummary(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	summary, err := h.summaryService.Summarize(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, summary, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Submit records a deck submission. Every rejection on this path is a
// 400: missing fields, unknown event, unknown deck and validation-gate
// refusals alike.
func (h *PublicHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input services.RecordInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.EventID <= 0 {
		badRequestResponse(w, r, errors.New("event_id is required"))
		return
	}
	if input.Player == "" || input.Deck == "" {
		badRequestResponse(w, r, errors.New("player and deck are required"))
		return
	}

	submission, err := h.submissionService.Record(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound),
			errors.Is(err, services.ErrDeckNotFound):
			badRequestResponse(w, r, err)
		default:
			mapServiceErrorToHTTP(w, r, err)
		}
		return
	}

	response := jsonResponse{
		"message": fmt.Sprintf("Submission recorded for %s using %s.", submission.PlayerName, submission.DeckName),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PublicHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	eventStr := r.URL.Query().Get("event")
	playerName := r.URL.Query().Get("player")
	if eventStr == "" || playerName == "" {
		badRequestResponse(w, r, errors.New("event and player query parameters are required"))
		return
	}
	eventID, err := strconv.Atoi(eventStr)
	if err != nil || eventID <= 0 {
		badRequestResponse(w, r, fmt.Errorf("invalid event parameter: %q", eventStr))
		return
	}

	submission, err := h.submissionService.Lookup(r.Context(), eventID, playerName)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"player":     submission.PlayerName,
		"deck":       submission.DeckName,
		"created_at": submission.CreatedAt,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
