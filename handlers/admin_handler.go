package handlers

import (
	"errors"
	"net/http"

	"github.com/deckvault/match-tracker/services"
)

// AdminHandler serves the authenticated management surface: events,
// submission entries, player identities and the validation gate.
type AdminHandler struct {
	eventService      services.EventService
	directoryService  services.DirectoryService
	submissionService services.SubmissionService
	validationService services.ValidationService
}

func NewAdminHandler(
	eventService services.EventService,
	directoryService services.DirectoryService,
	submissionService services.SubmissionService,
	validationService services.ValidationService,
) *AdminHandler {
	return &AdminHandler{
		eventService:      eventService,
		directoryService:  directoryService,
		submissionService: submissionService,
		validationService: validationService,
	}
}

func (h *AdminHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.GetAllEvents(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, events, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) RenameEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.RenameEvent(r.Context(), eventID, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, event, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) GetEventEntries(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.submissionService.ListEntries(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, entries, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateEntryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.submissionService.UpdateEntry(r.Context(), entryID, input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"ok": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.submissionService.DeleteEntry(r.Context(), entryID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"ok": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.directoryService.ListPlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, players, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) RenamePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.directoryService.RenamePlayer(r.Context(), playerID, input.Name); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"ok": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.directoryService.DeletePlayer(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"ok": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) GetValidationStatus(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	status, err := h.validationService.Status(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, status, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ImportValidationRoster(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Filename string `json:"filename"`
		CSV      string `json:"csv"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Filename == "" || input.CSV == "" {
		badRequestResponse(w, r, errors.New("filename and csv are required"))
		return
	}

	count, err := h.validationService.Import(r.Context(), eventID, input.CSV, input.Filename)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"ok": true, "count": count, "filename": input.Filename}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ClearValidationRoster(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.validationService.Clear(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"ok": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
