package handlers

import (
	"context"
	"time"

	"github.com/deckvault/match-tracker/models"
	"github.com/deckvault/match-tracker/services"
)

// Per-test stubs for the service interfaces. Only the methods a test
// exercises carry behavior; the rest return zero values.

type stubEventService struct {
	events []models.Event
	err    error
}

func (s *stubEventService) CreateEvent(ctx context.Context, name string) (*models.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Event{ID: 1, Name: name, CreatedAt: time.Now()}, nil
}

func (s *stubEventService) GetEventByID(ctx context.Context, id int) (*models.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Event{ID: id, Name: "event"}, nil
}

func (s *stubEventService) GetAllEvents(ctx context.Context) ([]models.Event, error) {
	return s.events, s.err
}

func (s *stubEventService) RenameEvent(ctx context.Context, id int, name string) (*models.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Event{ID: id, Name: name}, nil
}

type stubDeckService struct {
	decks []models.Deck
}

func (s *stubDeckService) GetAllDecks(ctx context.Context) ([]models.Deck, error) {
	return s.decks, nil
}

type stubDirectoryService struct {
	players []models.Player
}

func (s *stubDirectoryService) ResolveOrCreate(ctx context.Context, name string) (*models.Player, error) {
	return &models.Player{ID: 1, Name: name}, nil
}

func (s *stubDirectoryService) ResolveOrCreateMany(ctx context.Context, names []string) (map[string]*models.Player, error) {
	return map[string]*models.Player{}, nil
}

func (s *stubDirectoryService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return s.players, nil
}

func (s *stubDirectoryService) RenamePlayer(ctx context.Context, id int, name string) error {
	return nil
}

func (s *stubDirectoryService) DeletePlayer(ctx context.Context, id int) error {
	return nil
}

type stubSubmissionService struct {
	recorded   *models.Submission
	recordErr  error
	lookupErr  error
	submission *models.Submission
}

func (s *stubSubmissionService) Record(ctx context.Context, input services.RecordInput) (*models.Submission, error) {
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	if s.recorded != nil {
		return s.recorded, nil
	}
	return &models.Submission{PlayerName: input.Player, DeckName: input.Deck}, nil
}

func (s *stubSubmissionService) Lookup(ctx context.Context, eventID int, playerName string) (*models.Submission, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.submission, nil
}

func (s *stubSubmissionService) ListEntries(ctx context.Context, eventID int) ([]models.SubmissionEntry, error) {
	return []models.SubmissionEntry{}, nil
}

func (s *stubSubmissionService) UpdateEntry(ctx context.Context, id int, input services.UpdateEntryInput) error {
	return nil
}

func (s *stubSubmissionService) DeleteEntry(ctx context.Context, id int) error {
	return nil
}

type stubSummaryService struct {
	summary *models.EventSummary
	err     error
}

func (s *stubSummaryService) Summarize(ctx context.Context, eventID int) (*models.EventSummary, error) {
	return s.summary, s.err
}
