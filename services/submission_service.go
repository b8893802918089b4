package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deckvault/match-tracker/live"
	"github.com/deckvault/match-tracker/metrics"
	"github.com/deckvault/match-tracker/models"
	"github.com/deckvault/match-tracker/repositories"
)

// SubmissionService records which deck a player is using at an event
// and serves the lookup and admin entry operations.
type SubmissionService interface {
	// Record resolves the player, checks the validation gate and
	// upserts the submission. Last submission wins.
	Record(ctx context.Context, input RecordInput) (*models.Submission, error)
	Lookup(ctx context.Context, eventID int, playerName string) (*models.Submission, error)
	ListEntries(ctx context.Context, eventID int) ([]models.SubmissionEntry, error)
	UpdateEntry(ctx context.Context, id int, input UpdateEntryInput) error
	DeleteEntry(ctx context.Context, id int) error
}

type RecordInput struct {
	EventID int    `json:"event_id"`
	Player  string `json:"player"`
	Deck    string `json:"deck"`
}

type UpdateEntryInput struct {
	Player string `json:"player"`
	Deck   string `json:"deck"`
}

type submissionService struct {
	submissionRepo repositories.SubmissionRepository
	eventRepo      repositories.EventRepository
	deckRepo       repositories.DeckRepository
	directory      DirectoryService
	gate           ValidationService
	hub            *live.Hub
}

func NewSubmissionService(
	submissionRepo repositories.SubmissionRepository,
	eventRepo repositories.EventRepository,
	deckRepo repositories.DeckRepository,
	directory DirectoryService,
	gate ValidationService,
	hub *live.Hub,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		eventRepo:      eventRepo,
		deckRepo:       deckRepo,
		directory:      directory,
		gate:           gate,
		hub:            hub,
	}
}

func (s *submissionService) Record(ctx context.Context, input RecordInput) (*models.Submission, error) {
	playerName := strings.TrimSpace(input.Player)
	deckName := strings.TrimSpace(input.Deck)
	if playerName == "" {
		return nil, ErrPlayerNameRequired
	}
	if deckName == "" {
		return nil, ErrDeckNameRequired
	}

	if _, err := s.eventRepo.GetByID(ctx, input.EventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event %d: %w", input.EventID, err)
	}

	// Decks are a closed set: an unknown name is a rejection, never an
	// implicit create.
	deck, err := s.deckRepo.GetByName(ctx, deckName)
	if err != nil {
		if errors.Is(err, repositories.ErrDeckNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to load deck %q: %w", deckName, err)
	}

	player, err := s.directory.ResolveOrCreate(ctx, playerName)
	if err != nil {
		return nil, err
	}

	allowed, err := s.gate.Authorize(ctx, input.EventID, player.ID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPlayerNotAllowed
	}

	submission := &models.Submission{
		EventID:  input.EventID,
		PlayerID: player.ID,
		DeckID:   deck.ID,
	}
	if err := s.submissionRepo.Upsert(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}
	submission.PlayerName = player.Name
	submission.DeckName = deck.Name

	metrics.SubmissionsRecordedTotal.Inc()
	if s.hub != nil {
		s.hub.BroadcastToEvent(input.EventID, live.SubmissionRecorded{
			EventID:   input.EventID,
			Player:    player.Name,
			Deck:      deck.Name,
			CreatedAt: submission.CreatedAt,
		})
	}

	return submission, nil
}

func (s *submissionService) Lookup(ctx context.Context, eventID int, playerName string) (*models.Submission, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return nil, ErrPlayerNameRequired
	}

	submission, err := s.submissionRepo.LookupByEventAndPlayerName(ctx, eventID, playerName)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to look up submission: %w", err)
	}
	return submission, nil
}

func (s *submissionService) ListEntries(ctx context.Context, eventID int) ([]models.SubmissionEntry, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event %d: %w", eventID, err)
	}

	entries, err := s.submissionRepo.ListEntriesByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for event %d: %w", eventID, err)
	}
	if entries == nil {
		return []models.SubmissionEntry{}, nil
	}
	return entries, nil
}

// UpdateEntry rewrites one submission's player and deck. The player is
// resolved or created like a fresh submission; the deck must exist.
func (s *submissionService) UpdateEntry(ctx context.Context, id int, input UpdateEntryInput) error {
	playerName := strings.TrimSpace(input.Player)
	deckName := strings.TrimSpace(input.Deck)
	if playerName == "" {
		return ErrPlayerNameRequired
	}
	if deckName == "" {
		return ErrDeckNameRequired
	}

	deck, err := s.deckRepo.GetByName(ctx, deckName)
	if err != nil {
		if errors.Is(err, repositories.ErrDeckNotFound) {
			return ErrDeckNotFound
		}
		return fmt.Errorf("failed to load deck %q: %w", deckName, err)
	}

	player, err := s.directory.ResolveOrCreate(ctx, playerName)
	if err != nil {
		return err
	}

	err = s.submissionRepo.Update(ctx, id, player.ID, deck.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("failed to update submission %d: %w", id, err)
	}
	return nil
}

func (s *submissionService) DeleteEntry(ctx context.Context, id int) error {
	err := s.submissionRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("failed to delete submission %d: %w", id, err)
	}
	return nil
}
