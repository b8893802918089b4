package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/deckvault/match-tracker/models"
	"github.com/deckvault/match-tracker/repositories"
	"golang.org/x/sync/errgroup"
)

// SummaryService computes deck-usage counts for an event.
type SummaryService interface {
	Summarize(ctx context.Context, eventID int) (*models.EventSummary, error)
}

type summaryService struct {
	submissionRepo repositories.SubmissionRepository
	eventRepo      repositories.EventRepository
}

func NewSummaryService(submissionRepo repositories.SubmissionRepository, eventRepo repositories.EventRepository) SummaryService {
	return &summaryService{
		submissionRepo: submissionRepo,
		eventRepo:      eventRepo,
	}
}

// Summarize fetches the total and the per-deck breakdown concurrently.
// Total counts every submission for the event; the breakdown only
// includes submissions whose deck still resolves to a name.
func (s *summaryService) Summarize(ctx context.Context, eventID int) (*models.EventSummary, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event %d: %w", eventID, err)
	}

	summary := &models.EventSummary{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.submissionRepo.CountByEvent(gCtx, eventID)
		if err != nil {
			return fmt.Errorf("failed to count submissions for event %d: %w", eventID, err)
		}
		summary.Total = total
		return nil
	})
	g.Go(func() error {
		counts, err := s.submissionRepo.CountByDeck(gCtx, eventID)
		if err != nil {
			return fmt.Errorf("failed to aggregate decks for event %d: %w", eventID, err)
		}
		if counts == nil {
			counts = []models.DeckCount{}
		}
		summary.Decks = counts
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The store already orders the breakdown, but the ordering is part
	// of the contract, so enforce it here as well: count descending,
	// ties broken by case-sensitive name ascending.
	sort.SliceStable(summary.Decks, func(i, j int) bool {
		if summary.Decks[i].Count != summary.Decks[j].Count {
			return summary.Decks[i].Count > summary.Decks[j].Count
		}
		return summary.Decks[i].Name < summary.Decks[j].Name
	})

	return summary, nil
}
