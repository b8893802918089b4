package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/deckvault/match-tracker/metrics"
	"github.com/deckvault/match-tracker/models"
	"github.com/deckvault/match-tracker/repositories"
	"github.com/deckvault/match-tracker/roster"
	"github.com/deckvault/match-tracker/storage"
	"golang.org/x/sync/errgroup"
)

// ValidationService owns the per-event validation gate: an event is
// Open until a roster import switches it to Restricted, and Restricted
// events only accept submissions from imported members.
type ValidationService interface {
	// Authorize reports whether the player may submit for the event.
	Authorize(ctx context.Context, eventID, playerID int) (bool, error)
	// Import replaces the event's allowlist wholesale from raw roster
	// text and returns the number of membership rows written.
	Import(ctx context.Context, eventID int, rawText, sourceLabel string) (int, error)
	// Clear returns the event to the Open state.
	Clear(ctx context.Context, eventID int) error
	Status(ctx context.Context, eventID int) (*models.ValidationStatus, error)
}

type validationService struct {
	tx             repositories.TxRunner
	validationRepo repositories.ValidationRepository
	eventRepo      repositories.EventRepository
	directory      DirectoryService
	archive        storage.FileUploader
	logger         *slog.Logger
}

func NewValidationService(
	tx repositories.TxRunner,
	validationRepo repositories.ValidationRepository,
	eventRepo repositories.EventRepository,
	directory DirectoryService,
	archive storage.FileUploader,
	logger *slog.Logger,
) ValidationService {
	return &validationService{
		tx:             tx,
		validationRepo: validationRepo,
		eventRepo:      eventRepo,
		directory:      directory,
		archive:        archive,
		logger:         logger,
	}
}

func (s *validationService) Authorize(ctx context.Context, eventID, playerID int) (bool, error) {
	_, err := s.validationRepo.GetRoster(ctx, eventID)
	if errors.Is(err, repositories.ErrValidationRosterNotFound) {
		// Open event: everyone may submit.
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check validation state for event %d: %w", eventID, err)
	}

	allowed, err := s.validationRepo.IsMember(ctx, eventID, playerID)
	if err != nil {
		return false, fmt.Errorf("failed to check validation membership for event %d: %w", eventID, err)
	}
	return allowed, nil
}

// Import parses the roster, resolves every unique name to a player
// identity, then replaces the event's membership and roster metadata
// inside a single transaction so a failed import never leaves the gate
// half-switched.
func (s *validationService) Import(ctx context.Context, eventID int, rawText, sourceLabel string) (int, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return 0, ErrEventNotFound
		}
		return 0, fmt.Errorf("failed to load event %d: %w", eventID, err)
	}

	names := roster.ParseNames(rawText)
	if len(names) == 0 {
		return 0, ErrRosterEmpty
	}

	resolved, err := s.directory.ResolveOrCreateMany(ctx, names)
	if err != nil {
		return 0, err
	}

	playerIDs := memberIDs(names, resolved)

	var accepted int
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.validationRepo.DeleteMembers(ctx, exec, eventID); err != nil {
			return err
		}
		n, err := s.validationRepo.InsertMembers(ctx, exec, eventID, playerIDs)
		if err != nil {
			return err
		}
		accepted = n
		rosterRow := &models.ValidationRoster{EventID: eventID, SourceLabel: sourceLabel}
		return s.validationRepo.UpsertRoster(ctx, exec, rosterRow)
	})
	if err != nil {
		return 0, fmt.Errorf("import failed for event %d: %w", eventID, err)
	}

	metrics.RosterImportsTotal.Inc()
	metrics.RosterMembersImportedTotal.Add(float64(accepted))

	s.archiveRoster(ctx, eventID, sourceLabel, rawText)

	return accepted, nil
}

// archiveRoster keeps a copy of the raw upload in object storage for
// audit. Best effort: failures are logged, never surfaced.
func (s *validationService) archiveRoster(ctx context.Context, eventID int, sourceLabel, rawText string) {
	if s.archive == nil {
		return
	}
	key := fmt.Sprintf("rosters/event_%d/%d_%s", eventID, time.Now().Unix(), sourceLabel)
	if _, err := s.archive.Upload(ctx, key, "text/csv", strings.NewReader(rawText)); err != nil {
		s.logger.Warn("failed to archive roster upload",
			slog.Int("event_id", eventID),
			slog.String("key", key),
			slog.Any("error", err))
	}
}

func (s *validationService) Clear(ctx context.Context, eventID int) error {
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.validationRepo.DeleteMembers(ctx, exec, eventID); err != nil {
			return err
		}
		return s.validationRepo.DeleteRoster(ctx, exec, eventID)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrValidationRosterNotFound):
		return ErrRosterNotFound
	default:
		return fmt.Errorf("failed to clear validation roster for event %d: %w", eventID, err)
	}
}

// memberIDs maps roster names to player ids in first-seen order.
// Case-variant roster lines resolve to one identity, so ids are deduped
// before insert.
func memberIDs(names []string, resolved map[string]*models.Player) []int {
	playerIDs := make([]int, 0, len(resolved))
	seen := make(map[int]struct{}, len(resolved))
	for _, name := range names {
		player, ok := resolved[name]
		if !ok {
			continue
		}
		if _, dup := seen[player.ID]; dup {
			continue
		}
		seen[player.ID] = struct{}{}
		playerIDs = append(playerIDs, player.ID)
	}
	return playerIDs
}

// Status fetches the roster row and the membership count concurrently.
func (s *validationService) Status(ctx context.Context, eventID int) (*models.ValidationStatus, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event %d: %w", eventID, err)
	}

	var (
		rosterRow *models.ValidationRoster
		count     int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		row, err := s.validationRepo.GetRoster(gCtx, eventID)
		if errors.Is(err, repositories.ErrValidationRosterNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load validation roster for event %d: %w", eventID, err)
		}
		rosterRow = row
		return nil
	})
	g.Go(func() error {
		n, err := s.validationRepo.CountMembers(gCtx, eventID)
		if err != nil {
			return fmt.Errorf("failed to count validation members for event %d: %w", eventID, err)
		}
		count = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	status := &models.ValidationStatus{Enabled: rosterRow != nil, Count: count}
	if rosterRow != nil {
		status.SourceFilename = &rosterRow.SourceLabel
		status.CreatedAt = &rosterRow.CreatedAt
	}
	return status, nil
}
