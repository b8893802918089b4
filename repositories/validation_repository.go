package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/deckvault/match-tracker/models"
	"github.com/lib/pq"
)

var ErrValidationRosterNotFound = errors.New("validation roster not found")

// membershipInsertBatchSize caps one INSERT statement to respect
// store-side request limits.
const membershipInsertBatchSize = 1000

type ValidationRepository interface {
	GetRoster(ctx context.Context, eventID int) (*models.ValidationRoster, error)
	UpsertRoster(ctx context.Context, exec SQLExecutor, roster *models.ValidationRoster) error
	DeleteRoster(ctx context.Context, exec SQLExecutor, eventID int) error
	DeleteMembers(ctx context.Context, exec SQLExecutor, eventID int) error
	InsertMembers(ctx context.Context, exec SQLExecutor, eventID int, playerIDs []int) (int, error)
	IsMember(ctx context.Context, eventID, playerID int) (bool, error)
	CountMembers(ctx context.Context, eventID int) (int, error)
}

type postgresValidationRepository struct {
	db *sql.DB
}

func NewPostgresValidationRepository(db *sql.DB) ValidationRepository {
	return &postgresValidationRepository{db: db}
}

func (r *postgresValidationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresValidationRepository) GetRoster(ctx context.Context, eventID int) (*models.ValidationRoster, error) {
	query := `SELECT event_id, source_label, created_at FROM validation_rosters WHERE event_id = $1`

	var roster models.ValidationRoster
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(&roster.EventID, &roster.SourceLabel, &roster.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrValidationRosterNotFound
		}
		return nil, err
	}
	return &roster, nil
}

func (r *postgresValidationRepository) UpsertRoster(ctx context.Context, exec SQLExecutor, roster *models.ValidationRoster) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO validation_rosters (event_id, source_label, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (event_id)
		DO UPDATE SET source_label = EXCLUDED.source_label, created_at = now()
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query, roster.EventID, roster.SourceLabel).Scan(&roster.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert validation roster for event %d: %w", roster.EventID, err)
	}
	return nil
}

func (r *postgresValidationRepository) DeleteRoster(ctx context.Context, exec SQLExecutor, eventID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM validation_rosters WHERE event_id = $1`

	result, err := executor.ExecContext(ctx, query, eventID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrValidationRosterNotFound)
}

func (r *postgresValidationRepository) DeleteMembers(ctx context.Context, exec SQLExecutor, eventID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM validation_members WHERE event_id = $1`

	if _, err := executor.ExecContext(ctx, query, eventID); err != nil {
		return fmt.Errorf("failed to delete validation members for event %d: %w", eventID, err)
	}
	return nil
}

// InsertMembers writes the membership set in bounded batches and
// returns the number of rows inserted.
func (r *postgresValidationRepository) InsertMembers(ctx context.Context, exec SQLExecutor, eventID int, playerIDs []int) (int, error) {
	executor := r.getExecutor(exec)
	if len(playerIDs) == 0 {
		return 0, nil
	}

	query := `INSERT INTO validation_members (event_id, player_id)
		SELECT $1, unnest($2::int[])`

	inserted := 0
	for start := 0; start < len(playerIDs); start += membershipInsertBatchSize {
		end := start + membershipInsertBatchSize
		if end > len(playerIDs) {
			end = len(playerIDs)
		}
		batch := playerIDs[start:end]

		result, err := executor.ExecContext(ctx, query, eventID, pq.Array(batch))
		if err != nil {
			return inserted, fmt.Errorf("failed to insert validation members batch for event %d: %w", eventID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to check inserted validation members: %w", err)
		}
		inserted += int(affected)
	}
	return inserted, nil
}

func (r *postgresValidationRepository) IsMember(ctx context.Context, eventID, playerID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM validation_members WHERE event_id = $1 AND player_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, eventID, playerID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresValidationRepository) CountMembers(ctx context.Context, eventID int) (int, error) {
	query := `SELECT COUNT(*) FROM validation_members WHERE event_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
