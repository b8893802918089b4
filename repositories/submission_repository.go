package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deckvault/match-tracker/models"
	"github.com/lib/pq"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type SubmissionRepository interface {
	// Upsert writes the submission keyed on (event_id, player_id):
	// an existing row gets the new deck_id and a fresh created_at.
	Upsert(ctx context.Context, submission *models.Submission) error
	LookupByEventAndPlayerName(ctx context.Context, eventID int, playerName string) (*models.Submission, error)
	ListEntriesByEvent(ctx context.Context, eventID int) ([]models.SubmissionEntry, error)
	GetByID(ctx context.Context, id int) (*models.Submission, error)
	Update(ctx context.Context, id, playerID, deckID int) error
	Delete(ctx context.Context, id int) error
	CountByEvent(ctx context.Context, eventID int) (int, error)
	CountByDeck(ctx context.Context, eventID int) ([]models.DeckCount, error)
}

type postgresSubmissionRepository struct {
	db *sql.DB
}

func NewPostgresSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &postgresSubmissionRepository{db: db}
}

func (r *postgresSubmissionRepository) Upsert(ctx context.Context, submission *models.Submission) error {
	query := `INSERT INTO submissions (event_id, player_id, deck_id)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT submissions_event_player_key
		DO UPDATE SET deck_id = EXCLUDED.deck_id, created_at = now()
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		submission.EventID, submission.PlayerID, submission.DeckID,
	).Scan(&submission.ID, &submission.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // foreign_key_violation
			switch pqErr.Constraint {
			case "submissions_event_id_fkey":
				return ErrEventNotFound
			case "submissions_deck_id_fkey":
				return ErrDeckNotFound
			case "submissions_player_id_fkey":
				return ErrPlayerNotFound
			}
		}
		return err
	}
	return nil
}

// LookupByEventAndPlayerName matches the player case-insensitively, as
// the public lookup endpoint promises.
func (r *postgresSubmissionRepository) LookupByEventAndPlayerName(ctx context.Context, eventID int, playerName string) (*models.Submission, error) {
	query := `SELECT s.id, s.event_id, s.player_id, s.deck_id, s.created_at, p.name, d.name
		FROM submissions s
		JOIN players p ON p.id = s.player_id
		JOIN decks d ON d.id = s.deck_id
		WHERE s.event_id = $1 AND lower(p.name) = lower($2)`

	var submission models.Submission
	err := r.db.QueryRowContext(ctx, query, eventID, playerName).Scan(
		&submission.ID, &submission.EventID, &submission.PlayerID,
		&submission.DeckID, &submission.CreatedAt,
		&submission.PlayerName, &submission.DeckName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r *postgresSubmissionRepository) ListEntriesByEvent(ctx context.Context, eventID int) ([]models.SubmissionEntry, error) {
	query := `SELECT s.id, s.created_at, p.name, d.name
		FROM submissions s
		JOIN players p ON p.id = s.player_id
		JOIN decks d ON d.id = s.deck_id
		WHERE s.event_id = $1
		ORDER BY s.created_at DESC, s.id DESC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.SubmissionEntry, 0)
	for rows.Next() {
		var entry models.SubmissionEntry
		if scanErr := rows.Scan(&entry.ID, &entry.CreatedAt, &entry.Player, &entry.Deck); scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *postgresSubmissionRepository) GetByID(ctx context.Context, id int) (*models.Submission, error) {
	query := `SELECT id, event_id, player_id, deck_id, created_at FROM submissions WHERE id = $1`

	var submission models.Submission
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&submission.ID, &submission.EventID, &submission.PlayerID,
		&submission.DeckID, &submission.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r *postgresSubmissionRepository) Update(ctx context.Context, id, playerID, deckID int) error {
	query := `UPDATE submissions SET player_id = $1, deck_id = $2, created_at = now() WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, playerID, deckID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSubmissionNotFound)
}

func (r *postgresSubmissionRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM submissions WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSubmissionNotFound)
}

// CountByEvent counts every submission for the event, including rows
// whose deck no longer resolves to a name.
func (r *postgresSubmissionRepository) CountByEvent(ctx context.Context, eventID int) (int, error) {
	query := `SELECT COUNT(*) FROM submissions WHERE event_id = $1`

	var total int
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// CountByDeck aggregates per resolvable deck name, ordered by count
// descending with ties broken by name ascending so equal-count groups
// come out deterministically.
func (r *postgresSubmissionRepository) CountByDeck(ctx context.Context, eventID int) ([]models.DeckCount, error) {
	query := `SELECT d.name, COUNT(*) AS uses
		FROM submissions s
		JOIN decks d ON d.id = s.deck_id
		WHERE s.event_id = $1
		GROUP BY d.name
		ORDER BY uses DESC, d.name ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.DeckCount, 0)
	for rows.Next() {
		var count models.DeckCount
		if scanErr := rows.Scan(&count.Name, &count.Count); scanErr != nil {
			return nil, scanErr
		}
		counts = append(counts, count)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
