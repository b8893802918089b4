package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/deckvault/match-tracker/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerNameConflict = errors.New("player name conflict")
	ErrPlayerInUse        = errors.New("player cannot be deleted while submissions reference them")
)

type PlayerRepository interface {
	GetByName(ctx context.Context, name string) (*models.Player, error)
	GetByNameFold(ctx context.Context, name string) (*models.Player, error)
	CreateIfAbsent(ctx context.Context, name string) (*models.Player, error)
	CreateIfAbsentBulk(ctx context.Context, names []string) (map[string]*models.Player, error)
	GetAll(ctx context.Context) ([]models.Player, error)
	Rename(ctx context.Context, id int, name string) error
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) GetByName(ctx context.Context, name string) (*models.Player, error) {
	query := `SELECT id, name FROM players WHERE name = $1`

	var player models.Player
	err := r.db.QueryRowContext(ctx, query, name).Scan(&player.ID, &player.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

// GetByNameFold matches case-insensitively against the normalized-name
// index.
func (r *postgresPlayerRepository) GetByNameFold(ctx context.Context, name string) (*models.Player, error) {
	query := `SELECT id, name FROM players WHERE lower(name) = lower($1)`

	var player models.Player
	err := r.db.QueryRowContext(ctx, query, name).Scan(&player.ID, &player.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

// CreateIfAbsent inserts the name atomically against the lower(name)
// unique index. On conflict with a concurrent insert it falls back to
// reading whichever row won, so concurrent first submissions for one
// logical player converge on a single identity.
func (r *postgresPlayerRepository) CreateIfAbsent(ctx context.Context, name string) (*models.Player, error) {
	query := `INSERT INTO players (name) VALUES ($1)
		ON CONFLICT (lower(name)) DO NOTHING
		RETURNING id, name`

	var player models.Player
	err := r.db.QueryRowContext(ctx, query, name).Scan(&player.ID, &player.Name)
	if err == nil {
		return &player, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to create player %q: %w", name, err)
	}
	// Lost the race: the row exists, fetch it.
	return r.GetByNameFold(ctx, name)
}

// CreateIfAbsentBulk applies CreateIfAbsent semantics to a whole batch
// with two statements. The returned map is keyed by lowercased name.
func (r *postgresPlayerRepository) CreateIfAbsentBulk(ctx context.Context, names []string) (map[string]*models.Player, error) {
	resolved := make(map[string]*models.Player, len(names))
	if len(names) == 0 {
		return resolved, nil
	}

	insertQuery := `INSERT INTO players (name)
		SELECT unnest($1::text[])
		ON CONFLICT (lower(name)) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, insertQuery, pq.Array(names)); err != nil {
		return nil, fmt.Errorf("failed to bulk create players: %w", err)
	}

	lowered := make([]string, 0, len(names))
	for _, name := range names {
		lowered = append(lowered, strings.ToLower(name))
	}

	selectQuery := `SELECT id, name FROM players WHERE lower(name) = ANY($1::text[])`
	rows, err := r.db.QueryContext(ctx, selectQuery, pq.Array(lowered))
	if err != nil {
		return nil, fmt.Errorf("failed to read back bulk created players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var player models.Player
		if scanErr := rows.Scan(&player.ID, &player.Name); scanErr != nil {
			return nil, scanErr
		}
		p := player
		resolved[strings.ToLower(player.Name)] = &p
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return resolved, nil
}

func (r *postgresPlayerRepository) GetAll(ctx context.Context) ([]models.Player, error) {
	query := `SELECT id, name FROM players ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var player models.Player
		if scanErr := rows.Scan(&player.ID, &player.Name); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, player)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) Rename(ctx context.Context, id int, name string) error {
	query := `UPDATE players SET name = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, name, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return ErrPlayerNameConflict
		}
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM players WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // foreign_key_violation
			return ErrPlayerInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
