package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deckvault/match-tracker/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	GetAll(ctx context.Context) ([]models.Event, error)
	Rename(ctx context.Context, id int, name string) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `INSERT INTO events (name) VALUES ($1) RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, event.Name).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT id, name, created_at FROM events WHERE id = $1`

	var event models.Event
	err := r.db.QueryRowContext(ctx, query, id).Scan(&event.ID, &event.Name, &event.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *postgresEventRepository) GetAll(ctx context.Context) ([]models.Event, error) {
	query := `SELECT id, name, created_at FROM events ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var event models.Event
		if scanErr := rows.Scan(&event.ID, &event.Name, &event.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresEventRepository) Rename(ctx context.Context, id int, name string) error {
	query := `UPDATE events SET name = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, name, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}
