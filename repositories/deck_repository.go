package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deckvault/match-tracker/models"
)

var ErrDeckNotFound = errors.New("deck not found")

type DeckRepository interface {
	GetByName(ctx context.Context, name string) (*models.Deck, error)
	GetAll(ctx context.Context) ([]models.Deck, error)
}

type postgresDeckRepository struct {
	db *sql.DB
}

func NewPostgresDeckRepository(db *sql.DB) DeckRepository {
	return &postgresDeckRepository{db: db}
}

func (r *postgresDeckRepository) GetByName(ctx context.Context, name string) (*models.Deck, error) {
	query := `SELECT id, name FROM decks WHERE name = $1`

	var deck models.Deck
	err := r.db.QueryRowContext(ctx, query, name).Scan(&deck.ID, &deck.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}
	return &deck, nil
}

func (r *postgresDeckRepository) GetAll(ctx context.Context) ([]models.Deck, error) {
	query := `SELECT id, name FROM decks ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decks := make([]models.Deck, 0)
	for rows.Next() {
		var deck models.Deck
		if scanErr := rows.Scan(&deck.ID, &deck.Name); scanErr != nil {
			return nil, scanErr
		}
		decks = append(decks, deck)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return decks, nil
}
