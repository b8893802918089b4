package services

import (
	"context"
	"fmt"

	"github.com/deckvault/match-tracker/models"
	"github.com/deckvault/match-tracker/repositories"
)

// DeckService exposes the closed deck set for read-only listing.
type DeckService interface {
	GetAllDecks(ctx context.Context) ([]models.Deck, error)
}

type deckService struct {
	deckRepo repositories.DeckRepository
}

func NewDeckService(deckRepo repositories.DeckRepository) DeckService {
	return &deckService{deckRepo: deckRepo}
}

func (s *deckService) GetAllDecks(ctx context.Context) ([]models.Deck, error) {
	decks, err := s.deckRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	if decks == nil {
		return []models.Deck{}, nil
	}
	return decks, nil
}
