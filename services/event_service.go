package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deckvault/match-tracker/models"
	"github.com/deckvault/match-tracker/repositories"
)

// EventService manages tracked events. Creation and renaming are
// administrator-only operations; the caller enforces that.
type EventService interface {
	CreateEvent(ctx context.Context, name string) (*models.Event, error)
	GetEventByID(ctx context.Context, id int) (*models.Event, error)
	GetAllEvents(ctx context.Context) ([]models.Event, error)
	RenameEvent(ctx context.Context, id int, name string) (*models.Event, error)
}

type eventService struct {
	eventRepo repositories.EventRepository
}

func NewEventService(eventRepo repositories.EventRepository) EventService {
	return &eventService{eventRepo: eventRepo}
}

func (s *eventService) CreateEvent(ctx context.Context, name string) (*models.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEventNameRequired
	}

	event := &models.Event{Name: name}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return event, nil
}

func (s *eventService) GetAllEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if events == nil {
		return []models.Event{}, nil
	}
	return events, nil
}

func (s *eventService) RenameEvent(ctx context.Context, id int, name string) (*models.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEventNameRequired
	}

	err := s.eventRepo.Rename(ctx, id, name)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrEventNotFound):
		return nil, ErrEventNotFound
	default:
		return nil, fmt.Errorf("failed to rename event %d: %w", id, err)
	}

	return s.eventRepo.GetByID(ctx, id)
}
