package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deckvault/match-tracker/models"
	"github.com/deckvault/match-tracker/repositories"
)

// directoryBatchSize caps one bulk create-if-absent call to respect
// store-side request limits.
const directoryBatchSize = 500

// DirectoryService resolves display names to stable player identities,
// creating them when absent.
type DirectoryService interface {
	ResolveOrCreate(ctx context.Context, name string) (*models.Player, error)
	// ResolveOrCreateMany resolves every unique name in one or more
	// bulk calls. The returned map is keyed by the input names.
	ResolveOrCreateMany(ctx context.Context, names []string) (map[string]*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	RenamePlayer(ctx context.Context, id int, name string) error
	DeletePlayer(ctx context.Context, id int) error
}

type directoryService struct {
	playerRepo repositories.PlayerRepository
}

func NewDirectoryService(playerRepo repositories.PlayerRepository) DirectoryService {
	return &directoryService{playerRepo: playerRepo}
}

// ResolveOrCreate resolves in three steps: exact-name lookup, then
// case-insensitive lookup, then an atomic create-if-absent keyed on the
// normalized name. The final step converges concurrent callers onto a
// single identity. The caller's casing is preserved on create.
func (s *directoryService) ResolveOrCreate(ctx context.Context, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}

	player, err := s.playerRepo.GetByName(ctx, name)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to look up player %q: %w", name, err)
	}

	player, err = s.playerRepo.GetByNameFold(ctx, name)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, fmt.Errorf("failed to look up player %q: %w", name, err)
	}

	player, err = s.playerRepo.CreateIfAbsent(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create player %q: %w", name, err)
	}
	return player, nil
}

func (s *directoryService) ResolveOrCreateMany(ctx context.Context, names []string) (map[string]*models.Player, error) {
	unique := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}

	byNormalized := make(map[string]*models.Player, len(unique))
	for start := 0; start < len(unique); start += directoryBatchSize {
		end := start + directoryBatchSize
		if end > len(unique) {
			end = len(unique)
		}
		batch, err := s.playerRepo.CreateIfAbsentBulk(ctx, unique[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to resolve player batch: %w", err)
		}
		for key, player := range batch {
			byNormalized[key] = player
		}
	}

	resolved := make(map[string]*models.Player, len(unique))
	for _, name := range unique {
		if player, ok := byNormalized[strings.ToLower(name)]; ok {
			resolved[name] = player
		}
	}
	return resolved, nil
}

func (s *directoryService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := s.playerRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	if players == nil {
		return []models.Player{}, nil
	}
	return players, nil
}

func (s *directoryService) RenamePlayer(ctx context.Context, id int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrPlayerNameRequired
	}

	err := s.playerRepo.Rename(ctx, id, name)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrPlayerNameConflict):
		return ErrPlayerNameConflict
	default:
		return fmt.Errorf("failed to rename player %d: %w", id, err)
	}
}

func (s *directoryService) DeletePlayer(ctx context.Context, id int) error {
	err := s.playerRepo.Delete(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrPlayerInUse):
		return ErrPlayerInUse
	default:
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
}
