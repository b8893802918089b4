package services

import (
	"context"
	"strings"

	"github.com/deckvault/match-tracker/models"
	"github.com/deckvault/match-tracker/repositories"
)

// In-memory fakes for the repository interfaces. They reproduce the
// store-level semantics the services rely on (normalized-name
// uniqueness, upsert on (event, player)) without a database.

type fakePlayerRepo struct {
	players   map[int]*models.Player
	nextID    int
	bulkCalls [][]string
	err       error
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[int]*models.Player), nextID: 1}
}

func (f *fakePlayerRepo) add(name string) *models.Player {
	player := &models.Player{ID: f.nextID, Name: name}
	f.players[player.ID] = player
	f.nextID++
	return player
}

func (f *fakePlayerRepo) GetByName(ctx context.Context, name string) (*models.Player, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, player := range f.players {
		if player.Name == name {
			return player, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (f *fakePlayerRepo) GetByNameFold(ctx context.Context, name string) (*models.Player, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, player := range f.players {
		if strings.EqualFold(player.Name, name) {
			return player, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (f *fakePlayerRepo) CreateIfAbsent(ctx context.Context, name string) (*models.Player, error) {
	if f.err != nil {
		return nil, f.err
	}
	if existing, err := f.GetByNameFold(ctx, name); err == nil {
		return existing, nil
	}
	return f.add(name), nil
}

func (f *fakePlayerRepo) CreateIfAbsentBulk(ctx context.Context, names []string) (map[string]*models.Player, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bulkCalls = append(f.bulkCalls, names)
	resolved := make(map[string]*models.Player, len(names))
	for _, name := range names {
		player, err := f.CreateIfAbsent(ctx, name)
		if err != nil {
			return nil, err
		}
		resolved[strings.ToLower(name)] = player
	}
	return resolved, nil
}

func (f *fakePlayerRepo) GetAll(ctx context.Context) ([]models.Player, error) {
	if f.err != nil {
		return nil, f.err
	}
	all := make([]models.Player, 0, len(f.players))
	for _, player := range f.players {
		all = append(all, *player)
	}
	return all, nil
}

func (f *fakePlayerRepo) Rename(ctx context.Context, id int, name string) error {
	player, ok := f.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.Name = name
	return nil
}

func (f *fakePlayerRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(f.players, id)
	return nil
}

type fakeEventRepo struct {
	events map[int]*models.Event
}

func newFakeEventRepo(ids ...int) *fakeEventRepo {
	repo := &fakeEventRepo{events: make(map[int]*models.Event)}
	for _, id := range ids {
		repo.events[id] = &models.Event{ID: id, Name: "event"}
	}
	return repo
}

func (f *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	event.ID = len(f.events) + 1
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeEventRepo) GetAll(ctx context.Context) ([]models.Event, error) {
	all := make([]models.Event, 0, len(f.events))
	for _, event := range f.events {
		all = append(all, *event)
	}
	return all, nil
}

func (f *fakeEventRepo) Rename(ctx context.Context, id int, name string) error {
	event, ok := f.events[id]
	if !ok {
		return repositories.ErrEventNotFound
	}
	event.Name = name
	return nil
}

type fakeDeckRepo struct {
	decks map[string]*models.Deck
}

func newFakeDeckRepo(names ...string) *fakeDeckRepo {
	repo := &fakeDeckRepo{decks: make(map[string]*models.Deck)}
	for i, name := range names {
		repo.decks[name] = &models.Deck{ID: i + 1, Name: name}
	}
	return repo
}

func (f *fakeDeckRepo) GetByName(ctx context.Context, name string) (*models.Deck, error) {
	deck, ok := f.decks[name]
	if !ok {
		return nil, repositories.ErrDeckNotFound
	}
	return deck, nil
}

func (f *fakeDeckRepo) GetAll(ctx context.Context) ([]models.Deck, error) {
	all := make([]models.Deck, 0, len(f.decks))
	for _, deck := range f.decks {
		all = append(all, *deck)
	}
	return all, nil
}

type submissionKey struct {
	eventID  int
	playerID int
}

type fakeSubmissionRepo struct {
	byKey  map[submissionKey]*models.Submission
	nextID int
	counts []models.DeckCount
	total  int
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{byKey: make(map[submissionKey]*models.Submission), nextID: 1}
}

func (f *fakeSubmissionRepo) Upsert(ctx context.Context, submission *models.Submission) error {
	key := submissionKey{submission.EventID, submission.PlayerID}
	if existing, ok := f.byKey[key]; ok {
		existing.DeckID = submission.DeckID
		submission.ID = existing.ID
		return nil
	}
	submission.ID = f.nextID
	f.nextID++
	stored := *submission
	f.byKey[key] = &stored
	return nil
}

func (f *fakeSubmissionRepo) LookupByEventAndPlayerName(ctx context.Context, eventID int, playerName string) (*models.Submission, error) {
	for _, submission := range f.byKey {
		if submission.EventID == eventID && strings.EqualFold(submission.PlayerName, playerName) {
			return submission, nil
		}
	}
	return nil, repositories.ErrSubmissionNotFound
}

func (f *fakeSubmissionRepo) ListEntriesByEvent(ctx context.Context, eventID int) ([]models.SubmissionEntry, error) {
	entries := make([]models.SubmissionEntry, 0)
	for _, submission := range f.byKey {
		if submission.EventID == eventID {
			entries = append(entries, models.SubmissionEntry{
				ID:     submission.ID,
				Player: submission.PlayerName,
				Deck:   submission.DeckName,
			})
		}
	}
	return entries, nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id int) (*models.Submission, error) {
	for _, submission := range f.byKey {
		if submission.ID == id {
			return submission, nil
		}
	}
	return nil, repositories.ErrSubmissionNotFound
}

func (f *fakeSubmissionRepo) Update(ctx context.Context, id, playerID, deckID int) error {
	for _, submission := range f.byKey {
		if submission.ID == id {
			submission.PlayerID = playerID
			submission.DeckID = deckID
			return nil
		}
	}
	return repositories.ErrSubmissionNotFound
}

func (f *fakeSubmissionRepo) Delete(ctx context.Context, id int) error {
	for key, submission := range f.byKey {
		if submission.ID == id {
			delete(f.byKey, key)
			return nil
		}
	}
	return repositories.ErrSubmissionNotFound
}

func (f *fakeSubmissionRepo) CountByEvent(ctx context.Context, eventID int) (int, error) {
	return f.total, nil
}

func (f *fakeSubmissionRepo) CountByDeck(ctx context.Context, eventID int) ([]models.DeckCount, error) {
	return f.counts, nil
}

// fakeTxRunner executes the function directly; the fake repos ignore
// the executor, so a nil one stands in for the open transaction.
type fakeTxRunner struct {
	calls    int
	beginErr error
}

func (f *fakeTxRunner) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.calls++
	return fn(nil)
}

type fakeValidationRepo struct {
	rosters map[int]*models.ValidationRoster
	members map[submissionKey]bool
}

func newFakeValidationRepo() *fakeValidationRepo {
	return &fakeValidationRepo{
		rosters: make(map[int]*models.ValidationRoster),
		members: make(map[submissionKey]bool),
	}
}

func (f *fakeValidationRepo) restrict(eventID int, playerIDs ...int) {
	f.rosters[eventID] = &models.ValidationRoster{EventID: eventID, SourceLabel: "roster.csv"}
	for _, playerID := range playerIDs {
		f.members[submissionKey{eventID, playerID}] = true
	}
}

func (f *fakeValidationRepo) GetRoster(ctx context.Context, eventID int) (*models.ValidationRoster, error) {
	roster, ok := f.rosters[eventID]
	if !ok {
		return nil, repositories.ErrValidationRosterNotFound
	}
	return roster, nil
}

func (f *fakeValidationRepo) UpsertRoster(ctx context.Context, exec repositories.SQLExecutor, roster *models.ValidationRoster) error {
	f.rosters[roster.EventID] = roster
	return nil
}

func (f *fakeValidationRepo) DeleteRoster(ctx context.Context, exec repositories.SQLExecutor, eventID int) error {
	if _, ok := f.rosters[eventID]; !ok {
		return repositories.ErrValidationRosterNotFound
	}
	delete(f.rosters, eventID)
	return nil
}

func (f *fakeValidationRepo) DeleteMembers(ctx context.Context, exec repositories.SQLExecutor, eventID int) error {
	for key := range f.members {
		if key.eventID == eventID {
			delete(f.members, key)
		}
	}
	return nil
}

func (f *fakeValidationRepo) InsertMembers(ctx context.Context, exec repositories.SQLExecutor, eventID int, playerIDs []int) (int, error) {
	for _, playerID := range playerIDs {
		f.members[submissionKey{eventID, playerID}] = true
	}
	return len(playerIDs), nil
}

func (f *fakeValidationRepo) IsMember(ctx context.Context, eventID, playerID int) (bool, error) {
	return f.members[submissionKey{eventID, playerID}], nil
}

func (f *fakeValidationRepo) CountMembers(ctx context.Context, eventID int) (int, error) {
	count := 0
	for key := range f.members {
		if key.eventID == eventID {
			count++
		}
	}
	return count, nil
}
