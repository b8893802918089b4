package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/deckvault/match-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGate(t *testing.T, validationRepo *fakeValidationRepo, eventRepo *fakeEventRepo, playerRepo *fakePlayerRepo) ValidationService {
	t.Helper()
	directory := NewDirectoryService(playerRepo)
	return NewValidationService(&fakeTxRunner{}, validationRepo, eventRepo, directory, nil, slog.Default())
}

func TestAuthorizeOpenEventAdmitsEveryone(t *testing.T) {
	gate := newGate(t, newFakeValidationRepo(), newFakeEventRepo(1), newFakePlayerRepo())

	allowed, err := gate.Authorize(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAuthorizeRestrictedEventChecksMembership(t *testing.T) {
	validationRepo := newFakeValidationRepo()
	validationRepo.restrict(1, 7)
	gate := newGate(t, validationRepo, newFakeEventRepo(1), newFakePlayerRepo())

	allowed, err := gate.Authorize(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = gate.Authorize(context.Background(), 1, 8)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestImportRejectsUnknownEvent(t *testing.T) {
	gate := newGate(t, newFakeValidationRepo(), newFakeEventRepo(), newFakePlayerRepo())

	_, err := gate.Import(context.Background(), 99, "Alice\n", "roster.csv")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestImportRejectsEmptyRoster(t *testing.T) {
	gate := newGate(t, newFakeValidationRepo(), newFakeEventRepo(1), newFakePlayerRepo())

	_, err := gate.Import(context.Background(), 1, "username\n\n  \n", "roster.csv")
	assert.ErrorIs(t, err, ErrRosterEmpty)
}

func TestImportRestrictsEventToRoster(t *testing.T) {
	validationRepo := newFakeValidationRepo()
	playerRepo := newFakePlayerRepo()
	gate := newGate(t, validationRepo, newFakeEventRepo(1), playerRepo)
	ctx := context.Background()

	accepted, err := gate.Import(ctx, 1, "Alice\nBob\n", "week1.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, accepted)

	alice, err := playerRepo.GetByName(ctx, "Alice")
	require.NoError(t, err)
	allowed, err := gate.Authorize(ctx, 1, alice.ID)
	require.NoError(t, err)
	assert.True(t, allowed)

	carol := playerRepo.add("Carol")
	allowed, err = gate.Authorize(ctx, 1, carol.ID)
	require.NoError(t, err)
	assert.False(t, allowed, "unlisted player admitted after import")

	status, err := gate.Status(ctx, 1)
	require.NoError(t, err)
	assert.True(t, status.Enabled)
	assert.Equal(t, 2, status.Count)
	require.NotNil(t, status.SourceFilename)
	assert.Equal(t, "week1.csv", *status.SourceFilename)
}

func TestReimportReplacesAllowlistWholesale(t *testing.T) {
	validationRepo := newFakeValidationRepo()
	playerRepo := newFakePlayerRepo()
	gate := newGate(t, validationRepo, newFakeEventRepo(1), playerRepo)
	ctx := context.Background()

	_, err := gate.Import(ctx, 1, "Alice\nBob\n", "week1.csv")
	require.NoError(t, err)

	accepted, err := gate.Import(ctx, 1, "Carol\n", "week2.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, accepted)

	alice, err := playerRepo.GetByName(ctx, "Alice")
	require.NoError(t, err)
	allowed, err := gate.Authorize(ctx, 1, alice.ID)
	require.NoError(t, err)
	assert.False(t, allowed, "player from the replaced roster still admitted")

	carol, err := playerRepo.GetByName(ctx, "Carol")
	require.NoError(t, err)
	allowed, err = gate.Authorize(ctx, 1, carol.ID)
	require.NoError(t, err)
	assert.True(t, allowed)

	status, err := gate.Status(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Count)
	require.NotNil(t, status.SourceFilename)
	assert.Equal(t, "week2.csv", *status.SourceFilename)
}

func TestImportCountsCaseVariantsOnce(t *testing.T) {
	playerRepo := newFakePlayerRepo()
	gate := newGate(t, newFakeValidationRepo(), newFakeEventRepo(1), playerRepo)

	accepted, err := gate.Import(context.Background(), 1, "Alice\nALICE\nBob\n", "roster.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, accepted)
}

func TestClearReturnsEventToOpen(t *testing.T) {
	validationRepo := newFakeValidationRepo()
	playerRepo := newFakePlayerRepo()
	gate := newGate(t, validationRepo, newFakeEventRepo(1), playerRepo)
	ctx := context.Background()

	_, err := gate.Import(ctx, 1, "Alice\n", "roster.csv")
	require.NoError(t, err)

	bob := playerRepo.add("Bob")
	allowed, err := gate.Authorize(ctx, 1, bob.ID)
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, gate.Clear(ctx, 1))

	allowed, err = gate.Authorize(ctx, 1, bob.ID)
	require.NoError(t, err)
	assert.True(t, allowed, "event still restricted after clear")

	status, err := gate.Status(ctx, 1)
	require.NoError(t, err)
	assert.False(t, status.Enabled)
	assert.Zero(t, status.Count)
}

func TestClearOpenEventReportsNoRoster(t *testing.T) {
	gate := newGate(t, newFakeValidationRepo(), newFakeEventRepo(1), newFakePlayerRepo())

	err := gate.Clear(context.Background(), 1)
	assert.ErrorIs(t, err, ErrRosterNotFound)
}

func TestImportSurfacesTransactionFailure(t *testing.T) {
	directory := NewDirectoryService(newFakePlayerRepo())
	runner := &fakeTxRunner{beginErr: errors.New("store offline")}
	gate := NewValidationService(runner, newFakeValidationRepo(), newFakeEventRepo(1), directory, nil, slog.Default())

	_, err := gate.Import(context.Background(), 1, "Alice\n", "roster.csv")
	assert.Error(t, err)
}

func TestStatusOpenEvent(t *testing.T) {
	gate := newGate(t, newFakeValidationRepo(), newFakeEventRepo(1), newFakePlayerRepo())

	status, err := gate.Status(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, status.Enabled)
	assert.Zero(t, status.Count)
	assert.Nil(t, status.SourceFilename)
	assert.Nil(t, status.CreatedAt)
}

func TestStatusRestrictedEvent(t *testing.T) {
	validationRepo := newFakeValidationRepo()
	validationRepo.restrict(1, 7, 8, 9)
	gate := newGate(t, validationRepo, newFakeEventRepo(1), newFakePlayerRepo())

	status, err := gate.Status(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, status.Enabled)
	assert.Equal(t, 3, status.Count)
	require.NotNil(t, status.SourceFilename)
	assert.Equal(t, "roster.csv", *status.SourceFilename)
}

func TestMemberIDsDedupesCaseVariants(t *testing.T) {
	alice := &models.Player{ID: 1, Name: "Alice"}
	bob := &models.Player{ID: 2, Name: "Bob"}
	resolved := map[string]*models.Player{
		"Alice": alice,
		"ALICE": alice,
		"Bob":   bob,
	}

	ids := memberIDs([]string{"Alice", "ALICE", "Bob", "Missing"}, resolved)
	assert.Equal(t, []int{1, 2}, ids)
}
