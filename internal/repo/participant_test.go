package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planner/backend/internal/domain"
	"github.com/pkordes/planner/backend/internal/repo"
)

func TestParticipantRepo_CreateAndGet(t *testing.T) {
	tx := newTestTx(t)
	trip, _ := createTrip(t, repo.NewTripRepo(tx))
	r := repo.NewParticipantRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, domain.NewInvitee(trip.ID, "caio@x.com"))
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, "caio@x.com", got.Email)
	assert.Equal(t, trip.ID, got.TripID)
	assert.Equal(t, domain.ParticipantPending, got.State())
}

func TestParticipantRepo_ListByTripID_ConfirmedFirst(t *testing.T) {
	tx := newTestTx(t)
	trip, saved := createTrip(t, repo.NewTripRepo(tx), "ana@x.com", "bia@x.com")
	r := repo.NewParticipantRepo(tx)
	ctx := context.Background()

	// Confirm the last invitee; it must move ahead of the pending one.
	bia := saved[2]
	require.NoError(t, bia.Confirm("Bia", "bia@x.com"))
	_, err := r.Confirm(ctx, bia)
	require.NoError(t, err)

	got, err := r.ListByTripID(ctx, trip.ID)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].IsConfirmed)
	assert.True(t, got[1].IsConfirmed)
	assert.Equal(t, "ana@x.com", got[2].Email)
	assert.False(t, got[2].IsConfirmed)
}

func TestParticipantRepo_Confirm_OnlyPending(t *testing.T) {
	tx := newTestTx(t)
	_, saved := createTrip(t, repo.NewTripRepo(tx))
	r := repo.NewParticipantRepo(tx)

	// The owner is created confirmed, so the guarded update matches nothing.
	_, err := r.Confirm(context.Background(), saved[0])

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
