package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planner/backend/internal/domain"
	"github.com/pkordes/planner/backend/internal/mail"
	"github.com/pkordes/planner/backend/internal/repo"
	"github.com/pkordes/planner/backend/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	createWithParticipants func(ctx context.Context, trip domain.Trip, ps []domain.Participant) (domain.Trip, []domain.Participant, error)
	getByID                func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	update                 func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	markConfirmed          func(ctx context.Context, id uuid.UUID) (bool, error)
	delete                 func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) CreateWithParticipants(ctx context.Context, trip domain.Trip, ps []domain.Participant) (domain.Trip, []domain.Participant, error) {
	return m.createWithParticipants(ctx, trip, ps)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) MarkConfirmed(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.markConfirmed(ctx, id)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockParticipantRepo struct {
	create       func(ctx context.Context, p domain.Participant) (domain.Participant, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
	confirm      func(ctx context.Context, p domain.Participant) (domain.Participant, error)
}

func (m *mockParticipantRepo) Create(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	return m.create(ctx, p)
}
func (m *mockParticipantRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	return m.getByID(ctx, id)
}
func (m *mockParticipantRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockParticipantRepo) Confirm(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	return m.confirm(ctx, p)
}

type mockActivityRepo struct {
	create       func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)
}

func (m *mockActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.listByTripID(ctx, tripID)
}

type mockLinkRepo struct {
	create       func(ctx context.Context, l domain.Link) (domain.Link, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error)
}

func (m *mockLinkRepo) Create(ctx context.Context, l domain.Link) (domain.Link, error) {
	return m.create(ctx, l)
}
func (m *mockLinkRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error) {
	return m.listByTripID(ctx, tripID)
}

// compile-time checks: the mocks must satisfy the repo interfaces.
var (
	_ repo.TripRepo        = (*mockTripRepo)(nil)
	_ repo.ParticipantRepo = (*mockParticipantRepo)(nil)
	_ repo.ActivityRepo    = (*mockActivityRepo)(nil)
	_ repo.LinkRepo        = (*mockLinkRepo)(nil)
)

// recordingMailer keeps every message it is asked to send. Sends to an
// address listed in fail return an error instead.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	fail map[string]error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.fail[msg.To.Email]; ok {
		return err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	for i, msg := range m.sent {
		out[i] = msg.To.Email
	}
	return out
}

// ---- helpers ---------------------------------------------------------------

var testNow = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newNotifier(t *testing.T, m mail.Mailer) *service.Notifier {
	t.Helper()
	c, err := mail.NewComposer("http://api.test", "http://web.test")
	require.NoError(t, err)
	return service.NewNotifier(m, c, discardLogger(), 4)
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		Destination: "Florianópolis",
		StartsAt:    time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2026, 1, 4, 23, 0, 0, 0, time.UTC),
	}
}

func tripRepoWith(trip domain.Trip) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id != trip.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return trip, nil
		},
	}
}

func strPtr(s string) *string { return &s }
