package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planner/backend/internal/domain"
	"github.com/pkordes/planner/backend/internal/handler"
	"github.com/pkordes/planner/backend/internal/service"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create  func(ctx context.Context, in service.CreateTripInput) (domain.Trip, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	update  func(ctx context.Context, id uuid.UUID, in service.UpdateTripInput) (domain.Trip, error)
	confirm func(ctx context.Context, id uuid.UUID) (service.ConfirmResult, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, in service.CreateTripInput) (domain.Trip, error) {
	return m.create(ctx, in)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) Update(ctx context.Context, id uuid.UUID, in service.UpdateTripInput) (domain.Trip, error) {
	return m.update(ctx, id, in)
}
func (m *mockTripServicer) Confirm(ctx context.Context, id uuid.UUID) (service.ConfirmResult, error) {
	return m.confirm(ctx, id)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockParticipantServicer struct {
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	getInTrip    func(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error)
	confirm      func(ctx context.Context, id uuid.UUID, name, email string) (domain.Participant, error)
	invite       func(ctx context.Context, tripID uuid.UUID, email string) (domain.Participant, error)
}

func (m *mockParticipantServicer) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockParticipantServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	return m.getByID(ctx, id)
}
func (m *mockParticipantServicer) GetInTrip(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error) {
	return m.getInTrip(ctx, tripID, id)
}
func (m *mockParticipantServicer) Confirm(ctx context.Context, id uuid.UUID, name, email string) (domain.Participant, error) {
	return m.confirm(ctx, id, name, email)
}
func (m *mockParticipantServicer) Invite(ctx context.Context, tripID uuid.UUID, email string) (domain.Participant, error) {
	return m.invite(ctx, tripID, email)
}

type mockActivityServicer struct {
	create    func(ctx context.Context, tripID uuid.UUID, title string, occursAt time.Time) (domain.Activity, error)
	schedule  func(ctx context.Context, tripID uuid.UUID) ([]domain.DaySchedule, error)
	itinerary func(ctx context.Context, tripID uuid.UUID) ([]domain.ScheduleRow, error)
}

func (m *mockActivityServicer) Create(ctx context.Context, tripID uuid.UUID, title string, occursAt time.Time) (domain.Activity, error) {
	return m.create(ctx, tripID, title, occursAt)
}
func (m *mockActivityServicer) Schedule(ctx context.Context, tripID uuid.UUID) ([]domain.DaySchedule, error) {
	return m.schedule(ctx, tripID)
}
func (m *mockActivityServicer) Itinerary(ctx context.Context, tripID uuid.UUID) ([]domain.ScheduleRow, error) {
	return m.itinerary(ctx, tripID)
}

type mockLinkServicer struct {
	create       func(ctx context.Context, tripID uuid.UUID, title, url string) (domain.Link, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error)
}

func (m *mockLinkServicer) Create(ctx context.Context, tripID uuid.UUID, title, url string) (domain.Link, error) {
	return m.create(ctx, tripID, title, url)
}
func (m *mockLinkServicer) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error) {
	return m.listByTripID(ctx, tripID)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer        = (*mockTripServicer)(nil)
	_ handler.ParticipantServicer = (*mockParticipantServicer)(nil)
	_ handler.ActivityServicer    = (*mockActivityServicer)(nil)
	_ handler.LinkServicer        = (*mockLinkServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

const webBaseURL = "http://web.test"

// newHTTPHandler wires a Server with the given mocks into the chi router.
// This mirrors how main.go wires it in production, minus the middleware.
func newHTTPHandler(svc handler.Services) http.Handler {
	return handler.NewServer(svc, webBaseURL, discardLogger()).Handler(nil)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		Destination: "Florianópolis",
		StartsAt:    time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, body io.Reader) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}
