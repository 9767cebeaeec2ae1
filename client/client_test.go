package client_test

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planner/backend/client"
	"github.com/pkordes/planner/backend/internal/clock"
	"github.com/pkordes/planner/backend/internal/handler"
	"github.com/pkordes/planner/backend/internal/mail"
	"github.com/pkordes/planner/backend/internal/repo/memrepo"
	"github.com/pkordes/planner/backend/internal/service"
)

const webBaseURL = "http://web.test"

type outbox struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (o *outbox) Send(_ context.Context, msg mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}

// newTestClient starts the API over an in-memory store and returns a
// client pointed at it.
func newTestClient(t *testing.T) (*client.Client, *outbox) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	box := &outbox{}
	composer, err := mail.NewComposer("http://api.test", webBaseURL)
	require.NoError(t, err)
	notifier := service.NewNotifier(box, composer, log, 2)
	store := memrepo.NewStore()
	clk := clock.Fixed(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))

	srv := handler.NewServer(handler.Services{
		Trips:        service.NewTripService(store.Trips(), store.Participants(), store.Activities(), notifier, clk, log),
		Participants: service.NewParticipantService(store.Trips(), store.Participants(), notifier, log),
		Activities:   service.NewActivityService(store.Trips(), store.Activities()),
		Links:        service.NewLinkService(store.Trips(), store.Links()),
	}, webBaseURL, log)

	ts := httptest.NewServer(srv.Handler(nil))
	t.Cleanup(ts.Close)
	return client.New(ts.URL + "/"), box
}

func TestClient_Health(t *testing.T) {
	c, _ := newTestClient(t)
	require.NoError(t, c.Health(context.Background()))
}

func TestClient_tripLifecycle(t *testing.T) {
	ctx := context.Background()
	c, box := newTestClient(t)

	w := client.NewTripWizard()
	require.NoError(t, w.SetDetails("Florianópolis", jan2, jan4))
	require.NoError(t, w.Next())
	require.NoError(t, w.AddEmail("ana@example.com"))
	tripID, err := w.Submit(ctx, c, "Debora", "debs@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, box.count())

	trip, err := c.GetTrip(ctx, tripID)
	require.NoError(t, err)
	assert.Equal(t, "Florianópolis", trip.Destination)
	assert.False(t, trip.IsConfirmed)

	location, err := c.ConfirmTrip(ctx, tripID)
	require.NoError(t, err)
	assert.Equal(t, webBaseURL+"/trips/"+tripID.String(), location)
	assert.Equal(t, 2, box.count())

	ps, err := c.ListParticipants(ctx, tripID)
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.True(t, ps[0].IsOwner)
	invitee := ps[1]
	assert.Nil(t, invitee.Name)

	got, err := c.GetTripParticipant(ctx, tripID, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.Email)

	confirmed, err := c.ConfirmParticipant(ctx, invitee.ID, "Ana", "ana@example.com")
	require.NoError(t, err)
	assert.True(t, confirmed.IsConfirmed)

	_, err = c.ConfirmParticipant(ctx, invitee.ID, "Ana", "ana@example.com")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "already_confirmed", apiErr.Code)
	assert.True(t, client.IsValidation(err))

	newID, err := c.Invite(ctx, tripID, "bia@example.com")
	require.NoError(t, err)
	p, err := c.GetParticipant(ctx, newID)
	require.NoError(t, err)
	assert.False(t, p.IsConfirmed)

	updated, err := c.UpdateTrip(ctx, tripID, client.UpdateTripInput{
		Destination: "Florianópolis e Garopaba",
		StartsAt:    jan2,
		EndsAt:      jan4.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "Florianópolis e Garopaba", updated.Destination)

	require.NoError(t, c.DeleteTrip(ctx, tripID))
	_, err = c.GetTrip(ctx, tripID)
	assert.True(t, client.IsNotFound(err))
}

func TestClient_activitiesAndLinks(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	tripID, err := c.CreateTrip(ctx, client.CreateTripInput{
		Destination: "Florianópolis",
		StartsAt:    jan2,
		EndsAt:      jan4,
		OwnerName:   "Debora",
		OwnerEmail:  "debs@example.com",
	})
	require.NoError(t, err)

	_, err = c.CreateActivity(ctx, tripID, "Trilha da Lagoinha", time.Date(2026, 1, 3, 14, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, err = c.CreateActivity(ctx, tripID, "Volta pra casa", time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC))
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_activity_date", apiErr.Code)

	days, err := c.ListActivities(ctx, tripID)
	require.NoError(t, err)
	require.Len(t, days, 3)
	require.Len(t, days[1].Activities, 1)
	assert.Equal(t, "Trilha da Lagoinha", days[1].Activities[0].Title)

	rows, err := c.Itinerary(ctx, tripID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2026-01-03", rows[1].Date)
	require.NotNil(t, rows[1].Title)
	assert.Nil(t, rows[0].ActivityID)

	raw, err := c.ItineraryCSV(ctx, tripID)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 4)

	_, err = c.CreateLink(ctx, tripID, "Reserva Airbnb", "https://airbnb.com/rooms/123")
	require.NoError(t, err)
	links, err := c.ListLinks(ctx, tripID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Reserva Airbnb", links[0].Title)
}

func TestClient_validationErrorCarriesFields(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.CreateTrip(context.Background(), client.CreateTripInput{
		Destination: "Rio",
		StartsAt:    jan2,
		EndsAt:      jan4,
		OwnerName:   "Debora",
		OwnerEmail:  "debs",
	})

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "validation_error", apiErr.Code)
	assert.Contains(t, apiErr.Fields, "destination")
	assert.Contains(t, apiErr.Fields, "owner_email")
}

func TestClient_nonJSONErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)

	_, err := client.New(ts.URL).GetTrip(context.Background(), uuid.New())

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Empty(t, apiErr.Code)
	assert.Contains(t, apiErr.Message, "upstream down")
}

func TestClient_unknownTrip(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.ListLinks(context.Background(), uuid.New())

	assert.True(t, client.IsNotFound(err))
}
