// Package client is a Go SDK for the plann.er API. It also carries the
// new-trip wizard state machine used by front ends to collect a trip
// before creating it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// Client calls the plann.er API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. Redirects are never
// followed, whatever the given client's CheckRedirect says.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.http = &cp
	}
}

// New returns a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

// ---- trips -----------------------------------------------------------------

// CreateTrip creates a trip and returns its ID. The owner is mailed a
// confirmation link.
func (c *Client) CreateTrip(ctx context.Context, in CreateTripInput) (uuid.UUID, error) {
	if in.EmailsToInvite == nil {
		in.EmailsToInvite = []string{}
	}
	var out struct {
		TripID uuid.UUID `json:"tripId"`
	}
	if err := c.do(ctx, http.MethodPost, "/trips", nil, in, &out); err != nil {
		return uuid.Nil, fmt.Errorf("client.CreateTrip: %w", err)
	}
	return out.TripID, nil
}

// GetTrip returns a trip.
func (c *Client) GetTrip(ctx context.Context, tripID uuid.UUID) (Trip, error) {
	p, err := tripPath(tripID, "")
	if err != nil {
		return Trip{}, err
	}
	var out struct {
		Trip Trip `json:"trip"`
	}
	if err := c.do(ctx, http.MethodGet, p, nil, nil, &out); err != nil {
		return Trip{}, fmt.Errorf("client.GetTrip: %w", err)
	}
	return out.Trip, nil
}

// UpdateTrip changes a trip's destination and dates.
func (c *Client) UpdateTrip(ctx context.Context, tripID uuid.UUID, in UpdateTripInput) (Trip, error) {
	p, err := tripPath(tripID, "")
	if err != nil {
		return Trip{}, err
	}
	var out struct {
		Trip Trip `json:"trip"`
	}
	if err := c.do(ctx, http.MethodPut, p, nil, in, &out); err != nil {
		return Trip{}, fmt.Errorf("client.UpdateTrip: %w", err)
	}
	return out.Trip, nil
}

// DeleteTrip deletes a trip with its participants, activities and links.
func (c *Client) DeleteTrip(ctx context.Context, tripID uuid.UUID) error {
	p, err := tripPath(tripID, "")
	if err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodDelete, p, nil, nil, nil); err != nil {
		return fmt.Errorf("client.DeleteTrip: %w", err)
	}
	return nil
}

// ConfirmTrip follows the owner's confirmation link and returns the web app
// URL the server redirects to.
func (c *Client) ConfirmTrip(ctx context.Context, tripID uuid.UUID) (string, error) {
	p, err := tripPath(tripID, "/confirm")
	if err != nil {
		return "", err
	}
	resp, err := c.send(ctx, http.MethodGet, p, nil, nil)
	if err != nil {
		return "", fmt.Errorf("client.ConfirmTrip: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		return "", fmt.Errorf("client.ConfirmTrip: %w", decodeAPIError(resp))
	}
	return resp.Header.Get("Location"), nil
}

// ---- participants ----------------------------------------------------------

// ListParticipants returns a trip's participants, confirmed first.
func (c *Client) ListParticipants(ctx context.Context, tripID uuid.UUID) ([]Participant, error) {
	p, err := tripPath(tripID, "/participants")
	if err != nil {
		return nil, err
	}
	var out struct {
		Participants []Participant `json:"participants"`
	}
	if err := c.do(ctx, http.MethodGet, p, nil, nil, &out); err != nil {
		return nil, fmt.Errorf("client.ListParticipants: %w", err)
	}
	return out.Participants, nil
}

// GetTripParticipant returns a participant, provided it belongs to the trip.
func (c *Client) GetTripParticipant(ctx context.Context, tripID, participantID uuid.UUID) (Participant, error) {
	tp, err := tripPath(tripID, "/participants/")
	if err != nil {
		return Participant{}, err
	}
	pid, err := pathParam("participantId", participantID)
	if err != nil {
		return Participant{}, err
	}
	var out struct {
		Participant Participant `json:"participant"`
	}
	if err := c.do(ctx, http.MethodGet, tp+pid, nil, nil, &out); err != nil {
		return Participant{}, fmt.Errorf("client.GetTripParticipant: %w", err)
	}
	return out.Participant, nil
}

// GetParticipant returns a participant by ID.
func (c *Client) GetParticipant(ctx context.Context, participantID uuid.UUID) (Participant, error) {
	pid, err := pathParam("participantId", participantID)
	if err != nil {
		return Participant{}, err
	}
	var out struct {
		Participant Participant `json:"participant"`
	}
	if err := c.do(ctx, http.MethodGet, "/participants/"+pid, nil, nil, &out); err != nil {
		return Participant{}, fmt.Errorf("client.GetParticipant: %w", err)
	}
	return out.Participant, nil
}

// ConfirmParticipant confirms an invitee's presence under name and email.
func (c *Client) ConfirmParticipant(ctx context.Context, participantID uuid.UUID, name, email string) (Participant, error) {
	pid, err := pathParam("participantId", participantID)
	if err != nil {
		return Participant{}, err
	}
	body := map[string]string{"name": name, "email": email}
	var out struct {
		Participant Participant `json:"participant"`
	}
	if err := c.do(ctx, http.MethodPatch, "/participants/"+pid+"/confirm", nil, body, &out); err != nil {
		return Participant{}, fmt.Errorf("client.ConfirmParticipant: %w", err)
	}
	return out.Participant, nil
}

// Invite adds a pending participant to the trip and returns their ID.
func (c *Client) Invite(ctx context.Context, tripID uuid.UUID, email string) (uuid.UUID, error) {
	p, err := tripPath(tripID, "/invites")
	if err != nil {
		return uuid.Nil, err
	}
	var out struct {
		ParticipantID uuid.UUID `json:"participantId"`
	}
	if err := c.do(ctx, http.MethodPost, p, nil, map[string]string{"email": email}, &out); err != nil {
		return uuid.Nil, fmt.Errorf("client.Invite: %w", err)
	}
	return out.ParticipantID, nil
}

// ---- activities ------------------------------------------------------------

// CreateActivity schedules an activity inside the trip's dates.
func (c *Client) CreateActivity(ctx context.Context, tripID uuid.UUID, title string, occursAt time.Time) (uuid.UUID, error) {
	p, err := tripPath(tripID, "/activities")
	if err != nil {
		return uuid.Nil, err
	}
	body := struct {
		Title    string    `json:"title"`
		OccursAt time.Time `json:"occurs_at"`
	}{title, occursAt}
	var out struct {
		ActivityID uuid.UUID `json:"activityId"`
	}
	if err := c.do(ctx, http.MethodPost, p, nil, body, &out); err != nil {
		return uuid.Nil, fmt.Errorf("client.CreateActivity: %w", err)
	}
	return out.ActivityID, nil
}

// ListActivities returns the trip's schedule, one Day per trip day.
func (c *Client) ListActivities(ctx context.Context, tripID uuid.UUID) ([]Day, error) {
	p, err := tripPath(tripID, "/activities")
	if err != nil {
		return nil, err
	}
	var out struct {
		Activities []Day `json:"activities"`
	}
	if err := c.do(ctx, http.MethodGet, p, nil, nil, &out); err != nil {
		return nil, fmt.Errorf("client.ListActivities: %w", err)
	}
	return out.Activities, nil
}

// Itinerary returns the flat itinerary.
func (c *Client) Itinerary(ctx context.Context, tripID uuid.UUID) ([]ItineraryRow, error) {
	p, err := tripPath(tripID, "/itinerary")
	if err != nil {
		return nil, err
	}
	q, err := queryParam("format", "json")
	if err != nil {
		return nil, err
	}
	var out []ItineraryRow
	if err := c.do(ctx, http.MethodGet, p, q, nil, &out); err != nil {
		return nil, fmt.Errorf("client.Itinerary: %w", err)
	}
	return out, nil
}

// ItineraryCSV returns the flat itinerary as a CSV document.
func (c *Client) ItineraryCSV(ctx context.Context, tripID uuid.UUID) ([]byte, error) {
	p, err := tripPath(tripID, "/itinerary")
	if err != nil {
		return nil, err
	}
	q, err := queryParam("format", "csv")
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, http.MethodGet, p, q, nil)
	if err != nil {
		return nil, fmt.Errorf("client.ItineraryCSV: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("client.ItineraryCSV: %w", decodeAPIError(resp))
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client.ItineraryCSV: read body: %w", err)
	}
	return b, nil
}

// ---- links -----------------------------------------------------------------

// CreateLink attaches a link to the trip.
func (c *Client) CreateLink(ctx context.Context, tripID uuid.UUID, title, linkURL string) (uuid.UUID, error) {
	p, err := tripPath(tripID, "/links")
	if err != nil {
		return uuid.Nil, err
	}
	var out struct {
		LinkID uuid.UUID `json:"linkId"`
	}
	body := map[string]string{"title": title, "url": linkURL}
	if err := c.do(ctx, http.MethodPost, p, nil, body, &out); err != nil {
		return uuid.Nil, fmt.Errorf("client.CreateLink: %w", err)
	}
	return out.LinkID, nil
}

// ListLinks returns the trip's links.
func (c *Client) ListLinks(ctx context.Context, tripID uuid.UUID) ([]Link, error) {
	p, err := tripPath(tripID, "/links")
	if err != nil {
		return nil, err
	}
	var out struct {
		Links []Link `json:"links"`
	}
	if err := c.do(ctx, http.MethodGet, p, nil, nil, &out); err != nil {
		return nil, fmt.Errorf("client.ListLinks: %w", err)
	}
	return out.Links, nil
}

// Health reports whether the server answers its liveness check.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, nil, &out); err != nil {
		return fmt.Errorf("client.Health: %w", err)
	}
	if out.Status != "ok" {
		return fmt.Errorf("client.Health: status %q", out.Status)
	}
	return nil
}

// ---- transport -------------------------------------------------------------

// do sends a JSON request and decodes a 2xx JSON response into out.
// out may be nil for responses without a body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	resp, err := c.send(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// pathParam renders a path parameter the way oapi-codegen generated
// clients do.
func pathParam(name string, v any) (string, error) {
	s, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, v)
	if err != nil {
		return "", fmt.Errorf("client: path parameter %s: %w", name, err)
	}
	return s, nil
}

func queryParam(name string, v any) (url.Values, error) {
	s, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, v)
	if err != nil {
		return nil, fmt.Errorf("client: query parameter %s: %w", name, err)
	}
	return url.ParseQuery(s)
}

func tripPath(tripID uuid.UUID, suffix string) (string, error) {
	id, err := pathParam("tripId", tripID)
	if err != nil {
		return "", err
	}
	return "/trips/" + id + suffix, nil
}
