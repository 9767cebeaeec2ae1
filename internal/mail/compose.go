package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	"github.com/goodsign/monday"
	"github.com/google/uuid"

	"github.com/pkordes/planner/backend/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// Template names; each has <name>_subject.txt, <name>.html and <name>.txt.
const (
	tmplTripConfirmation = "trip_confirmation"
	tmplInvitation       = "invitation"
)

const longDatePTBR = "2 de January de 2006"

// FormatDate renders t as a long pt-BR date, e.g. "2 de janeiro de 2026".
// The date is taken in UTC, the zone trips are stored in.
func FormatDate(t time.Time) string {
	return strings.ToLower(monday.Format(t.UTC(), longDatePTBR, monday.LocalePtBR))
}

type templateData struct {
	Name        string
	Destination string
	StartsAt    string
	EndsAt      string
	Link        string
}

// Composer renders the planner's emails. It is stateless after construction
// and safe for concurrent use.
type Composer struct {
	apiBaseURL string
	webBaseURL string
	html       *htmltemplate.Template
	text       *template.Template
}

// NewComposer parses the embedded templates. apiBaseURL is where the owner's
// trip confirmation link points; webBaseURL hosts the invitee confirm page.
func NewComposer(apiBaseURL, webBaseURL string) (*Composer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("mail.NewComposer: parse html: %w", err)
	}
	text, err := template.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("mail.NewComposer: parse text: %w", err)
	}
	return &Composer{
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		webBaseURL: strings.TrimRight(webBaseURL, "/"),
		html:       html,
		text:       text,
	}, nil
}

// TripConfirmationLink is the API URL that confirms the trip.
func (c *Composer) TripConfirmationLink(tripID uuid.UUID) string {
	return fmt.Sprintf("%s/trips/%s/confirm", c.apiBaseURL, tripID)
}

// ParticipantConfirmationLink is the web page where an invitee confirms.
func (c *Composer) ParticipantConfirmationLink(participantID uuid.UUID) string {
	return fmt.Sprintf("%s/participants/%s/confirm", c.webBaseURL, participantID)
}

// TripConfirmation is sent to the owner right after the trip is created.
func (c *Composer) TripConfirmation(trip domain.Trip, owner domain.Participant) (Message, error) {
	data := c.data(trip)
	data.Link = c.TripConfirmationLink(trip.ID)
	if owner.Name != nil {
		data.Name = *owner.Name
	}
	return c.render(tmplTripConfirmation, Address{Name: data.Name, Email: owner.Email}, data)
}

// Invitation asks a pending participant to confirm their presence.
func (c *Composer) Invitation(trip domain.Trip, p domain.Participant) (Message, error) {
	data := c.data(trip)
	data.Link = c.ParticipantConfirmationLink(p.ID)
	to := Address{Email: p.Email}
	if p.Name != nil {
		to.Name = *p.Name
	}
	return c.render(tmplInvitation, to, data)
}

func (c *Composer) data(trip domain.Trip) templateData {
	return templateData{
		Destination: trip.Destination,
		StartsAt:    FormatDate(trip.StartsAt),
		EndsAt:      FormatDate(trip.EndsAt),
	}
}

func (c *Composer) render(name string, to Address, data templateData) (Message, error) {
	var subject, text, html bytes.Buffer
	if err := c.text.ExecuteTemplate(&subject, name+"_subject.txt", data); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := c.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", name, err)
	}
	if err := c.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", name, err)
	}
	return Message{
		To:      to,
		Subject: strings.TrimSpace(subject.String()),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
