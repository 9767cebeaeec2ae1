package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/planner/backend/internal/domain"
	"github.com/pkordes/planner/backend/internal/mail"
	"github.com/pkordes/planner/backend/internal/metrics"
)

// Notifier renders and sends the planner's emails and records their outcome.
type Notifier struct {
	mailer      mail.Mailer
	composer    *mail.Composer
	log         *slog.Logger
	concurrency int
}

// NewNotifier constructs a Notifier. concurrency bounds the number of
// in-flight sends during a fan-out; values below 1 are treated as 1.
func NewNotifier(m mail.Mailer, c *mail.Composer, log *slog.Logger, concurrency int) *Notifier {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Notifier{mailer: m, composer: c, log: log, concurrency: concurrency}
}

// TripConfirmation mails the owner the link that confirms the trip.
func (n *Notifier) TripConfirmation(ctx context.Context, trip domain.Trip, owner domain.Participant) error {
	msg, err := n.composer.TripConfirmation(trip, owner)
	if err != nil {
		return fmt.Errorf("service.Notifier.TripConfirmation: %w", err)
	}
	err = n.mailer.Send(ctx, msg)
	metrics.RecordMailDelivery(metrics.KindTripConfirmation, err)
	if err != nil {
		return fmt.Errorf("service.Notifier.TripConfirmation: %w", err)
	}
	return nil
}

// Invitation mails a participant the link that confirms their presence.
func (n *Notifier) Invitation(ctx context.Context, trip domain.Trip, p domain.Participant) error {
	msg, err := n.composer.Invitation(trip, p)
	if err != nil {
		return fmt.Errorf("service.Notifier.Invitation: %w", err)
	}
	err = n.mailer.Send(ctx, msg)
	metrics.RecordMailDelivery(metrics.KindInvitation, err)
	if err != nil {
		return fmt.Errorf("service.Notifier.Invitation: %w", err)
	}
	return nil
}

// InviteAll sends one invitation per participant concurrently and waits for
// every send. A failed send never cancels the others. When any send fails
// the result is a *domain.DeliveryError listing exactly the failed
// recipients, ordered by email.
func (n *Notifier) InviteAll(ctx context.Context, trip domain.Trip, participants []domain.Participant) error {
	var (
		mu       sync.Mutex
		failures []domain.DeliveryFailure
	)

	var g errgroup.Group
	g.SetLimit(n.concurrency)
	for _, p := range participants {
		g.Go(func() error {
			if err := n.Invitation(ctx, trip, p); err != nil {
				n.log.WarnContext(ctx, "invitation not delivered",
					"trip_id", trip.ID,
					"participant_id", p.ID,
					"email", p.Email,
					"error", err,
				)
				mu.Lock()
				failures = append(failures, domain.DeliveryFailure{
					ParticipantID: p.ID.String(),
					Email:         p.Email,
					Err:           err,
				})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) == 0 {
		return nil
	}
	slices.SortFunc(failures, func(a, b domain.DeliveryFailure) int {
		return cmp.Or(cmp.Compare(a.Email, b.Email), cmp.Compare(a.ParticipantID, b.ParticipantID))
	})
	return &domain.DeliveryError{Failures: failures}
}
