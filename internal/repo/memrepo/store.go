// Package memrepo is an in-memory implementation of the repo interfaces.
// It backs STORE_DRIVER=memory for local runs and end-to-end tests without
// a database. All repos returned by a Store share the same data, so trip
// deletion cascades exactly as the Postgres foreign keys do.
package memrepo

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/planner/backend/internal/domain"
	"github.com/pkordes/planner/backend/internal/repo"
)

// Store holds every table in maps guarded by one mutex.
// It is safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	seq          int64
	trips        map[uuid.UUID]domain.Trip
	participants map[uuid.UUID]row[domain.Participant]
	activities   map[uuid.UUID]row[domain.Activity]
	links        map[uuid.UUID]row[domain.Link]
	now          func() time.Time
}

// row pairs a record with its insertion sequence so listings are stable
// even when two rows share a CreatedAt.
type row[T any] struct {
	v   T
	seq int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		trips:        make(map[uuid.UUID]domain.Trip),
		participants: make(map[uuid.UUID]row[domain.Participant]),
		activities:   make(map[uuid.UUID]row[domain.Activity]),
		links:        make(map[uuid.UUID]row[domain.Link]),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Trips returns a TripRepo view of the store.
func (s *Store) Trips() repo.TripRepo { return &tripRepo{s} }

// Participants returns a ParticipantRepo view of the store.
func (s *Store) Participants() repo.ParticipantRepo { return &participantRepo{s} }

// Activities returns an ActivityRepo view of the store.
func (s *Store) Activities() repo.ActivityRepo { return &activityRepo{s} }

// Links returns a LinkRepo view of the store.
func (s *Store) Links() repo.LinkRepo { return &linkRepo{s} }

// next must be called with mu held for writing.
func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func sortedRows[T any](m map[uuid.UUID]row[T], keep func(T) bool, less func(a, b row[T]) int) []T {
	rows := make([]row[T], 0, len(m))
	for _, r := range m {
		if keep(r.v) {
			rows = append(rows, r)
		}
	}
	slices.SortFunc(rows, func(a, b row[T]) int {
		if c := less(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.v
	}
	return out
}

type tripRepo struct{ s *Store }

func (r *tripRepo) CreateWithParticipants(_ context.Context, trip domain.Trip, participants []domain.Participant) (domain.Trip, []domain.Participant, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	trip.ID = uuid.New()
	trip.CreatedAt, trip.UpdatedAt = now, now
	s.trips[trip.ID] = trip

	saved := make([]domain.Participant, 0, len(participants))
	for _, p := range participants {
		p.ID = uuid.New()
		p.TripID = trip.ID
		p.CreatedAt = now
		p = cloneParticipant(p)
		s.participants[p.ID] = row[domain.Participant]{v: p, seq: s.next()}
		saved = append(saved, cloneParticipant(p))
	}
	return trip, saved, nil
}

func (r *tripRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return t, nil
}

func (r *tripRepo) Update(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.trips[trip.ID]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	cur.Destination = trip.Destination
	cur.StartsAt = trip.StartsAt
	cur.EndsAt = trip.EndsAt
	cur.UpdatedAt = s.now()
	s.trips[cur.ID] = cur
	return cur, nil
}

func (r *tripRepo) MarkConfirmed(_ context.Context, id uuid.UUID) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.trips[id]
	if !ok || cur.IsConfirmed {
		return false, nil
	}
	cur.IsConfirmed = true
	cur.UpdatedAt = s.now()
	s.trips[id] = cur
	return true, nil
}

func (r *tripRepo) Delete(_ context.Context, id uuid.UUID) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.trips, id)
	for k, p := range s.participants {
		if p.v.TripID == id {
			delete(s.participants, k)
		}
	}
	for k, a := range s.activities {
		if a.v.TripID == id {
			delete(s.activities, k)
		}
	}
	for k, l := range s.links {
		if l.v.TripID == id {
			delete(s.links, k)
		}
	}
	return nil
}

type participantRepo struct{ s *Store }

func (r *participantRepo) Create(_ context.Context, p domain.Participant) (domain.Participant, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[p.TripID]; !ok {
		return domain.Participant{}, domain.ErrNotFound
	}
	p.ID = uuid.New()
	p.CreatedAt = s.now()
	p = cloneParticipant(p)
	s.participants[p.ID] = row[domain.Participant]{v: p, seq: s.next()}
	return cloneParticipant(p), nil
}

func (r *participantRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Participant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.participants[id]
	if !ok {
		return domain.Participant{}, domain.ErrNotFound
	}
	return cloneParticipant(p.v), nil
}

func (r *participantRepo) ListByTripID(_ context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := sortedRows(r.s.participants,
		func(p domain.Participant) bool { return p.TripID == tripID },
		func(a, b row[domain.Participant]) int {
			if a.v.IsConfirmed != b.v.IsConfirmed {
				if a.v.IsConfirmed {
					return -1
				}
				return 1
			}
			return a.v.CreatedAt.Compare(b.v.CreatedAt)
		})
	for i := range out {
		out[i] = cloneParticipant(out[i])
	}
	return out, nil
}

func (r *participantRepo) Confirm(_ context.Context, p domain.Participant) (domain.Participant, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.participants[p.ID]
	if !ok || cur.v.IsConfirmed {
		return domain.Participant{}, domain.ErrNotFound
	}
	cur.v.Name = cloneString(p.Name)
	cur.v.Email = p.Email
	cur.v.IsConfirmed = true
	s.participants[p.ID] = cur
	return cloneParticipant(cur.v), nil
}

type activityRepo struct{ s *Store }

func (r *activityRepo) Create(_ context.Context, a domain.Activity) (domain.Activity, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[a.TripID]; !ok {
		return domain.Activity{}, domain.ErrNotFound
	}
	a.ID = uuid.New()
	a.CreatedAt = s.now()
	s.activities[a.ID] = row[domain.Activity]{v: a, seq: s.next()}
	return a, nil
}

func (r *activityRepo) ListByTripID(_ context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedRows(r.s.activities,
		func(a domain.Activity) bool { return a.TripID == tripID },
		func(a, b row[domain.Activity]) int { return a.v.OccursAt.Compare(b.v.OccursAt) }), nil
}

type linkRepo struct{ s *Store }

func (r *linkRepo) Create(_ context.Context, l domain.Link) (domain.Link, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trips[l.TripID]; !ok {
		return domain.Link{}, domain.ErrNotFound
	}
	l.ID = uuid.New()
	l.CreatedAt = s.now()
	s.links[l.ID] = row[domain.Link]{v: l, seq: s.next()}
	return l, nil
}

func (r *linkRepo) ListByTripID(_ context.Context, tripID uuid.UUID) ([]domain.Link, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedRows(r.s.links,
		func(l domain.Link) bool { return l.TripID == tripID },
		func(a, b row[domain.Link]) int { return a.v.CreatedAt.Compare(b.v.CreatedAt) }), nil
}

func cloneParticipant(p domain.Participant) domain.Participant {
	p.Name = cloneString(p.Name)
	return p
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
