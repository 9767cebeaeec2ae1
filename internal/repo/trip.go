// Package repo contains all database access logic for the trip planner API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/planner/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup. Begin on a pgx.Tx opens a
// savepoint, so multi-row writes stay atomic in both cases.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// CreateWithParticipants inserts a trip and its initial participants in a
	// single transaction. Either every row is written or none is.
	CreateWithParticipants(ctx context.Context, trip domain.Trip, participants []domain.Participant) (domain.Trip, []domain.Participant, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// Update overwrites destination and dates of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// MarkConfirmed flips is_confirmed to true. It reports false when the trip
	// was already confirmed, so concurrent confirmations flip it exactly once.
	MarkConfirmed(ctx context.Context, id uuid.UUID) (bool, error)

	// Delete removes a trip and, by cascade, everything that belongs to it.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, destination, starts_at, ends_at, is_confirmed, created_at, updated_at`

// CreateWithParticipants inserts the trip row, then each participant row
// pointing at it, inside pgx.BeginFunc.
func (r *pgTripRepo) CreateWithParticipants(ctx context.Context, trip domain.Trip, participants []domain.Participant) (domain.Trip, []domain.Participant, error) {
	const q = `
		INSERT INTO trips (destination, starts_at, ends_at, is_confirmed)
		VALUES (@destination, @starts_at, @ends_at, @is_confirmed)
		RETURNING ` + tripColumns

	var (
		created domain.Trip
		saved   = make([]domain.Participant, 0, len(participants))
	)
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, q, pgx.NamedArgs{
			"destination":  trip.Destination,
			"starts_at":    trip.StartsAt,
			"ends_at":      trip.EndsAt,
			"is_confirmed": trip.IsConfirmed,
		})
		var err error
		created, err = scanTrip(row)
		if err != nil {
			return fmt.Errorf("insert trip: %w", err)
		}

		for _, p := range participants {
			p.TripID = created.ID
			got, err := insertParticipant(ctx, tx, p)
			if err != nil {
				return fmt.Errorf("insert participant %s: %w", p.Email, err)
			}
			saved = append(saved, got)
		}
		return nil
	})
	if err != nil {
		return domain.Trip{}, nil, fmt.Errorf("repo.TripRepo.CreateWithParticipants: %w", err)
	}
	return created, saved, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET destination = @destination,
		    starts_at   = @starts_at,
		    ends_at     = @ends_at,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":          trip.ID,
		"destination": trip.Destination,
		"starts_at":   trip.StartsAt,
		"ends_at":     trip.EndsAt,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// MarkConfirmed sets is_confirmed only on a trip that is not yet confirmed.
func (r *pgTripRepo) MarkConfirmed(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `
		UPDATE trips
		SET is_confirmed = TRUE,
		    updated_at   = now()
		WHERE id = @id AND NOT is_confirmed`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return false, fmt.Errorf("repo.TripRepo.MarkConfirmed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t  domain.Trip
		id pgtype.UUID
	)

	err := s.Scan(&id, &t.Destination, &t.StartsAt, &t.EndsAt, &t.IsConfirmed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}
