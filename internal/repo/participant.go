package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/planner/backend/internal/domain"
)

// ParticipantRepo defines the persistence operations for Participants.
type ParticipantRepo interface {
	// Create inserts a participant for an existing trip.
	Create(ctx context.Context, p domain.Participant) (domain.Participant, error)

	// GetByID retrieves a participant by its own UUID.
	// Returns domain.ErrNotFound if no participant with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error)

	// ListByTripID returns a trip's participants, confirmed first, then in
	// creation order.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)

	// Confirm stores name, email and is_confirmed=true for a pending participant.
	// Returns domain.ErrNotFound if no pending participant with that ID exists.
	Confirm(ctx context.Context, p domain.Participant) (domain.Participant, error)
}

// pgParticipantRepo is the Postgres implementation of ParticipantRepo.
type pgParticipantRepo struct {
	db db
}

// NewParticipantRepo constructs a ParticipantRepo backed by the provided db connection.
func NewParticipantRepo(db db) ParticipantRepo {
	return &pgParticipantRepo{db: db}
}

const participantColumns = `id, trip_id, name, email, is_confirmed, is_owner, created_at`

func (r *pgParticipantRepo) Create(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	result, err := insertParticipant(ctx, r.db, p)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgParticipantRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	const q = `SELECT ` + participantColumns + ` FROM participants WHERE id = @id`

	result, err := scanParticipant(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgParticipantRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	const q = `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE trip_id = @trip_id
		ORDER BY is_confirmed DESC, created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	participants := []domain.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripID: scan: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripID: rows: %w", err)
	}
	return participants, nil
}

// Confirm only matches rows that are still pending, so a participant is
// confirmed at most once even under concurrent requests.
func (r *pgParticipantRepo) Confirm(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	const q = `
		UPDATE participants
		SET name         = @name,
		    email        = @email,
		    is_confirmed = TRUE
		WHERE id = @id AND NOT is_confirmed
		RETURNING ` + participantColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": p.ID, "name": p.Name, "email": p.Email})
	result, err := scanParticipant(row)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.Confirm: %w", err)
	}
	return result, nil
}

// insertParticipant is shared by Create and the trip creation transaction.
func insertParticipant(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, p domain.Participant) (domain.Participant, error) {
	const stmt = `
		INSERT INTO participants (trip_id, name, email, is_confirmed, is_owner)
		VALUES (@trip_id, @name, @email, @is_confirmed, @is_owner)
		RETURNING ` + participantColumns

	return scanParticipant(q.QueryRow(ctx, stmt, pgx.NamedArgs{
		"trip_id":      p.TripID,
		"name":         p.Name, // nil becomes NULL
		"email":        p.Email,
		"is_confirmed": p.IsConfirmed,
		"is_owner":     p.IsOwner,
	}))
}

// scanParticipant maps a single database row into a domain.Participant.
func scanParticipant(s scanner) (domain.Participant, error) {
	var (
		p      domain.Participant
		id     pgtype.UUID
		tripID pgtype.UUID
		name   pgtype.Text
	)
	err := s.Scan(&id, &tripID, &name, &p.Email, &p.IsConfirmed, &p.IsOwner, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Participant{}, domain.ErrNotFound
		}
		return domain.Participant{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)
	if name.Valid {
		n := name.String
		p.Name = &n
	}
	return p, nil
}
