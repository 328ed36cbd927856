package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campus-sports/intramural-portal/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound     = errors.New("event participation not found")
	ErrParticipantConflict     = errors.New("user already participates in this event")
	ErrParticipantEventInvalid = errors.New("participation event reference invalid")
	ErrParticipantUserInvalid  = errors.New("participation user reference invalid")
)

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.EventParticipant) error
	FindByEventAndUser(ctx context.Context, eventID, userID int) (*models.EventParticipant, error)
	DeleteByEventAndUser(ctx context.Context, eventID, userID int) error
	DeleteByEvent(ctx context.Context, exec SQLExecutor, eventID int) error
	CountByEvent(ctx context.Context, eventID int) (int, error)
	MapByUser(ctx context.Context, userID int, eventIDs []int) (map[int]models.EventParticipant, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a participation row. The UNIQUE (event_id, user_id)
// constraint backs the at-most-one-row invariant; a duplicate insert maps
// to ErrParticipantConflict rather than overwriting anything.
func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.EventParticipant) error {
	query := `
		INSERT INTO event_participants (event_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, p.EventID, p.UserID).Scan(&p.ID, &p.JoinedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "event_participants_event_id_user_id_key" {
					return ErrParticipantConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "event_participants_event_id_fkey":
					return ErrParticipantEventInvalid
				case "event_participants_user_id_fkey":
					return ErrParticipantUserInvalid
				}
			}
		}
		return fmt.Errorf("failed to create participation: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) FindByEventAndUser(ctx context.Context, eventID, userID int) (*models.EventParticipant, error) {
	query := `
		SELECT id, event_id, user_id, created_at
		FROM event_participants
		WHERE event_id = $1 AND user_id = $2`

	p := &models.EventParticipant{}
	err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(
		&p.ID,
		&p.EventID,
		&p.UserID,
		&p.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find participation: %w", err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) DeleteByEventAndUser(ctx context.Context, eventID, userID int) error {
	query := `DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete participation: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

// DeleteByEvent removes all participation rows for an event, used when an
// event is deleted. Zero rows is fine.
func (r *postgresParticipantRepository) DeleteByEvent(ctx context.Context, exec SQLExecutor, eventID int) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx, `DELETE FROM event_participants WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to delete event participations: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) CountByEvent(ctx context.Context, eventID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_participants WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participations: %w", err)
	}
	return count, nil
}

// MapByUser returns the user's participation rows for the given events,
// keyed by event id, so event listings can carry a participation flag.
func (r *postgresParticipantRepository) MapByUser(ctx context.Context, userID int, eventIDs []int) (map[int]models.EventParticipant, error) {
	result := make(map[int]models.EventParticipant)
	if len(eventIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT id, event_id, user_id, created_at
		FROM event_participants
		WHERE user_id = $1 AND event_id = ANY($2)`

	rows, err := r.db.QueryContext(ctx, query, userID, pq.Array(eventIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load participation map: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.EventParticipant
		if err := rows.Scan(&p.ID, &p.EventID, &p.UserID, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participation row: %w", err)
		}
		result[p.EventID] = p
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
