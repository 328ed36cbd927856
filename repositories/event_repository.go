package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campus-sports/intramural-portal/models"
	"github.com/lib/pq"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventCreatorInvalid = errors.New("event creator reference invalid")
	ErrEventTeamInvalid    = errors.New("event team reference invalid")
)

// ListEventsFilter narrows and orders an event listing. With UpcomingFrom
// set, only events dated at or after it are returned, soonest first;
// otherwise all events are returned newest-created first.
type ListEventsFilter struct {
	UpcomingFrom *time.Time
	Limit        int
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, filter ListEventsFilter) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (title, description, sport, date, event_type, location, status,
			home_team_id, away_team_id, home_score, away_score, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		event.Title,
		event.Description,
		event.Sport,
		event.Date,
		event.EventType,
		event.Location,
		event.Status,
		event.HomeTeamID,
		event.AwayTeamID,
		event.HomeScore,
		event.AwayScore,
		event.CreatedBy,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "events_created_by_fkey":
				return ErrEventCreatorInvalid
			case "events_home_team_id_fkey", "events_away_team_id_fkey":
				return ErrEventTeamInvalid
			}
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `
		SELECT id, title, description, sport, date, event_type, location, status,
			home_team_id, away_team_id, home_score, away_score, created_by, created_at
		FROM events
		WHERE id = $1`

	event := &models.Event{}
	err := r.scanEvent(r.db.QueryRowContext(ctx, query, id), event)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	return event, nil
}

func (r *postgresEventRepository) List(ctx context.Context, filter ListEventsFilter) ([]models.Event, error) {
	var query strings.Builder
	args := []interface{}{}

	query.WriteString(`
		SELECT e.id, e.title, e.description, e.sport, e.date, e.event_type, e.location, e.status,
			e.home_team_id, e.away_team_id, e.home_score, e.away_score, e.created_by, e.created_at,
			c.name, c.email
		FROM events e
		JOIN users c ON e.created_by = c.id`)

	if filter.UpcomingFrom != nil {
		args = append(args, *filter.UpcomingFrom)
		query.WriteString(fmt.Sprintf(" WHERE e.date >= $%d ORDER BY e.date ASC", len(args)))
	} else {
		query.WriteString(" ORDER BY e.created_at DESC")
	}
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var event models.Event
		var creator models.User
		if err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Sport,
			&event.Date,
			&event.EventType,
			&event.Location,
			&event.Status,
			&event.HomeTeamID,
			&event.AwayTeamID,
			&event.HomeScore,
			&event.AwayScore,
			&event.CreatedBy,
			&event.CreatedAt,
			&creator.Name,
			&creator.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		creator.ID = event.CreatedBy
		event.Creator = &creator
		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresEventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events SET
			title = $1,
			description = $2,
			sport = $3,
			date = $4,
			event_type = $5,
			location = $6,
			status = $7,
			home_team_id = $8,
			away_team_id = $9,
			home_score = $10,
			away_score = $11
		WHERE id = $12`

	result, err := r.db.ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.Sport,
		event.Date,
		event.EventType,
		event.Location,
		event.Status,
		event.HomeTeamID,
		event.AwayTeamID,
		event.HomeScore,
		event.AwayScore,
		event.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrEventTeamInvalid
		}
		return fmt.Errorf("failed to update event: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

// Delete removes the event row. Participation rows must be removed first,
// in the same transaction (see services.EventService).
func (r *postgresEventRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func (r *postgresEventRepository) scanEvent(row *sql.Row, event *models.Event) error {
	return row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Sport,
		&event.Date,
		&event.EventType,
		&event.Location,
		&event.Status,
		&event.HomeTeamID,
		&event.AwayTeamID,
		&event.HomeScore,
		&event.AwayScore,
		&event.CreatedBy,
		&event.CreatedAt,
	)
}
