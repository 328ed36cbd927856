package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campus-sports/intramural-portal/models"
	"github.com/campus-sports/intramural-portal/repositories"
)

type CreateEventInput struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Sport       string    `json:"sport"`
	Date        time.Time `json:"date"`
	EventType   *string   `json:"event_type"`
	Location    *string   `json:"location"`
	Status      *string   `json:"status"`
	HomeTeamID  *int      `json:"home_team_id"`
	AwayTeamID  *int      `json:"away_team_id"`
	HomeScore   *int      `json:"home_score"`
	AwayScore   *int      `json:"away_score"`

	CreatorID int `json:"-"`
}

type UpdateEventInput struct {
	ID          int        `json:"id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Sport       *string    `json:"sport"`
	Date        *time.Time `json:"date"`
	EventType   *string    `json:"event_type"`
	Location    *string    `json:"location"`
	Status      *string    `json:"status"`
	HomeTeamID  *int       `json:"home_team_id"`
	AwayTeamID  *int       `json:"away_team_id"`
	HomeScore   *int       `json:"home_score"`
	AwayScore   *int       `json:"away_score"`
}

type EventService interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEventByID(ctx context.Context, id int) (*models.Event, error)
	CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error)
	UpdateEvent(ctx context.Context, input UpdateEventInput) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int) error
}

type eventService struct {
	txRunner        repositories.TxRunner
	eventRepo       repositories.EventRepository
	participantRepo repositories.ParticipantRepository
}

func NewEventService(txRunner repositories.TxRunner, eventRepo repositories.EventRepository, participantRepo repositories.ParticipantRepository) EventService {
	return &eventService{
		txRunner:        txRunner,
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
	}
}

func (s *eventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.eventRepo.List(ctx, repositories.ListEventsFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	sanitizeEvents(events)
	return events, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (s *eventService) CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	event := &models.Event{
		Title:       input.Title,
		Description: input.Description,
		Sport:       input.Sport,
		Date:        input.Date,
		EventType:   input.EventType,
		Location:    input.Location,
		Status:      input.Status,
		HomeTeamID:  input.HomeTeamID,
		AwayTeamID:  input.AwayTeamID,
		HomeScore:   input.HomeScore,
		AwayScore:   input.AwayScore,
		CreatedBy:   input.CreatorID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventTeamInvalid) {
			return nil, ErrInvalidReference
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, input UpdateEventInput) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = input.Description
	}
	if input.Sport != nil {
		event.Sport = *input.Sport
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.EventType != nil {
		event.EventType = input.EventType
	}
	if input.Location != nil {
		event.Location = input.Location
	}
	if input.Status != nil {
		event.Status = input.Status
	}
	if input.HomeTeamID != nil {
		event.HomeTeamID = input.HomeTeamID
	}
	if input.AwayTeamID != nil {
		event.AwayTeamID = input.AwayTeamID
	}
	if input.HomeScore != nil {
		event.HomeScore = input.HomeScore
	}
	if input.AwayScore != nil {
		event.AwayScore = input.AwayScore
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEventNotFound):
			return nil, ErrEventNotFound
		case errors.Is(err, repositories.ErrEventTeamInvalid):
			return nil, ErrInvalidReference
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes participation rows before the event row so no
// participation ever references a missing event. Both writes share one
// transaction.
func (s *eventService) DeleteEvent(ctx context.Context, id int) error {
	return s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.participantRepo.DeleteByEvent(ctx, exec, id); err != nil {
			return fmt.Errorf("failed to delete event participations: %w", err)
		}
		if err := s.eventRepo.Delete(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrEventNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return nil
	})
}
