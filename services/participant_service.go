package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campus-sports/intramural-portal/models"
	"github.com/campus-sports/intramural-portal/repositories"
)

type ParticipantService interface {
	ListStudentEvents(ctx context.Context, userID int) ([]models.Event, error)
	JoinEvent(ctx context.Context, userID, eventID int) (*models.EventParticipant, error)
	WithdrawFromEvent(ctx context.Context, userID, eventID int) error
}

type participantService struct {
	eventRepo       repositories.EventRepository
	participantRepo repositories.ParticipantRepository
	now             func() time.Time
}

func NewParticipantService(eventRepo repositories.EventRepository, participantRepo repositories.ParticipantRepository) ParticipantService {
	return &participantService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		now:             time.Now,
	}
}

// ListStudentEvents returns upcoming events soonest first, each carrying
// the calling student's participation row when one exists.
func (s *participantService) ListStudentEvents(ctx context.Context, userID int) ([]models.Event, error) {
	from := s.now()
	events, err := s.eventRepo.List(ctx, repositories.ListEventsFilter{UpcomingFrom: &from})
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}
	sanitizeEvents(events)

	eventIDs := make([]int, len(events))
	for i := range events {
		eventIDs[i] = events[i].ID
	}

	participations, err := s.participantRepo.MapByUser(ctx, userID, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load participations: %w", err)
	}
	for i := range events {
		if p, ok := participations[events[i].ID]; ok {
			participation := p
			events[i].Participation = &participation
		}
	}
	return events, nil
}

// JoinEvent registers the student for an event. The event must exist and
// a second join for the same pair reports a conflict, leaving the
// existing row untouched.
func (s *participantService) JoinEvent(ctx context.Context, userID, eventID int) (*models.EventParticipant, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	participation := &models.EventParticipant{
		EventID: eventID,
		UserID:  userID,
	}
	if err := s.participantRepo.Create(ctx, participation); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantConflict):
			return nil, ErrParticipationConflict
		case errors.Is(err, repositories.ErrParticipantEventInvalid):
			return nil, ErrEventNotFound
		case errors.Is(err, repositories.ErrParticipantUserInvalid):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to join event: %w", err)
	}
	return participation, nil
}

func (s *participantService) WithdrawFromEvent(ctx context.Context, userID, eventID int) error {
	err := s.participantRepo.DeleteByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipationNotFound
		}
		return fmt.Errorf("failed to withdraw from event: %w", err)
	}
	return nil
}
