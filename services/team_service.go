package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-sports/intramural-portal/models"
	"github.com/campus-sports/intramural-portal/repositories"
)

type CreateTeamInput struct {
	Name       string  `json:"name"`
	Sport      string  `json:"sport"`
	Department *string `json:"department"`
	CaptainID  *int    `json:"captain_id"`

	CreatorID int `json:"-"`
}

// UpdateTeamInput carries partial updates. CaptainID semantics follow the
// portal UI: nil leaves assignments alone, a positive id assigns that user
// to the team, zero clears every member's assignment.
type UpdateTeamInput struct {
	ID         int     `json:"id"`
	Name       *string `json:"name"`
	Sport      *string `json:"sport"`
	Department *string `json:"department"`
	CaptainID  *int    `json:"captain_id"`
}

type TeamService interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	UpdateTeam(ctx context.Context, input UpdateTeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error
}

type teamService struct {
	txRunner repositories.TxRunner
	teamRepo repositories.TeamRepository
	userRepo repositories.UserRepository
}

func NewTeamService(txRunner repositories.TxRunner, teamRepo repositories.TeamRepository, userRepo repositories.UserRepository) TeamService {
	return &teamService{
		txRunner: txRunner,
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

func (s *teamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	for i := range teams {
		members, err := s.userRepo.ListByTeamID(ctx, teams[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load team members: %w", err)
		}
		sanitizeUsers(members)
		teams[i].Members = members
	}
	return teams, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	members, err := s.userRepo.ListByTeamID(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team members: %w", err)
	}
	sanitizeUsers(members)
	team.Members = members
	team.MemberCount = len(members)
	return team, nil
}

// CreateTeam inserts the team and, when a captain is named, assigns that
// user's team reference. Both writes share one transaction so a failed
// captain assignment leaves no half-created team behind.
func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	team := &models.Team{
		Name:       input.Name,
		Sport:      input.Sport,
		Department: input.Department,
		CreatedBy:  input.CreatorID,
	}

	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
		if input.CaptainID != nil {
			if err := s.userRepo.AssignTeam(ctx, exec, *input.CaptainID, &team.ID); err != nil {
				return mapAssignTeamError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	team.Members = []models.User{}
	return team, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	if input.Name != nil {
		team.Name = *input.Name
	}
	if input.Sport != nil {
		team.Sport = *input.Sport
	}
	if input.Department != nil {
		team.Department = input.Department
	}

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.Update(ctx, exec, team); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to update team: %w", err)
		}

		if input.CaptainID != nil {
			if *input.CaptainID > 0 {
				if err := s.userRepo.AssignTeam(ctx, exec, *input.CaptainID, &team.ID); err != nil {
					return mapAssignTeamError(err)
				}
			} else {
				if err := s.userRepo.ClearTeamMembers(ctx, exec, team.ID); err != nil {
					return fmt.Errorf("failed to clear team members: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// DeleteTeam clears every member's team reference and then removes the
// team row, in that order, inside one transaction. No user may ever
// reference a nonexistent team.
func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	return s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.userRepo.ClearTeamMembers(ctx, exec, id); err != nil {
			return fmt.Errorf("failed to clear team members: %w", err)
		}
		if err := s.teamRepo.Delete(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to delete team: %w", err)
		}
		return nil
	})
}

func mapAssignTeamError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrUserTeamInvalid):
		return ErrInvalidReference
	default:
		return fmt.Errorf("failed to assign captain: %w", err)
	}
}
