package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campus-sports/intramural-portal/models"
	"github.com/campus-sports/intramural-portal/repositories"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardLatestPosts  = 10
	dashboardRecentEvents = 5
	studentUpcomingEvents = 10
)

type DashboardService interface {
	AdminDashboard(ctx context.Context) (*models.AdminDashboard, error)
	StudentDashboard(ctx context.Context, userID int) (*models.StudentDashboard, error)
}

type dashboardService struct {
	userRepo  repositories.UserRepository
	teamRepo  repositories.TeamRepository
	eventRepo repositories.EventRepository
	postRepo  repositories.PostRepository
	now       func() time.Time
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	eventRepo repositories.EventRepository,
	postRepo repositories.PostRepository,
) DashboardService {
	return &dashboardService{
		userRepo:  userRepo,
		teamRepo:  teamRepo,
		eventRepo: eventRepo,
		postRepo:  postRepo,
		now:       time.Now,
	}
}

// AdminDashboard gathers the aggregate counts and recent activity lists.
// The independent queries run concurrently; the first failure cancels the
// rest.
func (s *dashboardService) AdminDashboard(ctx context.Context) (*models.AdminDashboard, error) {
	dashboard := &models.AdminDashboard{}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.userRepo.CountByRole(gCtx, models.RoleStudent)
		dashboard.Stats.TotalStudents = count
		return err
	})
	g.Go(func() error {
		count, err := s.teamRepo.Count(gCtx)
		dashboard.Stats.TotalTeams = count
		return err
	})
	g.Go(func() error {
		count, err := s.eventRepo.Count(gCtx)
		dashboard.Stats.TotalEvents = count
		return err
	})
	g.Go(func() error {
		count, err := s.postRepo.Count(gCtx)
		dashboard.Stats.TotalPosts = count
		return err
	})
	g.Go(func() error {
		posts, err := s.postRepo.List(gCtx, repositories.ListPostsFilter{Limit: dashboardLatestPosts})
		if err != nil {
			return err
		}
		sanitizePosts(posts)
		dashboard.LatestPosts = posts
		return nil
	})
	g.Go(func() error {
		events, err := s.eventRepo.List(gCtx, repositories.ListEventsFilter{Limit: dashboardRecentEvents})
		if err != nil {
			return err
		}
		sanitizeEvents(events)
		dashboard.RecentEvents = events
		return nil
	})
	g.Go(func() error {
		distribution, err := s.teamRepo.MemberCounts(gCtx)
		dashboard.TeamDistribution = distribution
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build admin dashboard: %w", err)
	}
	return dashboard, nil
}

// StudentDashboard assembles the student's profile, the latest feed
// entries, upcoming events, and teammates.
func (s *dashboardService) StudentDashboard(ctx context.Context, userID int) (*models.StudentDashboard, error) {
	student, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	sanitizeUser(student)

	dashboard := &models.StudentDashboard{
		Student:     student,
		TeamMembers: []models.User{},
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		posts, err := s.postRepo.List(gCtx, repositories.ListPostsFilter{Limit: feedPageSize})
		if err != nil {
			return err
		}
		sanitizePosts(posts)
		dashboard.Posts = posts
		return nil
	})
	g.Go(func() error {
		from := s.now()
		events, err := s.eventRepo.List(gCtx, repositories.ListEventsFilter{
			UpcomingFrom: &from,
			Limit:        studentUpcomingEvents,
		})
		if err != nil {
			return err
		}
		sanitizeEvents(events)
		dashboard.Events = events
		return nil
	})
	if student.TeamID != nil {
		teamID := *student.TeamID
		g.Go(func() error {
			members, err := s.userRepo.ListByTeamID(gCtx, teamID)
			if err != nil {
				return err
			}
			teammates := make([]models.User, 0, len(members))
			for _, m := range members {
				if m.ID == userID {
					continue
				}
				m.PasswordHash = ""
				teammates = append(teammates, m)
			}
			dashboard.TeamMembers = teammates
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build student dashboard: %w", err)
	}
	return dashboard, nil
}
