package services

import (
	"context"
	"fmt"

	"github.com/campus-sports/intramural-portal/models"
	"github.com/campus-sports/intramural-portal/repositories"
)

type UserService interface {
	ListStudents(ctx context.Context) ([]models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListStudents(ctx context.Context) ([]models.User, error) {
	students, err := s.userRepo.ListStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	sanitizeUsers(students)
	return students, nil
}
