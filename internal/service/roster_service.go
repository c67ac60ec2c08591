package service

import (
	"context"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
)

// RosterService answers which students belong to a school class.
type RosterService struct {
	UserRepo *repository.UserRepository
}

func NewRosterService(userRepo *repository.UserRepository) *RosterService {
	return &RosterService{UserRepo: userRepo}
}

// Resolve returns every student of the class. An empty roster is not an error.
func (s *RosterService) Resolve(ctx context.Context, schoolID uint, className string) ([]model.User, error) {
	return s.UserRepo.FindStudentsByClass(ctx, schoolID, className)
}
