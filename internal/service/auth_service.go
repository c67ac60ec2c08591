package service

import (
	"context"
	"errors"

	"school_exam_backend/internal/config"
	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
	"school_exam_backend/internal/util"
	"school_exam_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo   *repository.UserRepository
	SchoolRepo *repository.SchoolRepository
	Cfg        *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, schoolRepo *repository.SchoolRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:   userRepo,
		SchoolRepo: schoolRepo,
		Cfg:        cfg,
	}
}

type LoginRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Subdomain string `json:"subdomain"`
}

type LoginResponse struct {
	Token  string        `json:"token"`
	User   *model.User   `json:"user"`
	School *model.School `json:"school,omitempty"`
}

// Login authenticates a user. School-bound accounts must log in through
// their own school's subdomain; master admins log in without one.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var school *model.School
	if req.Subdomain != "" {
		sub, err := model.NormalizeSubdomain(req.Subdomain)
		if err != nil {
			return nil, util.NewValidationError("%s", err.Error())
		}
		school, err = s.SchoolRepo.FindBySubdomain(ctx, sub)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewNotFoundError(util.ErrSchoolNotFound, "School not found for the provided subdomain")
		}
		if err != nil {
			return nil, err
		}
	}

	user, err := s.UserRepo.FindByUsername(ctx, req.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewUnauthorizedError("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, util.NewUnauthorizedError("Invalid credentials")
	}

	account, err := model.AccountFromUser(user)
	if err != nil {
		logger.Log.Warn("login rejected for malformed account", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, util.NewUnauthorizedError("Invalid credentials")
	}

	tenant, bound := model.SchoolOf(account)
	switch {
	case bound && school == nil:
		return nil, util.NewValidationError("school subdomain is required")
	case bound && school.ID != tenant:
		return nil, util.NewUnauthorizedError("Invalid credentials or user does not belong to this school")
	case !bound && school != nil:
		return nil, util.NewUnauthorizedError("Invalid credentials or user does not belong to this school")
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("user logged in",
		zap.Uint("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return &LoginResponse{Token: token, User: user, School: school}, nil
}
