package service

import (
	"context"
	"errors"
	"strings"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
	"school_exam_backend/internal/util"
	"school_exam_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DirectoryService answers who is enrolled where: master admin overviews,
// school member listings and student profiles.
type DirectoryService struct {
	SchoolRepo *repository.SchoolRepository
	UserRepo   *repository.UserRepository
	Roster     *RosterService
}

func NewDirectoryService(schoolRepo *repository.SchoolRepository, userRepo *repository.UserRepository, roster *RosterService) *DirectoryService {
	return &DirectoryService{SchoolRepo: schoolRepo, UserRepo: userRepo, Roster: roster}
}

type DashboardSummary struct {
	TotalSchools int64 `json:"totalSchools"`
	TotalAdmins  int64 `json:"totalAdmins"`
}

func (s *DirectoryService) Dashboard(ctx context.Context, _ model.MasterAdmin) (*DashboardSummary, error) {
	schools, err := s.SchoolRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	admins, err := s.UserRepo.CountByRole(ctx, model.RoleSchoolAdmin)
	if err != nil {
		return nil, err
	}
	return &DashboardSummary{TotalSchools: schools, TotalAdmins: admins}, nil
}

func (s *DirectoryService) Schools(ctx context.Context, _ model.MasterAdmin) ([]model.School, error) {
	return s.SchoolRepo.FindAll(ctx)
}

// SchoolAdmins lists school admins across all schools, or of one school
// when schoolID is set.
func (s *DirectoryService) SchoolAdmins(ctx context.Context, _ model.MasterAdmin, schoolID *uint) ([]model.User, error) {
	return s.UserRepo.FindByRole(ctx, model.RoleSchoolAdmin, schoolID, "")
}

// Members lists the teachers or students of the admin's school. className
// only narrows students.
func (s *DirectoryService) Members(ctx context.Context, admin model.SchoolAdmin, schoolID uint, role model.UserRole, className string) ([]model.User, error) {
	if admin.SchoolID != schoolID {
		return nil, util.NewForbiddenError("Not authorized for this school")
	}
	switch role {
	case model.RoleStudent:
		return s.UserRepo.FindByRole(ctx, role, &schoolID, strings.TrimSpace(className))
	case model.RoleTeacher:
		return s.UserRepo.FindByRole(ctx, role, &schoolID, "")
	}
	return nil, util.NewValidationError("cannot list members with role %q", role)
}

// StudentsOfClass finds the class roster of the school behind subdomain.
// Staff may only look inside their own school.
func (s *DirectoryService) StudentsOfClass(ctx context.Context, staff model.Account, subdomain, className string) ([]model.User, error) {
	className = strings.TrimSpace(className)
	if className == "" {
		return nil, util.NewValidationError("className is required")
	}
	sub, err := model.NormalizeSubdomain(subdomain)
	if err != nil {
		return nil, util.NewValidationError("%s", err.Error())
	}

	school, err := s.SchoolRepo.FindBySubdomain(ctx, sub)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError(util.ErrSchoolNotFound, "School not found for the provided subdomain")
	}
	if err != nil {
		return nil, err
	}
	if own, ok := model.SchoolOf(staff); !ok || own != school.ID {
		return nil, util.NewForbiddenError("Not authorized for this school")
	}

	students, err := s.Roster.Resolve(ctx, school.ID, className)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []model.User{}
	}
	return students, nil
}

type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	DateOfBirth *string `json:"dateOfBirth"`
	ClassName   *string `json:"className"`
	Password    *string `json:"password"`
}

// UpdateStudentProfile applies the fields present in req. A student may edit
// their own contact details and password; a school admin may edit any student
// of the school, including name and class, but not the password.
func (s *DirectoryService) UpdateStudentProfile(ctx context.Context, editor model.Account, studentID uint, req UpdateProfileRequest) (*model.User, error) {
	var (
		schoolID uint
		isAdmin  bool
	)
	switch v := editor.(type) {
	case model.Student:
		if v.UserID != studentID {
			return nil, util.NewForbiddenError("Students can only update their own profile")
		}
		schoolID = v.SchoolID
	case model.SchoolAdmin:
		schoolID, isAdmin = v.SchoolID, true
	default:
		return nil, util.NewForbiddenError("Not authorized to update student profiles")
	}

	student, err := s.UserRepo.FindByID(ctx, studentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err != nil || student.Role != model.RoleStudent || student.SchoolID == nil || *student.SchoolID != schoolID {
		return nil, util.NewNotFoundError(util.ErrUserNotFound, "student %d not found", studentID)
	}

	if !isAdmin && (req.Name != nil || req.ClassName != nil) {
		return nil, util.NewForbiddenError("Only a school admin can change a student's name or class")
	}
	if isAdmin && req.Password != nil {
		return nil, util.NewForbiddenError("Only the student can change their password")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, util.NewValidationError("name cannot be empty")
		}
		student.Name = name
	}
	if req.ClassName != nil {
		class := strings.TrimSpace(*req.ClassName)
		if class == "" {
			return nil, util.NewValidationError("className cannot be empty")
		}
		student.ClassName = class
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone == "" {
			return nil, util.NewValidationError("phone cannot be empty")
		}
		student.Phone = phone
	}
	if req.Email != nil {
		student.Email = strings.TrimSpace(*req.Email)
	}
	if req.DateOfBirth != nil {
		dob, ok := util.ParseExamDate(*req.DateOfBirth)
		if !ok {
			return nil, util.NewValidationError("dateOfBirth must be DD-MM-YYYY")
		}
		student.DateOfBirth = &dob
	}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			return nil, util.NewValidationError("password must be at least 6 characters")
		}
		student.PlainPassword = *req.Password
	}

	if err := s.UserRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	logger.Log.Info("student profile updated",
		zap.Uint("student_id", student.ID),
		zap.String("by_role", string(editor.Role())))
	return student, nil
}
