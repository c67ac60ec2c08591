package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
	"school_exam_backend/internal/util"
	"school_exam_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SchoolService struct {
	SchoolRepo *repository.SchoolRepository
	UserRepo   *repository.UserRepository
}

func NewSchoolService(schoolRepo *repository.SchoolRepository, userRepo *repository.UserRepository) *SchoolService {
	return &SchoolService{SchoolRepo: schoolRepo, UserRepo: userRepo}
}

type CreateSchoolRequest struct {
	Name          string `json:"name" binding:"required"`
	Subdomain     string `json:"subdomain" binding:"required"`
	Logo          string `json:"logo"`
	Address       string `json:"address"`
	PrincipalName string `json:"principalName"`
	PhoneNumber   string `json:"phoneNumber"`
}

func (s *SchoolService) CreateSchool(ctx context.Context, admin model.MasterAdmin, req CreateSchoolRequest) (*model.School, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, util.NewValidationError("school name is required")
	}
	sub, err := model.NormalizeSubdomain(req.Subdomain)
	if err != nil {
		return nil, util.NewValidationError("%s", err.Error())
	}

	_, err = s.SchoolRepo.FindBySubdomain(ctx, sub)
	if err == nil {
		return nil, util.NewConflictError(nil, "subdomain %q is already taken", sub)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	school := &model.School{
		Name:          strings.TrimSpace(req.Name),
		Subdomain:     sub,
		Logo:          req.Logo,
		Address:       req.Address,
		PrincipalName: req.PrincipalName,
		PhoneNumber:   req.PhoneNumber,
		CreatedBy:     model.CreatedByOf(admin),
	}
	if err := s.SchoolRepo.Create(ctx, school); err != nil {
		return nil, err
	}

	logger.Log.Info("school created", zap.Uint("school_id", school.ID), zap.String("subdomain", sub))
	return school, nil
}

func (s *SchoolService) ResolveSchool(ctx context.Context, subdomain string) (*model.School, error) {
	sub, err := model.NormalizeSubdomain(subdomain)
	if err != nil {
		return nil, util.NewValidationError("%s", err.Error())
	}
	school, err := s.SchoolRepo.FindBySubdomain(ctx, sub)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError(util.ErrSchoolNotFound, "School not found for the provided subdomain")
	}
	return school, err
}

type CreateSchoolAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email"`
}

func (s *SchoolService) CreateSchoolAdmin(ctx context.Context, admin model.MasterAdmin, schoolID uint, req CreateSchoolAdminRequest) (*model.User, error) {
	if _, err := s.SchoolRepo.FindByID(ctx, schoolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewNotFoundError(util.ErrSchoolNotFound, "school %d not found", schoolID)
		}
		return nil, err
	}

	taken, err := s.UserRepo.ExistingUsernames(ctx, []string{req.Username})
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, util.NewConflictError(nil, "username %q is already taken", req.Username)
	}

	user := &model.User{
		Name:          req.Name,
		Username:      req.Username,
		PlainPassword: req.Password,
		Role:          model.RoleSchoolAdmin,
		SchoolID:      &schoolID,
		Phone:         req.Phone,
		Email:         req.Email,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.Info("school admin created",
		zap.Uint("school_id", schoolID),
		zap.Uint("user_id", user.ID),
		zap.Uint("by", admin.UserID))
	return user, nil
}

type NewUserRequest struct {
	Name        string         `json:"name"`
	Username    string         `json:"username"`
	Password    string         `json:"password"`
	Role        model.UserRole `json:"role"`
	Phone       string         `json:"phone"`
	Email       string         `json:"email"`
	ClassName   string         `json:"className"`
	DateOfBirth string         `json:"dateOfBirth"`
}

type AddUsersRequest struct {
	Users          []NewUserRequest `json:"users"`
	SkipDuplicates bool             `json:"skipDuplicates"`
}

type AddUsersResult struct {
	Created []*model.User    `json:"createdUsers"`
	Skipped []NewUserRequest `json:"skippedDuplicates"`
}

// AddUsers enrolls teachers and students into the admin's school. Entries
// that match an existing name and phone are duplicates; they fail the whole
// request unless SkipDuplicates is set.
func (s *SchoolService) AddUsers(ctx context.Context, admin model.SchoolAdmin, schoolID uint, req AddUsersRequest) (*AddUsersResult, error) {
	if admin.SchoolID != schoolID {
		return nil, util.NewForbiddenError("Not authorized for this school")
	}
	if len(req.Users) == 0 {
		return nil, util.NewValidationError("no users supplied")
	}

	users := make([]*model.User, 0, len(req.Users))
	for i := range req.Users {
		u, err := buildUser(&req.Users[i], schoolID)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	pairs := make([][2]string, len(users))
	for i, u := range users {
		pairs[i] = [2]string{u.Name, u.Phone}
	}
	dups, err := s.UserRepo.FindBySchoolNamePhone(ctx, schoolID, pairs)
	if err != nil {
		return nil, err
	}

	result := &AddUsersResult{}
	if len(dups) > 0 {
		if !req.SkipDuplicates {
			names := make([]string, len(dups))
			for i, d := range dups {
				names[i] = d.Name
			}
			return nil, util.NewConflictError(nil,
				"duplicate entries found for: %s; set skipDuplicates to skip them", strings.Join(names, ", "))
		}
		existing := make(map[[2]string]bool, len(dups))
		for _, d := range dups {
			existing[[2]string{d.Name, d.Phone}] = true
		}
		kept := users[:0]
		for i, u := range users {
			if existing[[2]string{u.Name, u.Phone}] {
				result.Skipped = append(result.Skipped, req.Users[i])
				continue
			}
			kept = append(kept, u)
		}
		users = kept
	}

	if len(users) == 0 {
		result.Created = []*model.User{}
		return result, nil
	}

	if err := s.assignUsernames(ctx, users); err != nil {
		return nil, err
	}
	if err := s.UserRepo.CreateBatch(ctx, users); err != nil {
		return nil, err
	}

	logger.Log.Info("users enrolled",
		zap.Uint("school_id", schoolID),
		zap.Int("created", len(users)),
		zap.Int("skipped", len(result.Skipped)))
	result.Created = users
	return result, nil
}

func buildUser(in *NewUserRequest, schoolID uint) (*model.User, error) {
	if in.Role != model.RoleTeacher && in.Role != model.RoleStudent {
		return nil, util.NewValidationError("invalid role %q for user %s", in.Role, in.Name)
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, util.NewValidationError("both phone and name are required for user %s", in.Username)
	}
	if in.Role == model.RoleStudent && strings.TrimSpace(in.ClassName) == "" {
		return nil, util.NewValidationError("className is required for student %s", in.Name)
	}

	user := &model.User{
		Name:          strings.TrimSpace(in.Name),
		Username:      strings.TrimSpace(in.Username),
		PlainPassword: in.Password,
		Role:          in.Role,
		SchoolID:      &schoolID,
		Phone:         strings.TrimSpace(in.Phone),
		Email:         in.Email,
	}
	if in.Role == model.RoleStudent {
		user.ClassName = strings.TrimSpace(in.ClassName)
	}

	if in.DateOfBirth != "" {
		dob, ok := util.ParseExamDate(in.DateOfBirth)
		if !ok {
			return nil, util.NewValidationError("dateOfBirth for %s must be DD-MM-YYYY", in.Name)
		}
		user.DateOfBirth = &dob
	}

	if user.PlainPassword == "" {
		if user.DateOfBirth == nil {
			return nil, util.NewValidationError("password or dateOfBirth is required for user %s", in.Name)
		}
		user.PlainPassword = user.DateOfBirth.Format("02012006")
	}
	if user.Username == "" && user.DateOfBirth == nil {
		return nil, util.NewValidationError("username or dateOfBirth is required for user %s", in.Name)
	}
	return user, nil
}

// assignUsernames fills blank usernames as <first name><DDMM>, adding a
// numeric suffix until the name is free, and rejects explicit ones that are taken.
func (s *SchoolService) assignUsernames(ctx context.Context, users []*model.User) error {
	var explicit []string
	seen := map[string]bool{}
	for _, u := range users {
		if u.Username == "" {
			continue
		}
		if seen[u.Username] {
			return util.NewValidationError("username %q appears more than once", u.Username)
		}
		seen[u.Username] = true
		explicit = append(explicit, u.Username)
	}
	taken, err := s.UserRepo.ExistingUsernames(ctx, explicit)
	if err != nil {
		return err
	}
	if len(taken) > 0 {
		return util.NewConflictError(nil, "usernames already taken: %s", strings.Join(taken, ", "))
	}

	for _, u := range users {
		if u.Username != "" {
			continue
		}
		base := usernameBase(u.Name) + u.DateOfBirth.Format("0201")
		for n := 0; ; n++ {
			candidate := base
			if n > 0 {
				candidate = fmt.Sprintf("%s%d", base, n)
			}
			if seen[candidate] {
				continue
			}
			found, err := s.UserRepo.ExistingUsernames(ctx, []string{candidate})
			if err != nil {
				return err
			}
			if len(found) == 0 {
				u.Username = candidate
				seen[candidate] = true
				break
			}
		}
	}
	return nil
}

func usernameBase(name string) string {
	first := strings.Fields(strings.ToLower(name))
	if len(first) == 0 {
		return "user"
	}
	var b strings.Builder
	for _, r := range first[0] {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
