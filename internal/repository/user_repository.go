package repository

import (
	"context"

	"school_exam_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

// CreateBatch inserts all users or none.
func (r *UserRepository) CreateBatch(ctx context.Context, users []*model.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range users {
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return &user, err
}

// FindStudentsByClass returns the whole roster of a class, ordered by name.
func (r *UserRepository) FindStudentsByClass(ctx context.Context, schoolID uint, className string) ([]model.User, error) {
	var students []model.User
	err := r.DB.WithContext(ctx).
		Where("school_id = ? AND role = ? AND class_name = ?", schoolID, model.RoleStudent, className).
		Order("name ASC, id ASC").
		Find(&students).Error
	return students, err
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// ExistingUsernames returns the subset of names already taken.
func (r *UserRepository) ExistingUsernames(ctx context.Context, names []string) ([]string, error) {
	var taken []string
	if len(names) == 0 {
		return taken, nil
	}
	err := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("username IN ?", names).
		Pluck("username", &taken).Error
	return taken, err
}

// FindBySchoolNamePhone returns users of a school matching any name/phone pair.
func (r *UserRepository) FindBySchoolNamePhone(ctx context.Context, schoolID uint, pairs [][2]string) ([]model.User, error) {
	var users []model.User
	if len(pairs) == 0 {
		return users, nil
	}

	cond := r.DB.Where("1 = 0")
	for _, p := range pairs {
		cond = cond.Or("name = ? AND phone = ?", p[0], p[1])
	}
	err := r.DB.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Where(cond).
		Find(&users).Error
	return users, err
}

// Update saves every column; a set PlainPassword is re-hashed by the model hook.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Save(user).Error
}

func (r *UserRepository) CountByRole(ctx context.Context, role model.UserRole) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// FindByRole lists users of a role, optionally limited to one school and,
// for students, one class.
func (r *UserRepository) FindByRole(ctx context.Context, role model.UserRole, schoolID *uint, className string) ([]model.User, error) {
	users := make([]model.User, 0)
	query := r.DB.WithContext(ctx).Where("role = ?", role)
	if schoolID != nil {
		query = query.Where("school_id = ?", *schoolID)
	}
	if className != "" {
		query = query.Where("class_name = ?", className)
	}
	err := query.Order("name ASC, id ASC").Find(&users).Error
	return users, err
}
