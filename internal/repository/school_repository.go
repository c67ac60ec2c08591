package repository

import (
	"context"

	"school_exam_backend/internal/model"

	"gorm.io/gorm"
)

type SchoolRepository struct {
	DB *gorm.DB
}

func NewSchoolRepository(db *gorm.DB) *SchoolRepository {
	return &SchoolRepository{DB: db}
}

func (r *SchoolRepository) Create(ctx context.Context, school *model.School) error {
	return r.DB.WithContext(ctx).Create(school).Error
}

func (r *SchoolRepository) FindByID(ctx context.Context, id uint) (*model.School, error) {
	var school model.School
	err := r.DB.WithContext(ctx).First(&school, id).Error
	return &school, err
}

func (r *SchoolRepository) FindBySubdomain(ctx context.Context, subdomain string) (*model.School, error) {
	var school model.School
	err := r.DB.WithContext(ctx).Where("subdomain = ?", subdomain).First(&school).Error
	return &school, err
}

func (r *SchoolRepository) FindAll(ctx context.Context) ([]model.School, error) {
	schools := make([]model.School, 0)
	err := r.DB.WithContext(ctx).Order("name ASC, id ASC").Find(&schools).Error
	return schools, err
}

func (r *SchoolRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.School{}).Count(&count).Error
	return count, err
}
