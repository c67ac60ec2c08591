package repository

import (
	"context"

	"school_exam_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionnaireRepository struct {
	DB *gorm.DB
}

func NewQuestionnaireRepository(db *gorm.DB) *QuestionnaireRepository {
	return &QuestionnaireRepository{DB: db}
}

func (r *QuestionnaireRepository) CreateTest(ctx context.Context, test *model.PersonalityTest) error {
	return r.DB.WithContext(ctx).Create(test).Error
}

func (r *QuestionnaireRepository) TitleExists(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.PersonalityTest{}).
		Where("title = ?", title).
		Count(&count).Error
	return count > 0, err
}

// FindCurrentTest returns the oldest test; there is normally only one.
func (r *QuestionnaireRepository) FindCurrentTest(ctx context.Context) (*model.PersonalityTest, error) {
	var test model.PersonalityTest
	err := r.DB.WithContext(ctx).Order("id ASC").First(&test).Error
	return &test, err
}

func (r *QuestionnaireRepository) FindTest(ctx context.Context, id uint) (*model.PersonalityTest, error) {
	var test model.PersonalityTest
	err := r.DB.WithContext(ctx).First(&test, id).Error
	return &test, err
}

func (r *QuestionnaireRepository) CreateResponse(ctx context.Context, resp *model.PersonalityTestResponse) error {
	return r.DB.WithContext(ctx).Create(resp).Error
}

// ListResponses returns a student's submissions, newest first, with the
// student and a summary of the test attached.
func (r *QuestionnaireRepository) ListResponses(ctx context.Context, studentID uint) ([]model.PersonalityTestResponse, error) {
	responses := make([]model.PersonalityTestResponse, 0)
	err := r.DB.WithContext(ctx).
		Preload("Student").
		Preload("Test", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "created_at", "updated_at", "title", "description")
		}).
		Where("student_id = ?", studentID).
		Order("created_at DESC, id DESC").
		Find(&responses).Error
	return responses, err
}

// LatestResponse is the student's most recent submission, optionally for one test.
func (r *QuestionnaireRepository) LatestResponse(ctx context.Context, studentID uint, testID *uint) (*model.PersonalityTestResponse, error) {
	var resp model.PersonalityTestResponse
	query := r.DB.WithContext(ctx).Where("student_id = ?", studentID)
	if testID != nil {
		query = query.Where("test_id = ?", *testID)
	}
	err := query.Order("created_at DESC, id DESC").First(&resp).Error
	return &resp, err
}
