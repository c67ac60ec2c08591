package repository

import (
	"context"
	"time"

	"school_exam_backend/internal/model"

	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

func (r *ReportRepository) CreateSpeech(ctx context.Context, report *model.SpeechReport) error {
	return r.DB.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) FindSpeech(ctx context.Context, id uint) (*model.SpeechReport, error) {
	var report model.SpeechReport
	err := r.DB.WithContext(ctx).First(&report, id).Error
	return &report, err
}

func (r *ReportRepository) ListSpeechByStudent(ctx context.Context, studentID uint) ([]model.SpeechReport, error) {
	reports := make([]model.SpeechReport, 0)
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("report_date DESC, id DESC").
		Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) CreatePersonality(ctx context.Context, report *model.PersonalityReport) error {
	return r.DB.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) FindPersonality(ctx context.Context, id uint) (*model.PersonalityReport, error) {
	var report model.PersonalityReport
	err := r.DB.WithContext(ctx).First(&report, id).Error
	return &report, err
}

func (r *ReportRepository) ListPersonalityByStudent(ctx context.Context, studentID uint) ([]model.PersonalityReport, error) {
	reports := make([]model.PersonalityReport, 0)
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC, id DESC").
		Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) ExternalIDExists(ctx context.Context, externalID string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.PersonalityReport{}).
		Where("external_id = ?", externalID).
		Count(&count).Error
	return count > 0, err
}

// MarkGenerated records the artifact only if no other request got there
// first. table is a pointer to the report model, e.g. &model.SpeechReport{}.
func (r *ReportRepository) MarkGenerated(ctx context.Context, table interface{}, id uint, url, path string) (bool, error) {
	now := time.Now()
	res := r.DB.WithContext(ctx).Model(table).
		Where("id = ? AND report_generated = ?", id, false).
		Updates(map[string]interface{}{
			"report_generated": true,
			"report_url":       url,
			"report_path":      path,
			"generated_at":     now,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *ReportRepository) MarkSent(ctx context.Context, table interface{}, id uint) error {
	return r.DB.WithContext(ctx).Model(table).
		Where("id = ?", id).
		Update("report_sent", true).Error
}
