package repository

import (
	"context"
	"errors"
	"time"

	"school_exam_backend/internal/model"

	"gorm.io/gorm"
)

// ErrStaleVersion is returned when a guarded write finds a newer paper version.
var ErrStaleVersion = errors.New("stale paper version")

type PaperRepository struct {
	DB *gorm.DB
}

func NewPaperRepository(db *gorm.DB) *PaperRepository {
	return &PaperRepository{DB: db}
}

// PaperFilter selects a teacher's papers. From/To bound dateOfExam as [From, To).
type PaperFilter struct {
	CreatorID uint
	ClassName string
	Subject   string
	From      *time.Time
	To        *time.Time
}

// MarksPatch is one result row to overwrite.
type MarksPatch struct {
	StudentID uint
	Marks     *float64
	Remarks   *string
}

func (r *PaperRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Questions", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Preload("Results", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") })
}

// Create writes the paper and its result snapshot in one transaction.
func (r *PaperRepository) Create(ctx context.Context, paper *model.Paper) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		results := paper.Results
		paper.Results = nil
		if err := tx.Omit("Questions", "Results").Create(paper).Error; err != nil {
			return err
		}
		for i := range results {
			results[i].PaperID = paper.ID
		}
		if len(results) > 0 {
			if err := tx.Create(&results).Error; err != nil {
				return err
			}
		}
		paper.Results = results
		return nil
	})
}

func (r *PaperRepository) FindByID(ctx context.Context, id uint) (*model.Paper, error) {
	var paper model.Paper
	err := r.withRelations(r.DB.WithContext(ctx)).First(&paper, id).Error
	if err != nil {
		return nil, err
	}
	paper.SyncQuestionIDs()
	return &paper, nil
}

func (r *PaperRepository) List(ctx context.Context, f PaperFilter) ([]model.Paper, error) {
	query := r.DB.WithContext(ctx).Where("created_by_id = ?", f.CreatorID)

	if f.ClassName != "" {
		query = query.Where("LOWER(class_name) = LOWER(?)", f.ClassName)
	}
	if f.Subject != "" {
		query = query.Where("LOWER(subject) = LOWER(?)", f.Subject)
	}
	if f.From != nil {
		query = query.Where("date_of_exam >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("date_of_exam < ?", *f.To)
	}

	var papers []model.Paper
	if err := r.withRelations(query).Order("date_of_exam DESC, id DESC").Find(&papers).Error; err != nil {
		return nil, err
	}
	for i := range papers {
		papers[i].SyncQuestionIDs()
	}
	return papers, nil
}

// ListForStudent returns papers whose snapshot contains the student, with
// only that student's result row loaded.
func (r *PaperRepository) ListForStudent(ctx context.Context, studentID uint) ([]model.Paper, error) {
	var papers []model.Paper
	sub := r.DB.Model(&model.PaperResult{}).Select("paper_id").Where("student_id = ?", studentID)
	err := r.DB.WithContext(ctx).
		Where("id IN (?)", sub).
		Preload("Results", "student_id = ?", studentID).
		Order("date_of_exam DESC, id DESC").
		Find(&papers).Error
	return papers, err
}

// SetQuestions replaces the ordered question list of a paper.
func (r *PaperRepository) SetQuestions(ctx context.Context, paperID uint, questionIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("paper_id = ?", paperID).Delete(&model.PaperQuestion{}).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			rows := make([]model.PaperQuestion, len(questionIDs))
			for i, id := range questionIDs {
				rows[i] = model.PaperQuestion{PaperID: paperID, QuestionID: id, Position: i}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Paper{}).Where("id = ?", paperID).Update("updated_at", time.Now()).Error
	})
}

// ApplyMarks patches result rows and bumps the paper version, provided the
// stored version still equals version.
func (r *PaperRepository) ApplyMarks(ctx context.Context, paperID uint, version int, patches []MarksPatch) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Paper{}).
			Where("id = ? AND version = ?", paperID, version).
			Updates(map[string]interface{}{
				"version":    gorm.Expr("version + 1"),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleVersion
		}

		for _, p := range patches {
			var marks interface{}
			if p.Marks != nil {
				marks = *p.Marks
			}
			fields := map[string]interface{}{"marks_obtained": marks}
			if p.Remarks != nil {
				fields["remarks"] = *p.Remarks
			}
			if err := tx.Model(&model.PaperResult{}).
				Where("paper_id = ? AND student_id = ?", paperID, p.StudentID).
				Updates(fields).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
