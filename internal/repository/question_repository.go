package repository

import (
	"context"
	"fmt"

	"school_exam_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// QuestionFilter narrows a question listing; empty fields are ignored.
type QuestionFilter struct {
	SchoolID   uint
	ClassName  string
	Subject    string
	Topic      string
	SubTopic   string
	Type       model.QuestionType
	Difficulty string
	Tags       []string
	Random     bool
	Limit      int
}

func (r *QuestionRepository) CreateBatch(ctx context.Context, questions []*model.Question) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, q := range questions {
			if err := tx.Create(q).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ExistingIDs returns which of ids belong to the school.
func (r *QuestionRepository) ExistingIDs(ctx context.Context, schoolID uint, ids []uint) ([]uint, error) {
	var found []uint
	if len(ids) == 0 {
		return found, nil
	}
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Where("school_id = ? AND id IN ?", schoolID, ids).
		Pluck("id", &found).Error
	return found, err
}

func (r *QuestionRepository) List(ctx context.Context, f QuestionFilter) ([]model.Question, error) {
	query := r.DB.WithContext(ctx).Model(&model.Question{}).Where("school_id = ?", f.SchoolID)

	if f.ClassName != "" {
		query = query.Where("class_name = ?", f.ClassName)
	}
	if f.Subject != "" {
		query = query.Where("subject = ?", f.Subject)
	}
	if f.Topic != "" {
		query = query.Where("topic = ?", f.Topic)
	}
	if f.SubTopic != "" {
		query = query.Where("sub_topic = ?", f.SubTopic)
	}
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.Difficulty != "" {
		query = query.Where("difficulty = ?", f.Difficulty)
	}
	if len(f.Tags) > 0 {
		// tags are stored as a JSON array; match any of the quoted values
		cond := r.DB.Where("1 = 0")
		for _, tag := range f.Tags {
			cond = cond.Or("tags LIKE ?", fmt.Sprintf("%%%q%%", tag))
		}
		query = query.Where(cond)
	}

	if f.Random {
		if r.DB.Dialector.Name() == "mysql" {
			query = query.Order("RAND()")
		} else {
			query = query.Order("RANDOM()")
		}
		if f.Limit <= 0 {
			f.Limit = 10
		}
	} else {
		query = query.Order("id ASC")
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	var questions []model.Question
	err := query.Find(&questions).Error
	return questions, err
}
