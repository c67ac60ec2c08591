package service

import (
	"context"
	"errors"
	"strings"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
	"school_exam_backend/internal/util"
)

type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

type QuestionInput struct {
	QuestionText   string                `json:"questionText"`
	QuestionType   model.QuestionType    `json:"questionType"`
	ClassName      string                `json:"className"`
	Subject        string                `json:"subject"`
	Topic          string                `json:"topic"`
	SubTopic       string                `json:"subTopic"`
	Difficulty     string                `json:"difficulty"`
	Options        []string              `json:"options"`
	MatchingPairs  []model.MatchingPair  `json:"matchingPairs"`
	CodingQuestion *model.CodingQuestion `json:"codingQuestion"`
	CorrectAnswer  string                `json:"correctAnswer"`
	Explanation    string                `json:"explanation"`
	Tags           []string              `json:"tags"`
}

type AddQuestionsRequest struct {
	Questions []QuestionInput `json:"questions"`
}

// QuestionQuery is the listing filter accepted over HTTP.
type QuestionQuery struct {
	ClassName  string `form:"class"`
	Subject    string `form:"subject"`
	Topic      string `form:"topic"`
	SubTopic   string `form:"subTopic"`
	Type       string `form:"questionType"`
	Difficulty string `form:"difficulty"`
	Tags       string `form:"tags"`
	Random     bool   `form:"random"`
	Limit      int    `form:"limit"`
}

var difficulties = map[string]bool{"": true, "Easy": true, "Medium": true, "Hard": true}

func (s *QuestionService) AddQuestions(ctx context.Context, author model.Account, inputs []QuestionInput) ([]*model.Question, error) {
	schoolID, ok := model.SchoolOf(author)
	if !ok {
		return nil, util.NewForbiddenError("only school staff can add questions")
	}
	if len(inputs) == 0 {
		return nil, util.NewValidationError("no questions supplied")
	}

	questions := make([]*model.Question, 0, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Topic) == "" {
			return nil, util.NewValidationError("subject and topic are required for question: %s", in.QuestionText)
		}
		if !difficulties[in.Difficulty] {
			return nil, util.NewValidationError("difficulty must be Easy, Medium or Hard for question: %s", in.QuestionText)
		}
		difficulty := in.Difficulty
		if difficulty == "" {
			difficulty = "Easy"
		}

		q := &model.Question{
			SchoolID:      schoolID,
			QuestionText:  strings.TrimSpace(in.QuestionText),
			Type:          in.QuestionType,
			ClassName:     strings.TrimSpace(in.ClassName),
			Subject:       strings.TrimSpace(in.Subject),
			Topic:         strings.TrimSpace(in.Topic),
			SubTopic:      strings.TrimSpace(in.SubTopic),
			Difficulty:    difficulty,
			Options:       in.Options,
			MatchingPairs: in.MatchingPairs,
			Coding:        in.CodingQuestion,
			CorrectAnswer: in.CorrectAnswer,
			Explanation:   in.Explanation,
			Tags:          in.Tags,
			CreatedByID:   author.Who().UserID,
		}
		if err := q.Validate(); err != nil {
			return nil, util.NewValidationError("%s", err.Error())
		}
		questions = append(questions, q)
	}

	if err := s.Repo.CreateBatch(ctx, questions); err != nil {
		if errors.Is(err, model.ErrInvalidQuestion) {
			return nil, util.NewValidationError("%s", err.Error())
		}
		return nil, err
	}
	return questions, nil
}

func (s *QuestionService) ListQuestions(ctx context.Context, viewer model.Account, q QuestionQuery) ([]model.Question, error) {
	schoolID, ok := model.SchoolOf(viewer)
	if !ok {
		return nil, util.NewForbiddenError("only school staff can list questions")
	}
	if q.Type != "" && !model.QuestionType(q.Type).Valid() {
		return nil, util.NewValidationError("unknown question type %q", q.Type)
	}
	if q.Limit < 0 {
		return nil, util.NewValidationError("limit must not be negative")
	}

	filter := repository.QuestionFilter{
		SchoolID:   schoolID,
		ClassName:  q.ClassName,
		Subject:    q.Subject,
		Topic:      q.Topic,
		SubTopic:   q.SubTopic,
		Type:       model.QuestionType(q.Type),
		Difficulty: q.Difficulty,
		Random:     q.Random,
		Limit:      q.Limit,
	}
	if q.Tags != "" {
		for _, t := range strings.Split(q.Tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter.Tags = append(filter.Tags, t)
			}
		}
	}
	return s.Repo.List(ctx, filter)
}
