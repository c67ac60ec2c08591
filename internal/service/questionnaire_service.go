package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
	"school_exam_backend/internal/util"
	"school_exam_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuestionnaireService runs the student personality test: publishing the
// standard test, taking submissions and reporting results.
type QuestionnaireService struct {
	Repo     *repository.QuestionnaireRepository
	UserRepo *repository.UserRepository

	now func() time.Time
}

func NewQuestionnaireService(repo *repository.QuestionnaireRepository, userRepo *repository.UserRepository) *QuestionnaireService {
	return &QuestionnaireService{Repo: repo, UserRepo: userRepo, now: time.Now}
}

func (s *QuestionnaireService) CreateStandardTest(ctx context.Context, admin model.MasterAdmin) (*model.PersonalityTest, error) {
	exists, err := s.Repo.TitleExists(ctx, standardTestTitle)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.NewConflictError(nil, "Personality test already exists")
	}

	test := standardPersonalityTest()
	if err := s.Repo.CreateTest(ctx, test); err != nil {
		return nil, err
	}
	logger.Log.Info("personality test created", zap.Uint("test_id", test.ID), zap.Uint("by", admin.UserID))
	return test, nil
}

func (s *QuestionnaireService) CurrentTest(ctx context.Context) (*model.PersonalityTest, error) {
	test, err := s.Repo.FindCurrentTest(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError(util.ErrTestNotFound, "Personality test not found")
	}
	return test, err
}

type TestAnswerInput struct {
	QuestionLabel string `json:"questionLabel"`
	Answer        string `json:"answer"`
}

type SubmitTestRequest struct {
	TestID    uint              `json:"testId" binding:"required"`
	StudentID uint              `json:"studentId"`
	Responses []TestAnswerInput `json:"responses"`
}

// Submit records one complete set of answers. Every question must be
// answered exactly once, and a student may not resubmit the same test
// within model.RetestInterval.
func (s *QuestionnaireService) Submit(ctx context.Context, viewer model.Account, req SubmitTestRequest) (*model.PersonalityTestResponse, error) {
	if len(req.Responses) == 0 {
		return nil, util.NewValidationError("responses are required")
	}
	studentID, err := s.resolveStudent(ctx, viewer, req.StudentID)
	if err != nil {
		return nil, err
	}

	test, err := s.Repo.FindTest(ctx, req.TestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError(util.ErrTestNotFound, "Personality test not found")
	}
	if err != nil {
		return nil, err
	}

	answers, total, err := scoreAnswers(test, req.Responses)
	if err != nil {
		return nil, err
	}

	now := s.now()
	last, err := s.Repo.LatestResponse(ctx, studentID, &test.ID)
	switch {
	case err == nil:
		if next := last.NextAllowedAt(); now.Before(next) {
			return nil, util.NewConflictError(util.ErrRetestTooSoon,
				"test already taken recently, it can be retaken after %s", next.Format(util.ExamDateFormat))
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	resp := &model.PersonalityTestResponse{
		BaseModel: model.BaseModel{CreatedAt: now},
		StudentID: studentID,
		TestID:    test.ID,
		Responses: answers,
		TotalMark: total,
	}
	if err := s.Repo.CreateResponse(ctx, resp); err != nil {
		return nil, err
	}

	logger.Log.Info("personality test submitted",
		zap.Uint("test_id", test.ID),
		zap.Uint("student_id", studentID),
		zap.Int("total_mark", total))
	return resp, nil
}

func scoreAnswers(test *model.PersonalityTest, inputs []TestAnswerInput) ([]model.TestAnswer, int, error) {
	if len(inputs) != len(test.Questions) {
		return nil, 0, util.NewValidationError("Please answer all %d questions", len(test.Questions))
	}

	pending := make(map[string]bool, len(test.Questions))
	for _, label := range test.Labels() {
		pending[label] = true
	}

	answers := make([]model.TestAnswer, 0, len(inputs))
	total := 0
	for _, in := range inputs {
		label, answer := strings.TrimSpace(in.QuestionLabel), strings.TrimSpace(in.Answer)
		if label == "" || answer == "" {
			return nil, 0, util.NewValidationError("each response must include questionLabel and answer")
		}
		if !pending[label] {
			return nil, 0, util.NewValidationError("Responses do not match the test questions: %s is unknown or answered twice", label)
		}
		mark, ok := model.LikertMark(answer)
		if !ok {
			return nil, 0, util.NewValidationError("Invalid answer option: %s", answer)
		}
		pending[label] = false
		answers = append(answers, model.TestAnswer{QuestionLabel: label, Answer: answer, Mark: mark})
		total += mark
	}
	return answers, total, nil
}

// Results lists a student's submissions, newest first.
func (s *QuestionnaireService) Results(ctx context.Context, viewer model.Account, studentID uint) ([]model.PersonalityTestResponse, error) {
	id, err := s.resolveStudent(ctx, viewer, studentID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListResponses(ctx, id)
}

type TestStatus struct {
	Allowed         bool       `json:"allowed"`
	Message         string     `json:"message"`
	LastSubmittedAt *time.Time `json:"lastSubmittedAt,omitempty"`
	NextAllowedTime *time.Time `json:"nextAllowedTime,omitempty"`
}

// Status reports whether the student may take the test now. testID narrows
// the check to one test.
func (s *QuestionnaireService) Status(ctx context.Context, viewer model.Account, studentID uint, testID *uint) (*TestStatus, error) {
	id, err := s.resolveStudent(ctx, viewer, studentID)
	if err != nil {
		return nil, err
	}

	last, err := s.Repo.LatestResponse(ctx, id, testID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &TestStatus{Allowed: true, Message: "You are allowed to take the test."}, nil
	}
	if err != nil {
		return nil, err
	}

	submitted, next := last.CreatedAt, last.NextAllowedAt()
	status := &TestStatus{Allowed: true, Message: "You are allowed to take the test.", LastSubmittedAt: &submitted}
	if s.now().Before(next) {
		status.Allowed = false
		status.Message = "You have already taken the test recently. You can retake it after one month."
		status.NextAllowedTime = &next
	}
	return status, nil
}

// resolveStudent returns whose test data the viewer may act on. Students act
// on themselves; staff name a student of their own school.
func (s *QuestionnaireService) resolveStudent(ctx context.Context, viewer model.Account, studentID uint) (uint, error) {
	switch v := viewer.(type) {
	case model.Student:
		if studentID != 0 && studentID != v.UserID {
			return 0, util.NewForbiddenError("Students can only access their own test")
		}
		return v.UserID, nil
	case model.Teacher, model.SchoolAdmin:
		if studentID == 0 {
			return 0, util.NewValidationError("studentId is required")
		}
		schoolID, _ := model.SchoolOf(v)
		student, err := s.UserRepo.FindByID(ctx, studentID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		if err != nil || student.Role != model.RoleStudent || student.SchoolID == nil || *student.SchoolID != schoolID {
			return 0, util.NewNotFoundError(util.ErrUserNotFound, "student %d not found", studentID)
		}
		return student.ID, nil
	}
	return 0, util.NewForbiddenError("Not authorized for personality tests")
}
