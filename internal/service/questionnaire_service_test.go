package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
	"school_exam_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type questionnaireFixture struct {
	svc      *QuestionnaireService
	clock    time.Time
	teacher  model.Teacher
	asha     model.Student
	bilal    *model.User
	stranger model.Teacher
	test     *model.PersonalityTest
}

func newQuestionnaireFixture(t *testing.T) *questionnaireFixture {
	t.Helper()
	db := newTestDB(t)

	school := seedSchool(t, db, "Green Valley", "greenvalley")
	other := seedSchool(t, db, "Hill Top", "hilltop")

	f := &questionnaireFixture{
		clock:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		teacher:  asTeacher(seedUser(t, db, &school.ID, model.RoleTeacher, "Mrs Rao", "")),
		asha:     asStudent(seedUser(t, db, &school.ID, model.RoleStudent, "Asha", "5")),
		bilal:    seedUser(t, db, &school.ID, model.RoleStudent, "Bilal", "5"),
		stranger: asTeacher(seedUser(t, db, &other.ID, model.RoleTeacher, "Mr Hill", "")),
	}
	f.svc = NewQuestionnaireService(repository.NewQuestionnaireRepository(db), repository.NewUserRepository(db))
	f.svc.now = func() time.Time { return f.clock }

	test, err := f.svc.CreateStandardTest(context.Background(), master)
	require.NoError(t, err)
	f.test = test
	return f
}

func answersFor(test *model.PersonalityTest, answer string) []TestAnswerInput {
	inputs := make([]TestAnswerInput, len(test.Questions))
	for i, q := range test.Questions {
		inputs[i] = TestAnswerInput{QuestionLabel: q.Label, Answer: answer}
	}
	return inputs
}

func TestStandardPersonalityTestIsPublishedOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionnaireService(repository.NewQuestionnaireRepository(db), repository.NewUserRepository(db))
	ctx := context.Background()

	_, err := svc.CurrentTest(ctx)
	assert.Equal(t, http.StatusNotFound, util.StatusOf(err))

	test, err := svc.CreateStandardTest(ctx, master)
	require.NoError(t, err)
	require.Len(t, test.Questions, 50)
	assert.Equal(t, "Ques1", test.Questions[0].Label)
	assert.Equal(t, "Ques50", test.Questions[49].Label)
	assert.Equal(t, model.LikertOptions, test.Questions[10].Options)

	_, err = svc.CreateStandardTest(ctx, master)
	assert.Equal(t, http.StatusConflict, util.StatusOf(err))

	current, err := svc.CurrentTest(ctx)
	require.NoError(t, err)
	assert.Equal(t, test.ID, current.ID)
	assert.Len(t, current.Questions, 50)
}

func TestSubmitScoresAnswers(t *testing.T) {
	f := newQuestionnaireFixture(t)
	ctx := context.Background()

	answers := answersFor(f.test, "Agree")
	answers[0].Answer = "Strongly Agree"
	answers[1].Answer = "Strongly Disagree"

	resp, err := f.svc.Submit(ctx, f.asha, SubmitTestRequest{TestID: f.test.ID, Responses: answers})
	require.NoError(t, err)
	assert.Equal(t, f.asha.UserID, resp.StudentID)
	require.Len(t, resp.Responses, 50)
	assert.Equal(t, 5, resp.Responses[0].Mark)
	assert.Equal(t, 1, resp.Responses[1].Mark)
	assert.Equal(t, 48*4+5+1, resp.TotalMark)

	results, err := f.svc.Results(ctx, f.asha, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Student)
	assert.Equal(t, "Asha", results[0].Student.Name)
	require.NotNil(t, results[0].Test)
	assert.Equal(t, "Personality Test", results[0].Test.Title)
	assert.Len(t, results[0].Responses, 50)
}

func TestSubmitRejectsIncompleteOrInvalidAnswers(t *testing.T) {
	f := newQuestionnaireFixture(t)

	full := func() []TestAnswerInput { return answersFor(f.test, "Not Sure") }

	tests := []struct {
		name    string
		testID  uint
		answers []TestAnswerInput
		status  int
		message string
	}{
		{"no answers", f.test.ID, nil, http.StatusBadRequest, "responses are required"},
		{"one missing", f.test.ID, full()[:49], http.StatusBadRequest, "Please answer all 50 questions"},
		{"question answered twice", f.test.ID, func() []TestAnswerInput {
			a := full()
			a[49].QuestionLabel = "Ques1"
			return a
		}(), http.StatusBadRequest, "Ques1"},
		{"unknown question", f.test.ID, func() []TestAnswerInput {
			a := full()
			a[3].QuestionLabel = "Ques99"
			return a
		}(), http.StatusBadRequest, "Ques99"},
		{"unknown option", f.test.ID, func() []TestAnswerInput {
			a := full()
			a[7].Answer = "Maybe"
			return a
		}(), http.StatusBadRequest, "Invalid answer option: Maybe"},
		{"blank answer", f.test.ID, func() []TestAnswerInput {
			a := full()
			a[2].Answer = " "
			return a
		}(), http.StatusBadRequest, "must include questionLabel and answer"},
		{"unknown test", f.test.ID + 100, full(), http.StatusNotFound, "Personality test not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Submit(context.Background(), f.asha, SubmitTestRequest{TestID: tt.testID, Responses: tt.answers})
			require.Error(t, err)
			assert.Equal(t, tt.status, util.StatusOf(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	results, err := f.svc.Results(context.Background(), f.asha, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestRetestWaitsOneMonth(t *testing.T) {
	f := newQuestionnaireFixture(t)
	ctx := context.Background()
	req := SubmitTestRequest{TestID: f.test.ID, Responses: answersFor(f.test, "Agree")}

	status, err := f.svc.Status(ctx, f.asha, 0, nil)
	require.NoError(t, err)
	assert.True(t, status.Allowed)
	assert.Nil(t, status.NextAllowedTime)

	_, err = f.svc.Submit(ctx, f.asha, req)
	require.NoError(t, err)

	f.clock = f.clock.Add(10 * 24 * time.Hour)
	_, err = f.svc.Submit(ctx, f.asha, req)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, util.StatusOf(err))
	assert.ErrorIs(t, err, util.ErrRetestTooSoon)

	status, err = f.svc.Status(ctx, f.asha, 0, &f.test.ID)
	require.NoError(t, err)
	assert.False(t, status.Allowed)
	require.NotNil(t, status.NextAllowedTime)
	assert.WithinDuration(t, time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC), *status.NextAllowedTime, time.Second)

	f.clock = f.clock.Add(21 * 24 * time.Hour)
	status, err = f.svc.Status(ctx, f.asha, 0, nil)
	require.NoError(t, err)
	assert.True(t, status.Allowed)
	require.NotNil(t, status.LastSubmittedAt)

	_, err = f.svc.Submit(ctx, f.asha, req)
	require.NoError(t, err)
	results, err := f.svc.Results(ctx, f.asha, 0)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestQuestionnaireAccess(t *testing.T) {
	f := newQuestionnaireFixture(t)
	ctx := context.Background()

	_, err := f.svc.Results(ctx, f.asha, f.bilal.ID)
	assert.Equal(t, http.StatusForbidden, util.StatusOf(err))

	_, err = f.svc.Results(ctx, f.teacher, 0)
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))

	_, err = f.svc.Results(ctx, f.stranger, f.bilal.ID)
	assert.Equal(t, http.StatusNotFound, util.StatusOf(err))

	_, err = f.svc.Results(ctx, f.teacher, f.teacher.UserID)
	assert.Equal(t, http.StatusNotFound, util.StatusOf(err), "a teacher is not a student")

	_, err = f.svc.Status(ctx, master, f.bilal.ID, nil)
	assert.Equal(t, http.StatusForbidden, util.StatusOf(err))

	resp, err := f.svc.Submit(ctx, f.teacher, SubmitTestRequest{
		TestID:    f.test.ID,
		StudentID: f.bilal.ID,
		Responses: answersFor(f.test, "Disagree"),
	})
	require.NoError(t, err)
	assert.Equal(t, f.bilal.ID, resp.StudentID)
	assert.Equal(t, 100, resp.TotalMark)

	results, err := f.svc.Results(ctx, f.teacher, f.bilal.ID)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
