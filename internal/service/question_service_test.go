package service

import (
	"context"
	"net/http"
	"testing"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
	"school_exam_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndListQuestions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	school := seedSchool(t, db, "Green Valley", "greenvalley")
	teacher := asTeacher(seedUser(t, db, &school.ID, model.RoleTeacher, "Mrs Rao", ""))
	svc := NewQuestionService(repository.NewQuestionRepository(db))

	created, err := svc.AddQuestions(ctx, teacher, []QuestionInput{
		{QuestionText: "2+2?", QuestionType: model.QuestionMCQ, Subject: "Math", Topic: "Addition", Options: []string{"3", "4"}, Tags: []string{"arithmetic"}},
		{QuestionText: "Define a noun.", QuestionType: model.QuestionShortAnswer, Subject: "English", Topic: "Grammar", Difficulty: "Hard"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "Easy", created[0].Difficulty)

	all, err := svc.ListQuestions(ctx, teacher, QuestionQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	math, err := svc.ListQuestions(ctx, teacher, QuestionQuery{Subject: "Math", Tags: "arithmetic, other"})
	require.NoError(t, err)
	require.Len(t, math, 1)
	assert.Equal(t, []string{"3", "4"}, math[0].Options)

	random, err := svc.ListQuestions(ctx, teacher, QuestionQuery{Random: true, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, random, 1)

	_, err = svc.ListQuestions(ctx, teacher, QuestionQuery{Type: "ORAL"})
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))
}

func TestAddQuestionsIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	school := seedSchool(t, db, "Green Valley", "greenvalley")
	teacher := asTeacher(seedUser(t, db, &school.ID, model.RoleTeacher, "Mrs Rao", ""))
	svc := NewQuestionService(repository.NewQuestionRepository(db))

	_, err := svc.AddQuestions(ctx, teacher, []QuestionInput{
		{QuestionText: "Fine", QuestionType: model.QuestionEssay, Subject: "History", Topic: "Rome"},
		{QuestionText: "Pick one", QuestionType: model.QuestionMCQ, Subject: "History", Topic: "Rome"},
	})
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))

	var count int64
	require.NoError(t, db.Model(&model.Question{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.AddQuestions(ctx, master, []QuestionInput{{QuestionText: "x"}})
	assert.Equal(t, http.StatusForbidden, util.StatusOf(err))
}
