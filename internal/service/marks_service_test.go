package service

import (
	"context"
	"net/http"
	"testing"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func resultFor(t *testing.T, p *model.Paper, studentID uint) model.PaperResult {
	t.Helper()
	for _, r := range p.Results {
		if r.StudentID == studentID {
			return r
		}
	}
	t.Fatalf("student %d not in paper %d", studentID, p.ID)
	return model.PaperResult{}
}

func TestUpdateMarksOutOfRangeWritesNothing(t *testing.T) {
	f := newPaperFixture(t)
	ctx := context.Background()
	paper := f.assign(t, "5", "15-09-2023", 50)
	s1, s2 := f.students[0].ID, f.students[1].ID

	_, err := f.marks.UpdateMarks(ctx, f.teacher, UpdateMarksRequest{
		PaperID: paper.ID,
		Results: []MarksEntry{
			{Student: s1, MarksObtained: util.MarksOf(40)},
			{Student: s2, MarksObtained: util.MarksOf(55)},
		},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))

	stored, err := f.papers.Repo.FindByID(ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version)
	assert.Nil(t, resultFor(t, stored, s1).MarksObtained)
}

func TestUpdateMarksSingleStudent(t *testing.T) {
	f := newPaperFixture(t)
	paper := f.assign(t, "5", "15-09-2023", 50)
	s1, s2 := f.students[0].ID, f.students[1].ID

	got, err := f.marks.UpdateMarks(context.Background(), f.teacher, UpdateMarksRequest{
		PaperID: paper.ID,
		Results: []MarksEntry{{Student: s1, MarksObtained: util.MarksOf(40), Remarks: strPtr("Good")}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, got.Version)
	r1 := resultFor(t, got, s1)
	require.NotNil(t, r1.MarksObtained)
	assert.Equal(t, 40.0, *r1.MarksObtained)
	assert.Equal(t, "Good", r1.Remarks)

	r2 := resultFor(t, got, s2)
	assert.Nil(t, r2.MarksObtained)
	assert.Empty(t, r2.Remarks)
}

func TestUpdateMarksAcceptsNumericStrings(t *testing.T) {
	f := newPaperFixture(t)
	paper := f.assign(t, "5", "15-09-2023", 50)
	s1 := f.students[0].ID

	got, err := f.marks.UpdateMarks(context.Background(), f.teacher, UpdateMarksRequest{
		PaperID: paper.ID,
		Results: []MarksEntry{{Student: s1, MarksObtained: util.MarksText("42.5")}},
	})
	require.NoError(t, err)
	require.NotNil(t, resultFor(t, got, s1).MarksObtained)
	assert.Equal(t, 42.5, *resultFor(t, got, s1).MarksObtained)

	_, err = f.marks.UpdateMarks(context.Background(), f.teacher, UpdateMarksRequest{
		PaperID: paper.ID,
		Results: []MarksEntry{{Student: s1, MarksObtained: util.MarksText("abc")}},
	})
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))
}

func TestUpdateMarksIgnoresUnknownStudents(t *testing.T) {
	f := newPaperFixture(t)
	paper := f.assign(t, "5", "15-09-2023", 50)
	s1 := f.students[0].ID

	got, err := f.marks.UpdateMarks(context.Background(), f.teacher, UpdateMarksRequest{
		PaperID: paper.ID,
		Results: []MarksEntry{
			{Student: 9999, MarksObtained: util.MarksOf(10)},
			{Student: s1, MarksObtained: util.MarksOf(12)},
		},
	})
	require.NoError(t, err)
	assert.Len(t, got.Results, 3)
	assert.Equal(t, 12.0, *resultFor(t, got, s1).MarksObtained)

	// nothing applicable leaves the version untouched
	got, err = f.marks.UpdateMarks(context.Background(), f.teacher, UpdateMarksRequest{
		PaperID: paper.ID,
		Results: []MarksEntry{{Student: 9999, MarksObtained: util.MarksOf(10)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
}

func TestUpdateMarksNullResetsAndOmittedKeeps(t *testing.T) {
	f := newPaperFixture(t)
	ctx := context.Background()
	paper := f.assign(t, "5", "15-09-2023", 50)
	s1, s2 := f.students[0].ID, f.students[1].ID

	_, err := f.marks.UpdateMarks(ctx, f.teacher, UpdateMarksRequest{
		PaperID: paper.ID,
		Results: []MarksEntry{
			{Student: s1, MarksObtained: util.MarksOf(30)},
			{Student: s2, MarksObtained: util.MarksOf(20)},
		},
	})
	require.NoError(t, err)

	got, err := f.marks.UpdateMarks(ctx, f.teacher, UpdateMarksRequest{
		PaperID: paper.ID,
		Results: []MarksEntry{
			{Student: s1, MarksObtained: util.NullMarks()},
			{Student: s2, Remarks: strPtr("Needs practice")},
		},
	})
	require.NoError(t, err)

	assert.Nil(t, resultFor(t, got, s1).MarksObtained)
	r2 := resultFor(t, got, s2)
	require.NotNil(t, r2.MarksObtained)
	assert.Equal(t, 20.0, *r2.MarksObtained)
	assert.Equal(t, "Needs practice", r2.Remarks)
}

func TestUpdateMarksMergesRepeatedEntries(t *testing.T) {
	f := newPaperFixture(t)
	paper := f.assign(t, "5", "15-09-2023", 50)
	s1 := f.students[0].ID

	got, err := f.marks.UpdateMarks(context.Background(), f.teacher, UpdateMarksRequest{
		PaperID: paper.ID,
		Results: []MarksEntry{
			{Student: s1, MarksObtained: util.MarksOf(40), Remarks: strPtr("Steady")},
			{Student: s1, Remarks: strPtr("Good")},
		},
	})
	require.NoError(t, err)

	r1 := resultFor(t, got, s1)
	require.NotNil(t, r1.MarksObtained)
	assert.Equal(t, 40.0, *r1.MarksObtained)
	assert.Equal(t, "Good", r1.Remarks)
	assert.Equal(t, 2, got.Version)

	got, err = f.marks.UpdateMarks(context.Background(), f.teacher, UpdateMarksRequest{
		PaperID: paper.ID,
		Results: []MarksEntry{
			{Student: s1, MarksObtained: util.MarksOf(10)},
			{Student: s1, MarksObtained: util.MarksOf(35)},
		},
	})
	require.NoError(t, err)
	r1 = resultFor(t, got, s1)
	assert.Equal(t, 35.0, *r1.MarksObtained)
	assert.Equal(t, "Good", r1.Remarks, "remarks not in the request are kept")
}

func TestUpdateMarksRejectsStaleVersion(t *testing.T) {
	f := newPaperFixture(t)
	ctx := context.Background()
	paper := f.assign(t, "5", "15-09-2023", 50)
	s1 := f.students[0].ID

	_, err := f.marks.UpdateMarks(ctx, f.teacher, UpdateMarksRequest{
		PaperID: paper.ID,
		Version: intPtr(1),
		Results: []MarksEntry{{Student: s1, MarksObtained: util.MarksOf(10)}},
	})
	require.NoError(t, err)

	_, err = f.marks.UpdateMarks(ctx, f.teacher, UpdateMarksRequest{
		PaperID: paper.ID,
		Version: intPtr(1),
		Results: []MarksEntry{{Student: s1, MarksObtained: util.MarksOf(20)}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, util.StatusOf(err))
	assert.ErrorIs(t, err, util.ErrVersionConflict)

	stored, err := f.papers.Repo.FindByID(ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, *resultFor(t, stored, s1).MarksObtained)
}

func TestUpdateMarksRequiresCreator(t *testing.T) {
	f := newPaperFixture(t)
	paper := f.assign(t, "5", "15-09-2023", 50)
	other := asTeacher(seedUser(t, f.db, &f.school.ID, model.RoleTeacher, "Mr Other", ""))

	_, err := f.marks.UpdateMarks(context.Background(), other, UpdateMarksRequest{
		PaperID: paper.ID,
		Results: []MarksEntry{{Student: f.students[0].ID, MarksObtained: util.MarksOf(10)}},
	})
	assert.Equal(t, http.StatusForbidden, util.StatusOf(err))

	_, err = f.marks.UpdateMarks(context.Background(), f.teacher, UpdateMarksRequest{PaperID: paper.ID})
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))
}
