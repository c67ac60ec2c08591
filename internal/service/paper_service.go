package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
	"school_exam_backend/internal/util"
	"school_exam_backend/pkg/logger"
	"school_exam_backend/pkg/pdf"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaperService struct {
	Repo         *repository.PaperRepository
	QuestionRepo *repository.QuestionRepository
	Roster       *RosterService
}

func NewPaperService(repo *repository.PaperRepository, questionRepo *repository.QuestionRepository, roster *RosterService) *PaperService {
	return &PaperService{Repo: repo, QuestionRepo: questionRepo, Roster: roster}
}

type AssignPaperRequest struct {
	Subject    string  `json:"subject" binding:"required"`
	ExamName   string  `json:"examName" binding:"required"`
	Topic      string  `json:"topic" binding:"required"`
	SubTopic   string  `json:"subTopic" binding:"required"`
	TotalMarks float64 `json:"totalMarks" binding:"required,gt=0"`
	ClassName  string  `json:"className" binding:"required"`
	DateOfExam string  `json:"dateOfExam" binding:"required,ddmmyyyy"`
}

type AssignPaperResult struct {
	Paper        *model.Paper `json:"paper"`
	StudentCount int          `json:"studentCount"`
}

const (
	AttachAppend  = "append"
	AttachReplace = "replace"
)

type AttachQuestionsRequest struct {
	QuestionIDs []uint `json:"questionIds"`
	Mode        string `json:"mode"`
}

type PaperQuery struct {
	ClassName string `form:"className"`
	Subject   string `form:"subject"`
	Month     *int   `form:"month"`
	Year      *int   `form:"year"`
}

// Assign creates a paper for a class and snapshots its roster into the
// results, all ungraded. A class without students gets no paper.
func (s *PaperService) Assign(ctx context.Context, teacher model.Teacher, req AssignPaperRequest) (*AssignPaperResult, error) {
	fields := map[string]string{
		"subject":   req.Subject,
		"examName":  req.ExamName,
		"topic":     req.Topic,
		"subTopic":  req.SubTopic,
		"className": req.ClassName,
	}
	for _, name := range []string{"subject", "examName", "topic", "subTopic", "className"} {
		if strings.TrimSpace(fields[name]) == "" {
			return nil, util.NewValidationError("%s is required", name)
		}
	}
	if req.TotalMarks <= 0 {
		return nil, util.NewValidationError("totalMarks must be positive")
	}
	examDate, ok := util.ParseExamDate(req.DateOfExam)
	if !ok {
		return nil, util.NewValidationError("dateOfExam must be in DD-MM-YYYY format")
	}

	className := strings.TrimSpace(req.ClassName)
	students, err := s.Roster.Resolve(ctx, teacher.SchoolID, className)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, util.NewNotFoundError(util.ErrNoStudents, "No students found for class %s", className)
	}

	paper := &model.Paper{
		SchoolID:    teacher.SchoolID,
		CreatedByID: teacher.UserID,
		ClassName:   className,
		Subject:     strings.TrimSpace(req.Subject),
		ExamName:    strings.TrimSpace(req.ExamName),
		Topic:       strings.TrimSpace(req.Topic),
		SubTopic:    strings.TrimSpace(req.SubTopic),
		TotalMarks:  req.TotalMarks,
		DateOfExam:  examDate,
		Version:     1,
		QuestionIDs: []uint{},
		Results:     make([]model.PaperResult, len(students)),
	}
	for i, st := range students {
		paper.Results[i] = model.PaperResult{StudentID: st.ID, StudentName: st.Name}
	}

	if err := s.Repo.Create(ctx, paper); err != nil {
		return nil, err
	}

	logger.Log.Info("paper assigned",
		zap.Uint("paper_id", paper.ID),
		zap.Uint("teacher_id", teacher.UserID),
		zap.String("class", className),
		zap.Int("students", len(students)))
	return &AssignPaperResult{Paper: paper, StudentCount: len(students)}, nil
}

// ownedPaper loads a paper and checks that the teacher created it.
func (s *PaperService) ownedPaper(ctx context.Context, teacher model.Teacher, paperID uint) (*model.Paper, error) {
	paper, err := s.Repo.FindByID(ctx, paperID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFoundError(util.ErrPaperNotFound, "Paper not found")
	}
	if err != nil {
		return nil, err
	}
	if paper.CreatedByID != teacher.UserID {
		return nil, util.NewForbiddenError("You are not allowed to access this paper")
	}
	return paper, nil
}

// AttachQuestions appends or replaces the paper's question list. Every id
// must name an existing question of the school; repeated ids count once.
func (s *PaperService) AttachQuestions(ctx context.Context, teacher model.Teacher, paperID uint, req AttachQuestionsRequest) (*model.Paper, error) {
	mode := req.Mode
	if mode == "" {
		mode = AttachAppend
	}
	if mode != AttachAppend && mode != AttachReplace {
		return nil, util.NewValidationError("mode must be %q or %q", AttachAppend, AttachReplace)
	}

	paper, err := s.ownedPaper(ctx, teacher, paperID)
	if err != nil {
		return nil, err
	}

	incoming := dedupIDs(req.QuestionIDs)
	found, err := s.QuestionRepo.ExistingIDs(ctx, teacher.SchoolID, incoming)
	if err != nil {
		return nil, err
	}
	if len(found) != len(incoming) {
		known := make(map[uint]bool, len(found))
		for _, id := range found {
			known[id] = true
		}
		var missing []string
		for _, id := range incoming {
			if !known[id] {
				missing = append(missing, strconv.FormatUint(uint64(id), 10))
			}
		}
		return nil, util.NewNotFoundError(nil, "Questions not found: %s", strings.Join(missing, ", "))
	}

	next := incoming
	if mode == AttachAppend {
		next = dedupIDs(append(append([]uint{}, paper.QuestionIDs...), incoming...))
	}
	if err := s.Repo.SetQuestions(ctx, paper.ID, next); err != nil {
		return nil, err
	}

	logger.Log.Info("paper questions updated",
		zap.Uint("paper_id", paper.ID),
		zap.String("mode", mode),
		zap.Int("questions", len(next)))
	return s.Repo.FindByID(ctx, paper.ID)
}

func dedupIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Query lists the teacher's papers. Class and subject match exactly but
// ignore case; month and year must be given together.
func (s *PaperService) Query(ctx context.Context, teacher model.Teacher, q PaperQuery) ([]model.Paper, error) {
	filter := repository.PaperFilter{
		CreatorID: teacher.UserID,
		ClassName: strings.TrimSpace(q.ClassName),
		Subject:   strings.TrimSpace(q.Subject),
	}

	switch {
	case q.Month == nil && q.Year == nil:
	case q.Month == nil || q.Year == nil:
		return nil, util.NewValidationError("month and year must be provided together")
	default:
		if *q.Month < 1 || *q.Month > 12 {
			return nil, util.NewValidationError("month must be between 1 and 12")
		}
		if *q.Year < 1 || *q.Year > 9999 {
			return nil, util.NewValidationError("year is out of range")
		}
		from, to := util.MonthWindow(*q.Year, *q.Month)
		filter.From, filter.To = &from, &to
	}

	return s.Repo.List(ctx, filter)
}

// Get returns a paper to its creator.
func (s *PaperService) Get(ctx context.Context, viewer model.Account, paperID uint) (*model.Paper, error) {
	teacher, ok := viewer.(model.Teacher)
	if !ok {
		return nil, util.NewForbiddenError("You are not allowed to access this paper")
	}
	return s.ownedPaper(ctx, teacher, paperID)
}

// StudentResults lists the papers a student sat, each carrying only the
// student's own result.
func (s *PaperService) StudentResults(ctx context.Context, student model.Student) ([]model.Paper, error) {
	return s.Repo.ListForStudent(ctx, student.UserID)
}

// ResultsPDF renders the results table of a paper. Nothing is stored.
func (s *PaperService) ResultsPDF(ctx context.Context, teacher model.Teacher, paperID uint) ([]byte, string, error) {
	paper, err := s.ownedPaper(ctx, teacher, paperID)
	if err != nil {
		return nil, "", err
	}

	doc := pdf.ResultsDocument{
		ExamName:   paper.ExamName,
		Subject:    paper.Subject,
		Topic:      paper.Topic,
		SubTopic:   paper.SubTopic,
		ClassName:  paper.ClassName,
		Date:       paper.DateOfExam.Format(util.ExamDateFormat),
		TotalMarks: formatMarks(&paper.TotalMarks),
		Rows:       make([]pdf.ResultRow, len(paper.Results)),
	}
	for i, r := range paper.Results {
		doc.Rows[i] = pdf.ResultRow{Name: r.StudentName, Marks: formatMarks(r.MarksObtained), Remarks: r.Remarks}
	}

	data, err := pdf.RenderResults(doc)
	if err != nil {
		return nil, "", fmt.Errorf("render results for paper %d: %w", paper.ID, err)
	}
	filename := fileSafe(fmt.Sprintf("%s_%s_results", paper.ExamName, paper.ClassName)) + ".pdf"
	return data, filename, nil
}

func formatMarks(m *float64) string {
	if m == nil {
		return "-"
	}
	return strconv.FormatFloat(*m, 'f', -1, 64)
}

// fileSafe replaces whitespace and path separators so s can be a file name.
func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '/', '\\', ':', '"', '\'':
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
}
