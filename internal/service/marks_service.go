package service

import (
	"context"
	"errors"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
	"school_exam_backend/internal/util"
	"school_exam_backend/pkg/logger"
	"school_exam_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// MarksService records marks against a paper's result snapshot.
type MarksService struct {
	Papers *PaperService
}

func NewMarksService(papers *PaperService) *MarksService {
	return &MarksService{Papers: papers}
}

type MarksEntry struct {
	Student       uint               `json:"student" binding:"required"`
	MarksObtained util.FlexibleMarks `json:"marksObtained" swaggertype:"number"`
	Remarks       *string            `json:"remarks"`
}

type UpdateMarksRequest struct {
	PaperID uint         `json:"paperId" binding:"required"`
	Version *int         `json:"version"`
	Results []MarksEntry `json:"results" binding:"required,dive"`
}

// UpdateMarks validates the whole batch before writing any of it. Entries
// for students outside the snapshot are ignored; an omitted marksObtained
// keeps the stored value and null resets it to ungraded.
func (s *MarksService) UpdateMarks(ctx context.Context, teacher model.Teacher, req UpdateMarksRequest) (*model.Paper, error) {
	if req.Results == nil {
		return nil, util.NewValidationError("results must be provided as an array")
	}

	paper, err := s.Papers.ownedPaper(ctx, teacher, req.PaperID)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != paper.Version {
		return nil, util.NewConflictError(util.ErrVersionConflict,
			"paper version is %d, request was based on %d", paper.Version, *req.Version)
	}

	current := make(map[uint]model.PaperResult, len(paper.Results))
	for _, r := range paper.Results {
		current[r.StudentID] = r
	}

	order := make([]uint, 0, len(req.Results))
	patches := make(map[uint]repository.MarksPatch, len(req.Results))
	ignored := 0
	for _, entry := range req.Results {
		row, ok := current[entry.Student]
		if !ok {
			ignored++
			continue
		}

		// repeated entries for a student merge into one patch
		patch, seen := patches[entry.Student]
		if !seen {
			patch = repository.MarksPatch{StudentID: entry.Student, Marks: row.MarksObtained}
		}
		if entry.Remarks != nil {
			patch.Remarks = entry.Remarks
		}
		if entry.MarksObtained.Present {
			marks, err := entry.MarksObtained.Float()
			if err != nil {
				return nil, util.NewValidationError("invalid marksObtained for student %d (%s): %v", entry.Student, row.StudentName, err)
			}
			if marks != nil && !paper.MarksInRange(*marks) {
				return nil, util.NewValidationError("marksObtained for student %d (%s) must be between 0 and %g",
					entry.Student, row.StudentName, paper.TotalMarks)
			}
			patch.Marks = marks
		}

		if !seen {
			order = append(order, entry.Student)
		}
		patches[entry.Student] = patch
	}

	if len(order) == 0 {
		return paper, nil
	}

	list := make([]repository.MarksPatch, len(order))
	for i, id := range order {
		list[i] = patches[id]
	}
	if err := s.Papers.Repo.ApplyMarks(ctx, paper.ID, paper.Version, list); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return nil, util.NewConflictError(util.ErrVersionConflict, "paper was modified concurrently, reload and retry")
		}
		return nil, err
	}

	monitoring.MarksUpdates.Inc()
	logger.Log.Info("marks updated",
		zap.Uint("paper_id", paper.ID),
		zap.Int("updated", len(list)),
		zap.Int("ignored", ignored))
	return s.Papers.Repo.FindByID(ctx, paper.ID)
}
