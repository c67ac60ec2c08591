package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/service"
	"school_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaperController struct {
	PaperService *service.PaperService
	MarksService *service.MarksService
}

func NewPaperController(paperService *service.PaperService, marksService *service.MarksService) *PaperController {
	return &PaperController{PaperService: paperService, MarksService: marksService}
}

// AssignPaper godoc
// @Summary Assign a paper to a class
// @Description Snapshots the class roster into ungraded results.
// @Tags Papers
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AssignPaperRequest true "Paper"
// @Success 201 {object} util.Response{data=service.AssignPaperResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "No students in the class"
// @Router /papers [post]
func (c *PaperController) AssignPaper(ctx *gin.Context) {
	teacher, ok := accountAs[model.Teacher](ctx)
	if !ok {
		return
	}

	var req service.AssignPaperRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.PaperService.Assign(ctx.Request.Context(), teacher, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// QueryPapers godoc
// @Summary List the teacher's papers
// @Tags Papers
// @Produce json
// @Security ApiKeyAuth
// @Param className query string false "Class"
// @Param subject query string false "Subject"
// @Param month query int false "Month 1-12, requires year"
// @Param year query int false "Year, requires month"
// @Success 200 {object} util.Response{data=[]model.Paper}
// @Failure 400 {object} util.Response
// @Router /papers [get]
func (c *PaperController) QueryPapers(ctx *gin.Context) {
	teacher, ok := accountAs[model.Teacher](ctx)
	if !ok {
		return
	}

	var q service.PaperQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	papers, err := c.PaperService.Query(ctx.Request.Context(), teacher, q)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, papers)
}

// MyResults godoc
// @Summary Papers the student sat, with the student's own result
// @Tags Papers
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Paper}
// @Router /papers/mine [get]
func (c *PaperController) MyResults(ctx *gin.Context) {
	student, ok := accountAs[model.Student](ctx)
	if !ok {
		return
	}

	papers, err := c.PaperService.StudentResults(ctx.Request.Context(), student)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, papers)
}

// GetPaper godoc
// @Summary Get a paper
// @Tags Papers
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Paper ID"
// @Success 200 {object} util.Response{data=model.Paper}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /papers/{id} [get]
func (c *PaperController) GetPaper(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	paper, err := c.PaperService.Get(ctx.Request.Context(), account, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, paper)
}

// AttachQuestions godoc
// @Summary Attach questions to a paper
// @Description mode is "append" (default) or "replace". Repeated ids are stored once.
// @Tags Papers
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Paper ID"
// @Param body body service.AttachQuestionsRequest true "Question ids"
// @Success 200 {object} util.Response{data=model.Paper}
// @Failure 404 {object} util.Response
// @Router /papers/{id}/questions [put]
func (c *PaperController) AttachQuestions(ctx *gin.Context) {
	teacher, ok := accountAs[model.Teacher](ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req service.AttachQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	paper, err := c.PaperService.AttachQuestions(ctx.Request.Context(), teacher, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, paper)
}

// UpdateMarks godoc
// @Summary Record marks and remarks
// @Description All entries are validated before any is written. Pass the paper version to detect concurrent edits.
// @Tags Papers
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.UpdateMarksRequest true "Marks"
// @Success 200 {object} util.Response{data=model.Paper}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Version conflict"
// @Router /papers/update-marks [put]
func (c *PaperController) UpdateMarks(ctx *gin.Context) {
	teacher, ok := accountAs[model.Teacher](ctx)
	if !ok {
		return
	}

	var req service.UpdateMarksRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	paper, err := c.MarksService.UpdateMarks(ctx.Request.Context(), teacher, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, paper)
}

// DownloadResults godoc
// @Summary Download the results PDF
// @Tags Papers
// @Produce application/pdf
// @Security ApiKeyAuth
// @Param id path int true "Paper ID"
// @Success 200 {file} file
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /papers/{id}/download [get]
func (c *PaperController) DownloadResults(ctx *gin.Context) {
	teacher, ok := accountAs[model.Teacher](ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	data, filename, err := c.PaperService.ResultsPDF(ctx.Request.Context(), teacher, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", strconv.Quote(filename)))
	ctx.Data(http.StatusOK, util.MimePDF, data)
}
