package controller

import (
	"school_exam_backend/internal/service"
	"school_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// CreateSpeechReport godoc
// @Summary Record a speech assessment
// @Tags Reports
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateSpeechReportRequest true "Scores and remarks"
// @Success 201 {object} util.Response{data=model.SpeechReport}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "Unknown student"
// @Router /reports/speech [post]
func (c *ReportController) CreateSpeechReport(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}

	var req service.CreateSpeechReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.ReportService.CreateSpeech(ctx.Request.Context(), account, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, report)
}

// ListSpeechReports godoc
// @Summary Speech reports of a student, newest first
// @Tags Reports
// @Produce json
// @Security ApiKeyAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} util.Response{data=[]model.SpeechReport}
// @Failure 404 {object} util.Response
// @Router /reports/speech/student/{studentId} [get]
func (c *ReportController) ListSpeechReports(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}
	studentID, ok := idParam(ctx, "studentId")
	if !ok {
		return
	}

	reports, err := c.ReportService.ListSpeech(ctx.Request.Context(), account, studentID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, reports)
}

// GenerateSpeechReport godoc
// @Summary Generate the speech report PDF
// @Description Generated once. Repeated calls return the existing link.
// @Tags Reports
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Report ID"
// @Success 200 {object} util.Response{data=service.GenerateResult}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Generation in progress"
// @Failure 500 {object} util.Response
// @Router /reports/speech/{id}/generate [put]
func (c *ReportController) GenerateSpeechReport(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	result, err := c.ReportService.GenerateSpeech(ctx.Request.Context(), account, id, requestOrigin(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// SendSpeechReport godoc
// @Summary Email the speech report link to the student
// @Tags Reports
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Report ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "Not generated or no email"
// @Router /reports/speech/{id}/send [post]
func (c *ReportController) SendSpeechReport(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.ReportService.SendSpeech(ctx.Request.Context(), account, id, requestOrigin(ctx)); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"reportSent": true})
}

// CreatePersonalityReport godoc
// @Summary Record a personality assessment
// @Tags Reports
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreatePersonalityReportRequest true "Trait levels"
// @Success 201 {object} util.Response{data=model.PersonalityReport}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "Duplicate externalId"
// @Router /reports/personality [post]
func (c *ReportController) CreatePersonalityReport(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}

	var req service.CreatePersonalityReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.ReportService.CreatePersonality(ctx.Request.Context(), account, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, report)
}

// ListPersonalityReports godoc
// @Summary Personality reports of a student, newest first
// @Tags Reports
// @Produce json
// @Security ApiKeyAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} util.Response{data=[]model.PersonalityReport}
// @Router /reports/personality/student/{studentId} [get]
func (c *ReportController) ListPersonalityReports(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}
	studentID, ok := idParam(ctx, "studentId")
	if !ok {
		return
	}

	reports, err := c.ReportService.ListPersonality(ctx.Request.Context(), account, studentID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, reports)
}

// GeneratePersonalityReport godoc
// @Summary Generate the personality report PDF
// @Tags Reports
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Report ID"
// @Success 200 {object} util.Response{data=service.GenerateResult}
// @Router /reports/personality/{id}/generate [put]
func (c *ReportController) GeneratePersonalityReport(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	result, err := c.ReportService.GeneratePersonality(ctx.Request.Context(), account, id, requestOrigin(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// SendPersonalityReport godoc
// @Summary Email the personality report link to the student
// @Tags Reports
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Report ID"
// @Success 200 {object} util.Response
// @Router /reports/personality/{id}/send [post]
func (c *ReportController) SendPersonalityReport(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.ReportService.SendPersonality(ctx.Request.Context(), account, id, requestOrigin(ctx)); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"reportSent": true})
}
