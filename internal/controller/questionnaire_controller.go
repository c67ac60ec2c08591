package controller

import (
	"school_exam_backend/internal/model"
	"school_exam_backend/internal/service"
	"school_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionnaireController struct {
	QuestionnaireService *service.QuestionnaireService
}

func NewQuestionnaireController(questionnaireService *service.QuestionnaireService) *QuestionnaireController {
	return &QuestionnaireController{QuestionnaireService: questionnaireService}
}

// CreateTest godoc
// @Summary Publish the standard personality test
// @Tags PersonalityTests
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response{data=model.PersonalityTest}
// @Failure 409 {object} util.Response "Already published"
// @Router /personality-tests [post]
func (c *QuestionnaireController) CreateTest(ctx *gin.Context) {
	admin, ok := accountAs[model.MasterAdmin](ctx)
	if !ok {
		return
	}

	test, err := c.QuestionnaireService.CreateStandardTest(ctx.Request.Context(), admin)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, test)
}

// GetTest godoc
// @Summary The personality test with its questions
// @Tags PersonalityTests
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.PersonalityTest}
// @Failure 404 {object} util.Response
// @Router /personality-tests/current [get]
func (c *QuestionnaireController) GetTest(ctx *gin.Context) {
	test, err := c.QuestionnaireService.CurrentTest(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// SubmitResponse godoc
// @Summary Submit answers to the personality test
// @Description Students submit for themselves; staff pass studentId.
// @Tags PersonalityTests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitTestRequest true "Answers"
// @Success 201 {object} util.Response{data=model.PersonalityTestResponse}
// @Failure 400 {object} util.Response "Incomplete or invalid answers"
// @Failure 409 {object} util.Response "Taken within the last month"
// @Router /personality-tests/responses [post]
func (c *QuestionnaireController) SubmitResponse(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}

	var req service.SubmitTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.QuestionnaireService.Submit(ctx.Request.Context(), account, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, resp)
}

// Results godoc
// @Summary A student's personality test submissions
// @Tags PersonalityTests
// @Produce json
// @Security ApiKeyAuth
// @Param studentId query int false "Student ID, required for staff"
// @Success 200 {object} util.Response{data=[]model.PersonalityTestResponse}
// @Failure 404 {object} util.Response
// @Router /personality-tests/results [get]
func (c *QuestionnaireController) Results(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}
	studentID, ok := optionalIDQuery(ctx, "studentId")
	if !ok {
		return
	}

	results, err := c.QuestionnaireService.Results(ctx.Request.Context(), account, valueOrZero(studentID))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// Status godoc
// @Summary Whether the student may take the test now
// @Tags PersonalityTests
// @Produce json
// @Security ApiKeyAuth
// @Param studentId query int false "Student ID, required for staff"
// @Param testId query int false "Limit the check to one test"
// @Success 200 {object} util.Response{data=service.TestStatus}
// @Router /personality-tests/status [get]
func (c *QuestionnaireController) Status(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}
	studentID, ok := optionalIDQuery(ctx, "studentId")
	if !ok {
		return
	}
	testID, ok := optionalIDQuery(ctx, "testId")
	if !ok {
		return
	}

	status, err := c.QuestionnaireService.Status(ctx.Request.Context(), account, valueOrZero(studentID), testID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

func valueOrZero(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}
