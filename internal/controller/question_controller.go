package controller

import (
	"school_exam_backend/internal/service"
	"school_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// AddQuestions godoc
// @Summary Add questions to the school's bank
// @Tags Questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AddQuestionsRequest true "Questions"
// @Success 201 {object} util.Response{data=[]model.Question}
// @Failure 400 {object} util.Response
// @Router /questions [post]
func (c *QuestionController) AddQuestions(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}

	var req service.AddQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.QuestionService.AddQuestions(ctx.Request.Context(), account, req.Questions)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, questions)
}

// ListQuestions godoc
// @Summary Filter the question bank
// @Tags Questions
// @Produce json
// @Security ApiKeyAuth
// @Param class query string false "Class"
// @Param subject query string false "Subject"
// @Param topic query string false "Topic"
// @Param subTopic query string false "Sub-topic"
// @Param questionType query string false "Question type"
// @Param difficulty query string false "Easy, Medium or Hard"
// @Param tags query string false "Comma separated tags"
// @Param random query bool false "Random sample"
// @Param limit query int false "Sample size when random"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}

	var q service.QuestionQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.QuestionService.ListQuestions(ctx.Request.Context(), account, q)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}
