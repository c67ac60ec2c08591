package controller

import (
	"net/http"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/service"
	"school_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type SchoolController struct {
	SchoolService *service.SchoolService
}

func NewSchoolController(schoolService *service.SchoolService) *SchoolController {
	return &SchoolController{SchoolService: schoolService}
}

// CreateSchool godoc
// @Summary Create a school
// @Tags Schools
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateSchoolRequest true "School"
// @Success 201 {object} util.Response{data=model.School}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "Subdomain taken"
// @Router /master/schools [post]
func (c *SchoolController) CreateSchool(ctx *gin.Context) {
	admin, ok := accountAs[model.MasterAdmin](ctx)
	if !ok {
		return
	}

	var req service.CreateSchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	school, err := c.SchoolService.CreateSchool(ctx.Request.Context(), admin, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, school)
}

// CreateSchoolAdmin godoc
// @Summary Create a school admin
// @Tags Schools
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param schoolId path int true "School ID"
// @Param body body service.CreateSchoolAdminRequest true "Admin account"
// @Success 201 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Username taken"
// @Router /master/schools/{schoolId}/admins [post]
func (c *SchoolController) CreateSchoolAdmin(ctx *gin.Context) {
	admin, ok := accountAs[model.MasterAdmin](ctx)
	if !ok {
		return
	}
	schoolID, ok := idParam(ctx, "schoolId")
	if !ok {
		return
	}

	var req service.CreateSchoolAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.SchoolService.CreateSchoolAdmin(ctx.Request.Context(), admin, schoolID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, user)
}

// ResolveSchool godoc
// @Summary Find a school by subdomain
// @Description Uses the subdomain query parameter, or the request host when it is absent.
// @Tags Schools
// @Produce json
// @Param subdomain query string false "Subdomain"
// @Success 200 {object} util.Response{data=model.School}
// @Failure 404 {object} util.Response
// @Router /schools/resolve [get]
func (c *SchoolController) ResolveSchool(ctx *gin.Context) {
	sub := ctx.Query("subdomain")
	if sub == "" {
		sub = subdomainFromHost(ctx.Request.Host)
	}
	if sub == "" {
		util.BadRequest(ctx, "subdomain is required")
		return
	}

	school, err := c.SchoolService.ResolveSchool(ctx.Request.Context(), sub)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, school)
}

// AddUsers godoc
// @Summary Add teachers and students
// @Description Accepts {"users": [...]} or a single user object. Passwords default to the date of birth as DDMMYYYY.
// @Tags Schools
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param schoolId path int true "School ID"
// @Param body body service.AddUsersRequest true "Users"
// @Success 201 {object} util.Response{data=service.AddUsersResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response "Duplicate users"
// @Router /schools/{schoolId}/users [post]
func (c *SchoolController) AddUsers(ctx *gin.Context) {
	admin, ok := accountAs[model.SchoolAdmin](ctx)
	if !ok {
		return
	}
	schoolID, ok := idParam(ctx, "schoolId")
	if !ok {
		return
	}

	var req service.AddUsersRequest
	if err := ctx.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Users == nil {
		var single service.NewUserRequest
		if err := ctx.ShouldBindBodyWith(&single, binding.JSON); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		req.Users = []service.NewUserRequest{single}
	}

	result, err := c.SchoolService.AddUsers(ctx.Request.Context(), admin, schoolID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, util.Response{
		Code:    http.StatusCreated,
		Message: "users added",
		Data:    result,
	})
}
