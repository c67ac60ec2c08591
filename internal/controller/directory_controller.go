package controller

import (
	"school_exam_backend/internal/model"
	"school_exam_backend/internal/service"
	"school_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DirectoryController struct {
	DirectoryService *service.DirectoryService
}

func NewDirectoryController(directoryService *service.DirectoryService) *DirectoryController {
	return &DirectoryController{DirectoryService: directoryService}
}

// Dashboard godoc
// @Summary School and school admin counts
// @Tags Master
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.DashboardSummary}
// @Router /master/dashboard [get]
func (c *DirectoryController) Dashboard(ctx *gin.Context) {
	admin, ok := accountAs[model.MasterAdmin](ctx)
	if !ok {
		return
	}

	summary, err := c.DirectoryService.Dashboard(ctx.Request.Context(), admin)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// ListSchools godoc
// @Summary All schools
// @Tags Master
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.School}
// @Router /master/schools [get]
func (c *DirectoryController) ListSchools(ctx *gin.Context) {
	admin, ok := accountAs[model.MasterAdmin](ctx)
	if !ok {
		return
	}

	schools, err := c.DirectoryService.Schools(ctx.Request.Context(), admin)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, schools)
}

// ListSchoolAdmins godoc
// @Summary School admins, optionally of one school
// @Tags Master
// @Produce json
// @Security ApiKeyAuth
// @Param schoolId query int false "School ID"
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /master/school-admins [get]
func (c *DirectoryController) ListSchoolAdmins(ctx *gin.Context) {
	admin, ok := accountAs[model.MasterAdmin](ctx)
	if !ok {
		return
	}
	schoolID, ok := optionalIDQuery(ctx, "schoolId")
	if !ok {
		return
	}

	admins, err := c.DirectoryService.SchoolAdmins(ctx.Request.Context(), admin, schoolID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, admins)
}

// ListStudents godoc
// @Summary Students of the school
// @Tags Schools
// @Produce json
// @Security ApiKeyAuth
// @Param schoolId path int true "School ID"
// @Param className query string false "Class"
// @Success 200 {object} util.Response{data=[]model.User}
// @Failure 403 {object} util.Response
// @Router /schools/{schoolId}/students [get]
func (c *DirectoryController) ListStudents(ctx *gin.Context) {
	c.listMembers(ctx, model.RoleStudent)
}

// ListTeachers godoc
// @Summary Teachers of the school
// @Tags Schools
// @Produce json
// @Security ApiKeyAuth
// @Param schoolId path int true "School ID"
// @Success 200 {object} util.Response{data=[]model.User}
// @Failure 403 {object} util.Response
// @Router /schools/{schoolId}/teachers [get]
func (c *DirectoryController) ListTeachers(ctx *gin.Context) {
	c.listMembers(ctx, model.RoleTeacher)
}

func (c *DirectoryController) listMembers(ctx *gin.Context, role model.UserRole) {
	admin, ok := accountAs[model.SchoolAdmin](ctx)
	if !ok {
		return
	}
	schoolID, ok := idParam(ctx, "schoolId")
	if !ok {
		return
	}

	users, err := c.DirectoryService.Members(ctx.Request.Context(), admin, schoolID, role, ctx.Query("className"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// StudentsOfClass godoc
// @Summary Students of a class, by school subdomain
// @Description The subdomain query parameter wins over the request host.
// @Tags Students
// @Produce json
// @Security ApiKeyAuth
// @Param className query string true "Class"
// @Param subdomain query string false "School subdomain"
// @Success 200 {object} util.Response{data=[]model.User}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /students [get]
func (c *DirectoryController) StudentsOfClass(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}
	sub := ctx.Query("subdomain")
	if sub == "" {
		sub = subdomainFromHost(ctx.Request.Host)
	}
	if sub == "" {
		util.BadRequest(ctx, "subdomain is required")
		return
	}

	students, err := c.DirectoryService.StudentsOfClass(ctx.Request.Context(), account, sub, ctx.Query("className"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, students)
}

// UpdateStudentProfile godoc
// @Summary Update a student's profile
// @Description Students edit their own contact details and password; school admins edit any student of the school.
// @Tags Students
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "Student ID"
// @Param body body service.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /students/{userId}/profile [put]
func (c *DirectoryController) UpdateStudentProfile(ctx *gin.Context) {
	account, ok := currentAccount(ctx)
	if !ok {
		return
	}
	studentID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, err := c.DirectoryService.UpdateStudentProfile(ctx.Request.Context(), account, studentID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, student)
}
