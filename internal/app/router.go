package app

import (
	"school_exam_backend/docs"
	"school_exam_backend/internal/middleware"
	"school_exam_backend/internal/model"
	"school_exam_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.Config.JWT.Secret, repos.user))
	{
		a.registerMasterRoutes(authGroup, c)
		a.registerSchoolAdminRoutes(authGroup, c)
		a.registerPaperRoutes(authGroup, c)
		a.registerReportRoutes(authGroup, c)
		a.registerStudentRoutes(authGroup, c)
		a.registerPersonalityTestRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
		public.GET("/schools/resolve", c.school.ResolveSchool)
	}
}

func (a *App) registerMasterRoutes(rg *gin.RouterGroup, c *controllers) {
	master := rg.Group("/master")
	master.Use(middleware.RoleMiddleware(model.RoleMasterAdmin))
	{
		master.GET("/dashboard", c.dir.Dashboard)
		master.GET("/schools", c.dir.ListSchools)
		master.POST("/schools", c.school.CreateSchool)
		master.GET("/school-admins", c.dir.ListSchoolAdmins)
		master.POST("/schools/:schoolId/admins", c.school.CreateSchoolAdmin)
	}
}

func (a *App) registerSchoolAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	schools := rg.Group("/schools/:schoolId")
	schools.Use(middleware.RoleMiddleware(model.RoleSchoolAdmin))
	{
		schools.POST("/users", c.school.AddUsers)
		schools.GET("/students", c.dir.ListStudents)
		schools.GET("/teachers", c.dir.ListTeachers)
	}

	questions := rg.Group("/questions")
	questions.Use(middleware.RoleMiddleware(model.RoleTeacher, model.RoleSchoolAdmin))
	{
		questions.POST("", c.question.AddQuestions)
		questions.GET("", c.question.ListQuestions)
	}
}

func (a *App) registerPaperRoutes(rg *gin.RouterGroup, c *controllers) {
	papers := rg.Group("/papers")
	{
		papers.GET("/mine", middleware.RoleMiddleware(model.RoleStudent), c.paper.MyResults)

		teacher := papers.Group("")
		teacher.Use(middleware.RoleMiddleware(model.RoleTeacher))
		{
			teacher.POST("", c.paper.AssignPaper)
			teacher.GET("", c.paper.QueryPapers)
			teacher.PUT("/update-marks", c.paper.UpdateMarks)
			teacher.GET("/:id", c.paper.GetPaper)
			teacher.PUT("/:id/questions", c.paper.AttachQuestions)
			teacher.GET("/:id/download", c.paper.DownloadResults)
		}
	}
}

func (a *App) registerReportRoutes(rg *gin.RouterGroup, c *controllers) {
	reports := rg.Group("/reports")
	reports.Use(middleware.RoleMiddleware(model.RoleTeacher, model.RoleSchoolAdmin))
	{
		reports.POST("/speech", c.report.CreateSpeechReport)
		reports.GET("/speech/student/:studentId", c.report.ListSpeechReports)
		reports.PUT("/speech/:id/generate", c.report.GenerateSpeechReport)
		reports.POST("/speech/:id/send", c.report.SendSpeechReport)

		reports.POST("/personality", c.report.CreatePersonalityReport)
		reports.GET("/personality/student/:studentId", c.report.ListPersonalityReports)
		reports.PUT("/personality/:id/generate", c.report.GeneratePersonalityReport)
		reports.POST("/personality/:id/send", c.report.SendPersonalityReport)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	students := rg.Group("/students")
	{
		students.GET("", middleware.RoleMiddleware(model.RoleTeacher, model.RoleSchoolAdmin), c.dir.StudentsOfClass)
		students.PUT("/:userId/profile", middleware.RoleMiddleware(model.RoleStudent, model.RoleSchoolAdmin), c.dir.UpdateStudentProfile)
	}
}

func (a *App) registerPersonalityTestRoutes(rg *gin.RouterGroup, c *controllers) {
	tests := rg.Group("/personality-tests")
	{
		tests.POST("", middleware.RoleMiddleware(model.RoleMasterAdmin), c.survey.CreateTest)
		tests.GET("/current", c.survey.GetTest)

		takers := tests.Group("")
		takers.Use(middleware.RoleMiddleware(model.RoleStudent, model.RoleTeacher, model.RoleSchoolAdmin))
		{
			takers.POST("/responses", c.survey.SubmitResponse)
			takers.GET("/results", c.survey.Results)
			takers.GET("/status", c.survey.Status)
		}
	}
}
