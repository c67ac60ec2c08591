package controller

import (
	"fmt"
	"net/http"
	"testing"

	"school_exam_backend/internal/middleware"
	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
	"school_exam_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStudentAPI(t *testing.T) (*paperAPI, *model.User, *model.User) {
	t.Helper()
	api := newPaperAPI(t)

	root := &model.User{Name: "Root", Username: uuid.NewString()[:12], PlainPassword: "secret1", Role: model.RoleMasterAdmin}
	require.NoError(t, api.db.Create(root).Error)
	admin := &model.User{Name: "Principal Iyer", Username: uuid.NewString()[:12], PlainPassword: "secret1",
		Role: model.RoleSchoolAdmin, SchoolID: api.teacher.SchoolID}
	require.NoError(t, api.db.Create(admin).Error)

	users := repository.NewUserRepository(api.db)
	survey := NewQuestionnaireController(service.NewQuestionnaireService(repository.NewQuestionnaireRepository(api.db), users))
	dir := NewDirectoryController(service.NewDirectoryService(repository.NewSchoolRepository(api.db), users, service.NewRosterService(users)))

	r := gin.New()
	authed := r.Group("/api", middleware.AuthMiddleware(testSecret, users))
	authed.GET("/master/dashboard", middleware.RoleMiddleware(model.RoleMasterAdmin), dir.Dashboard)
	authed.GET("/schools/:schoolId/students", middleware.RoleMiddleware(model.RoleSchoolAdmin), dir.ListStudents)
	authed.GET("/students", middleware.RoleMiddleware(model.RoleTeacher, model.RoleSchoolAdmin), dir.StudentsOfClass)
	authed.PUT("/students/:userId/profile", middleware.RoleMiddleware(model.RoleStudent, model.RoleSchoolAdmin), dir.UpdateStudentProfile)

	tests := authed.Group("/personality-tests")
	tests.POST("", middleware.RoleMiddleware(model.RoleMasterAdmin), survey.CreateTest)
	tests.GET("/current", survey.GetTest)
	takers := tests.Group("", middleware.RoleMiddleware(model.RoleStudent, model.RoleTeacher, model.RoleSchoolAdmin))
	takers.POST("/responses", survey.SubmitResponse)
	takers.GET("/results", survey.Results)
	takers.GET("/status", survey.Status)

	api.router = r
	return api, root, admin
}

func TestPersonalityTestFlow(t *testing.T) {
	api, root, _ := newStudentAPI(t)
	asha := api.students[0]

	w := api.do(t, asha, http.MethodGet, "/api/personality-tests/current", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, asha, http.MethodPost, "/api/personality-tests", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, root, http.MethodPost, "/api/personality-tests", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var test model.PersonalityTest
	w = api.do(t, asha, http.MethodGet, "/api/personality-tests/current", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &test)
	require.Len(t, test.Questions, 50)

	answers := make([]service.TestAnswerInput, len(test.Questions))
	for i, q := range test.Questions {
		answers[i] = service.TestAnswerInput{QuestionLabel: q.Label, Answer: "Strongly Agree"}
	}
	body := service.SubmitTestRequest{TestID: test.ID, Responses: answers}

	w = api.do(t, asha, http.MethodPost, "/api/personality-tests/responses",
		service.SubmitTestRequest{TestID: test.ID, Responses: answers[:10]})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, asha, http.MethodPost, "/api/personality-tests/responses", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var saved model.PersonalityTestResponse
	decode(t, w, &saved)
	assert.Equal(t, 250, saved.TotalMark)

	w = api.do(t, asha, http.MethodPost, "/api/personality-tests/responses", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	var status service.TestStatus
	w = api.do(t, asha, http.MethodGet, "/api/personality-tests/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &status)
	assert.False(t, status.Allowed)
	assert.NotNil(t, status.NextAllowedTime)

	var results []model.PersonalityTestResponse
	w = api.do(t, api.teacher, http.MethodGet, "/api/personality-tests/results?studentId="+fmt.Sprint(asha.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &results)
	assert.Len(t, results, 1)

	w = api.do(t, api.teacher, http.MethodGet, "/api/personality-tests/results", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, api.teacher, http.MethodGet, "/api/personality-tests/results?studentId=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDirectoryRoutes(t *testing.T) {
	api, root, admin := newStudentAPI(t)
	asha := api.students[0]

	var summary service.DashboardSummary
	w := api.do(t, root, http.MethodGet, "/api/master/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &summary)
	assert.Equal(t, service.DashboardSummary{TotalSchools: 1, TotalAdmins: 1}, summary)

	var students []model.User
	w = api.do(t, admin, http.MethodGet, "/api/schools/"+fmt.Sprint(*admin.SchoolID)+"/students?className=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &students)
	assert.Len(t, students, 2)

	w = api.do(t, admin, http.MethodGet, "/api/schools/"+fmt.Sprint(*admin.SchoolID+1)+"/students", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, api.teacher, http.MethodGet, "/api/students?subdomain=greenvalley&className=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &students)
	assert.Len(t, students, 2)

	w = api.do(t, asha, http.MethodGet, "/api/students?subdomain=greenvalley&className=5", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var updated model.User
	w = api.do(t, asha, http.MethodPut, "/api/students/"+fmt.Sprint(asha.ID)+"/profile", map[string]string{"phone": "9876543210"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &updated)
	assert.Equal(t, "9876543210", updated.Phone)

	w = api.do(t, asha, http.MethodPut, "/api/students/"+fmt.Sprint(api.students[1].ID)+"/profile", map[string]string{"phone": "1"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, admin, http.MethodPut, "/api/students/"+fmt.Sprint(asha.ID)+"/profile", map[string]string{"className": "6"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &updated)
	assert.Equal(t, "6", updated.ClassName)
}
