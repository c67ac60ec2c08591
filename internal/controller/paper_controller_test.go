package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"school_exam_backend/internal/middleware"
	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
	"school_exam_backend/internal/service"
	"school_exam_backend/internal/util"
	"school_exam_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "controller-test-secret-0123456789abcdef"

type paperAPI struct {
	router   *gin.Engine
	db       *gorm.DB
	teacher  *model.User
	other    *model.User
	students []*model.User
}

func newPaperAPI(t *testing.T) *paperAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	util.RegisterValidators()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.Models()...))

	school := &model.School{Name: "Green Valley", Subdomain: "greenvalley"}
	require.NoError(t, db.Create(school).Error)
	newUser := func(name string, role model.UserRole, class string) *model.User {
		u := &model.User{Name: name, Username: uuid.NewString()[:12], PlainPassword: "secret1", Role: role, SchoolID: &school.ID, ClassName: class}
		require.NoError(t, db.Create(u).Error)
		return u
	}

	api := &paperAPI{db: db}
	api.teacher = newUser("Mrs Rao", model.RoleTeacher, "")
	api.other = newUser("Mr Other", model.RoleTeacher, "")
	api.students = []*model.User{newUser("Asha", model.RoleStudent, "5"), newUser("Bilal", model.RoleStudent, "5")}

	papers := service.NewPaperService(
		repository.NewPaperRepository(db),
		repository.NewQuestionRepository(db),
		service.NewRosterService(repository.NewUserRepository(db)),
	)
	ctrl := NewPaperController(papers, service.NewMarksService(papers))

	r := gin.New()
	group := r.Group("/api/papers", middleware.AuthMiddleware(testSecret, repository.NewUserRepository(db)))
	group.GET("/mine", middleware.RoleMiddleware(model.RoleStudent), ctrl.MyResults)
	teacherOnly := group.Group("", middleware.RoleMiddleware(model.RoleTeacher))
	teacherOnly.POST("", ctrl.AssignPaper)
	teacherOnly.GET("", ctrl.QueryPapers)
	teacherOnly.PUT("/update-marks", ctrl.UpdateMarks)
	teacherOnly.GET("/:id", ctrl.GetPaper)
	teacherOnly.GET("/:id/download", ctrl.DownloadResults)
	api.router = r
	return api
}

func (a *paperAPI) do(t *testing.T, user *model.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := util.GenerateJWT(user, testSecret, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if v != nil {
		require.NoError(t, json.Unmarshal(env.Data, v))
	}
	return env
}

func assignBody(date string) map[string]interface{} {
	return map[string]interface{}{
		"subject":    "Math",
		"examName":   "Unit Test 1",
		"topic":      "Fractions",
		"subTopic":   "Addition",
		"totalMarks": 50,
		"className":  "5",
		"dateOfExam": date,
	}
}

func TestPaperLifecycleOverHTTP(t *testing.T) {
	api := newPaperAPI(t)

	w := api.do(t, api.teacher, http.MethodPost, "/api/papers", assignBody("15-09-2023"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var assigned service.AssignPaperResult
	decode(t, w, &assigned)
	assert.Equal(t, 2, assigned.StudentCount)
	paperID := assigned.Paper.ID

	w = api.do(t, api.teacher, http.MethodPut, "/api/papers/update-marks", map[string]interface{}{
		"paperId": paperID,
		"version": 1,
		"results": []map[string]interface{}{
			{"student": api.students[0].ID, "marksObtained": "45", "remarks": "Great"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var paper model.Paper
	decode(t, w, &paper)
	assert.Equal(t, 2, paper.Version)

	w = api.do(t, api.students[0], http.MethodGet, "/api/papers/mine", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []model.Paper
	decode(t, w, &mine)
	require.Len(t, mine, 1)
	require.Len(t, mine[0].Results, 1)
	assert.Equal(t, 45.0, *mine[0].Results[0].MarksObtained)

	w = api.do(t, api.teacher, http.MethodGet, fmt.Sprintf("/api/papers/%d/download", paperID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, util.MimePDF, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Unit_Test_1_5_results.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestAssignPaperRejectsBadInput(t *testing.T) {
	api := newPaperAPI(t)

	w := api.do(t, api.teacher, http.MethodPost, "/api/papers", assignBody("2023-09-15"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := assignBody("15-09-2023")
	body["className"] = "12"
	w = api.do(t, api.teacher, http.MethodPost, "/api/papers", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, "No students found for class 12", env.Message)
}

func TestPaperAccessControl(t *testing.T) {
	api := newPaperAPI(t)
	w := api.do(t, api.teacher, http.MethodPost, "/api/papers", assignBody("15-09-2023"))
	require.Equal(t, http.StatusCreated, w.Code)
	var assigned service.AssignPaperResult
	decode(t, w, &assigned)
	path := fmt.Sprintf("/api/papers/%d", assigned.Paper.ID)

	assert.Equal(t, http.StatusUnauthorized, api.do(t, nil, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(t, api.students[0], http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(t, api.other, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(t, api.other, http.MethodGet, path+"/download", nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(t, api.teacher, http.MethodGet, "/api/papers/mine", nil).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, api.teacher, http.MethodGet, "/api/papers/abc", nil).Code)
	assert.Equal(t, http.StatusOK, api.do(t, api.teacher, http.MethodGet, path, nil).Code)
}

func TestQueryPapersValidatesPeriod(t *testing.T) {
	api := newPaperAPI(t)

	w := api.do(t, api.teacher, http.MethodGet, "/api/papers?month=9", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, api.teacher, http.MethodGet, "/api/papers?month=9&year=2023", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var papers []model.Paper
	decode(t, w, &papers)
	assert.Empty(t, papers)
}

func TestSubdomainFromHost(t *testing.T) {
	tests := map[string]string{
		"greenvalley.example.com":      "greenvalley",
		"greenvalley.example.com:8080": "greenvalley",
		"www.example.com":              "",
		"example.com":                  "",
		"localhost:8080":               "",
		"10.0.0.1":                     "",
	}
	for host, want := range tests {
		assert.Equal(t, want, subdomainFromHost(host), host)
	}
}
