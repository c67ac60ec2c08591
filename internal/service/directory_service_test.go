package service

import (
	"context"
	"net/http"
	"testing"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
	"school_exam_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type directoryFixture struct {
	db      *gorm.DB
	svc     *DirectoryService
	school  *model.School
	other   *model.School
	admin   model.SchoolAdmin
	teacher model.Teacher
	asha    *model.User
}

func newDirectoryFixture(t *testing.T) *directoryFixture {
	t.Helper()
	db := newTestDB(t)
	users := repository.NewUserRepository(db)

	f := &directoryFixture{db: db}
	f.school = seedSchool(t, db, "Green Valley", "greenvalley")
	f.other = seedSchool(t, db, "Hill Top", "hilltop")

	f.admin = asSchoolAdmin(seedUser(t, db, &f.school.ID, model.RoleSchoolAdmin, "Principal Iyer", ""))
	seedUser(t, db, &f.other.ID, model.RoleSchoolAdmin, "Principal Hill", "")
	f.teacher = asTeacher(seedUser(t, db, &f.school.ID, model.RoleTeacher, "Mrs Rao", ""))
	seedUser(t, db, &f.school.ID, model.RoleTeacher, "Mr Bose", "")
	seedUser(t, db, &f.other.ID, model.RoleTeacher, "Mr Hill", "")

	f.asha = seedUser(t, db, &f.school.ID, model.RoleStudent, "Asha", "5")
	seedUser(t, db, &f.school.ID, model.RoleStudent, "Bilal", "5")
	seedUser(t, db, &f.school.ID, model.RoleStudent, "Dara", "6")
	seedUser(t, db, &f.other.ID, model.RoleStudent, "Eve", "5")

	f.svc = NewDirectoryService(repository.NewSchoolRepository(db), users, NewRosterService(users))
	return f
}

func names(users []model.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Name
	}
	return out
}

func TestMasterOverview(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()

	summary, err := f.svc.Dashboard(ctx, master)
	require.NoError(t, err)
	assert.Equal(t, &DashboardSummary{TotalSchools: 2, TotalAdmins: 2}, summary)

	schools, err := f.svc.Schools(ctx, master)
	require.NoError(t, err)
	assert.Len(t, schools, 2)
	assert.Equal(t, "Green Valley", schools[0].Name)

	admins, err := f.svc.SchoolAdmins(ctx, master, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Principal Iyer", "Principal Hill"}, names(admins))

	admins, err = f.svc.SchoolAdmins(ctx, master, &f.other.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Principal Hill"}, names(admins))
}

func TestSchoolMembers(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()

	teachers, err := f.svc.Members(ctx, f.admin, f.school.ID, model.RoleTeacher, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mr Bose", "Mrs Rao"}, names(teachers))

	students, err := f.svc.Members(ctx, f.admin, f.school.ID, model.RoleStudent, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Asha", "Bilal", "Dara"}, names(students))

	students, err = f.svc.Members(ctx, f.admin, f.school.ID, model.RoleStudent, "5")
	require.NoError(t, err)
	assert.Equal(t, []string{"Asha", "Bilal"}, names(students))

	_, err = f.svc.Members(ctx, f.admin, f.other.ID, model.RoleStudent, "")
	assert.Equal(t, http.StatusForbidden, util.StatusOf(err))

	_, err = f.svc.Members(ctx, f.admin, f.school.ID, model.RoleMasterAdmin, "")
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))
}

func TestStudentsOfClassBySubdomain(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()

	students, err := f.svc.StudentsOfClass(ctx, f.teacher, " GreenValley ", "5")
	require.NoError(t, err)
	assert.Equal(t, []string{"Asha", "Bilal"}, names(students))

	students, err = f.svc.StudentsOfClass(ctx, f.teacher, "greenvalley", "12")
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)

	_, err = f.svc.StudentsOfClass(ctx, f.teacher, "hilltop", "5")
	assert.Equal(t, http.StatusForbidden, util.StatusOf(err))

	_, err = f.svc.StudentsOfClass(ctx, f.teacher, "nowhere", "5")
	assert.Equal(t, http.StatusNotFound, util.StatusOf(err))

	_, err = f.svc.StudentsOfClass(ctx, f.teacher, "greenvalley", "")
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))
}

func TestUpdateStudentProfile(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()
	self := asStudent(f.asha)

	updated, err := f.svc.UpdateStudentProfile(ctx, self, f.asha.ID, UpdateProfileRequest{
		Email:       strPtr("asha@example.com"),
		DateOfBirth: strPtr("07-03-2014"),
		Password:    strPtr("newpass1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", updated.Email)
	require.NotNil(t, updated.DateOfBirth)
	assert.Equal(t, "07-03-2014", updated.DateOfBirth.Format(util.ExamDateFormat))

	stored, err := repository.NewUserRepository(f.db).FindByID(ctx, f.asha.ID)
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("newpass1"))
	assert.Equal(t, "5", stored.ClassName)

	_, err = f.svc.UpdateStudentProfile(ctx, self, f.asha.ID, UpdateProfileRequest{ClassName: strPtr("6")})
	assert.Equal(t, http.StatusForbidden, util.StatusOf(err), "students cannot move class")

	updated, err = f.svc.UpdateStudentProfile(ctx, f.admin, f.asha.ID, UpdateProfileRequest{
		Name:      strPtr("Asha Verma"),
		ClassName: strPtr("6"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", updated.Name)
	assert.Equal(t, "6", updated.ClassName)
	assert.Equal(t, "asha@example.com", updated.Email, "omitted fields are kept")

	stored, err = repository.NewUserRepository(f.db).FindByID(ctx, f.asha.ID)
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("newpass1"), "saving without a new password keeps the hash")
}

func TestUpdateStudentProfileRejects(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()
	self := asStudent(f.asha)

	var bilal, eve model.User
	require.NoError(t, f.db.Where("name = ?", "Bilal").First(&bilal).Error)
	require.NoError(t, f.db.Where("name = ?", "Eve").First(&eve).Error)

	tests := []struct {
		name    string
		editor  model.Account
		student uint
		req     UpdateProfileRequest
		status  int
	}{
		{"another student", self, bilal.ID, UpdateProfileRequest{Phone: strPtr("99")}, http.StatusForbidden},
		{"teacher", f.teacher, f.asha.ID, UpdateProfileRequest{Phone: strPtr("99")}, http.StatusForbidden},
		{"admin sets password", f.admin, f.asha.ID, UpdateProfileRequest{Password: strPtr("secret99")}, http.StatusForbidden},
		{"student of another school", f.admin, eve.ID, UpdateProfileRequest{Phone: strPtr("99")}, http.StatusNotFound},
		{"not a student", f.admin, f.teacher.UserID, UpdateProfileRequest{Phone: strPtr("99")}, http.StatusNotFound},
		{"bad date", self, f.asha.ID, UpdateProfileRequest{DateOfBirth: strPtr("2014-03-07")}, http.StatusBadRequest},
		{"short password", self, f.asha.ID, UpdateProfileRequest{Password: strPtr("abc")}, http.StatusBadRequest},
		{"blank name", f.admin, f.asha.ID, UpdateProfileRequest{Name: strPtr("  ")}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdateStudentProfile(ctx, tt.editor, tt.student, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.status, util.StatusOf(err))
		})
	}
}
