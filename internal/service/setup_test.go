package service

import (
	"context"
	"fmt"
	"testing"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/repository"
	"school_exam_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func seedSchool(t *testing.T, db *gorm.DB, name, subdomain string) *model.School {
	t.Helper()
	school := &model.School{Name: name, Subdomain: subdomain}
	require.NoError(t, db.Create(school).Error)
	return school
}

func seedUser(t *testing.T, db *gorm.DB, schoolID *uint, role model.UserRole, name, className string) *model.User {
	t.Helper()
	user := &model.User{
		Name:          name,
		Username:      uuid.NewString()[:12],
		PlainPassword: "secret1",
		Role:          role,
		SchoolID:      schoolID,
		ClassName:     className,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func asTeacher(u *model.User) model.Teacher {
	return model.Teacher{
		Identity: model.Identity{UserID: u.ID, Username: u.Username, Name: u.Name},
		SchoolID: *u.SchoolID,
	}
}

func asSchoolAdmin(u *model.User) model.SchoolAdmin {
	return model.SchoolAdmin{
		Identity: model.Identity{UserID: u.ID, Username: u.Username, Name: u.Name},
		SchoolID: *u.SchoolID,
	}
}

func asStudent(u *model.User) model.Student {
	return model.Student{
		Identity:  model.Identity{UserID: u.ID, Username: u.Username, Name: u.Name},
		SchoolID:  *u.SchoolID,
		ClassName: u.ClassName,
	}
}

// paperFixture is a school with one teacher and a class "5" of three students.
type paperFixture struct {
	db       *gorm.DB
	school   *model.School
	teacher  model.Teacher
	students []*model.User
	papers   *PaperService
	marks    *MarksService
}

func newPaperFixture(t *testing.T) *paperFixture {
	t.Helper()
	db := newTestDB(t)

	school := seedSchool(t, db, "Green Valley", "greenvalley")
	teacher := seedUser(t, db, &school.ID, model.RoleTeacher, "Mrs Rao", "")
	students := []*model.User{
		seedUser(t, db, &school.ID, model.RoleStudent, "Asha", "5"),
		seedUser(t, db, &school.ID, model.RoleStudent, "Bilal", "5"),
		seedUser(t, db, &school.ID, model.RoleStudent, "Chen", "5"),
	}
	seedUser(t, db, &school.ID, model.RoleStudent, "Dara", "6")

	papers := NewPaperService(
		repository.NewPaperRepository(db),
		repository.NewQuestionRepository(db),
		NewRosterService(repository.NewUserRepository(db)),
	)
	return &paperFixture{
		db:       db,
		school:   school,
		teacher:  asTeacher(teacher),
		students: students,
		papers:   papers,
		marks:    NewMarksService(papers),
	}
}

func (f *paperFixture) assign(t *testing.T, className, date string, totalMarks float64) *model.Paper {
	t.Helper()
	res, err := f.papers.Assign(context.Background(), f.teacher, AssignPaperRequest{
		Subject:    "Math",
		ExamName:   "Unit Test 1",
		Topic:      "Fractions",
		SubTopic:   "Addition",
		TotalMarks: totalMarks,
		ClassName:  className,
		DateOfExam: date,
	})
	require.NoError(t, err)
	return res.Paper
}
