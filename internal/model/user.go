package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMasterAdmin UserRole = "master_admin"
	RoleSchoolAdmin UserRole = "school_admin"
	RoleTeacher     UserRole = "teacher"
	RoleStudent     UserRole = "student"
)

// swagger:model User
type User struct {
	BaseModel
	Name        string     `gorm:"size:100;not null" json:"name"`
	Username    string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password    string     `gorm:"size:100;not null" json:"-"`
	Role        UserRole   `gorm:"size:20;not null;index" json:"role"`
	SchoolID    *uint      `gorm:"index" json:"schoolId,omitempty"`
	ClassName   string     `gorm:"size:50;index" json:"className,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Phone       string     `gorm:"size:30" json:"phone,omitempty"`
	Email       string     `gorm:"size:100" json:"email,omitempty"`

	// PlainPassword is hashed into Password on the next save.
	PlainPassword string `gorm:"-" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.PlainPassword == "" {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.PlainPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	u.PlainPassword = ""
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
