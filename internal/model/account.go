package model

import (
	"errors"
	"fmt"
)

var ErrInvalidAccount = errors.New("invalid account")

// Identity is shared by every account variant.
type Identity struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (i Identity) Who() Identity { return i }

// Account is one of MasterAdmin, SchoolAdmin, Teacher or Student. Handlers
// receive it from the auth middleware and switch on the concrete type.
type Account interface {
	Who() Identity
	Role() UserRole
}

type MasterAdmin struct {
	Identity
}

type SchoolAdmin struct {
	Identity
	SchoolID uint `json:"schoolId"`
}

type Teacher struct {
	Identity
	SchoolID uint `json:"schoolId"`
}

type Student struct {
	Identity
	SchoolID  uint   `json:"schoolId"`
	ClassName string `json:"className"`
}

func (MasterAdmin) Role() UserRole { return RoleMasterAdmin }
func (SchoolAdmin) Role() UserRole { return RoleSchoolAdmin }
func (Teacher) Role() UserRole     { return RoleTeacher }
func (Student) Role() UserRole     { return RoleStudent }

// SchoolOf returns the tenant of a school-bound account.
func SchoolOf(a Account) (uint, bool) {
	switch v := a.(type) {
	case SchoolAdmin:
		return v.SchoolID, true
	case Teacher:
		return v.SchoolID, true
	case Student:
		return v.SchoolID, true
	}
	return 0, false
}

// AccountFromUser builds the account variant for a stored user, rejecting
// role/school/class combinations that cannot exist.
func AccountFromUser(u *User) (Account, error) {
	id := Identity{UserID: u.ID, Username: u.Username, Name: u.Name}

	switch u.Role {
	case RoleMasterAdmin:
		if u.SchoolID != nil {
			return nil, fmt.Errorf("%w: master admin %d is bound to a school", ErrInvalidAccount, u.ID)
		}
		return MasterAdmin{Identity: id}, nil
	case RoleSchoolAdmin, RoleTeacher, RoleStudent:
		if u.SchoolID == nil || *u.SchoolID == 0 {
			return nil, fmt.Errorf("%w: %s %d has no school", ErrInvalidAccount, u.Role, u.ID)
		}
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidAccount, u.Role)
	}

	schoolID := *u.SchoolID
	switch u.Role {
	case RoleSchoolAdmin:
		return SchoolAdmin{Identity: id, SchoolID: schoolID}, nil
	case RoleTeacher:
		return Teacher{Identity: id, SchoolID: schoolID}, nil
	}

	if u.ClassName == "" {
		return nil, fmt.Errorf("%w: student %d has no class", ErrInvalidAccount, u.ID)
	}
	return Student{Identity: id, SchoolID: schoolID, ClassName: u.ClassName}, nil
}

func CreatedByOf(a Account) CreatedBy {
	who := a.Who()
	return CreatedBy{ID: who.UserID, Username: who.Username, Role: a.Role()}
}
