package model

import (
	"errors"
	"strings"
	"unicode"

	"gorm.io/gorm"
)

var ErrInvalidSubdomain = errors.New("subdomain must be non-empty and contain no whitespace")

// swagger:model School
type School struct {
	BaseModel
	Name          string    `gorm:"size:200;not null" json:"name"`
	Subdomain     string    `gorm:"size:100;uniqueIndex;not null" json:"subdomain"`
	Logo          string    `gorm:"size:500" json:"logo,omitempty"`
	Address       string    `gorm:"size:500" json:"address,omitempty"`
	PrincipalName string    `gorm:"size:100" json:"principalName,omitempty"`
	PhoneNumber   string    `gorm:"size:30" json:"phoneNumber,omitempty"`
	CreatedBy     CreatedBy `gorm:"embedded;embeddedPrefix:created_by_" json:"createdBy"`
}

func NormalizeSubdomain(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return "", ErrInvalidSubdomain
	}
	return s, nil
}

func (s *School) BeforeSave(tx *gorm.DB) error {
	sub, err := NormalizeSubdomain(s.Subdomain)
	if err != nil {
		return err
	}
	s.Subdomain = sub
	return nil
}
