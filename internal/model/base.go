package model

import (
	"time"

	"gorm.io/gorm"
)

// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreatedBy is a denormalized snapshot of the account that created a record.
type CreatedBy struct {
	ID       uint     `json:"id"`
	Username string   `gorm:"size:100" json:"username"`
	Role     UserRole `gorm:"size:20" json:"role"`
}
