package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Schedule is one planned study activity; recurring tasks carry no date.
type Schedule struct {
	gorm.Model
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID   uuid.UUID  `gorm:"type:uuid;index;not null;column:student_id" json:"student_id"`
	Subject     string     `gorm:"column:subject" json:"subject"`
	IsCompleted bool       `gorm:"not null;default:false;column:is_completed" json:"is_completed"`
	Date        *time.Time `gorm:"column:date" json:"date,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Schedule) TableName() string {
	return "schedule"
}
