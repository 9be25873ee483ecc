package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student links a coached student profile to its user account (if the
// student has one) and to the teacher that owns the profile.
type Student struct {
	gorm.Model
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index;column:user_id" json:"user_id,omitempty"`
	TeacherID uuid.UUID  `gorm:"type:uuid;index;not null;column:teacher_id" json:"teacher_id"`
	FullName  string     `gorm:"not null;column:full_name" json:"full_name"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Student) TableName() string {
	return "student"
}
