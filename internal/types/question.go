package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	gorm.Model
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID     uuid.UUID `gorm:"type:uuid;index;not null;column:project_id" json:"project_id"`
	Order         int       `gorm:"not null;default:0;column:question_order" json:"order"`
	ImageURL      string    `gorm:"column:image_url" json:"image_url"`
	CorrectAnswer string    `gorm:"column:correct_answer" json:"correct_answer"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Question) TableName() string {
	return "question"
}
