package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionChat             = "chat"
	ActionAnalysis         = "analysis"
	ActionProgressAnalysis = "progress_analysis"
)

// CoachingHistory is the append-only log of coaching interactions. Entries
// are never mutated or deleted by the pipeline; the most recent ones are
// reused as conversational context for later prompts.
type CoachingHistory struct {
	gorm.Model
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Query        string     `gorm:"not null;column:query" json:"query"`
	Response     string     `gorm:"not null;column:response" json:"response"`
	Action       string     `gorm:"not null;column:action" json:"action"`
	AssignmentID *uuid.UUID `gorm:"type:uuid;index;column:assignment_id" json:"assignment_id,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (CoachingHistory) TableName() string {
	return "coaching_history"
}
