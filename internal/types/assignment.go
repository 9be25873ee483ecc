package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AssignmentStatusAssigned  = "ASSIGNED"
	AssignmentStatusCompleted = "COMPLETED"
)

// Assignment is a completed exam attempt. Answers maps question id to the
// student's marked answer. AIAnalysis is a write-once cache: once set it is
// authoritative and never recomputed.
type Assignment struct {
	gorm.Model
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID   uuid.UUID      `gorm:"type:uuid;index;not null;column:student_id" json:"student_id"`
	ProjectID   *uuid.UUID     `gorm:"type:uuid;index;column:project_id" json:"project_id,omitempty"`
	Title       string         `gorm:"not null;column:title" json:"title"`
	Status      string         `gorm:"not null;default:ASSIGNED;column:status" json:"status"`
	Answers     datatypes.JSON `gorm:"type:jsonb;column:answers" json:"answers"`
	Score       *float64       `gorm:"column:score" json:"score,omitempty"`
	AIAnalysis  string         `gorm:"column:ai_analysis" json:"ai_analysis,omitempty"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Assignment) TableName() string {
	return "assignment"
}
