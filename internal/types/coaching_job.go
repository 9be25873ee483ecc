package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	JobTypeAskAI           = "ask_ai"
	JobTypeAnalyzeProgress = "analyze_progress"
)

const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// CoachingJob is one queued unit of coaching work. Rows live in the shared
// queue table; workers claim them with SKIP LOCKED.
type CoachingJob struct {
	gorm.Model
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	JobType     string         `gorm:"not null;column:job_type" json:"job_type"`
	Payload     datatypes.JSON `gorm:"type:jsonb;column:payload" json:"payload"`
	Status      string         `gorm:"not null;default:queued;index;column:status" json:"status"`
	Attempts    int            `gorm:"not null;default:0;column:attempts" json:"attempts"`
	LastError   string         `gorm:"column:last_error" json:"last_error,omitempty"`
	LastErrorAt *time.Time     `gorm:"column:last_error_at" json:"last_error_at,omitempty"`
	LockedAt    *time.Time     `gorm:"column:locked_at" json:"locked_at,omitempty"`
	FinishedAt  *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (CoachingJob) TableName() string {
	return "coaching_job"
}
