package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AIUsageLog is the append-only ledger of provider calls, for cost and usage
// observability. Writes are best-effort and never fail the main flow.
type AIUsageLog struct {
	gorm.Model
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           *uuid.UUID `gorm:"type:uuid;index;column:user_id" json:"user_id,omitempty"`
	ModelName        string     `gorm:"not null;column:model" json:"model"`
	Action           string     `gorm:"not null;column:action" json:"action"`
	PromptTokens     int        `gorm:"not null;default:0;column:prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int        `gorm:"not null;default:0;column:completion_tokens" json:"completion_tokens"`
	TotalTokens      int        `gorm:"not null;default:0;column:total_tokens" json:"total_tokens"`
	CreatedAt        time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (AIUsageLog) TableName() string {
	return "ai_usage_log"
}
