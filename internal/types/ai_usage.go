package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AIUsage is the per-user, per-calendar-day counter of completed coaching
// jobs. One row per (user, day); rows are never deleted.
type AIUsage struct {
	gorm.Model
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ai_usage_user_date;column:user_id" json:"user_id"`
	Date      string    `gorm:"not null;uniqueIndex:idx_ai_usage_user_date;column:date" json:"date"`
	Count     int       `gorm:"not null;default:0;column:count" json:"count"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (AIUsage) TableName() string {
	return "ai_usage"
}
