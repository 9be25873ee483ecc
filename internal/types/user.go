package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleAdmin   = "ADMIN"
)

const (
	TierFree   = "FREE"
	TierBronz  = "BRONZ"
	TierGumus  = "GUMUS"
	TierAltin  = "ALTIN"
)

type User struct {
	gorm.Model
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email            string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Name             string    `gorm:"not null;column:name" json:"name"`
	Role             string    `gorm:"not null;default:STUDENT;column:role" json:"role"`
	SubscriptionTier string    `gorm:"not null;default:FREE;column:subscription_tier" json:"subscription_tier"`
	DailyAILimit     *int      `gorm:"column:daily_ai_limit" json:"daily_ai_limit,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
