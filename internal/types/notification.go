package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is the durable, user-visible record written when a progress
// report completes. Realtime delivery goes over the SSE hub separately.
type Notification struct {
	gorm.Model
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Title     string    `gorm:"not null;column:title" json:"title"`
	Body      string    `gorm:"column:body" json:"body"`
	Read      bool      `gorm:"not null;default:false;column:read" json:"read"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Notification) TableName() string {
	return "notification"
}
