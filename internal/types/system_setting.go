package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SystemSetting keys used by the coaching pipeline.
const (
	SettingGeminiAPIKey = "GEMINI_API_KEY"
	SettingGeminiModel  = "GEMINI_MODEL"
)

type SystemSetting struct {
	gorm.Model
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null;column:key" json:"key"`
	Value     string    `gorm:"not null;column:value" json:"value"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (SystemSetting) TableName() string {
	return "system_setting"
}
