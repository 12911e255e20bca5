package entities

import "time"

// Setting is the single persisted configuration record. One row per
// deployment, keyed by a fixed id.
type Setting struct {
	ID                   string    `gorm:"type:varchar(40);primaryKey"`
	OpenRouterAPIKey     string    `gorm:"type:text"`
	ModelProvider        string    `gorm:"type:varchar(32);not null"`
	ModelName            string    `gorm:"type:varchar(128);not null"`
	EvolutionAPIURL      string    `gorm:"type:varchar(255);not null"`
	EvolutionAPIKey      string    `gorm:"type:text"`
	DefaultPhoneNumberID string    `gorm:"type:varchar(64)"`
	SystemPrompt         string    `gorm:"type:text;not null"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

func (Setting) TableName() string {
	return "settings"
}
