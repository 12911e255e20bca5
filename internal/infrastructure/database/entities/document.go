package entities

import "time"

// Document represents the persisted document metadata.
type Document struct {
	ID          string    `gorm:"type:varchar(40);primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	MimeType    string    `gorm:"type:varchar(64);not null"`
	Size        int64     `gorm:"not null"`
	Status      string    `gorm:"type:varchar(16);index;not null"`
	StoragePath string    `gorm:"type:varchar(255);not null"`
	Hash        string    `gorm:"type:char(64);index;not null"`
	Error       string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;index"`
}

func (Document) TableName() string {
	return "documents"
}
