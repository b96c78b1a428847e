package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Technology is an entry of the tech stack section.
type Technology struct {
	ID         uuid.UUID `json:"id" gorm:"column:id;type:uuid;primaryKey;not null"`
	Name       string    `json:"name" gorm:"column:name;type:text;not null"`
	Category   string    `json:"category" gorm:"column:category;type:text;not null"`
	IconURL    *string   `json:"icon_url" gorm:"column:icon_url;type:text"`
	OrderIndex int       `json:"order_index" gorm:"column:order_index;type:integer;not null;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Technology) TableName() string { return "technologies" }

func (t *Technology) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
