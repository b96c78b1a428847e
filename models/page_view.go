package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PageView struct {
	ID        uuid.UUID `json:"id" gorm:"column:id;type:uuid;primaryKey;not null"`
	PagePath  string    `json:"page_path" gorm:"column:page_path;type:text;not null"`
	UserAgent string    `json:"user_agent" gorm:"column:user_agent;type:text"`
	Referrer  *string   `json:"referrer" gorm:"column:referrer;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime;index"`
}

func (PageView) TableName() string { return "page_views" }

func (v *PageView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
