package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	IconBriefcase     = "briefcase"
	IconGraduationCap = "graduation-cap"
)

// Experience is one step of the career timeline. Year is a free period label such as "2023 - Présent".
type Experience struct {
	ID          uuid.UUID `json:"id" gorm:"column:id;type:uuid;primaryKey;not null"`
	Year        string    `json:"year" gorm:"column:year;type:text;not null"`
	Title       string    `json:"title" gorm:"column:title;type:text;not null"`
	Company     string    `json:"company" gorm:"column:company;type:text;not null"`
	Description string    `json:"description" gorm:"column:description;type:text"`
	IconType    string    `json:"icon_type" gorm:"column:icon_type;type:text;not null"`
	OrderIndex  int       `json:"order_index" gorm:"column:order_index;type:integer;not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Experience) TableName() string { return "experiences" }

func (e *Experience) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
