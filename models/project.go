package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Layout span tokens for a project card on the public grid.
const (
	SpanSingleColumn = "single-column"
	SpanDoubleColumn = "double-column"
)

// Project is one card of the public project gallery.
type Project struct {
	ID          uuid.UUID                   `json:"id" gorm:"column:id;type:uuid;primaryKey;not null"`
	Title       string                      `json:"title" gorm:"column:title;type:text;not null"`
	Description string                      `json:"description" gorm:"column:description;type:text;not null"`
	Tags        datatypes.JSONSlice[string] `json:"tags" gorm:"column:tags"`
	GithubURL   string                      `json:"github_url" gorm:"column:github_url;type:text"`
	LiveURL     string                      `json:"live_url" gorm:"column:live_url;type:text"`
	ImageURL    string                      `json:"image_url" gorm:"column:image_url;type:text"`
	Span        string                      `json:"span" gorm:"column:span;type:text;not null"`
	OrderIndex  int                         `json:"order_index" gorm:"column:order_index;type:integer;not null;index"`
	CreatedAt   time.Time                   `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
