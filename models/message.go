package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a contact form submission. The admin only reads and deletes them.
type Message struct {
	ID        uuid.UUID `json:"id" gorm:"column:id;type:uuid;primaryKey;not null"`
	Name      string    `json:"name" gorm:"column:name;type:text;not null"`
	Email     string    `json:"email" gorm:"column:email;type:text;not null"`
	Subject   string    `json:"subject" gorm:"column:subject;type:text;not null"`
	Message   string    `json:"message" gorm:"column:message;type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime;index"`
}

func (Message) TableName() string { return "messages" }

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
