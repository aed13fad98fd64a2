package models

import "time"

// Message is an inquiry submitted through a listing's contact form. Messages
// are not linked to a sender account; the email string is the only identity.
type Message struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MaisonID int64     `gorm:"not null;index" json:"maisonId"`
	Name     string    `gorm:"type:varchar(255);not null" json:"name"`
	Email    string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone    string    `gorm:"type:varchar(50);not null" json:"phone"`
	Body     string    `gorm:"column:message;type:text;not null" json:"message"`
	Date     time.Time `gorm:"autoCreateTime;index" json:"date"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageWithTitle joins in the title of the listing the message refers to.
type MessageWithTitle struct {
	Message       `gorm:"embedded"`
	PropertyTitle string `json:"propertyTitle"`
}

// AdminMessage additionally carries the listing owner's name for the
// moderation view.
type AdminMessage struct {
	Message       `gorm:"embedded"`
	PropertyTitle string `json:"propertyTitle"`
	OwnerName     string `json:"ownerName"`
}
