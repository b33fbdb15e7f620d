package model

import (
	"time"
)

type NotificationType string

const (
	NotificationTypeEmail NotificationType = "EMAIL"
	NotificationTypeSMS   NotificationType = "SMS"
	NotificationTypePush  NotificationType = "PUSH"
)

type Notification struct {
	ID             int64            `db:"id" json:"id"`
	Type           NotificationType `db:"type" json:"type"`
	Message        string           `db:"message" json:"message"`
	SentDate       *time.Time       `db:"sent_date" json:"sent_date,omitempty"`
	IsRead         bool             `db:"is_read" json:"is_read"`
	RecipientEmail *string          `db:"recipient_email" json:"recipient_email,omitempty"`
	RecipientPhone *string          `db:"recipient_phone" json:"recipient_phone,omitempty"`
	AppointmentID  *int64           `db:"appointment_id" json:"appointment_id,omitempty"`
	RecipientID    *int64           `db:"recipient_id" json:"recipient_id,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}

type NotificationRequest struct {
	ID             *int64           `json:"id"`
	Type           NotificationType `json:"type" binding:"required,oneof=EMAIL SMS PUSH"`
	Message        string           `json:"message" binding:"required,max=500"`
	SentDate       *time.Time       `json:"sent_date"`
	IsRead         *bool            `json:"is_read" binding:"required"`
	RecipientEmail *string          `json:"recipient_email" binding:"omitempty,email"`
	RecipientPhone *string          `json:"recipient_phone"`
	AppointmentID  *int64           `json:"appointment_id"`
	RecipientID    *int64           `json:"recipient_id"`
}

type NotificationPatch struct {
	ID             *int64            `json:"id"`
	Type           *NotificationType `json:"type" binding:"omitempty,oneof=EMAIL SMS PUSH"`
	Message        *string           `json:"message" binding:"omitempty,max=500"`
	SentDate       *time.Time        `json:"sent_date"`
	IsRead         *bool             `json:"is_read"`
	RecipientEmail *string           `json:"recipient_email" binding:"omitempty,email"`
	RecipientPhone *string           `json:"recipient_phone"`
}
