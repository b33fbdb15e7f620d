package model

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusPlanned   AppointmentStatus = "PLANNED"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
)

var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPlanned,
	AppointmentStatusConfirmed,
	AppointmentStatusCancelled,
	AppointmentStatusCompleted,
}

type Appointment struct {
	ID               int64             `db:"id" json:"id"`
	Title            string            `db:"title" json:"title"`
	Description      *string           `db:"description" json:"description,omitempty"`
	AppointmentDate  time.Time         `db:"appointment_date" json:"appointment_date"`
	Duration         int               `db:"duration" json:"duration"`
	Status           AppointmentStatus `db:"status" json:"status"`
	CreatedDate      time.Time         `db:"created_date" json:"created_date"`
	LastModifiedDate time.Time         `db:"last_modified_date" json:"last_modified_date"`
	CreatedByID      *int64            `db:"created_by_id" json:"created_by_id,omitempty"`
	TypeID           *int64            `db:"type_id" json:"type_id,omitempty"`
	ParticipantIDs   []int64           `db:"-" json:"participant_ids"`
}

type AppointmentRequest struct {
	ID              *int64            `json:"id"`
	Title           string            `json:"title" binding:"required,max=100"`
	Description     *string           `json:"description"`
	AppointmentDate time.Time         `json:"appointment_date" binding:"required"`
	Duration        int               `json:"duration" binding:"required,min=1,max=1440"`
	Status          AppointmentStatus `json:"status" binding:"required,oneof=PLANNED CONFIRMED CANCELLED COMPLETED"`
	CreatedByID     *int64            `json:"created_by_id"`
	TypeID          *int64            `json:"type_id"`
	ParticipantIDs  []int64           `json:"participant_ids"`
}

type AppointmentPatch struct {
	ID              *int64             `json:"id"`
	Title           *string            `json:"title" binding:"omitempty,max=100"`
	Description     *string            `json:"description"`
	AppointmentDate *time.Time         `json:"appointment_date"`
	Duration        *int               `json:"duration" binding:"omitempty,min=1,max=1440"`
	Status          *AppointmentStatus `json:"status" binding:"omitempty,oneof=PLANNED CONFIRMED CANCELLED COMPLETED"`
	TypeID          *int64             `json:"type_id"`
	ParticipantIDs  *[]int64           `json:"participant_ids"`
}

type AppointmentType struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
	Color       *string `db:"color" json:"color,omitempty"`
	IsActive    bool    `db:"is_active" json:"is_active"`
}

type AppointmentTypeRequest struct {
	ID          *int64  `json:"id"`
	Name        string  `json:"name" binding:"required,max=50"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	Color       *string `json:"color" binding:"omitempty,hexcolor6"`
	IsActive    *bool   `json:"is_active" binding:"required"`
}

type AppointmentTypePatch struct {
	ID          *int64  `json:"id"`
	Name        *string `json:"name" binding:"omitempty,max=50"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	Color       *string `json:"color" binding:"omitempty,hexcolor6"`
	IsActive    *bool   `json:"is_active"`
}
