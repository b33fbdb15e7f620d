package model

import (
	"github.com/shopspring/decimal"
)

type BusinessType string

const (
	BusinessTypeRestaurant  BusinessType = "RESTAURANT"
	BusinessTypeCafe        BusinessType = "CAFE"
	BusinessTypeGym         BusinessType = "GYM"
	BusinessTypeDoctor      BusinessType = "DOCTOR"
	BusinessTypeHairdresser BusinessType = "HAIRDRESSER"
	BusinessTypeEvent       BusinessType = "EVENT"
	BusinessTypeOther       BusinessType = "OTHER"
)

type Business struct {
	Base
	Name        string       `db:"name" json:"name"`
	Type        BusinessType `db:"type" json:"type"`
	Address     *string      `db:"address" json:"address,omitempty"`
	Phone       *string      `db:"phone" json:"phone,omitempty"`
	Email       *string      `db:"email" json:"email,omitempty"`
	Description *string      `db:"description" json:"description,omitempty"`
}

type BusinessRequest struct {
	ID          *int64       `json:"id"`
	Name        string       `json:"name" binding:"required,max=100"`
	Type        BusinessType `json:"type" binding:"required,oneof=RESTAURANT CAFE GYM DOCTOR HAIRDRESSER EVENT OTHER"`
	Address     *string      `json:"address"`
	Phone       *string      `json:"phone"`
	Email       *string      `json:"email" binding:"omitempty,email"`
	Description *string      `json:"description"`
}

type BusinessPatch struct {
	ID          *int64        `json:"id"`
	Name        *string       `json:"name" binding:"omitempty,max=100"`
	Type        *BusinessType `json:"type" binding:"omitempty,oneof=RESTAURANT CAFE GYM DOCTOR HAIRDRESSER EVENT OTHER"`
	Address     *string       `json:"address"`
	Phone       *string       `json:"phone"`
	Email       *string       `json:"email" binding:"omitempty,email"`
	Description *string       `json:"description"`
}

type Customer struct {
	Base
	FirstName  string  `db:"first_name" json:"first_name"`
	LastName   string  `db:"last_name" json:"last_name"`
	Email      string  `db:"email" json:"email"`
	Phone      *string `db:"phone" json:"phone,omitempty"`
	Notes      *string `db:"notes" json:"notes,omitempty"`
	BusinessID *int64  `db:"business_id" json:"business_id,omitempty"`
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

type CustomerRequest struct {
	ID         *int64  `json:"id"`
	FirstName  string  `json:"first_name" binding:"required,max=80"`
	LastName   string  `json:"last_name" binding:"required,max=80"`
	Email      string  `json:"email" binding:"required,email,max=191"`
	Phone      *string `json:"phone" binding:"omitempty,max=40"`
	Notes      *string `json:"notes" binding:"omitempty,max=2000"`
	BusinessID *int64  `json:"business_id"`
}

type OfferedService struct {
	Base
	Name            string           `db:"name" json:"name"`
	Description     *string          `db:"description" json:"description,omitempty"`
	DurationMinutes *int             `db:"duration_minutes" json:"duration_minutes,omitempty"`
	Price           *decimal.Decimal `db:"price" json:"price,omitempty"`
	BusinessID      *int64           `db:"business_id" json:"business_id,omitempty"`
}

type OfferedServiceRequest struct {
	ID              *int64           `json:"id"`
	Name            string           `json:"name" binding:"required,max=100"`
	Description     *string          `json:"description"`
	DurationMinutes *int             `json:"duration_minutes" binding:"omitempty,min=1"`
	Price           *decimal.Decimal `json:"price"`
	BusinessID      *int64           `json:"business_id"`
}
