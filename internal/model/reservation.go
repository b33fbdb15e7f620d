package model

import (
	"time"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

var ReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusCompleted,
	ReservationStatusCancelled,
}

// UpcomingStatuses are the statuses a future reservation counts as upcoming in.
var UpcomingStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
}

type Reservation struct {
	Base
	Date       time.Time         `db:"date" json:"date"`
	Status     ReservationStatus `db:"status" json:"status"`
	Notes      *string           `db:"notes" json:"notes,omitempty"`
	ServiceID  *int64            `db:"service_id" json:"service_id,omitempty"`
	CustomerID *int64            `db:"customer_id" json:"customer_id,omitempty"`
	BusinessID *int64            `db:"business_id" json:"business_id,omitempty"`
	UserID     *int64            `db:"user_id" json:"user_id,omitempty"`
	UserLogin  *string           `db:"user_login" json:"user_login,omitempty"`
}

type ReservationRequest struct {
	ID         *int64            `json:"id"`
	Date       time.Time         `json:"date" binding:"required"`
	Status     ReservationStatus `json:"status" binding:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
	Notes      *string           `json:"notes"`
	ServiceID  *int64            `json:"service_id"`
	CustomerID *int64            `json:"customer_id"`
	BusinessID *int64            `json:"business_id"`
	UserID     *int64            `json:"user_id"`
}

type ReservationPatch struct {
	ID         *int64             `json:"id"`
	Date       *time.Time         `json:"date"`
	Status     *ReservationStatus `json:"status" binding:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
	Notes      *string            `json:"notes"`
	ServiceID  *int64             `json:"service_id"`
	CustomerID *int64             `json:"customer_id"`
	BusinessID *int64             `json:"business_id"`
	UserID     *int64             `json:"user_id"`
}

type ApproveReservationRequest struct {
	Notes *string `json:"notes"`
}

type CustomerReservationSummary struct {
	CustomerID            int64      `json:"customer_id"`
	CustomerFullName      string     `json:"customer_full_name,omitempty"`
	TotalReservations     int64      `json:"total_reservations"`
	UpcomingReservations  int64      `json:"upcoming_reservations"`
	PendingReservations   int64      `json:"pending_reservations"`
	ConfirmedReservations int64      `json:"confirmed_reservations"`
	CompletedReservations int64      `json:"completed_reservations"`
	CancelledReservations int64      `json:"cancelled_reservations"`
	LastReservationDate   *time.Time `json:"last_reservation_date,omitempty"`
	NextReservationDate   *time.Time `json:"next_reservation_date,omitempty"`
}

type ReservationReport struct {
	TotalReservations    int64                       `json:"total_reservations"`
	DistinctCustomers    int64                       `json:"distinct_customers"`
	DistinctBusinesses   int64                       `json:"distinct_businesses"`
	UpcomingReservations int64                       `json:"upcoming_reservations"`
	StatusCounts         map[ReservationStatus]int64 `json:"status_counts"`
	RangeStart           *time.Time                  `json:"range_start,omitempty"`
	RangeEnd             *time.Time                  `json:"range_end,omitempty"`
}

type GuestReservationRequest struct {
	FirstName        string    `json:"first_name" binding:"required,max=80"`
	LastName         string    `json:"last_name" binding:"required,max=80"`
	Email            string    `json:"email" binding:"required,email,max=191"`
	Phone            string    `json:"phone" binding:"required,max=40"`
	ReservationDate  time.Time `json:"reservation_date" binding:"required"`
	Notes            *string   `json:"notes" binding:"omitempty,max=2000"`
	OfferedServiceID *int64    `json:"offered_service_id"`
	BusinessID       *int64    `json:"business_id"`
}
