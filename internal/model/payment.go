package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodCash       PaymentMethod = "CASH"
	PaymentMethodApplePay   PaymentMethod = "APPLE_PAY"
	PaymentMethodGooglePay  PaymentMethod = "GOOGLE_PAY"
	PaymentMethodOther      PaymentMethod = "OTHER"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

type Payment struct {
	Base
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Method        PaymentMethod   `db:"method" json:"method"`
	Status        PaymentStatus   `db:"status" json:"status"`
	TransactionID *string         `db:"transaction_id" json:"transaction_id,omitempty"`
	PaymentDate   *time.Time      `db:"payment_date" json:"payment_date,omitempty"`
	ReservationID *int64          `db:"reservation_id" json:"reservation_id,omitempty"`
	CustomerID    *int64          `db:"customer_id" json:"customer_id,omitempty"`
	BusinessID    *int64          `db:"business_id" json:"business_id,omitempty"`
}

type PaymentRequest struct {
	ID            *int64           `json:"id"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	Method        PaymentMethod    `json:"method" binding:"required,oneof=CREDIT_CARD DEBIT_CARD CASH APPLE_PAY GOOGLE_PAY OTHER"`
	Status        PaymentStatus    `json:"status" binding:"required,oneof=PENDING PAID FAILED REFUNDED"`
	TransactionID *string          `json:"transaction_id"`
	PaymentDate   *time.Time       `json:"payment_date"`
	ReservationID *int64           `json:"reservation_id"`
	CustomerID    *int64           `json:"customer_id"`
	BusinessID    *int64           `json:"business_id"`
}

type FinanceEntryType string

const (
	FinanceEntryIncome  FinanceEntryType = "INCOME"
	FinanceEntryExpense FinanceEntryType = "EXPENSE"
)

type FinanceEntry struct {
	Base
	EntryDate   time.Time        `db:"entry_date" json:"entry_date"`
	Type        FinanceEntryType `db:"type" json:"type"`
	Amount      decimal.Decimal  `db:"amount" json:"amount"`
	Description *string          `db:"description" json:"description,omitempty"`
	DocumentID  *int64           `db:"document_id" json:"document_id,omitempty"`
}

type FinanceEntryRequest struct {
	ID          *int64           `json:"id"`
	EntryDate   time.Time        `json:"entry_date" binding:"required"`
	Type        FinanceEntryType `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	DocumentID  *int64           `json:"document_id"`
}

type FinanceEntryPatch struct {
	ID          *int64            `json:"id"`
	EntryDate   *time.Time        `json:"entry_date"`
	Type        *FinanceEntryType `json:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Amount      *decimal.Decimal  `json:"amount"`
	Description *string           `json:"description" binding:"omitempty,max=500"`
	DocumentID  *int64            `json:"document_id"`
}

// FinanceDocument is an uploaded file. Data is only loaded for downloads.
type FinanceDocument struct {
	ID          int64     `db:"id" json:"id"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType string    `db:"content_type" json:"content_type"`
	Size        int64     `db:"size" json:"size"`
	Data        []byte    `db:"data" json:"-"`
	UploadedAt  time.Time `db:"uploaded_at" json:"uploaded_at"`
}
