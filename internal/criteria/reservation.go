package criteria

import (
	"net/url"
	"time"

	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/pkg/filter"
)

var reservationStatus = filter.Enum(model.ReservationStatuses...)

// ReservationFilterCriteria is the plain filter bag of the reservation
// endpoints. StartDate and EndDate are inclusive bounds on the reservation date.
type ReservationFilterCriteria struct {
	CustomerID *int64                   `json:"customerId,omitempty"`
	BusinessID *int64                   `json:"businessId,omitempty"`
	Status     *model.ReservationStatus `json:"status,omitempty"`
	StartDate  *time.Time               `json:"startDate,omitempty"`
	EndDate    *time.Time               `json:"endDate,omitempty"`
}

func (c *ReservationFilterCriteria) Copy() *ReservationFilterCriteria {
	if c == nil {
		return nil
	}
	out := *c
	out.CustomerID = clone(c.CustomerID)
	out.BusinessID = clone(c.BusinessID)
	out.Status = clone(c.Status)
	out.StartDate = clone(c.StartDate)
	out.EndDate = clone(c.EndDate)
	return &out
}

func (c *ReservationFilterCriteria) Spec() filter.Spec {
	var spec filter.Spec
	if c == nil {
		return spec
	}
	if c.CustomerID != nil {
		spec = spec.And(filter.Eq(FieldCustomerID, *c.CustomerID))
	}
	if c.BusinessID != nil {
		spec = spec.And(filter.Eq(FieldBusinessID, *c.BusinessID))
	}
	if c.Status != nil {
		spec = spec.And(filter.Eq(FieldStatus, *c.Status))
	}
	if c.StartDate != nil {
		spec = spec.And(filter.Gte(FieldDate, *c.StartDate))
	}
	if c.EndDate != nil {
		spec = spec.And(filter.Lte(FieldDate, *c.EndDate))
	}
	return spec
}

// WithoutCustomer drops the customer dimension, keeping the other filters.
func (c *ReservationFilterCriteria) WithoutCustomer() *ReservationFilterCriteria {
	out := c.Copy()
	if out == nil {
		return &ReservationFilterCriteria{}
	}
	out.CustomerID = nil
	return out
}

// WithoutBusiness drops the business dimension, keeping the other filters.
func (c *ReservationFilterCriteria) WithoutBusiness() *ReservationFilterCriteria {
	out := c.Copy()
	if out == nil {
		return &ReservationFilterCriteria{}
	}
	out.BusinessID = nil
	return out
}

// ReservationFilterFromQuery reads customerId, businessId, status, start and end.
func ReservationFilterFromQuery(q url.Values) (*ReservationFilterCriteria, error) {
	c := &ReservationFilterCriteria{}
	var err error
	if c.CustomerID, err = optional(q, "customerId", filter.Int64); err != nil {
		return nil, err
	}
	if c.BusinessID, err = optional(q, "businessId", filter.Int64); err != nil {
		return nil, err
	}
	if c.Status, err = optional(q, "status", reservationStatus); err != nil {
		return nil, err
	}
	if c.StartDate, err = optional(q, "start", filter.Time); err != nil {
		return nil, err
	}
	if c.EndDate, err = optional(q, "end", filter.Time); err != nil {
		return nil, err
	}
	return c, nil
}

func optional[T any](q url.Values, key string, parse filter.ParseFunc[T]) (*T, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := parse(raw)
	if err != nil {
		return nil, invalid(key, err)
	}
	return &v, nil
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
