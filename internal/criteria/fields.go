// Package criteria holds the per-entity filter criteria accepted by list and
// count endpoints. Every criteria type lists its filters by hand and turns the
// set ones into a filter.Spec.
package criteria

import (
	"fmt"
	"net/url"

	"github.com/afpthedev/smyapp/pkg/filter"
)

// Field names shared by criteria, query parameters and repository column maps.
const (
	FieldID               = "id"
	FieldTitle            = "title"
	FieldAppointmentDate  = "appointmentDate"
	FieldDuration         = "duration"
	FieldStatus           = "status"
	FieldCreatedDate      = "createdDate"
	FieldLastModifiedDate = "lastModifiedDate"
	FieldCreatedByID      = "createdById"
	FieldTypeID           = "typeId"
	FieldParticipantsID   = "participantsId"

	FieldName        = "name"
	FieldDescription = "description"
	FieldColor       = "color"
	FieldIsActive    = "isActive"

	FieldDate       = "date"
	FieldCustomerID = "customerId"
	FieldBusinessID = "businessId"
	FieldUserID     = "userId"
	FieldServiceID  = "serviceId"
	FieldNotes      = "notes"

	FieldType          = "type"
	FieldSentDate      = "sentDate"
	FieldIsRead        = "isRead"
	FieldAppointmentID = "appointmentId"
	FieldRecipientID   = "recipientId"
	FieldEmail         = "email"
	FieldEntryDate     = "entryDate"
	FieldReservationID = "reservationId"
)

func parseDistinct(q url.Values) (*bool, error) {
	if !q.Has("distinct") {
		return nil, nil
	}
	v, err := filter.Bool(q.Get("distinct"))
	if err != nil {
		return nil, invalid("distinct", err)
	}
	return &v, nil
}

func distinctOrDefault(d *bool) bool {
	if d == nil {
		return true
	}
	return *d
}

func distinctEqual(a, b *bool) bool {
	return distinctOrDefault(a) == distinctOrDefault(b)
}

func invalid(param string, err error) error {
	return fmt.Errorf("%w: %s: %v", filter.ErrInvalidParam, param, err)
}
