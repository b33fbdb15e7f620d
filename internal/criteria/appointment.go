package criteria

import (
	"net/url"

	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/pkg/filter"
)

var appointmentStatus = filter.Enum(model.AppointmentStatuses...)

// AppointmentCriteria filters appointments. Distinct defaults to true because
// the participants filter joins a to-many relation.
type AppointmentCriteria struct {
	ID               *filter.LongFilter                      `json:"id,omitempty"`
	Title            *filter.StringFilter                    `json:"title,omitempty"`
	AppointmentDate  *filter.InstantFilter                   `json:"appointmentDate,omitempty"`
	Duration         *filter.IntegerFilter                   `json:"duration,omitempty"`
	Status           *filter.Filter[model.AppointmentStatus] `json:"status,omitempty"`
	CreatedDate      *filter.InstantFilter                   `json:"createdDate,omitempty"`
	LastModifiedDate *filter.InstantFilter                   `json:"lastModifiedDate,omitempty"`
	CreatedByID      *filter.LongFilter                      `json:"createdById,omitempty"`
	TypeID           *filter.LongFilter                      `json:"typeId,omitempty"`
	ParticipantsID   *filter.LongFilter                      `json:"participantsId,omitempty"`
	Distinct         *bool                                   `json:"distinct,omitempty"`
}

func (c *AppointmentCriteria) IsDistinct() bool {
	if c == nil {
		return true
	}
	return distinctOrDefault(c.Distinct)
}

func (c *AppointmentCriteria) Copy() *AppointmentCriteria {
	if c == nil {
		return nil
	}
	return &AppointmentCriteria{
		ID:               c.ID.Copy(),
		Title:            c.Title.Copy(),
		AppointmentDate:  c.AppointmentDate.Copy(),
		Duration:         c.Duration.Copy(),
		Status:           c.Status.Copy(),
		CreatedDate:      c.CreatedDate.Copy(),
		LastModifiedDate: c.LastModifiedDate.Copy(),
		CreatedByID:      c.CreatedByID.Copy(),
		TypeID:           c.TypeID.Copy(),
		ParticipantsID:   c.ParticipantsID.Copy(),
		Distinct:         clone(c.Distinct),
	}
}

// Equal compares field by field. A nil criteria equals an empty one.
func (c *AppointmentCriteria) Equal(o *AppointmentCriteria) bool {
	if c == nil {
		c = &AppointmentCriteria{}
	}
	if o == nil {
		o = &AppointmentCriteria{}
	}
	return c.ID.Equal(o.ID) &&
		c.Title.Equal(o.Title) &&
		c.AppointmentDate.Equal(o.AppointmentDate) &&
		c.Duration.Equal(o.Duration) &&
		c.Status.Equal(o.Status) &&
		c.CreatedDate.Equal(o.CreatedDate) &&
		c.LastModifiedDate.Equal(o.LastModifiedDate) &&
		c.CreatedByID.Equal(o.CreatedByID) &&
		c.TypeID.Equal(o.TypeID) &&
		c.ParticipantsID.Equal(o.ParticipantsID) &&
		distinctEqual(c.Distinct, o.Distinct)
}

func (c *AppointmentCriteria) Spec() filter.Spec {
	spec := filter.Spec{Distinct: c.IsDistinct()}
	if c == nil {
		return spec
	}
	filter.AddRange(&spec, FieldID, c.ID)
	filter.AddString(&spec, FieldTitle, c.Title)
	filter.AddRange(&spec, FieldAppointmentDate, c.AppointmentDate)
	filter.AddRange(&spec, FieldDuration, c.Duration)
	filter.AddFilter(&spec, FieldStatus, c.Status)
	filter.AddRange(&spec, FieldCreatedDate, c.CreatedDate)
	filter.AddRange(&spec, FieldLastModifiedDate, c.LastModifiedDate)
	filter.AddRange(&spec, FieldCreatedByID, c.CreatedByID)
	filter.AddRange(&spec, FieldTypeID, c.TypeID)
	filter.AddRange(&spec, FieldParticipantsID, c.ParticipantsID)
	return spec
}

// AppointmentCriteriaFromQuery reads parameters such as title.contains=x or
// participantsId.in=1,2.
func AppointmentCriteriaFromQuery(q url.Values) (*AppointmentCriteria, error) {
	c := &AppointmentCriteria{}
	var err error
	if c.ID, err = filter.ParseRange(q, FieldID, filter.Int64); err != nil {
		return nil, err
	}
	if c.Title, err = filter.ParseString(q, FieldTitle); err != nil {
		return nil, err
	}
	if c.AppointmentDate, err = filter.ParseRange(q, FieldAppointmentDate, filter.Time); err != nil {
		return nil, err
	}
	if c.Duration, err = filter.ParseRange(q, FieldDuration, filter.Int); err != nil {
		return nil, err
	}
	if c.Status, err = filter.ParseFilter(q, FieldStatus, appointmentStatus); err != nil {
		return nil, err
	}
	if c.CreatedDate, err = filter.ParseRange(q, FieldCreatedDate, filter.Time); err != nil {
		return nil, err
	}
	if c.LastModifiedDate, err = filter.ParseRange(q, FieldLastModifiedDate, filter.Time); err != nil {
		return nil, err
	}
	if c.CreatedByID, err = filter.ParseRange(q, FieldCreatedByID, filter.Int64); err != nil {
		return nil, err
	}
	if c.TypeID, err = filter.ParseRange(q, FieldTypeID, filter.Int64); err != nil {
		return nil, err
	}
	if c.ParticipantsID, err = filter.ParseRange(q, FieldParticipantsID, filter.Int64); err != nil {
		return nil, err
	}
	if c.Distinct, err = parseDistinct(q); err != nil {
		return nil, err
	}
	return c, nil
}
