package criteria

import (
	"net/url"

	"github.com/afpthedev/smyapp/pkg/filter"
)

type AppointmentTypeCriteria struct {
	ID          *filter.LongFilter    `json:"id,omitempty"`
	Name        *filter.StringFilter  `json:"name,omitempty"`
	Description *filter.StringFilter  `json:"description,omitempty"`
	Color       *filter.StringFilter  `json:"color,omitempty"`
	IsActive    *filter.BooleanFilter `json:"isActive,omitempty"`
	Distinct    *bool                 `json:"distinct,omitempty"`
}

func (c *AppointmentTypeCriteria) IsDistinct() bool {
	if c == nil {
		return true
	}
	return distinctOrDefault(c.Distinct)
}

func (c *AppointmentTypeCriteria) Copy() *AppointmentTypeCriteria {
	if c == nil {
		return nil
	}
	return &AppointmentTypeCriteria{
		ID:          c.ID.Copy(),
		Name:        c.Name.Copy(),
		Description: c.Description.Copy(),
		Color:       c.Color.Copy(),
		IsActive:    c.IsActive.Copy(),
		Distinct:    clone(c.Distinct),
	}
}

func (c *AppointmentTypeCriteria) Equal(o *AppointmentTypeCriteria) bool {
	if c == nil {
		c = &AppointmentTypeCriteria{}
	}
	if o == nil {
		o = &AppointmentTypeCriteria{}
	}
	return c.ID.Equal(o.ID) &&
		c.Name.Equal(o.Name) &&
		c.Description.Equal(o.Description) &&
		c.Color.Equal(o.Color) &&
		c.IsActive.Equal(o.IsActive) &&
		distinctEqual(c.Distinct, o.Distinct)
}

func (c *AppointmentTypeCriteria) Spec() filter.Spec {
	spec := filter.Spec{Distinct: c.IsDistinct()}
	if c == nil {
		return spec
	}
	filter.AddRange(&spec, FieldID, c.ID)
	filter.AddString(&spec, FieldName, c.Name)
	filter.AddString(&spec, FieldDescription, c.Description)
	filter.AddString(&spec, FieldColor, c.Color)
	filter.AddFilter(&spec, FieldIsActive, c.IsActive)
	return spec
}

func AppointmentTypeCriteriaFromQuery(q url.Values) (*AppointmentTypeCriteria, error) {
	c := &AppointmentTypeCriteria{}
	var err error
	if c.ID, err = filter.ParseRange(q, FieldID, filter.Int64); err != nil {
		return nil, err
	}
	if c.Name, err = filter.ParseString(q, FieldName); err != nil {
		return nil, err
	}
	if c.Description, err = filter.ParseString(q, FieldDescription); err != nil {
		return nil, err
	}
	if c.Color, err = filter.ParseString(q, FieldColor); err != nil {
		return nil, err
	}
	if c.IsActive, err = filter.ParseFilter(q, FieldIsActive, filter.Bool); err != nil {
		return nil, err
	}
	if c.Distinct, err = parseDistinct(q); err != nil {
		return nil, err
	}
	return c, nil
}
