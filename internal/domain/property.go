package domain

import (
	"strings"
	"time"
)

type PropertyType string

const (
	TypeVilla     PropertyType = "villa"
	TypeApartment PropertyType = "apartment"
	TypePenthouse PropertyType = "penthouse"
	TypeTownhouse PropertyType = "townhouse"
	TypePlot      PropertyType = "plot"
)

var PropertyTypes = []PropertyType{TypeVilla, TypeApartment, TypePenthouse, TypeTownhouse, TypePlot}

func (t PropertyType) Valid() bool {
	for _, v := range PropertyTypes {
		if t == v {
			return true
		}
	}
	return false
}

type PropertyStatus string

const (
	StatusActive  PropertyStatus = "active"
	StatusHotDeal PropertyStatus = "hot-deal"
	StatusSold    PropertyStatus = "sold"
)

var PropertyStatuses = []PropertyStatus{StatusActive, StatusHotDeal, StatusSold}

func (s PropertyStatus) Valid() bool {
	for _, v := range PropertyStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PropertyFields is the writable part of a listing.
type PropertyFields struct {
	Title            string         `json:"title"`
	Price            int64          `json:"price"` // rupees
	City             string         `json:"city"`
	Area             float64        `json:"area"` // sq ft
	Bedrooms         int            `json:"bedrooms"`
	Bathrooms        int            `json:"bathrooms"`
	PropertyType     PropertyType   `json:"propertyType,omitempty"`
	Status           PropertyStatus `json:"status,omitempty"`
	Images           []string       `json:"images"`
	Amenities        []string       `json:"amenities"`
	Description      string         `json:"description"`
	IsFeatured       bool           `json:"isFeatured"`
	IsPremium        bool           `json:"isPremium"`
	IsBudgetFriendly bool           `json:"isBudgetFriendly"`
	Location         Location       `json:"location"`
}

// Property is a persisted listing as rendered on the wire.
type Property struct {
	ID string `json:"_id"`
	PropertyFields
	CreatedAt time.Time `json:"createdAt"`
}

// PropertyPatch carries the fields present in a create or update body.
// A nil field was absent from the request.
type PropertyPatch struct {
	Title            *string         `json:"title,omitempty"`
	Price            *int64          `json:"price,omitempty"`
	City             *string         `json:"city,omitempty"`
	Area             *float64        `json:"area,omitempty"`
	Bedrooms         *int            `json:"bedrooms,omitempty"`
	Bathrooms        *int            `json:"bathrooms,omitempty"`
	PropertyType     *PropertyType   `json:"propertyType,omitempty"`
	Status           *PropertyStatus `json:"status,omitempty"`
	Images           *[]string       `json:"images,omitempty"`
	Amenities        *[]string       `json:"amenities,omitempty"`
	Description      *string         `json:"description,omitempty"`
	IsFeatured       *bool           `json:"isFeatured,omitempty"`
	IsPremium        *bool           `json:"isPremium,omitempty"`
	IsBudgetFriendly *bool           `json:"isBudgetFriendly,omitempty"`
	Location         *Location       `json:"location,omitempty"`
}

// PatchFromFields turns a full field set into a patch touching every field.
func PatchFromFields(f PropertyFields) PropertyPatch {
	p := PropertyPatch{
		Title:            &f.Title,
		Price:            &f.Price,
		City:             &f.City,
		Area:             &f.Area,
		Bedrooms:         &f.Bedrooms,
		Bathrooms:        &f.Bathrooms,
		Images:           &f.Images,
		Amenities:        &f.Amenities,
		Description:      &f.Description,
		IsFeatured:       &f.IsFeatured,
		IsPremium:        &f.IsPremium,
		IsBudgetFriendly: &f.IsBudgetFriendly,
		Location:         &f.Location,
	}
	if f.PropertyType != "" {
		p.PropertyType = &f.PropertyType
	}
	if f.Status != "" {
		p.Status = &f.Status
	}
	return p
}

func (p PropertyPatch) Empty() bool {
	return p == PropertyPatch{}
}

// ValidateCreate checks the fields required for a new listing.
func (p PropertyPatch) ValidateCreate() error {
	if p.Title == nil || strings.TrimSpace(*p.Title) == "" ||
		p.City == nil || strings.TrimSpace(*p.City) == "" ||
		p.Price == nil || p.Area == nil {
		return Invalid("Missing required fields: title, city, price, and area are required")
	}
	if p.PropertyType == nil || *p.PropertyType == "" {
		return Invalid("propertyType is required")
	}
	return p.Validate()
}

// Validate checks the fields that are present.
func (p PropertyPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return Invalid("title must not be empty")
	}
	if p.City != nil && strings.TrimSpace(*p.City) == "" {
		return Invalid("city must not be empty")
	}
	if p.Price != nil && *p.Price < 0 {
		return Invalid("price must not be negative")
	}
	if p.Area != nil && *p.Area < 0 {
		return Invalid("area must not be negative")
	}
	if p.Bedrooms != nil && *p.Bedrooms < 0 {
		return Invalid("bedrooms must not be negative")
	}
	if p.Bathrooms != nil && *p.Bathrooms < 0 {
		return Invalid("bathrooms must not be negative")
	}
	if p.PropertyType != nil && *p.PropertyType != "" && !p.PropertyType.Valid() {
		return Invalid("invalid propertyType: " + string(*p.PropertyType))
	}
	if p.Status != nil && *p.Status != "" && !p.Status.Valid() {
		return Invalid("invalid status: " + string(*p.Status))
	}
	return nil
}

// NewProperty builds a listing from a validated create patch, filling defaults.
func (p PropertyPatch) NewProperty(now time.Time) Property {
	prop := Property{
		PropertyFields: PropertyFields{
			Status:    StatusActive,
			Images:    []string{},
			Amenities: []string{},
		},
		CreatedAt: now,
	}
	p.Apply(&prop)
	return prop
}

// Apply copies every present field onto prop. Empty enum values are ignored.
func (p PropertyPatch) Apply(prop *Property) {
	if p.Title != nil {
		prop.Title = strings.TrimSpace(*p.Title)
	}
	if p.Price != nil {
		prop.Price = *p.Price
	}
	if p.City != nil {
		prop.City = strings.TrimSpace(*p.City)
	}
	if p.Area != nil {
		prop.Area = *p.Area
	}
	if p.Bedrooms != nil {
		prop.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		prop.Bathrooms = *p.Bathrooms
	}
	if p.PropertyType != nil && *p.PropertyType != "" {
		prop.PropertyType = *p.PropertyType
	}
	if p.Status != nil && *p.Status != "" {
		prop.Status = *p.Status
	}
	if p.Images != nil {
		prop.Images = nonNil(*p.Images)
	}
	if p.Amenities != nil {
		prop.Amenities = nonNil(*p.Amenities)
	}
	if p.Description != nil {
		prop.Description = *p.Description
	}
	if p.IsFeatured != nil {
		prop.IsFeatured = *p.IsFeatured
	}
	if p.IsPremium != nil {
		prop.IsPremium = *p.IsPremium
	}
	if p.IsBudgetFriendly != nil {
		prop.IsBudgetFriendly = *p.IsBudgetFriendly
	}
	if p.Location != nil {
		prop.Location = *p.Location
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
