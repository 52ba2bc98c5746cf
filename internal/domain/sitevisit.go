package domain

import (
	"strings"
	"time"
)

type SiteVisitStatus string

const (
	VisitPending   SiteVisitStatus = "pending"
	VisitConfirmed SiteVisitStatus = "confirmed"
	VisitCompleted SiteVisitStatus = "completed"
	VisitCancelled SiteVisitStatus = "cancelled"
)

var SiteVisitStatuses = []SiteVisitStatus{VisitPending, VisitConfirmed, VisitCompleted, VisitCancelled}

func (s SiteVisitStatus) Valid() bool {
	for _, v := range SiteVisitStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type SiteVisitFields struct {
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	PropertyID PropertyRef     `json:"propertyId"`
	Date       time.Time       `json:"date"`
	Status     SiteVisitStatus `json:"status,omitempty"`
}

type SiteVisit struct {
	ID string `json:"_id"`
	SiteVisitFields
	CreatedAt time.Time `json:"createdAt"`
}

func (f SiteVisitFields) Validate() error {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Phone) == "" ||
		f.PropertyID.ID == "" || f.Date.IsZero() {
		return Invalid("Missing required fields: name, phone, propertyId, and date are required")
	}
	if f.Status != "" && !f.Status.Valid() {
		return Invalid("invalid status: " + string(f.Status))
	}
	return nil
}

func (f SiteVisitFields) NewSiteVisit(now time.Time) SiteVisit {
	v := SiteVisit{SiteVisitFields: f, CreatedAt: now}
	v.Name = strings.TrimSpace(v.Name)
	v.Phone = strings.TrimSpace(v.Phone)
	v.PropertyID = PropertyRef{ID: f.PropertyID.ID}
	if v.Status == "" {
		v.Status = VisitPending
	}
	return v
}

type SiteVisitPatch struct {
	Name       *string          `json:"name,omitempty"`
	Phone      *string          `json:"phone,omitempty"`
	PropertyID *string          `json:"propertyId,omitempty"`
	Date       *time.Time       `json:"date,omitempty"`
	Status     *SiteVisitStatus `json:"status,omitempty"`
}

func (p SiteVisitPatch) Empty() bool { return p == SiteVisitPatch{} }

func (p SiteVisitPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return Invalid("name must not be empty")
	}
	if p.Phone != nil && strings.TrimSpace(*p.Phone) == "" {
		return Invalid("phone must not be empty")
	}
	if p.PropertyID != nil && *p.PropertyID == "" {
		return Invalid("propertyId must not be empty")
	}
	if p.Date != nil && p.Date.IsZero() {
		return Invalid("date must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return Invalid("invalid status: " + string(*p.Status))
	}
	return nil
}

func (p SiteVisitPatch) Apply(v *SiteVisit) {
	if p.Name != nil {
		v.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		v.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.PropertyID != nil {
		v.PropertyID = PropertyRef{ID: *p.PropertyID}
	}
	if p.Date != nil {
		v.Date = *p.Date
	}
	if p.Status != nil {
		v.Status = *p.Status
	}
}

// CompanionSource marks leads created on behalf of a site visit booking.
const CompanionSource = "site-visit"

// CompanionLead is the lead recorded alongside a site visit booking.
func (f SiteVisitFields) CompanionLead() LeadFields {
	d := f.Date
	return LeadFields{
		Name:       f.Name,
		Phone:      f.Phone,
		PropertyID: Ref(f.PropertyID.ID),
		Status:     LeadSiteVisitRequested,
		Source:     CompanionSource,
		VisitDate:  &d,
	}
}
