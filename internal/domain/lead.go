package domain

import (
	"strings"
	"time"
)

type LeadStatus string

const (
	LeadRaw                LeadStatus = "raw"
	LeadVerified           LeadStatus = "verified"
	LeadSiteVisitRequested LeadStatus = "site-visit-requested"
	LeadSiteVisitDone      LeadStatus = "site-visit-done"
	LeadNegotiation        LeadStatus = "negotiation"
	LeadDealClosed         LeadStatus = "deal-closed"
)

var LeadStatuses = []LeadStatus{
	LeadRaw, LeadVerified, LeadSiteVisitRequested, LeadSiteVisitDone, LeadNegotiation, LeadDealClosed,
}

func (s LeadStatus) Valid() bool {
	for _, v := range LeadStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type RequirementDetails struct {
	PropertyType       string   `json:"propertyType,omitempty"`
	TransactionType    string   `json:"transactionType,omitempty"`
	BudgetRange        *Range   `json:"budgetRange,omitempty"`
	PreferredLocations []string `json:"preferredLocations,omitempty"`
	City               string   `json:"city,omitempty"`
	AreaRange          *Range   `json:"areaRange,omitempty"`
	Configuration      string   `json:"configuration,omitempty"`
	Purpose            string   `json:"purpose,omitempty"`
	Timeline           string   `json:"timeline,omitempty"`
	LoanRequirement    *bool    `json:"loanRequirement,omitempty"`
	SpecialNotes       string   `json:"specialNotes,omitempty"`
}

type LeadFields struct {
	Name               string              `json:"name"`
	Phone              string              `json:"phone"`
	Email              string              `json:"email,omitempty"`
	PropertyID         PropertyRef         `json:"propertyId"`
	Status             LeadStatus          `json:"status,omitempty"`
	Source             string              `json:"source,omitempty"`
	AssignedTo         string              `json:"assignedTo,omitempty"`
	RequirementDetails *RequirementDetails `json:"requirementDetails,omitempty"`
	VisitDate          *time.Time          `json:"visitDate,omitempty"`
}

type Lead struct {
	ID string `json:"_id"`
	LeadFields
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks a lead create body.
func (f LeadFields) Validate() error {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Phone) == "" {
		return Invalid("Missing required fields: name and phone are required")
	}
	if f.Status != "" && !f.Status.Valid() {
		return Invalid("invalid status: " + string(f.Status))
	}
	return nil
}

// NewLead builds a lead from validated fields, defaulting status to raw.
func (f LeadFields) NewLead(now time.Time) Lead {
	l := Lead{LeadFields: f, CreatedAt: now}
	l.Name = strings.TrimSpace(l.Name)
	l.Phone = strings.TrimSpace(l.Phone)
	l.PropertyID = PropertyRef{ID: f.PropertyID.ID}
	if l.Status == "" {
		l.Status = LeadRaw
	}
	return l
}

type LeadPatch struct {
	Name               *string             `json:"name,omitempty"`
	Phone              *string             `json:"phone,omitempty"`
	Email              *string             `json:"email,omitempty"`
	PropertyID         *string             `json:"propertyId,omitempty"`
	Status             *LeadStatus         `json:"status,omitempty"`
	Source             *string             `json:"source,omitempty"`
	AssignedTo         *string             `json:"assignedTo,omitempty"`
	RequirementDetails *RequirementDetails `json:"requirementDetails,omitempty"`
	VisitDate          *time.Time          `json:"visitDate,omitempty"`
}

func (p LeadPatch) Empty() bool { return p == LeadPatch{} }

func (p LeadPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return Invalid("name must not be empty")
	}
	if p.Phone != nil && strings.TrimSpace(*p.Phone) == "" {
		return Invalid("phone must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return Invalid("invalid status: " + string(*p.Status))
	}
	return nil
}

func (p LeadPatch) Apply(l *Lead) {
	if p.Name != nil {
		l.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		l.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.PropertyID != nil {
		l.PropertyID = PropertyRef{ID: *p.PropertyID}
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Source != nil {
		l.Source = *p.Source
	}
	if p.AssignedTo != nil {
		l.AssignedTo = *p.AssignedTo
	}
	if p.RequirementDetails != nil {
		rd := *p.RequirementDetails
		l.RequirementDetails = &rd
	}
	if p.VisitDate != nil {
		d := *p.VisitDate
		l.VisitDate = &d
	}
}
