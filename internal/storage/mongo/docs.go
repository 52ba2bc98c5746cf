package mongo

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"estate_market/internal/domain"
)

const (
	propertiesColl = "properties"
	leadsColl      = "leads"
	siteVisitsColl = "sitevisits"
)

type locationDoc struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

type propertyDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Title            string             `bson:"title"`
	City             string             `bson:"city"`
	Bedrooms         int                `bson:"bedrooms"`
	Bathrooms        int                `bson:"bathrooms"`
	Area             float64            `bson:"area"`
	Price            int64              `bson:"price"`
	PropertyType     string             `bson:"propertyType,omitempty"`
	Status           string             `bson:"status"`
	Images           []string           `bson:"images"`
	Description      string             `bson:"description"`
	Amenities        []string           `bson:"amenities"`
	IsFeatured       bool               `bson:"isFeatured"`
	IsPremium        bool               `bson:"isPremium"`
	IsBudgetFriendly bool               `bson:"isBudgetFriendly"`
	Location         locationDoc        `bson:"location"`
	CreatedAt        time.Time          `bson:"createdAt"`
}

type rangeDoc struct {
	Min float64 `bson:"min"`
	Max float64 `bson:"max"`
}

type requirementDoc struct {
	PropertyType       string    `bson:"propertyType,omitempty"`
	TransactionType    string    `bson:"transactionType,omitempty"`
	BudgetRange        *rangeDoc `bson:"budgetRange,omitempty"`
	PreferredLocations []string  `bson:"preferredLocations,omitempty"`
	City               string    `bson:"city,omitempty"`
	AreaRange          *rangeDoc `bson:"areaRange,omitempty"`
	Configuration      string    `bson:"configuration,omitempty"`
	Purpose            string    `bson:"purpose,omitempty"`
	Timeline           string    `bson:"timeline,omitempty"`
	LoanRequirement    *bool     `bson:"loanRequirement,omitempty"`
	SpecialNotes       string    `bson:"specialNotes,omitempty"`
}

type leadDoc struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty"`
	Name               string              `bson:"name"`
	Phone              string              `bson:"phone"`
	Email              string              `bson:"email,omitempty"`
	PropertyID         *primitive.ObjectID `bson:"propertyId,omitempty"`
	Status             string              `bson:"status"`
	Source             string              `bson:"source,omitempty"`
	AssignedTo         string              `bson:"assignedTo,omitempty"`
	RequirementDetails *requirementDoc     `bson:"requirementDetails,omitempty"`
	VisitDate          *time.Time          `bson:"visitDate,omitempty"`
	CreatedAt          time.Time           `bson:"createdAt"`
}

type siteVisitDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Phone      string             `bson:"phone"`
	PropertyID primitive.ObjectID `bson:"propertyId"`
	Date       time.Time          `bson:"date"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

// ---- id helpers ----

// parseID maps a malformed hex id to ErrNotFound: such a document cannot exist.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}

// parseRef validates a foreign key supplied in a request body.
func parseRef(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.Invalid("invalid propertyId: " + id)
	}
	return oid, nil
}

// ---- property mapping ----

func toPropertyDoc(p domain.Property) propertyDoc {
	return propertyDoc{
		Title:            p.Title,
		City:             p.City,
		Bedrooms:         p.Bedrooms,
		Bathrooms:        p.Bathrooms,
		Area:             p.Area,
		Price:            p.Price,
		PropertyType:     string(p.PropertyType),
		Status:           string(p.Status),
		Images:           p.Images,
		Description:      p.Description,
		Amenities:        p.Amenities,
		IsFeatured:       p.IsFeatured,
		IsPremium:        p.IsPremium,
		IsBudgetFriendly: p.IsBudgetFriendly,
		Location:         locationDoc{Lat: p.Location.Lat, Lng: p.Location.Lng},
		CreatedAt:        p.CreatedAt.UTC(),
	}
}

func (d propertyDoc) domain() domain.Property {
	images, amenities := d.Images, d.Amenities
	if images == nil {
		images = []string{}
	}
	if amenities == nil {
		amenities = []string{}
	}
	return domain.Property{
		ID: d.ID.Hex(),
		PropertyFields: domain.PropertyFields{
			Title:            d.Title,
			Price:            d.Price,
			City:             d.City,
			Area:             d.Area,
			Bedrooms:         d.Bedrooms,
			Bathrooms:        d.Bathrooms,
			PropertyType:     domain.PropertyType(d.PropertyType),
			Status:           domain.PropertyStatus(d.Status),
			Images:           images,
			Amenities:        amenities,
			Description:      d.Description,
			IsFeatured:       d.IsFeatured,
			IsPremium:        d.IsPremium,
			IsBudgetFriendly: d.IsBudgetFriendly,
			Location:         domain.Location{Lat: d.Location.Lat, Lng: d.Location.Lng},
		},
		CreatedAt: d.CreatedAt,
	}
}

// propertySet renders the present patch fields as a $set document.
func propertySet(p domain.PropertyPatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.City != nil {
		set["city"] = strings.TrimSpace(*p.City)
	}
	if p.Area != nil {
		set["area"] = *p.Area
	}
	if p.Bedrooms != nil {
		set["bedrooms"] = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		set["bathrooms"] = *p.Bathrooms
	}
	if p.PropertyType != nil && *p.PropertyType != "" {
		set["propertyType"] = string(*p.PropertyType)
	}
	if p.Status != nil && *p.Status != "" {
		set["status"] = string(*p.Status)
	}
	if p.Images != nil {
		set["images"] = orEmpty(*p.Images)
	}
	if p.Amenities != nil {
		set["amenities"] = orEmpty(*p.Amenities)
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.IsFeatured != nil {
		set["isFeatured"] = *p.IsFeatured
	}
	if p.IsPremium != nil {
		set["isPremium"] = *p.IsPremium
	}
	if p.IsBudgetFriendly != nil {
		set["isBudgetFriendly"] = *p.IsBudgetFriendly
	}
	if p.Location != nil {
		set["location"] = locationDoc{Lat: p.Location.Lat, Lng: p.Location.Lng}
	}
	return set
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ---- lead mapping ----

func toLeadDoc(l domain.Lead) (leadDoc, error) {
	d := leadDoc{
		Name:       l.Name,
		Phone:      l.Phone,
		Email:      l.Email,
		Status:     string(l.Status),
		Source:     l.Source,
		AssignedTo: l.AssignedTo,
		VisitDate:  utcPtr(l.VisitDate),
		CreatedAt:  l.CreatedAt.UTC(),
	}
	if l.PropertyID.ID != "" {
		oid, err := parseRef(l.PropertyID.ID)
		if err != nil {
			return leadDoc{}, err
		}
		d.PropertyID = &oid
	}
	d.RequirementDetails = toRequirementDoc(l.RequirementDetails)
	return d, nil
}

func toRequirementDoc(r *domain.RequirementDetails) *requirementDoc {
	if r == nil {
		return nil
	}
	return &requirementDoc{
		PropertyType:       r.PropertyType,
		TransactionType:    r.TransactionType,
		BudgetRange:        toRangeDoc(r.BudgetRange),
		PreferredLocations: r.PreferredLocations,
		City:               r.City,
		AreaRange:          toRangeDoc(r.AreaRange),
		Configuration:      r.Configuration,
		Purpose:            r.Purpose,
		Timeline:           r.Timeline,
		LoanRequirement:    r.LoanRequirement,
		SpecialNotes:       r.SpecialNotes,
	}
}

func toRangeDoc(r *domain.Range) *rangeDoc {
	if r == nil {
		return nil
	}
	return &rangeDoc{Min: r.Min, Max: r.Max}
}

func fromRangeDoc(r *rangeDoc) *domain.Range {
	if r == nil {
		return nil
	}
	return &domain.Range{Min: r.Min, Max: r.Max}
}

func (d leadDoc) domain() domain.Lead {
	l := domain.Lead{
		ID: d.ID.Hex(),
		LeadFields: domain.LeadFields{
			Name:       d.Name,
			Phone:      d.Phone,
			Email:      d.Email,
			Status:     domain.LeadStatus(d.Status),
			Source:     d.Source,
			AssignedTo: d.AssignedTo,
			VisitDate:  d.VisitDate,
		},
		CreatedAt: d.CreatedAt,
	}
	if d.PropertyID != nil {
		l.PropertyID = domain.Ref(d.PropertyID.Hex())
	}
	if r := d.RequirementDetails; r != nil {
		l.RequirementDetails = &domain.RequirementDetails{
			PropertyType:       r.PropertyType,
			TransactionType:    r.TransactionType,
			BudgetRange:        fromRangeDoc(r.BudgetRange),
			PreferredLocations: r.PreferredLocations,
			City:               r.City,
			AreaRange:          fromRangeDoc(r.AreaRange),
			Configuration:      r.Configuration,
			Purpose:            r.Purpose,
			Timeline:           r.Timeline,
			LoanRequirement:    r.LoanRequirement,
			SpecialNotes:       r.SpecialNotes,
		}
	}
	return l
}

func leadSet(p domain.LeadPatch) (bson.M, error) {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.PropertyID != nil {
		oid, err := parseRef(*p.PropertyID)
		if err != nil {
			return nil, err
		}
		set["propertyId"] = oid
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	if p.Source != nil {
		set["source"] = *p.Source
	}
	if p.AssignedTo != nil {
		set["assignedTo"] = *p.AssignedTo
	}
	if p.RequirementDetails != nil {
		set["requirementDetails"] = toRequirementDoc(p.RequirementDetails)
	}
	if p.VisitDate != nil {
		set["visitDate"] = p.VisitDate.UTC()
	}
	return set, nil
}

// ---- site visit mapping ----

func toSiteVisitDoc(v domain.SiteVisit) (siteVisitDoc, error) {
	oid, err := parseRef(v.PropertyID.ID)
	if err != nil {
		return siteVisitDoc{}, err
	}
	return siteVisitDoc{
		Name:       v.Name,
		Phone:      v.Phone,
		PropertyID: oid,
		Date:       v.Date.UTC(),
		Status:     string(v.Status),
		CreatedAt:  v.CreatedAt.UTC(),
	}, nil
}

func (d siteVisitDoc) domain() domain.SiteVisit {
	return domain.SiteVisit{
		ID: d.ID.Hex(),
		SiteVisitFields: domain.SiteVisitFields{
			Name:       d.Name,
			Phone:      d.Phone,
			PropertyID: domain.Ref(d.PropertyID.Hex()),
			Date:       d.Date,
			Status:     domain.SiteVisitStatus(d.Status),
		},
		CreatedAt: d.CreatedAt,
	}
}

func siteVisitSet(p domain.SiteVisitPatch) (bson.M, error) {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.PropertyID != nil {
		oid, err := parseRef(*p.PropertyID)
		if err != nil {
			return nil, err
		}
		set["propertyId"] = oid
	}
	if p.Date != nil {
		set["date"] = p.Date.UTC()
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	return set, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
