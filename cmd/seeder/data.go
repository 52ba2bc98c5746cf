package main

import (
	"time"

	"estate_market/internal/app"
	"estate_market/internal/domain"
)

type listing struct {
	title, city, desc         string
	price                     int64
	area                      float64
	beds, baths               int
	kind                      domain.PropertyType
	status                    domain.PropertyStatus
	image                     string
	amenities                 []string
	featured, premium, budget bool
}

func (l listing) patch() domain.PropertyPatch {
	f := domain.PropertyFields{
		Title:            l.title,
		Price:            l.price,
		City:             l.city,
		Area:             l.area,
		Bedrooms:         l.beds,
		Bathrooms:        l.baths,
		PropertyType:     l.kind,
		Status:           l.status,
		Images:           []string{l.image},
		Amenities:        l.amenities,
		Description:      l.desc,
		IsFeatured:       l.featured,
		IsPremium:        l.premium,
		IsBudgetFriendly: l.budget,
	}
	return domain.PatchFromFields(f)
}

var listings = []listing{
	{
		title: "Luxury Skyline Apartment", price: 8_500_000, city: "Mumbai", area: 2200, beds: 3, baths: 3,
		kind: domain.TypeApartment, status: domain.StatusHotDeal, image: "/src/assets/property-1.jpg",
		amenities: []string{"Pool", "Gym", "Parking", "Security", "Garden", "24/7 Concierge", "Air Conditioning"},
		desc:      "Stunning skyline views with premium interiors and modern amenities",
		featured:  true,
	},
	{
		title: "Classic Brick Townhouse", price: 4_200_000, city: "Delhi", area: 1800, beds: 4, baths: 2,
		kind: domain.TypeTownhouse, status: domain.StatusActive, image: "/src/assets/property-2.jpg",
		amenities: []string{"Garden", "Parking", "Modular Kitchen", "Terrace", "Gated Community"},
		desc:      "Elegant townhouse with modern amenities in prime location",
		budget:    true,
	},
	{
		title: "Manhattan View Penthouse", price: 25_000_000, city: "Bangalore", area: 4500, beds: 5, baths: 5,
		kind: domain.TypePenthouse, status: domain.StatusActive, image: "/src/assets/property-3.jpg",
		amenities: []string{"Rooftop Terrace", "Private Elevator", "Smart Home", "Pool", "Spa", "Home Theater", "Wine Cellar"},
		desc:      "Ultra-luxury penthouse with breathtaking city views and state-of-the-art facilities",
		featured:  true, premium: true,
	},
	{
		title: "Cozy Family Home", price: 3_200_000, city: "Pune", area: 1500, beds: 3, baths: 2,
		kind: domain.TypeVilla, status: domain.StatusActive, image: "/src/assets/property-4.jpg",
		amenities: []string{"Garden", "Parking", "Kids Play Area", "Compound Wall", "Water Storage"},
		desc:      "Perfect family home in peaceful neighborhood with excellent schools nearby",
		budget:    true,
	},
	{
		title: "Beachfront Paradise Villa", price: 18_500_000, city: "Goa", area: 5200, beds: 6, baths: 6,
		kind: domain.TypeVilla, status: domain.StatusHotDeal, image: "/src/assets/property-5.jpg",
		amenities: []string{"Private Beach", "Infinity Pool", "Garden", "Staff Quarters", "Helipad", "Yacht Dock", "Sunset Terrace"},
		desc:      "Exclusive beachfront property with panoramic ocean views and luxury amenities",
		premium:   true,
	},
	{
		title: "Urban Industrial Loft", price: 5_800_000, city: "Hyderabad", area: 2800, beds: 2, baths: 2,
		kind: domain.TypeApartment, status: domain.StatusActive, image: "/src/assets/property-6.jpg",
		amenities: []string{"High Ceilings", "Open Layout", "Gym", "Rooftop Access", "Coworking Space", "Event Hall"},
		desc:      "Trendy industrial loft with exposed brick walls and modern living spaces",
	},
	{
		title: "Modern Glass House", price: 12_500_000, city: "Chennai", area: 3200, beds: 4, baths: 3,
		kind: domain.TypeVilla, status: domain.StatusActive, image: "/src/assets/property-1.jpg",
		amenities: []string{"Solar Panels", "Smart Home", "Swimming Pool", "Gym", "Theater Room"},
		desc:      "Contemporary villa with eco-friendly features and energy efficiency",
		featured:  true,
	},
	{
		title: "Riverside Apartment Complex", price: 7_200_000, city: "Kolkata", area: 2100, beds: 3, baths: 2,
		kind: domain.TypeApartment, status: domain.StatusActive, image: "/src/assets/property-6.jpg",
		amenities: []string{"River View", "Walking Trail", "Clubhouse", "Children's Play Area", "Amphitheater"},
		desc:      "Serene riverside living with community amenities and green spaces",
	},
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedData() app.SeedData {
	props := make([]domain.PropertyPatch, len(listings))
	for i, l := range listings {
		props[i] = l.patch()
	}
	visitDate := day("2024-12-18")
	return app.SeedData{
		Properties: props,
		Leads: []app.SeedLead{
			{LeadFields: domain.LeadFields{Name: "Rahul Sharma", Phone: "+91 98765 43210", Status: domain.LeadRaw}, Property: -1},
			{LeadFields: domain.LeadFields{
				Name: "Priya Patel", Phone: "+91 87654 32109", Status: domain.LeadSiteVisitRequested, VisitDate: &visitDate,
			}, Property: 0},
			{LeadFields: domain.LeadFields{Name: "Amit Kumar", Phone: "+91 76543 21098", Status: domain.LeadNegotiation}, Property: 2},
			{LeadFields: domain.LeadFields{Name: "Sneha Reddy", Phone: "+91 65432 10987", Status: domain.LeadVerified}, Property: -1},
		},
		Visits: []app.SeedVisit{
			{SiteVisitFields: domain.SiteVisitFields{
				Name: "Vikram Singh", Phone: "+91 99887 76655", Date: day("2024-12-16"), Status: domain.VisitConfirmed,
			}, Property: 0},
			{SiteVisitFields: domain.SiteVisitFields{
				Name: "Anjali Mehta", Phone: "+91 88776 65544", Date: day("2024-12-17"), Status: domain.VisitPending,
			}, Property: 4},
		},
	}
}
