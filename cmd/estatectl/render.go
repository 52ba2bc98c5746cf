package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"estate_market/internal/client/catalog"
	"estate_market/internal/client/store"
	"estate_market/internal/domain"
)

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit prints v as JSON when --json is set, otherwise runs table.
func emit(out io.Writer, v any, table func(w *tabwriter.Writer)) error {
	if cfg.JSON {
		return printJSON(out, v)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	table(w)
	return w.Flush()
}

func propertyTable(w *tabwriter.Writer, props []store.Property, favorites func(string) bool) {
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tCITY\tPRICE\tBEDS\tAREA\tTYPE\tSTATUS\tFAV")
	for _, p := range props {
		fav := ""
		if favorites != nil && favorites(p.ID) {
			fav = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.0f\t%s\t%s\t%s\n",
			p.ID, truncate(p.Title, 32), p.City, catalog.FormatPrice(p.Price),
			p.Bedrooms, p.Area, p.PropertyType, p.Status, fav)
	}
}

func propertyDetail(w *tabwriter.Writer, p store.Property) {
	row := func(k, v string) { _, _ = fmt.Fprintf(w, "%s\t%s\n", k, v) }
	row("ID", p.ID)
	row("Title", p.Title)
	row("City", p.City)
	row("Price", catalog.FormatPrice(p.Price))
	row("Area", fmt.Sprintf("%.0f sqft", p.Area))
	row("Bedrooms", fmt.Sprint(p.Bedrooms))
	row("Bathrooms", fmt.Sprint(p.Bathrooms))
	row("Type", string(p.PropertyType))
	row("Status", string(p.Status))
	row("Amenities", strings.Join(p.Amenities, ", "))
	row("Images", strings.Join(p.Images, ", "))
	row("Description", p.Description)
	row("Listed", p.CreatedAt.Format("2006-01-02"))
}

func leadTable(w *tabwriter.Writer, leads []store.Lead) {
	_, _ = fmt.Fprintln(w, "ID\tNAME\tPHONE\tSTATUS\tSOURCE\tPROPERTY\tVISIT\tCREATED")
	for _, l := range leads {
		visit := "-"
		if l.VisitDate != nil {
			visit = l.VisitDate.Format("2006-01-02 15:04")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.Name, l.Phone, l.Status, orDash(l.Source), refLabel(l.PropertyID),
			visit, l.CreatedAt.Format("2006-01-02"))
	}
}

func visitTable(w *tabwriter.Writer, visits []store.SiteVisit) {
	_, _ = fmt.Fprintln(w, "ID\tNAME\tPHONE\tDATE\tSTATUS\tPROPERTY")
	for _, v := range visits {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.Name, v.Phone, v.Date.Format("2006-01-02 15:04"), v.Status,
			refLabel(v.PropertyID))
	}
}

// refLabel shows the listing title when populated, else the raw id.
func refLabel(ref domain.PropertyRef) string {
	switch {
	case ref.Property != nil:
		return truncate(ref.Property.Title, 28)
	case ref.ID != "":
		return ref.ID
	}
	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
