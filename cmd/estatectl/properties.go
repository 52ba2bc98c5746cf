package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"estate_market/internal/client/catalog"
	"estate_market/internal/client/store"
	"estate_market/internal/domain"
)

var errAdminRequired = eris.New("admin login required (estatectl login)")

func requireAdmin(s *store.Store) error {
	if !s.IsAdmin() {
		return errAdminRequired
	}
	return nil
}

var propertiesCmd = &cobra.Command{
	Use:     "properties",
	Aliases: []string{"ls"},
	Short:   "List listings with presets, filters and search",
	Example: `  estatectl properties --preset budget
  estatectl properties --city Goa --min-beds 3
  estatectl properties --search villa --price-max 20000000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		q, err := queryFromFlags(cmd.Flags())
		if err != nil {
			return err
		}
		s := openStore(cmd.Context())
		props := catalog.Apply(s.Properties(), q)
		return emit(cmd.OutOrStdout(), props, func(w *tabwriter.Writer) {
			_, _ = fmt.Fprintf(w, "%s (%d)\n\n", catalog.Title(q.Preset), len(props))
			propertyTable(w, props, s.IsFavorite)
		})
	},
}

func queryFromFlags(f *pflag.FlagSet) (catalog.Query, error) {
	var q catalog.Query
	preset, _ := f.GetString("preset")
	q.Preset = catalog.Preset(preset)
	if !q.Preset.Valid() {
		return q, eris.Errorf("unknown preset %q (featured, latest, budget, premium)", preset)
	}
	q.SelectedCity, _ = f.GetString("city")
	q.Search, _ = f.GetString("search")
	q.Filters.City, _ = f.GetString("filter-city")
	q.Filters.PriceMin, _ = f.GetInt64("price-min")
	q.Filters.PriceMax, _ = f.GetInt64("price-max")
	q.Filters.AreaMin, _ = f.GetFloat64("area-min")
	q.Filters.AreaMax, _ = f.GetFloat64("area-max")
	q.Filters.Bedrooms, _ = f.GetInt("min-beds")
	q.Filters.Bathrooms, _ = f.GetInt("min-baths")
	kind, _ := f.GetString("type")
	q.Filters.PropertyType = domain.PropertyType(kind)
	status, _ := f.GetString("status")
	q.Filters.Status = domain.PropertyStatus(status)
	return q, nil
}

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Quick lookup by title, city or type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore(cmd.Context())
		hits := catalog.Search(s.Properties(), args[0], catalog.QuickSearchLimit)
		return emit(cmd.OutOrStdout(), hits, func(w *tabwriter.Writer) {
			propertyTable(w, hits, s.IsFavorite)
		})
	},
}

var propertyCmd = &cobra.Command{
	Use:   "property",
	Short: "Show or manage a single listing",
}

var propertyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a listing and record it as recently viewed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore(cmd.Context())
		p, ok := s.Property(args[0])
		if !ok {
			return eris.Errorf("property %s not found", args[0])
		}
		s.AddToRecentlyViewed(p.ID)
		return emit(cmd.OutOrStdout(), p, func(w *tabwriter.Writer) { propertyDetail(w, p) })
	},
}

var propertyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a listing (admin)",
	Example: `  estatectl property add --title "Sea View Flat" --city Mumbai --price 9500000 --area 1100 \
    --beds 2 --baths 2 --type apartment --amenity Pool --amenity Gym`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := openStore(cmd.Context())
		if err := requireAdmin(s); err != nil {
			return err
		}
		var in domain.Property
		patchFromFlags(cmd.Flags(), true).Apply(&in)
		p, err := s.AddProperty(cmd.Context(), in.PropertyFields)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), p, func(w *tabwriter.Writer) { propertyDetail(w, p) })
	},
}

var propertyUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the given fields of a listing (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore(cmd.Context())
		if err := requireAdmin(s); err != nil {
			return err
		}
		patch := patchFromFlags(cmd.Flags(), false)
		if patch.Empty() {
			return eris.New("nothing to update")
		}
		p, err := s.UpdateProperty(cmd.Context(), args[0], patch)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), p, func(w *tabwriter.Writer) { propertyDetail(w, p) })
	},
}

var propertyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a listing (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore(cmd.Context())
		if err := requireAdmin(s); err != nil {
			return err
		}
		if err := s.DeleteProperty(cmd.Context(), args[0]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Property deleted successfully\n")
		return nil
	},
}

func listingFlags(f *pflag.FlagSet) {
	f.String("title", "", "listing title")
	f.String("city", "", "city")
	f.Int64("price", 0, "price in rupees")
	f.Float64("area", 0, "area in sq ft")
	f.Int("beds", 0, "bedrooms")
	f.Int("baths", 0, "bathrooms")
	f.String("type", "", "villa, apartment, penthouse, townhouse or plot")
	f.String("status", "", "active, hot-deal or sold")
	f.StringArray("image", nil, "image URL (repeatable)")
	f.StringArray("amenity", nil, "amenity (repeatable)")
	f.String("description", "", "free text description")
	f.Bool("featured", false, "mark as featured")
	f.Bool("premium", false, "mark as premium")
	f.Bool("budget", false, "mark as budget friendly")
	f.Float64("lat", 0, "latitude")
	f.Float64("lng", 0, "longitude")
}

// patchFromFlags collects the listing flags. With all set every field is
// included, otherwise only the flags given on the command line.
func patchFromFlags(f *pflag.FlagSet, all bool) domain.PropertyPatch {
	var p domain.PropertyPatch
	set := func(name string) bool { return all || f.Changed(name) }

	if set("title") {
		v, _ := f.GetString("title")
		p.Title = &v
	}
	if set("city") {
		v, _ := f.GetString("city")
		p.City = &v
	}
	if set("price") {
		v, _ := f.GetInt64("price")
		p.Price = &v
	}
	if set("area") {
		v, _ := f.GetFloat64("area")
		p.Area = &v
	}
	if set("beds") {
		v, _ := f.GetInt("beds")
		p.Bedrooms = &v
	}
	if set("baths") {
		v, _ := f.GetInt("baths")
		p.Bathrooms = &v
	}
	if set("type") {
		v, _ := f.GetString("type")
		t := domain.PropertyType(v)
		p.PropertyType = &t
	}
	if set("status") {
		v, _ := f.GetString("status")
		st := domain.PropertyStatus(v)
		p.Status = &st
	}
	if set("image") {
		v, _ := f.GetStringArray("image")
		p.Images = &v
	}
	if set("amenity") {
		v, _ := f.GetStringArray("amenity")
		p.Amenities = &v
	}
	if set("description") {
		v, _ := f.GetString("description")
		p.Description = &v
	}
	if set("featured") {
		v, _ := f.GetBool("featured")
		p.IsFeatured = &v
	}
	if set("premium") {
		v, _ := f.GetBool("premium")
		p.IsPremium = &v
	}
	if set("budget") {
		v, _ := f.GetBool("budget")
		p.IsBudgetFriendly = &v
	}
	if set("lat") || set("lng") {
		lat, _ := f.GetFloat64("lat")
		lng, _ := f.GetFloat64("lng")
		p.Location = &domain.Location{Lat: lat, Lng: lng}
	}
	return p
}

func init() {
	f := propertiesCmd.Flags()
	f.String("preset", "", "featured, latest, budget or premium")
	f.String("city", "", "city tab (overrides --filter-city)")
	f.String("search", "", "match title, city, type or description")
	f.String("filter-city", "", "advanced filter: city")
	f.Int64("price-min", 0, "minimum price")
	f.Int64("price-max", 0, "maximum price")
	f.Float64("area-min", 0, "minimum area")
	f.Float64("area-max", 0, "maximum area")
	f.Int("min-beds", 0, "minimum bedrooms")
	f.Int("min-baths", 0, "minimum bathrooms")
	f.String("type", "", "property type")
	f.String("status", "", "listing status")

	listingFlags(propertyAddCmd.Flags())
	listingFlags(propertyUpdateCmd.Flags())
	for _, name := range []string{"title", "city", "price", "area", "type"} {
		_ = propertyAddCmd.MarkFlagRequired(name)
	}

	propertyCmd.AddCommand(propertyShowCmd, propertyAddCmd, propertyUpdateCmd, propertyDeleteCmd)
	rootCmd.AddCommand(propertiesCmd, searchCmd, propertyCmd)
}
