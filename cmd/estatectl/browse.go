package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"estate_market/internal/client/catalog"
	"estate_market/internal/client/store"
)

var favoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Toggle a listing in favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore(cmd.Context())
		if s.ToggleFavorite(args[0]) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s to favorites\n", args[0])
		} else {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s from favorites\n", args[0])
		}
		return nil
	},
}

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List favorite listings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := openStore(cmd.Context())
		props := pick(s, s.Favorites())
		return emit(cmd.OutOrStdout(), props, func(w *tabwriter.Writer) {
			propertyTable(w, props, nil)
		})
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently viewed listings, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := openStore(cmd.Context())
		props := pick(s, s.RecentlyViewed())
		return emit(cmd.OutOrStdout(), props, func(w *tabwriter.Writer) {
			propertyTable(w, props, s.IsFavorite)
		})
	},
}

// pick resolves ids against the loaded listings in order, skipping ids
// whose listing no longer exists.
func pick(s *store.Store, ids []string) []store.Property {
	out := make([]store.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.Property(id); ok {
			out = append(out, p)
		}
	}
	return out
}

var compareCmd = &cobra.Command{
	Use:   "compare <id> <id> [id]",
	Short: "Compare up to three listings side by side",
	Args:  cobra.RangeArgs(2, catalog.MaxCompare),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openStore(cmd.Context())
		var c catalog.Comparison
		for _, id := range args {
			p, ok := s.Property(id)
			if !ok {
				return eris.Errorf("property %s not found", id)
			}
			c.Toggle(p)
		}
		rows := c.Rows()
		return emit(cmd.OutOrStdout(), rows, func(w *tabwriter.Writer) {
			_, _ = fmt.Fprint(w, "FEATURE")
			for _, p := range c.Items() {
				_, _ = fmt.Fprintf(w, "\t%s", truncate(p.Title, 24))
			}
			_, _ = fmt.Fprintln(w)
			for _, r := range rows {
				_, _ = fmt.Fprint(w, r.Label)
				for _, v := range r.Values {
					_, _ = fmt.Fprintf(w, "\t%s", v)
				}
				_, _ = fmt.Fprintln(w)
			}
		})
	},
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Run the investment calculator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f := cmd.Flags()
		in := catalog.DefaultInvestment
		in.PropertyPrice, _ = f.GetFloat64("price")
		in.DownPayment, _ = f.GetFloat64("down")
		in.InterestRate, _ = f.GetFloat64("rate")
		in.LoanTermYears, _ = f.GetInt("years")
		in.MonthlyRental, _ = f.GetFloat64("rent")
		in.AnnualExpenses, _ = f.GetFloat64("expenses")
		if in.DownPayment > in.PropertyPrice {
			return eris.New("down payment exceeds the property price")
		}

		r := catalog.Calculate(in)
		return emit(cmd.OutOrStdout(), r, func(w *tabwriter.Writer) {
			row := func(k string, v float64) { _, _ = fmt.Fprintf(w, "%s\t₹%.0f\n", k, v) }
			row("Loan Amount", r.LoanAmount)
			row("Monthly EMI", r.MonthlyEMI)
			row("Total Loan Cost", r.TotalLoanCost)
			row("Total Interest", r.TotalInterest)
			row("Monthly Profit", r.MonthlyProfit)
			row("Yearly Profit", r.YearlyProfit)
			_, _ = fmt.Fprintf(w, "ROI\t%.2f%%\n", r.ROI)
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the dashboard counters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := openStore(cmd.Context())
		d := catalog.Dashboard(s.Properties(), s.SiteVisits(), time.Now())
		return emit(cmd.OutOrStdout(), d, func(w *tabwriter.Writer) {
			_, _ = fmt.Fprintf(w, "Total Properties\t%d\n", d.TotalProperties)
			_, _ = fmt.Fprintf(w, "New Listings\t%d\n", d.NewListings)
			if s.IsAdmin() {
				_, _ = fmt.Fprintf(w, "Site Visits\t%d\n", d.OpenSiteVisits)
			}
			_, _ = fmt.Fprintf(w, "Hot Deals\t%d\n", d.HotDeals)
		})
	},
}

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List the city tabs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return emit(cmd.OutOrStdout(), catalog.Cities, func(w *tabwriter.Writer) {
			for _, c := range catalog.Cities {
				_, _ = fmt.Fprintln(w, c)
			}
		})
	},
}

func init() {
	d := catalog.DefaultInvestment
	f := calcCmd.Flags()
	f.Float64("price", d.PropertyPrice, "property price")
	f.Float64("down", d.DownPayment, "down payment")
	f.Float64("rate", d.InterestRate, "yearly interest rate in percent")
	f.Int("years", d.LoanTermYears, "loan term in years")
	f.Float64("rent", d.MonthlyRental, "monthly rental income")
	f.Float64("expenses", d.AnnualExpenses, "annual expenses")

	rootCmd.AddCommand(favoriteCmd, favoritesCmd, recentCmd, compareCmd, calcCmd, statsCmd, citiesCmd)
}
