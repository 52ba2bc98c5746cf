package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"estate_market/internal/client/store"
	"estate_market/internal/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Unlock admin mode",
	Long:  "Reads the passphrase from --password or the first line of stdin.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		pw, _ := cmd.Flags().GetString("password")
		if pw == "" {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Passphrase: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return eris.Wrap(err, "read passphrase")
			}
			pw = strings.TrimRight(line, "\r\n")
		}
		s := openStore(cmd.Context())
		if !s.Login(cmd.Context(), pw) {
			return eris.New("invalid credentials")
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged in: %d leads, %d site visits\n", len(s.Leads()), len(s.SiteVisits()))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Leave admin mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		openStore(cmd.Context()).Logout()
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	},
}

// ---- leads ----

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List leads, newest first (admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := openStore(cmd.Context())
		if err := requireAdmin(s); err != nil {
			return err
		}
		leads := s.Leads()
		if st, _ := cmd.Flags().GetString("status"); st != "" {
			leads = filterLeads(leads, domain.LeadStatus(st))
		}
		return emit(cmd.OutOrStdout(), leads, func(w *tabwriter.Writer) { leadTable(w, leads) })
	},
}

func filterLeads(in []store.Lead, st domain.LeadStatus) []store.Lead {
	out := in[:0:0]
	for _, l := range in {
		if l.Status == st {
			out = append(out, l)
		}
	}
	return out
}

var leadCmd = &cobra.Command{
	Use:   "lead",
	Short: "Register interest or manage a lead",
}

var leadAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register interest in a listing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f := cmd.Flags()
		var in domain.LeadFields
		in.Name, _ = f.GetString("name")
		in.Phone, _ = f.GetString("phone")
		in.Email, _ = f.GetString("email")
		in.Source, _ = f.GetString("source")
		prop, _ := f.GetString("property")
		in.PropertyID = domain.Ref(prop)
		if notes, _ := f.GetString("notes"); notes != "" {
			in.RequirementDetails = &domain.RequirementDetails{SpecialNotes: notes}
		}

		l, err := openStore(cmd.Context()).AddLead(cmd.Context(), in)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), l, func(w *tabwriter.Writer) { leadTable(w, []store.Lead{l}) })
	},
}

var leadStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Move a lead through the pipeline (admin)",
	Long:  "Statuses: raw, verified, site-visit-requested, site-visit-done, negotiation, deal-closed.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := domain.LeadStatus(args[1])
		if !st.Valid() {
			return eris.Errorf("unknown lead status %q", args[1])
		}
		s := openStore(cmd.Context())
		if err := requireAdmin(s); err != nil {
			return err
		}
		if err := s.UpdateLeadStatus(cmd.Context(), args[0], st); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "lead %s is now %s\n", args[0], st)
		return nil
	},
}

// ---- site visits ----

var visitsCmd = &cobra.Command{
	Use:   "visits",
	Short: "List site visits by date (admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := openStore(cmd.Context())
		if err := requireAdmin(s); err != nil {
			return err
		}
		visits := s.SiteVisits()
		return emit(cmd.OutOrStdout(), visits, func(w *tabwriter.Writer) { visitTable(w, visits) })
	},
}

var visitCmd = &cobra.Command{
	Use:   "visit",
	Short: "Book or manage a site visit",
}

var visitBookCmd = &cobra.Command{
	Use:     "book",
	Short:   "Book a site visit; a matching lead is recorded too",
	Example: `  estatectl visit book --property 65f1c2... --name "Asha" --phone "+91 90000 00000" --date 2026-11-02T11:00:00+05:30`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f := cmd.Flags()
		var in domain.SiteVisitFields
		in.Name, _ = f.GetString("name")
		in.Phone, _ = f.GetString("phone")
		prop, _ := f.GetString("property")
		in.PropertyID = domain.Ref(prop)
		raw, _ := f.GetString("date")
		d, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return eris.Wrap(err, "--date must be RFC3339")
		}
		in.Date = d

		v, err := openStore(cmd.Context()).AddSiteVisit(cmd.Context(), in)
		var partial *store.CompanionLeadError
		if errors.As(err, &partial) {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", describe(partial.Err))
		} else if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), v, func(w *tabwriter.Writer) { visitTable(w, []store.SiteVisit{v}) })
	},
}

var visitStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Confirm, complete or cancel a visit (admin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := domain.SiteVisitStatus(args[1])
		if !st.Valid() {
			return eris.Errorf("unknown visit status %q", args[1])
		}
		s := openStore(cmd.Context())
		if err := requireAdmin(s); err != nil {
			return err
		}
		if err := s.UpdateSiteVisitStatus(cmd.Context(), args[0], st); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "visit %s is now %s\n", args[0], st)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("password", "", "admin passphrase")
	leadsCmd.Flags().String("status", "", "only leads in this status")

	f := leadAddCmd.Flags()
	f.String("name", "", "your name")
	f.String("phone", "", "phone number")
	f.String("email", "", "email address")
	f.String("property", "", "listing id")
	f.String("source", "cli", "where the lead came from")
	f.String("notes", "", "requirements in your own words")
	for _, name := range []string{"name", "phone"} {
		_ = leadAddCmd.MarkFlagRequired(name)
	}

	f = visitBookCmd.Flags()
	f.String("name", "", "visitor name")
	f.String("phone", "", "phone number")
	f.String("property", "", "listing id")
	f.String("date", "", "visit time, RFC3339")
	for _, name := range []string{"name", "phone", "property", "date"} {
		_ = visitBookCmd.MarkFlagRequired(name)
	}

	leadCmd.AddCommand(leadAddCmd, leadStatusCmd)
	visitCmd.AddCommand(visitBookCmd, visitStatusCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, leadsCmd, leadCmd, visitsCmd, visitCmd)
}
