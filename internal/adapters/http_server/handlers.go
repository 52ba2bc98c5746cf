// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"estate_market/internal/adapters/observability"
	"estate_market/internal/app"
	"estate_market/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	C *app.CommandService
}

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// resource names one collection for client-facing messages.
type resource struct{ many, title string }

var (
	resProperty  = resource{many: "properties", title: "Property"}
	resLead      = resource{many: "leads", title: "Lead"}
	resSiteVisit = resource{many: "site visits", title: "Site visit"}
)

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/health", health)

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", h.listProperties)
			r.With(s.limit).Post("/", h.createProperty)
			r.Get("/{id}", h.getProperty)
			r.Put("/{id}", h.updateProperty)
			r.Delete("/{id}", h.deleteProperty)
		})
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", h.listLeads)
			r.With(s.limit).Post("/", h.createLead)
			r.Put("/{id}", h.updateLead)
			r.Delete("/{id}", h.deleteLead)
		})
		r.Route("/site-visits", func(r chi.Router) {
			r.Get("/", h.listSiteVisits)
			r.With(s.limit).Post("/", h.createSiteVisit)
			r.Put("/{id}", h.updateSiteVisit)
			r.Delete("/{id}", h.deleteSiteVisit)
		})
	})
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Server is running"})
}

// ---- response helpers ----

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}

// fail maps err onto the status taxonomy: validation 400, missing 404, else 500.
func fail(w http.ResponseWriter, err error, res resource, msg string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, res.title+" not found")
	default:
		log.Error().Err(err).Str("resource", res.many).Str("err_type", observability.LabelErr(err)).Msg(msg)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached renders a GET body with a weak ETag and honours If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

func deleted(w http.ResponseWriter, res resource) {
	writeJSON(w, http.StatusOK, map[string]string{"message": res.title + " deleted successfully"})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// ---- properties ----

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListProperties(r.Context())
	if err != nil {
		fail(w, err, resProperty, "Failed to fetch properties")
		return
	}
	writeCached(w, r, nonNil(out))
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.Q.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, err, resProperty, "Failed to fetch property")
		return
	}
	writeCached(w, r, p)
}

func (h *Handlers) createProperty(w http.ResponseWriter, r *http.Request) {
	var in domain.PropertyPatch
	if !decode(w, r, &in) {
		return
	}
	p, err := h.C.CreateProperty(r.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			fail(w, err, resProperty, "Failed to create property")
			return
		}
		log.Error().Err(err).Msg("create property failed")
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "Failed to create property", Details: err.Error()})
		return
	}
	log.Info().Str("property_id", p.ID).Msg("property created")
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) updateProperty(w http.ResponseWriter, r *http.Request) {
	var in domain.PropertyPatch
	if !decode(w, r, &in) {
		return
	}
	p, err := h.C.UpdateProperty(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		fail(w, err, resProperty, "Failed to update property")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) deleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.C.DeleteProperty(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, err, resProperty, "Failed to delete property")
		return
	}
	deleted(w, resProperty)
}

// ---- leads ----

func (h *Handlers) listLeads(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListLeads(r.Context())
	if err != nil {
		fail(w, err, resLead, "Failed to fetch leads")
		return
	}
	writeCached(w, r, nonNil(out))
}

func (h *Handlers) createLead(w http.ResponseWriter, r *http.Request) {
	var in domain.LeadFields
	if !decode(w, r, &in) {
		return
	}
	l, err := h.C.CreateLead(r.Context(), in)
	if err != nil {
		fail(w, err, resLead, "Failed to create lead")
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *Handlers) updateLead(w http.ResponseWriter, r *http.Request) {
	var in domain.LeadPatch
	if !decode(w, r, &in) {
		return
	}
	l, err := h.C.UpdateLead(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		fail(w, err, resLead, "Failed to update lead")
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *Handlers) deleteLead(w http.ResponseWriter, r *http.Request) {
	if err := h.C.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, err, resLead, "Failed to delete lead")
		return
	}
	deleted(w, resLead)
}

// ---- site visits ----

func (h *Handlers) listSiteVisits(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListSiteVisits(r.Context())
	if err != nil {
		fail(w, err, resSiteVisit, "Failed to fetch site visits")
		return
	}
	writeCached(w, r, nonNil(out))
}

func (h *Handlers) createSiteVisit(w http.ResponseWriter, r *http.Request) {
	var in domain.SiteVisitFields
	if !decode(w, r, &in) {
		return
	}
	v, err := h.C.CreateSiteVisit(r.Context(), in)
	if err != nil {
		fail(w, err, resSiteVisit, "Failed to create site visit")
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handlers) updateSiteVisit(w http.ResponseWriter, r *http.Request) {
	var in domain.SiteVisitPatch
	if !decode(w, r, &in) {
		return
	}
	v, err := h.C.UpdateSiteVisit(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		fail(w, err, resSiteVisit, "Failed to update site visit")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handlers) deleteSiteVisit(w http.ResponseWriter, r *http.Request) {
	if err := h.C.DeleteSiteVisit(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, err, resSiteVisit, "Failed to delete site visit")
		return
	}
	deleted(w, resSiteVisit)
}
