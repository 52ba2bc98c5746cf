// internal/adapters/gateway/client.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"estate_market/internal/adapters/observability"
	"estate_market/internal/domain"
)

const service = "estate_api"

// Client talks to the marketplace REST API. One request per call, no retries.
type Client struct {
	base string
	hc   *http.Client
}

// New returns a client rooted at base, e.g. http://localhost:5000/api.
// A nil hc gets a 20s-timeout client.
func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{base: strings.TrimRight(base, "/"), hc: hc}
}

// ---- wire records ----

// PropertyRecord is a listing as served; the id may arrive as "_id" or "id".
type PropertyRecord struct {
	domain.Property
	AltID string `json:"id,omitempty"`
}

func (r PropertyRecord) Key() string { return firstNonEmpty(r.ID, r.AltID) }

type LeadRecord struct {
	domain.Lead
	AltID string `json:"id,omitempty"`
}

func (r LeadRecord) Key() string { return firstNonEmpty(r.ID, r.AltID) }

type SiteVisitRecord struct {
	domain.SiteVisit
	AltID string `json:"id,omitempty"`
}

func (r SiteVisitRecord) Key() string { return firstNonEmpty(r.ID, r.AltID) }

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// ---- errors ----

var (
	ErrNotFound   = eris.New("gateway: not found")
	ErrBadRequest = eris.New("gateway: bad request")
)

// StatusError reports a non-2xx answer. Error() reads "failed to <op>".
type StatusError struct {
	Op      string
	Status  int
	Message string
}

func (e *StatusError) Error() string { return "failed to " + e.Op }

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrBadRequest:
		return e.Status == http.StatusBadRequest
	}
	return false
}

// ---- properties ----

func (c *Client) ListProperties(ctx context.Context) ([]PropertyRecord, error) {
	var out []PropertyRecord
	return out, c.do(ctx, "fetch properties", http.MethodGet, "/properties", nil, &out)
}

func (c *Client) GetProperty(ctx context.Context, id string) (PropertyRecord, error) {
	var out PropertyRecord
	return out, c.do(ctx, "fetch property", http.MethodGet, "/properties/"+id, nil, &out)
}

func (c *Client) CreateProperty(ctx context.Context, in domain.PropertyFields) (PropertyRecord, error) {
	var out PropertyRecord
	return out, c.do(ctx, "create property", http.MethodPost, "/properties", in, &out)
}

func (c *Client) UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (PropertyRecord, error) {
	var out PropertyRecord
	return out, c.do(ctx, "update property", http.MethodPut, "/properties/"+id, patch, &out)
}

func (c *Client) DeleteProperty(ctx context.Context, id string) error {
	return c.do(ctx, "delete property", http.MethodDelete, "/properties/"+id, nil, nil)
}

// ---- leads ----

func (c *Client) ListLeads(ctx context.Context) ([]LeadRecord, error) {
	var out []LeadRecord
	return out, c.do(ctx, "fetch leads", http.MethodGet, "/leads", nil, &out)
}

func (c *Client) CreateLead(ctx context.Context, in domain.LeadFields) (LeadRecord, error) {
	var out LeadRecord
	return out, c.do(ctx, "create lead", http.MethodPost, "/leads", in, &out)
}

func (c *Client) UpdateLead(ctx context.Context, id string, patch domain.LeadPatch) (LeadRecord, error) {
	var out LeadRecord
	return out, c.do(ctx, "update lead", http.MethodPut, "/leads/"+id, patch, &out)
}

func (c *Client) DeleteLead(ctx context.Context, id string) error {
	return c.do(ctx, "delete lead", http.MethodDelete, "/leads/"+id, nil, nil)
}

// ---- site visits ----

func (c *Client) ListSiteVisits(ctx context.Context) ([]SiteVisitRecord, error) {
	var out []SiteVisitRecord
	return out, c.do(ctx, "fetch site visits", http.MethodGet, "/site-visits", nil, &out)
}

func (c *Client) CreateSiteVisit(ctx context.Context, in domain.SiteVisitFields) (SiteVisitRecord, error) {
	var out SiteVisitRecord
	return out, c.do(ctx, "create site visit", http.MethodPost, "/site-visits", in, &out)
}

func (c *Client) UpdateSiteVisit(ctx context.Context, id string, patch domain.SiteVisitPatch) (SiteVisitRecord, error) {
	var out SiteVisitRecord
	return out, c.do(ctx, "update site visit", http.MethodPut, "/site-visits/"+id, patch, &out)
}

func (c *Client) DeleteSiteVisit(ctx context.Context, id string) error {
	return c.do(ctx, "delete site visit", http.MethodDelete, "/site-visits/"+id, nil, nil)
}

// Health returns the server's status message.
func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, "check health", http.MethodGet, "/health", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ---- internals ----

// do sends one JSON request and decodes a 2xx body into out (when non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return eris.Wrap(err, "failed to "+op)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return eris.Wrap(err, "failed to "+op)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "estate-market/1.0")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	endpoint := method + " " + routeOf(path)
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(service, endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "failed to "+op)
		}
		return eris.Wrap(err, "failed to "+op)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Op: op, Status: resp.StatusCode, Message: serverMessage(b)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return eris.Wrap(err, "failed to "+op)
	}
	return nil
}

// serverMessage pulls "error" out of a JSON error body, else returns the raw text.
func serverMessage(b []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(b))
}

// routeOf collapses ids so metric labels stay bounded.
func routeOf(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) > 1 {
		return "/" + parts[0] + "/{id}"
	}
	return path
}
