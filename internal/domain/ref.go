package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PropertyRef is a propertyId reference. List endpoints populate it with the
// referenced listing; a dangling reference keeps only the raw id.
type PropertyRef struct {
	ID       string
	Property *Property
}

func Ref(id string) PropertyRef { return PropertyRef{ID: id} }

func (r PropertyRef) IsZero() bool { return r.ID == "" && r.Property == nil }

func (r PropertyRef) MarshalJSON() ([]byte, error) {
	if r.Property != nil {
		return json.Marshal(r.Property)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// UnmarshalJSON accepts null, a bare id string, or a populated property object
// keyed by either "_id" or "id".
func (r *PropertyRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*r = PropertyRef{}
	case b[0] == '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = PropertyRef{ID: id}
	case b[0] == '{':
		var aux struct {
			Property
			AltID string `json:"id"`
		}
		if err := json.Unmarshal(b, &aux); err != nil {
			return err
		}
		p := aux.Property
		if p.ID == "" {
			p.ID = aux.AltID
		}
		*r = PropertyRef{ID: p.ID, Property: &p}
	default:
		return fmt.Errorf("propertyId: unexpected JSON %q", string(b))
	}
	return nil
}
