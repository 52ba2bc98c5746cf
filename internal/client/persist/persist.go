// Package persist keeps the client's small key/value state across runs.
package persist

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

const (
	KeyFavorites      = "favorites"
	KeyRecentlyViewed = "recentlyViewed"
	KeyIsAdmin        = "isAdmin"
)

// Storage is a string key/value store. Get reports ok=false for absent keys.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// LoadList reads a JSON string list. Absent or malformed values yield nil.
func LoadList(s Storage, key string) ([]string, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, nil
	}
	return out, nil
}

func SaveList(s Storage, key string, list []string) error {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return eris.Wrapf(err, "encode %s", key)
	}
	return s.Set(key, string(b))
}

// LoadFlag reports whether key holds "true".
func LoadFlag(s Storage, key string) (bool, error) {
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	return v == "true", nil
}

// SaveFlag stores "true" or removes the key.
func SaveFlag(s Storage, key string, on bool) error {
	if on {
		return s.Set(key, "true")
	}
	return s.Remove(key)
}
