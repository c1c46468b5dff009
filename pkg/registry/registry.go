// Package registry is the hand-curated table of verified stations. It is the
// availability floor of every listing: these stations are returned even when
// the directory is unreachable.
package registry

import (
	"fmt"

	"github.com/zachfi/stationgo/pkg/station"
)

// Registry is an immutable set of verified stations. It is safe for
// concurrent use.
type Registry struct {
	stations []station.Base
	byID     map[string]int
}

// New builds a registry from stations. Every entry is marked verified; text
// fields left empty are set to station.Unknown and a missing genre is
// derived from the name and tags.
func New(stations ...station.Base) (*Registry, error) {
	r := &Registry{
		stations: make([]station.Base, 0, len(stations)),
		byID:     make(map[string]int, len(stations)),
	}

	for i, s := range stations {
		if s.ID == "" {
			return nil, fmt.Errorf("station %d: missing id", i)
		}
		if s.URL == "" {
			return nil, fmt.Errorf("station %q: missing url", s.ID)
		}
		if _, ok := r.byID[s.ID]; ok {
			return nil, fmt.Errorf("station %q: duplicate id", s.ID)
		}

		s = s.Clone()
		s.Source = station.SourceVerified
		s.Verified = true
		s.Tags = station.NormalizeTags(s.Tags)
		s.Name = orUnknown(s.Name)
		s.Country = orUnknown(s.Country)
		s.Language = orUnknown(s.Language)
		s.Codec = orUnknown(s.Codec)
		if s.Genre == "" {
			s.Genre = station.Genre(s.Name, s.Tags)
		}

		r.byID[s.ID] = len(r.stations)
		r.stations = append(r.stations, s)
	}

	return r, nil
}

// List returns a copy of every station in registration order.
func (r *Registry) List() []station.Base {
	if r == nil {
		return nil
	}
	out := make([]station.Base, len(r.stations))
	for i, s := range r.stations {
		out[i] = s.Clone()
	}
	return out
}

// Lookup returns the station registered under id.
func (r *Registry) Lookup(id string) (station.Base, bool) {
	if r == nil {
		return station.Base{}, false
	}
	i, ok := r.byID[id]
	if !ok {
		return station.Base{}, false
	}
	return r.stations[i].Clone(), true
}

// Len returns the number of stations.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.stations)
}

func orUnknown(s string) string {
	if s == "" {
		return station.Unknown
	}
	return s
}
