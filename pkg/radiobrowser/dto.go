package radiobrowser

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/zachfi/stationgo/pkg/station"
)

type fieldState int

const (
	fieldPresent fieldState = iota
	fieldMissing
	fieldUnparseable
)

// record is one station as sent by the directory, decoded field by field so
// that a bad field never discards the whole entry.
type record map[string]json.RawMessage

func (r record) raw(key string) (json.RawMessage, bool) {
	v, ok := r[key]
	if !ok || len(v) == 0 || string(v) == "null" {
		return nil, false
	}
	return v, true
}

func (r record) stringField(key string) (string, fieldState) {
	v, ok := r.raw(key)
	if !ok {
		return "", fieldMissing
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", fieldUnparseable
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fieldMissing
	}
	return s, fieldPresent
}

// intField accepts JSON numbers and numeric strings in [0, MaxInt32].
func (r record) intField(key string) (int, fieldState) {
	v, ok := r.raw(key)
	if !ok {
		return 0, fieldMissing
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		if math.IsInf(f, 0) || math.IsNaN(f) || f < 0 || f > math.MaxInt32 {
			return 0, fieldUnparseable
		}
		return int(f), fieldPresent
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, fieldUnparseable
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fieldMissing
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > math.MaxInt32 {
		return 0, fieldUnparseable
	}
	return n, fieldPresent
}

// decoder tallies fields that had to be defaulted.
type decoder struct {
	rec         record
	unparseable int
}

func (d *decoder) text(key, def string) string {
	s, st := d.rec.stringField(key)
	switch st {
	case fieldPresent:
		return s
	case fieldUnparseable:
		d.unparseable++
	}
	return def
}

func (d *decoder) number(key string) int {
	n, st := d.rec.intField(key)
	if st == fieldUnparseable {
		d.unparseable++
	}
	return n
}

// toStation maps one record. ok is false when the record has no stream URL.
func toStation(rec record) (s station.Base, unparseable int, ok bool) {
	d := &decoder{rec: rec}

	resolved := d.text("url_resolved", "")
	raw := d.text("url", "")
	primary := resolved
	if primary == "" {
		primary = raw
	}
	if primary == "" {
		return station.Base{}, d.unparseable, false
	}

	s = station.Base{
		Source:      station.SourceRadioBrowser,
		ID:          d.text("stationuuid", primary),
		Name:        d.text("name", station.Unknown),
		URL:         primary,
		Favicon:     d.text("favicon", ""),
		Tags:        station.SplitTags(d.text("tags", "")),
		Country:     d.text("country", station.Unknown),
		Language:    d.text("language", station.Unknown),
		Codec:       d.text("codec", station.Unknown),
		BitrateKbps: d.number("bitrate"),
	}
	if raw != "" && raw != primary {
		s.AlternateURLs = []string{raw}
	}
	s.Genre = station.Genre(s.Name, s.Tags)

	return s, d.unparseable, true
}

func decodeStations(records []map[string]json.RawMessage) Result {
	res := Result{Stations: make([]station.Base, 0, len(records))}
	for _, r := range records {
		s, bad, ok := toStation(record(r))
		res.Unparseable += bad
		if !ok {
			res.Skipped++
			continue
		}
		res.Stations = append(res.Stations, s)
	}
	return res
}
