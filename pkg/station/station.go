// Package station holds the station records shared by the registry, the
// directory client and the resolver.
package station

import (
	"slices"
	"strings"
)

// Unknown is substituted for text fields a source did not provide.
const Unknown = "Unknown"

// Source names the origin of a station.
type Source string

const (
	SourceVerified     Source = "verified"
	SourceRadioBrowser Source = "radiobrowser"
)

// Base is a station as produced by a source. A Base is built once per fetch
// and treated as read-only afterwards.
type Base struct {
	ID            string   `json:"id"`
	Source        Source   `json:"source"`
	Name          string   `json:"name"`
	URL           string   `json:"url"`
	AlternateURLs []string `json:"alternate_urls,omitempty"`
	Favicon       string   `json:"favicon,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Country       string   `json:"country"`
	Language      string   `json:"language"`
	Codec         string   `json:"codec"`
	BitrateKbps   int      `json:"bitrate_kbps"`
	Genre         string   `json:"genre"`
	Verified      bool     `json:"is_verified"`

	// DirectoryIDs links a curated station to its directory entries.
	DirectoryIDs []string `json:"-"`
}

// Key is the identity of a station across sources.
func (b Base) Key() string {
	return string(b.Source) + ":" + b.ID
}

// Candidates returns the primary URL followed by the alternates, in order.
func (b Base) Candidates() []string {
	out := make([]string, 0, 1+len(b.AlternateURLs))
	out = append(out, b.URL)
	return append(out, b.AlternateURLs...)
}

// HasURL reports whether u is the primary URL or one of the alternates.
func (b Base) HasURL(u string) bool {
	return u == b.URL || slices.Contains(b.AlternateURLs, u)
}

// Clone returns a copy that shares no slices with b.
func (b Base) Clone() Base {
	b.AlternateURLs = slices.Clone(b.AlternateURLs)
	b.Tags = slices.Clone(b.Tags)
	b.DirectoryIDs = slices.Clone(b.DirectoryIDs)
	return b
}

// Resolved is a station after liveness resolution.
type Resolved struct {
	Base

	// ResolvedURL is always the primary URL or one of the alternates.
	ResolvedURL string `json:"resolved_url"`
	IsWorking   bool   `json:"is_working"`
	// PlaybackURL is ResolvedURL passed through the CORS relay, if any.
	PlaybackURL string `json:"playback_url"`
}

// Unresolved returns the not-working default for b.
func Unresolved(b Base) Resolved {
	return Resolved{Base: b, ResolvedURL: b.URL, PlaybackURL: b.URL}
}

// Query filters a directory request.
type Query struct {
	Limit    int
	Offset   int
	Tags     []string
	Country  string
	Language string
}

// NormalizeTags lower-cases, trims, deduplicates and sorts tags. Empty
// entries are dropped.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// SplitTags splits a comma-separated tag string and normalizes it.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return NormalizeTags(strings.Split(s, ","))
}
