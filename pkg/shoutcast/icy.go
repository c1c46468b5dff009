package shoutcast

import (
	"net/http"
	"strconv"
	"strings"
)

// Info is the station description a server advertises in its ICY headers.
type Info struct {
	// The name of the server
	Name string `json:"name,omitempty"`

	// What category the server falls under
	Genre string `json:"genre,omitempty"`

	// The description of the stream
	Description string `json:"description,omitempty"`

	// Homepage of the server
	URL string `json:"url,omitempty"`

	// Bitrate in kbps, 0 when absent or not a number
	Bitrate int `json:"bitrate,omitempty"`

	// Amount of audio bytes between metadata blocks, 0 when not offered
	MetaInt int `json:"metaint,omitempty"`
}

// Empty reports whether no ICY header was present.
func (i Info) Empty() bool {
	return i == Info{}
}

// ParseHeaders extracts the icy-* headers from h. Malformed numeric headers
// are left at zero.
func ParseHeaders(h http.Header) Info {
	info := Info{
		Name:        strings.TrimSpace(h.Get("icy-name")),
		Genre:       strings.TrimSpace(h.Get("icy-genre")),
		Description: strings.TrimSpace(h.Get("icy-description")),
		URL:         strings.TrimSpace(h.Get("icy-url")),
	}

	// icy-br is sometimes sent as "128,128"
	if raw := h.Get("icy-br"); raw != "" {
		raw, _, _ = strings.Cut(raw, ",")
		if br, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && br > 0 {
			info.Bitrate = br
		}
	}

	if raw := h.Get("icy-metaint"); raw != "" {
		if mi, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && mi > 0 {
			info.MetaInt = mi
		}
	}

	return info
}
