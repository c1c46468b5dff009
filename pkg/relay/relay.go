// Package relay rewrites stream URLs through an optional CORS relay.
package relay

import (
	"fmt"
	"net/url"
	"strings"
)

// Rewriter prefixes URLs with a relay base. A nil or zero Rewriter returns
// URLs unchanged.
type Rewriter struct {
	base string
}

// New validates base and returns a Rewriter for it. An empty base disables
// rewriting.
func New(base string) (*Rewriter, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return &Rewriter{}, nil
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("relay base %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("relay base %q: scheme must be http or https", base)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("relay base %q: missing host", base)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("relay base %q: query and fragment are not allowed", base)
	}

	return &Rewriter{base: strings.TrimRight(base, "/")}, nil
}

// Enabled reports whether a relay base is configured.
func (r *Rewriter) Enabled() bool {
	return r != nil && r.base != ""
}

// Base returns the configured relay base without trailing slash.
func (r *Rewriter) Base() string {
	if r == nil {
		return ""
	}
	return r.base
}

// Rewrite returns base + "/" + the path-escaped u, or u itself when no relay
// is configured. Empty input is returned unchanged.
func (r *Rewriter) Rewrite(u string) string {
	if !r.Enabled() || u == "" {
		return u
	}
	return r.base + "/" + url.PathEscape(u)
}
