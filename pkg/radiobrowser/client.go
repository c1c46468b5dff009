// Package radiobrowser queries the radio-browser.info station directory.
//
// The directory is a best-effort source: Fetch never fails the caller, it
// reports an unreachable or misbehaving directory through Result.Err and an
// empty station list.
package radiobrowser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/zachfi/stationgo/pkg/station"
)

const maxBodyBytes = 16 << 20

// ErrUnavailable matches every *UnavailableError with errors.Is.
var ErrUnavailable = errors.New("directory unavailable")

// UnavailableError reports why the directory contributed no stations.
type UnavailableError struct {
	// StatusCode is the HTTP status, 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("directory unavailable: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("directory unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// Result is the outcome of one Fetch.
type Result struct {
	Stations []station.Base
	// Err is nil on success and an *UnavailableError otherwise.
	Err error
	// Cached is set when the stations came from the response cache.
	Cached bool
	// Skipped counts directory entries without a usable stream URL.
	Skipped int
	// Unparseable counts fields replaced by their default.
	Unparseable int
}

// Client is safe for concurrent use.
type Client struct {
	cfg    Config
	base   string
	client *http.Client
	cache  *cache
	group  singleflight.Group
	logger *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.client = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// WithClock replaces time.Now for cache freshness checks.
func WithClock(now func() time.Time) Option {
	return func(cl *Client) { cl.cache.now = now }
}

// New returns a client for cfg.URL. An empty or "auto" URL uses DefaultURL;
// mirror discovery is the caller's job.
func New(cfg Config, opts ...Option) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" || base == AutoURL {
		base = DefaultURL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	c := &Client{
		cfg:    cfg,
		base:   base,
		client: http.DefaultClient,
		cache:  newCache(cfg.CacheTTL),
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the directory base URL in use.
func (c *Client) BaseURL() string {
	return c.base
}

// TagList merges the query tags with the configured keywords.
func (c *Client) TagList(q station.Query) []string {
	tags := make([]string, 0, len(q.Tags)+len(c.cfg.Keywords))
	tags = append(tags, q.Tags...)
	tags = append(tags, c.cfg.Keywords...)
	return station.NormalizeTags(tags)
}

// SearchURL builds the search request URL for q.
func (c *Client) SearchURL(q station.Query) string {
	v := url.Values{}
	limit := q.Limit
	if limit <= 0 {
		limit = c.cfg.Limit
	}
	v.Set("limit", strconv.Itoa(limit))
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if tags := c.TagList(q); len(tags) > 0 {
		v.Set("tagList", strings.Join(tags, ","))
	}
	if q.Country != "" {
		v.Set("country", q.Country)
	}
	if q.Language != "" {
		v.Set("language", q.Language)
	}
	v.Set("hidebroken", "true")
	v.Set("order", "votes")
	v.Set("reverse", "true")

	return c.base + "/json/stations/search?" + v.Encode()
}

// Fetch runs one directory search. It never returns an error value; see
// Result.Err. Concurrent calls for the same request share one upstream call.
func (c *Client) Fetch(ctx context.Context, q station.Query) Result {
	reqURL := c.SearchURL(q)

	if stations, ok := c.cache.get(reqURL); ok {
		return Result{Stations: stations, Cached: true}
	}

	v, _, shared := c.group.Do(reqURL, func() (interface{}, error) {
		if stations, ok := c.cache.get(reqURL); ok {
			return Result{Stations: stations, Cached: true}, nil
		}

		res := c.fetch(ctx, reqURL)
		if res.Err != nil {
			c.logger.Debug("directory fetch failed", "url", reqURL, "err", res.Err)
			return res, nil
		}

		if res.Unparseable > 0 || res.Skipped > 0 {
			c.logger.Debug("directory response had malformed entries",
				"unparseable_fields", res.Unparseable, "skipped", res.Skipped)
		}
		c.cache.set(reqURL, res.Stations)
		return res, nil
	})

	res := v.(Result)
	if shared {
		res.Stations = cloneAll(res.Stations)
	}
	return res
}

func (c *Client) fetch(ctx context.Context, reqURL string) Result {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Result{Err: &UnavailableError{Err: err}}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{Err: &UnavailableError{Err: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Result{Err: &UnavailableError{StatusCode: resp.StatusCode}}
	}

	var records []map[string]json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&records); err != nil {
		return Result{Err: &UnavailableError{Err: fmt.Errorf("decode stations: %w", err)}}
	}

	return decodeStations(records)
}
