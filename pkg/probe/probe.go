// Package probe classifies stream URLs as live or dead with a bounded-time
// HEAD request.
package probe

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/zachfi/stationgo/pkg/shoutcast"
)

const (
	DefaultTimeout   = 5 * time.Second
	defaultUserAgent = "stationgo/1.0"
)

// Status is the classification of one probe.
type Status string

const (
	StatusOK        Status = "ok"
	StatusNotAudio  Status = "not_audio"
	StatusBadStatus Status = "bad_status"
	StatusTimeout   Status = "timeout"
	StatusError     Status = "error"
)

// Result is the outcome of probing one URL.
type Result struct {
	URL         string
	Live        bool
	Status      Status
	StatusCode  int
	ContentType string
	Latency     time.Duration
	// ICY holds the station description the server advertised, if any.
	ICY shoutcast.Info
}

// Prober issues liveness probes. It is safe for concurrent use.
type Prober struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	observe   func(Result)
}

type Option func(*Prober)

// WithClient sets the HTTP client. Its own Timeout, if any, also applies.
func WithClient(c *http.Client) Option {
	return func(p *Prober) { p.client = c }
}

// WithTimeout sets the per-probe deadline. Non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(p *Prober) {
		if ua != "" {
			p.userAgent = ua
		}
	}
}

// WithObserver registers a function called with every Result.
func WithObserver(fn func(Result)) Option {
	return func(p *Prober) { p.observe = fn }
}

func New(opts ...Option) *Prober {
	p := &Prober{
		client:    http.DefaultClient,
		timeout:   DefaultTimeout,
		userAgent: defaultUserAgent,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Timeout returns the per-probe deadline.
func (p *Prober) Timeout() time.Duration {
	return p.timeout
}

// Check reports whether url currently serves audio.
func (p *Prober) Check(ctx context.Context, url string) bool {
	return p.Probe(ctx, url).Live
}

// Probe sends a HEAD request to url and classifies the response. A response
// is live only with a 2xx status and a content type containing "audio".
// Probe never returns an error; failures are reported through Status.
func (p *Prober) Probe(ctx context.Context, url string) Result {
	r := p.probe(ctx, url)
	if p.observe != nil {
		p.observe(r)
	}
	return r
}

func (p *Prober) probe(ctx context.Context, url string) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return Result{URL: url, Status: StatusError, Latency: time.Since(start)}
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := p.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		if isTimeout(ctx, err) {
			return Result{URL: url, Status: StatusTimeout, Latency: latency}
		}
		return Result{URL: url, Status: StatusError, Latency: latency}
	}
	defer resp.Body.Close()

	ct := resp.Header.Get("Content-Type")
	r := Result{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: ct,
		Latency:     latency,
		ICY:         shoutcast.ParseHeaders(resp.Header),
	}

	switch {
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		r.Status = StatusBadStatus
	case !strings.Contains(strings.ToLower(ct), "audio"):
		r.Status = StatusNotAudio
	default:
		r.Status = StatusOK
		r.Live = true
	}
	return r
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
