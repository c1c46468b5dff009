package resolver

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/zachfi/stationgo/pkg/probe"
	"github.com/zachfi/stationgo/pkg/radiobrowser"
	"github.com/zachfi/stationgo/pkg/shoutcast"
	"github.com/zachfi/stationgo/pkg/station"
)

// Lister supplies the curated stations.
type Lister interface {
	List() []station.Base
}

// Source supplies directory stations. Failure is reported in the result.
type Source interface {
	Fetch(ctx context.Context, q station.Query) radiobrowser.Result
}

// Prober classifies a stream URL as live or dead.
type Prober interface {
	Probe(ctx context.Context, url string) probe.Result
}

// Rewriter turns a resolved URL into the URL handed to players.
type Rewriter interface {
	Rewrite(u string) string
}

type Options struct {
	RequestTimeout        time.Duration
	MaxConcurrentStations int
	Metrics               *Metrics
	// Tracer defaults to the global provider's tracer.
	Tracer trace.Tracer
}

const tracerName = "github.com/zachfi/stationgo/modules/resolver"

// Resolver merges curated and directory stations and finds a live URL for
// each of them.
type Resolver struct {
	registry Lister
	source   Source
	prober   Prober
	rewriter Rewriter
	logger   *slog.Logger
	tracer   trace.Tracer
	opts     Options
}

// NewResolver returns a Resolver. src and rw may be nil: without a source
// only curated stations are listed, without a rewriter playback URLs equal
// resolved URLs.
func NewResolver(reg Lister, src Source, p Prober, rw Rewriter, logger *slog.Logger, opts Options) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	t := opts.Tracer
	if t == nil {
		t = otel.Tracer(tracerName)
	}
	return &Resolver{
		registry: reg,
		source:   src,
		prober:   p,
		rewriter: rw,
		logger:   logger,
		tracer:   t,
		opts:     opts,
	}
}

// Resolve returns every merged station exactly once. Stations whose URLs
// could not be confirmed live, including those cut off by the request
// deadline, are returned with IsWorking false and ResolvedURL set to their
// primary URL.
//
// The trace span is marked as an error when the directory was unavailable,
// since the listing then holds curated stations only.
func (r *Resolver) Resolve(ctx context.Context, q station.Query) []station.Resolved {
	ctx, span := r.tracer.Start(ctx, "Resolver.Resolve")
	defer span.End()
	start := time.Now()

	if r.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.RequestTimeout)
		defer cancel()
	}

	verified, dir := r.gather(ctx, q)
	if dir.Err != nil {
		span.RecordError(dir.Err)
		span.SetStatus(codes.Error, dir.Err.Error())
	}

	merged := Merge(verified, dir.Stations)
	out := make([]station.Resolved, len(merged))

	g := new(errgroup.Group)
	if r.opts.MaxConcurrentStations > 0 {
		g.SetLimit(r.opts.MaxConcurrentStations)
	}
	for i, s := range merged {
		i, s := i, s
		g.Go(func() error {
			out[i] = r.resolveOne(ctx, s)
			return nil
		})
	}
	_ = g.Wait()

	working := 0
	for _, s := range out {
		if s.IsWorking {
			working++
		}
	}

	elapsed := time.Since(start)
	r.opts.Metrics.observeResolve(elapsed, working, len(out))
	r.logger.Debug("resolved stations",
		"verified", len(verified),
		"directory", len(dir.Stations),
		"stations", len(out),
		"working", working,
		"duration", elapsed,
	)

	span.SetAttributes(
		attribute.Int("stations", len(out)),
		attribute.Int("working", working),
		attribute.Bool("directory.available", dir.Err == nil),
		attribute.Bool("directory.cached", dir.Cached),
	)
	if dir.Err == nil {
		span.SetStatus(codes.Ok, "")
	}

	return out
}

// gather reads the registry and the directory concurrently.
func (r *Resolver) gather(ctx context.Context, q station.Query) ([]station.Base, radiobrowser.Result) {
	var (
		verified []station.Base
		dir      radiobrowser.Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if r.registry != nil {
			verified = r.registry.List()
		}
		return nil
	})
	g.Go(func() error {
		if r.source != nil {
			dir = r.source.Fetch(gctx, q)
		}
		return nil
	})
	_ = g.Wait()

	r.opts.Metrics.observeDirectory(dir)
	if dir.Err != nil {
		r.logger.Warn("directory unavailable, listing curated stations only", "err", dir.Err)
	}

	return verified, dir
}

// resolveOne walks the candidate URLs of s in order and stops at the first
// live one.
func (r *Resolver) resolveOne(ctx context.Context, s station.Base) station.Resolved {
	res := station.Unresolved(s)

	if r.prober != nil {
		for _, u := range s.Candidates() {
			if u == "" {
				continue
			}
			if ctx.Err() != nil {
				break
			}
			if p := r.prober.Probe(ctx, u); p.Live {
				res.ResolvedURL = u
				res.IsWorking = true
				fillFromICY(&res.Base, p.ICY)
				break
			}
		}
	}

	res.PlaybackURL = res.ResolvedURL
	if r.rewriter != nil {
		res.PlaybackURL = r.rewriter.Rewrite(res.ResolvedURL)
	}

	return res
}

// fillFromICY completes fields the source left unknown with what the live
// stream announced about itself.
func fillFromICY(b *station.Base, icy shoutcast.Info) {
	if icy.Empty() {
		return
	}
	if b.Name == station.Unknown && icy.Name != "" {
		b.Name = icy.Name
	}
	if b.BitrateKbps == 0 && icy.Bitrate > 0 {
		b.BitrateKbps = icy.Bitrate
	}
	if b.Genre == station.Unknown {
		b.Genre = station.Genre(b.Name+" "+icy.Genre, b.Tags)
	}
}

// Merge combines curated and directory stations. Curated stations come
// first and win: a directory station is dropped when a curated station
// claims its ID or already lists its primary URL. Within the result each
// Key appears once, the first occurrence is kept.
func Merge(verified, external []station.Base) []station.Base {
	var (
		out     = make([]station.Base, 0, len(verified)+len(external))
		seen    = make(map[string]struct{}, len(verified)+len(external))
		claimed = make(map[string]struct{})
		urls    = make(map[string]struct{})
	)

	for _, s := range verified {
		if _, ok := seen[s.Key()]; ok {
			continue
		}
		seen[s.Key()] = struct{}{}

		claimed[s.ID] = struct{}{}
		for _, id := range s.DirectoryIDs {
			claimed[id] = struct{}{}
		}
		for _, u := range s.Candidates() {
			urls[u] = struct{}{}
		}

		out = append(out, s.Clone())
	}

	for _, s := range external {
		if _, ok := claimed[s.ID]; ok {
			continue
		}
		if _, ok := urls[s.URL]; ok {
			continue
		}
		if _, ok := seen[s.Key()]; ok {
			continue
		}
		seen[s.Key()] = struct{}{}

		out = append(out, s.Clone())
	}

	return out
}
