package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/zachfi/stationgo/pkg/station"
)

const (
	StationsPath         = "/api/v1/stations"
	VerifiedStationsPath = "/api/v1/stations/verified"
)

type resolveFunc func(ctx context.Context, q station.Query) ([]station.Resolved, error)

type verifiedFunc func() ([]station.Base, error)

type lookupFunc func(id string) (station.Base, bool, error)

// Handler serves the station listing endpoints.
type Handler struct {
	resolve  resolveFunc
	verified verifiedFunc
	lookup   lookupFunc
	maxLimit int
	logger   *slog.Logger
}

// Handler returns the HTTP handler for the module.
func (m *Module) Handler() *Handler {
	return &Handler{
		resolve:  m.Resolve,
		verified: m.Verified,
		lookup:   m.VerifiedStation,
		maxLimit: m.cfg.MaxLimit,
		logger:   m.logger,
	}
}

// Stations resolves and lists stations. Query parameters: limit, offset,
// tags (comma separated), country, language.
func (h *Handler) Stations(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stations, err := h.resolve(r.Context(), q)
	if err != nil {
		h.fail(w, err)
		return
	}
	if stations == nil {
		stations = []station.Resolved{}
	}

	h.write(w, stations)
}

// Verified lists the curated stations without probing them. With an id
// query parameter it returns that single station.
func (h *Handler) Verified(w http.ResponseWriter, r *http.Request) {
	if id := strings.TrimSpace(r.URL.Query().Get("id")); id != "" {
		h.verifiedOne(w, id)
		return
	}

	stations, err := h.verified()
	if err != nil {
		h.fail(w, err)
		return
	}
	if stations == nil {
		stations = []station.Base{}
	}

	h.write(w, stations)
}

func (h *Handler) verifiedOne(w http.ResponseWriter, id string) {
	s, ok, err := h.lookup(id)
	if err != nil {
		h.fail(w, err)
		return
	}
	if !ok {
		http.Error(w, fmt.Sprintf("unknown station %q", id), http.StatusNotFound)
		return
	}

	h.write(w, s)
}

func (h *Handler) parseQuery(r *http.Request) (station.Query, error) {
	v := r.URL.Query()

	limit, err := nonNegative(v.Get("limit"), "limit")
	if err != nil {
		return station.Query{}, err
	}
	if h.maxLimit > 0 && limit > h.maxLimit {
		limit = h.maxLimit
	}

	offset, err := nonNegative(v.Get("offset"), "offset")
	if err != nil {
		return station.Query{}, err
	}

	return station.Query{
		Limit:    limit,
		Offset:   offset,
		Tags:     station.SplitTags(v.Get("tags")),
		Country:  strings.TrimSpace(v.Get("country")),
		Language: strings.TrimSpace(v.Get("language")),
	}, nil
}

func nonNegative(s, name string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return n, nil
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotRunning) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	h.logger.Error("error listing stations", "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (h *Handler) write(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("error writing response", "err", err)
	}
}
