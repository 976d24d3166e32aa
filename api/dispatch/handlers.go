package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/ecodispatch/core/dispatch/logging"
	"github.com/kilianp07/ecodispatch/core/model"
)

// Runner executes dispatches and resolves availability snapshots.
type Runner interface {
	Run(ctx context.Context, req model.Request) (logging.LogRecord, error)
	Resolve(req model.Request) []model.ResolvedUnit
}

// UnitAvailability is the JSON form of a resolved unit.
type UnitAvailability struct {
	Unit         string         `json:"unit"`
	Category     model.Category `json:"category"`
	FullCapacity float64        `json:"full_capacity_mw"`
	AvailableMW  float64        `json:"available_mw"`
	CostPerKWh   float64        `json:"cost_per_kwh"`
}

// AvailabilityResponse is returned by GET /api/availability.
type AvailabilityResponse struct {
	Month      model.Month        `json:"month"`
	Season     model.Season       `json:"season"`
	Hour       model.Hour         `json:"hour"`
	CapacityMW float64            `json:"system_capacity_mw"`
	Units      []UnitAvailability `json:"units"`
}

// NewMux registers the dispatch API routes:
//
//	GET /api/dispatch?demand=&month=&hour=&indian_link_price=
//	GET /api/availability?month=&hour=
//	GET /api/dispatch/records?start=&end=&month=&unit=&shortfall=
func NewMux(runner Runner, store logging.LogStore, token string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/dispatch", requireToken(token, onlyGet(NewDispatchHandler(runner))))
	mux.Handle("/api/availability", requireToken(token, onlyGet(NewAvailabilityHandler(runner))))
	mux.Handle("/api/dispatch/records", requireToken(token, onlyGet(NewRecordHandler(store))))
	return mux
}

// NewDispatchHandler runs a dispatch for the query parameters and returns
// the record as JSON.
func NewDispatchHandler(runner Runner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := parseRequest(r, true)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec, err := runner.Run(r.Context(), req)
		if err != nil {
			status := http.StatusInternalServerError
			if model.IsValidationError(err) {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}
		writeJSON(w, rec)
	})
}

// NewAvailabilityHandler returns the resolved capacity of every enabled unit.
func NewAvailabilityHandler(runner Runner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := parseRequest(r, false)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := AvailabilityResponse{Month: req.Month, Season: req.Season(), Hour: req.Hour}
		for _, u := range runner.Resolve(req) {
			resp.CapacityMW += u.AvailableMW
			resp.Units = append(resp.Units, UnitAvailability{
				Unit:         u.Name,
				Category:     u.Category,
				FullCapacity: u.FullCapacityMW,
				AvailableMW:  u.AvailableMW,
				CostPerKWh:   u.CostPerKWh,
			})
		}
		writeJSON(w, resp)
	})
}

// NewRecordHandler exposes stored dispatch records.
func NewRecordHandler(store logging.LogStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []logging.LogRecord{}
		}
		writeJSON(w, records)
	})
}

func parseRequest(r *http.Request, withDemand bool) (model.Request, error) {
	v := r.URL.Query()
	var req model.Request
	if withDemand {
		d, err := strconv.ParseFloat(v.Get("demand"), 64)
		if err != nil {
			return req, fmt.Errorf("%w: %q", model.ErrInvalidDemand, v.Get("demand"))
		}
		if err := model.ValidateDemand(d); err != nil {
			return req, err
		}
		req.DemandMW = d
	}
	m, err := model.ParseMonth(v.Get("month"))
	if err != nil {
		return req, err
	}
	hour, err := strconv.Atoi(v.Get("hour"))
	if err != nil {
		return req, fmt.Errorf("%w: %q", model.ErrInvalidHour, v.Get("hour"))
	}
	h, err := model.ValidateHour(hour)
	if err != nil {
		return req, err
	}
	req.Month, req.Hour = m, h
	if s := v.Get("indian_link_price"); s != "" {
		if req.IndianLinkPrice, err = strconv.ParseFloat(s, 64); err != nil {
			return req, fmt.Errorf("%w: %q", model.ErrInvalidPrice, s)
		}
		if err := model.ValidatePrice(req.IndianLinkPrice); err != nil {
			return req, err
		}
	}
	return req, nil
}

func parseQuery(r *http.Request) (logging.LogQuery, error) {
	v := r.URL.Query()
	var q logging.LogQuery
	for key, dst := range map[string]*time.Time{"start": &q.Start, "end": &q.End} {
		if s := v.Get(key); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return q, fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = t
		}
	}
	if s := v.Get("month"); s != "" {
		m, err := model.ParseMonth(s)
		if err != nil {
			return q, err
		}
		q.Month = m
	}
	q.Unit = v.Get("unit")
	if s := v.Get("shortfall"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, errors.New("shortfall must be a boolean")
		}
		q.ShortfallOnly = b
	}
	return q, nil
}
