package logging

import (
	"context"
	"strings"
	"time"

	"github.com/kilianp07/ecodispatch/core/model"
)

// LogRecord captures one dispatch run: its inputs and computed result.
type LogRecord struct {
	ID        string               `json:"id"`
	Timestamp time.Time            `json:"timestamp"`
	Request   model.Request        `json:"request"`
	Season    model.Season         `json:"season"`
	Result    model.DispatchResult `json:"result"`
}

// LogQuery defines filters for retrieving records. Zero values match all.
type LogQuery struct {
	Start time.Time
	End   time.Time
	Month model.Month
	// Unit keeps records where the named unit was dispatched.
	Unit string
	// ShortfallOnly keeps records with unmet demand.
	ShortfallOnly bool
}

// Match reports whether r satisfies the query.
func (q LogQuery) Match(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Month != "" && r.Request.Month != q.Month {
		return false
	}
	if q.ShortfallOnly && r.Result.UnmetMW <= 0 {
		return false
	}
	if q.Unit != "" {
		matched := false
		for name, mw := range r.Result.PerUnit {
			if mw > 0 && strings.EqualFold(name, q.Unit) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, LogRecord) error              { return nil }
func (NopStore) Query(context.Context, LogQuery) ([]LogRecord, error) { return nil, nil }
func (NopStore) Close() error                                         { return nil }
