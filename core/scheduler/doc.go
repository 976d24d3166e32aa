// Package scheduler plans a whole day from an hourly demand profile. Each
// hour is dispatched as an independent snapshot; no state carries over
// between hours.
package scheduler
