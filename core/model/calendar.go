package model

import (
	"fmt"
	"strings"
)

// Month is a lowercase three-letter month code.
type Month string

// Months lists the known month codes in calendar order.
var Months = []Month{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// Season classifies a month for mini-hydro availability.
type Season string

const (
	SeasonDry Season = "dry"
	SeasonWet Season = "wet"
)

// Title returns the capitalised season name.
func (s Season) Title() string { return capitalize(string(s)) }

// ParseMonth normalises s and checks it against the known month codes.
func ParseMonth(s string) (Month, error) {
	m := Month(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q (use jan, feb, ...)", ErrInvalidMonth, s)
	}
	return m, nil
}

// Valid reports whether m is one of the twelve month codes.
func (m Month) Valid() bool {
	for _, k := range Months {
		if k == m {
			return true
		}
	}
	return false
}

// Season returns dry for dec through apr and wet otherwise.
func (m Month) Season() Season {
	switch m {
	case "dec", "jan", "feb", "mar", "apr":
		return SeasonDry
	default:
		return SeasonWet
	}
}

// Title returns the capitalised month code, e.g. "Jan".
func (m Month) Title() string { return capitalize(string(m)) }

// Hour is an hour of day in [1,24] where 1 is 1am and 24 is midnight.
type Hour int

// ValidateHour returns ErrInvalidHour when h is outside [1,24].
func ValidateHour(h int) (Hour, error) {
	if h < 1 || h > 24 {
		return 0, fmt.Errorf("%w: %d (must be between 1 and 24)", ErrInvalidHour, h)
	}
	return Hour(h), nil
}

// Label returns the display form, e.g. "5am", "12 noon", "3pm", "12 midnight".
func (h Hour) Label() string {
	switch {
	case h == 12:
		return "12 noon"
	case h == 24:
		return "12 midnight"
	case h < 12:
		return fmt.Sprintf("%dam", int(h))
	default:
		return fmt.Sprintf("%dpm", int(h)-12)
	}
}

// FileLabel returns the compact label used in report file names.
func (h Hour) FileLabel() string {
	return strings.ReplaceAll(h.Label(), " ", "")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
