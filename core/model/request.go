package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidHour is returned when the hour is outside [1,24].
	ErrInvalidHour = errors.New("invalid hour")
	// ErrInvalidMonth is returned for an unknown month code.
	ErrInvalidMonth = errors.New("invalid month")
	// ErrInvalidDemand is returned when demand is not a positive number.
	ErrInvalidDemand = errors.New("invalid demand")
	// ErrInvalidPrice is returned for a non-finite or negative Indian Link
	// price, or a missing one while the interconnect is enabled.
	ErrInvalidPrice = errors.New("invalid indian link price")
)

// IsValidationError reports whether err stems from request validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidHour) || errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrInvalidDemand) || errors.Is(err, ErrInvalidPrice)
}

// Request holds validated dispatch parameters.
type Request struct {
	DemandMW float64 `json:"demand_mw"`
	Month    Month   `json:"month"`
	Hour     Hour    `json:"hour"`
	// IndianLinkPrice is the interconnect import price in LKR/kWh. It is
	// recorded with every run but only affects dispatch when the interconnect
	// unit is enabled.
	IndianLinkPrice float64 `json:"indian_link_price"`
}

// ParseRequest validates raw input and builds a Request.
func ParseRequest(demand float64, month string, hour int, indianLinkPrice float64) (Request, error) {
	if err := ValidateDemand(demand); err != nil {
		return Request{}, err
	}
	m, err := ParseMonth(month)
	if err != nil {
		return Request{}, err
	}
	h, err := ValidateHour(hour)
	if err != nil {
		return Request{}, err
	}
	if err := ValidatePrice(indianLinkPrice); err != nil {
		return Request{}, err
	}
	return Request{DemandMW: demand, Month: m, Hour: h, IndianLinkPrice: indianLinkPrice}, nil
}

// ValidateDemand returns ErrInvalidDemand unless demand is finite and positive.
func ValidateDemand(demand float64) error {
	if math.IsNaN(demand) || math.IsInf(demand, 0) || demand <= 0 {
		return fmt.Errorf("%w: demand must be positive, got %v", ErrInvalidDemand, demand)
	}
	return nil
}

// ValidatePrice returns ErrInvalidPrice unless price is finite and not
// negative. Zero means no price was given.
func ValidatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, price)
	}
	return nil
}

// Season is a shortcut for r.Month.Season().
func (r Request) Season() Season { return r.Month.Season() }
