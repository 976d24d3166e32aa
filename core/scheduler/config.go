package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// HourDemand is the demand for one hour of the profile.
type HourDemand struct {
	Hour     int     `json:"hour" yaml:"hour"`
	DemandMW float64 `json:"demand_mw" yaml:"demand_mw"`
}

// Profile is an hourly demand profile for one day of a month.
type Profile struct {
	Month           string       `json:"month" yaml:"month"`
	IndianLinkPrice float64      `json:"indian_link_price" yaml:"indian_link_price"`
	Hours           []HourDemand `json:"hours" yaml:"hours"`
}

// LoadProfile loads a Profile from a JSON or YAML file.
func LoadProfile(path string) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return Profile{}, err
	}
	defer f.Close()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return DecodeProfile(f, ext)
}

// DecodeProfile reads a Profile from r in the given format.
func DecodeProfile(r io.Reader, format string) (Profile, error) {
	var p Profile
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&p); err != nil {
			return p, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&p); err != nil {
			return p, err
		}
	default:
		return p, fmt.Errorf("unsupported profile format: %s", format)
	}
	return p, nil
}
