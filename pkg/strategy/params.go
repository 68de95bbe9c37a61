package strategy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Params are the heuristic constants of the decision core. None of
// them has a derivation beyond working well on recorded races, so they
// stay configurable (see LoadParams).
type Params struct {
	DefaultLapTime      float64 `yaml:"defaultLapTime"`      // used when no recent laps exist
	RecentLapSample     int     `yaml:"recentLapSample"`     // laps averaged for the baseline
	MinNetBenefit       float64 `yaml:"minNetBenefit"`       // required saving before a pit is called
	MaxWindow           int     `yaml:"maxWindow"`           // max candidate pit laps to evaluate
	MinRemainingLaps    int     `yaml:"minRemainingLaps"`    // below this a pit never pays back
	FinalLapsGuard      int     `yaml:"finalLapsGuard"`      // never plan a pit inside the final laps
	MinRemainingDefault int     `yaml:"minRemainingDefault"` // remaining-laps floor when unknown
	CautionPitFactor    float64 `yaml:"cautionPitFactor"`    // pit cost multiplier under caution
	CautionPitThreshold float64 `yaml:"cautionPitThreshold"` // below this effective cost, pit under caution
}

func DefaultParams() Params {
	return Params{
		DefaultLapTime:      90.0,
		RecentLapSample:     3,
		MinNetBenefit:       0.5,
		MaxWindow:           10,
		MinRemainingLaps:    3,
		FinalLapsGuard:      2,
		MinRemainingDefault: 5,
		CautionPitFactor:    0.5,
		CautionPitThreshold: 10.0,
	}
}

// LoadParams reads overrides from a yaml file on top of the defaults.
func LoadParams(path string) (Params, error) {
	ret := DefaultParams()
	data, err := os.ReadFile(path)
	if err != nil {
		return ret, fmt.Errorf("read params file: %w", err)
	}
	if err := yaml.Unmarshal(data, &ret); err != nil {
		return ret, fmt.Errorf("parse params file: %w", err)
	}
	return ret, nil
}
