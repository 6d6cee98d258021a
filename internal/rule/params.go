package rule

import (
	"errors"
	"fmt"
)

var ErrInvalidParams = errors.New("invalid rule parameters")

// Range describes one threshold slider.
type Range struct {
	Label   string  `json:"label"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

func (r Range) contains(v float64) bool { return v >= r.Min && v <= r.Max }

var (
	SupportRange    = Range{Label: "Minimum Support", Min: 0.05, Max: 0.3, Default: 0.1, Step: 0.01}
	ConfidenceRange = Range{Label: "Minimum Confidence", Min: 0.3, Max: 0.9, Default: 0.5, Step: 0.05}
	LiftRange       = Range{Label: "Minimum Lift", Min: 1.0, Max: 2.0, Default: 1.2, Step: 0.1}
)

// Params are the thresholds for one rule generation run. MaxLen caps the
// itemset size; zero means unbounded.
type Params struct {
	MinSupport    float64 `json:"minSupport"`
	MinConfidence float64 `json:"minConfidence"`
	MinLift       float64 `json:"minLift"`
	MaxLen        int     `json:"maxLen,omitempty"`
}

func DefaultParams() Params {
	return Params{
		MinSupport:    SupportRange.Default,
		MinConfidence: ConfidenceRange.Default,
		MinLift:       LiftRange.Default,
	}
}

// Validate returns one message per field that lies outside its range.
func (p Params) Validate() map[string]string {
	errs := map[string]string{}
	check := func(field string, r Range, v float64) {
		if !r.contains(v) {
			errs[field] = fmt.Sprintf("%s must be between %g and %g", field, r.Min, r.Max)
		}
	}
	check("minSupport", SupportRange, p.MinSupport)
	check("minConfidence", ConfidenceRange, p.MinConfidence)
	check("minLift", LiftRange, p.MinLift)
	if p.MaxLen < 0 {
		errs["maxLen"] = "maxLen must not be negative"
	}
	return errs
}

// ValidationError carries per-field messages for rejected Params.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %d field(s) out of range", ErrInvalidParams, len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidParams }
