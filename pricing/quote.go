package pricing

import (
	"errors"
	"math"
)

// Business bounds on the requested area, in sqm. Both inclusive.
const (
	MinAreaSqm = 10
	MaxAreaSqm = 10000
)

var (
	ErrUnknownRate    = errors.New("unknown project type or service class")
	ErrAreaNotFinite  = errors.New("area must be a finite number")
	ErrAreaOutOfRange = errors.New("area must be between 10 and 10000 sqm")
)

// Quote is the result of a price estimation. Amounts are AED fils.
type Quote struct {
	ProjectType  string  `json:"project_type"`
	ServiceClass string  `json:"service_class"`
	AreaSqm      float64 `json:"area_sqm"`
	UnitFils     int64   `json:"unit_fils"`
	TotalFils    int64   `json:"total_fils"`
}

// Estimate computes unit price x area. Pure and side-effect free; the same inputs
// always yield the same quote. The total is rounded to the nearest fils so no
// sub-minor-unit amount ever leaves this package.
func Estimate(projectType, serviceClass string, areaSqm float64) (*Quote, error) {
	if math.IsNaN(areaSqm) || math.IsInf(areaSqm, 0) {
		return nil, ErrAreaNotFinite
	}
	if areaSqm < MinAreaSqm || areaSqm > MaxAreaSqm {
		return nil, ErrAreaOutOfRange
	}

	unit, ok := UnitPrice(projectType, serviceClass)
	if !ok {
		return nil, ErrUnknownRate
	}

	return &Quote{
		ProjectType:  projectType,
		ServiceClass: serviceClass,
		AreaSqm:      areaSqm,
		UnitFils:     unit,
		TotalFils:    int64(math.Round(float64(unit) * areaSqm)),
	}, nil
}
