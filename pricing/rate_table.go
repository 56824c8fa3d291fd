// Package pricing holds the static rate table and the estimate computation.
package pricing

import (
	"sort"
)

// Service classes offered for every project type.
const (
	ClassStandard = "Standard"
	ClassPremium  = "Premium"
)

// Rate is the price of one square metre for a (project type, service class) pair,
// in AED fils.
type Rate struct {
	Standard int64 `json:"Standard"`
	Premium  int64 `json:"Premium"`
}

// rateTable is fixed at compile time. Values are fils per sqm; every project type
// must carry both classes.
var rateTable = map[string]Rate{
	"1BHK":             {Standard: 200000, Premium: 230000},
	"2BHK":             {Standard: 220000, Premium: 250000},
	"3BHK":             {Standard: 230000, Premium: 260000},
	"Studio Apartment": {Standard: 160000, Premium: 200000},
	"Office":           {Standard: 260000, Premium: 300000},
	"Retail Shops":     {Standard: 550000, Premium: 650000},
	"F&B":              {Standard: 580000, Premium: 650000},
	"Villa Renovation": {Standard: 500000, Premium: 700000},
}

// UnitPrice looks up the fils-per-sqm rate for a project type and service class.
// The second return is false when either key is unknown.
func UnitPrice(projectType, serviceClass string) (int64, bool) {
	rate, ok := rateTable[projectType]
	if !ok {
		return 0, false
	}
	switch serviceClass {
	case ClassStandard:
		return rate.Standard, true
	case ClassPremium:
		return rate.Premium, true
	default:
		return 0, false
	}
}

// ProjectTypes returns the known project types in stable order.
func ProjectTypes() []string {
	types := make([]string, 0, len(rateTable))
	for t := range rateTable {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Table returns a copy of the whole rate table for the public price-list endpoint.
func Table() map[string]Rate {
	out := make(map[string]Rate, len(rateTable))
	for t, r := range rateTable {
		out[t] = r
	}
	return out
}
