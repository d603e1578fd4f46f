package config

import (
	"github.com/zclconf/go-cty/cty"
)

const (
	ModePlan    = "plan"
	ModeOperate = "operate"

	DefaultPrimaryCarrier     = "power"
	DefaultObjectiveCostClass = "monetary"

	// DefaultStartupTime is the startup window in hours.
	DefaultStartupTime = 12.0
)

// Model is the unified, format-agnostic representation of a network
// description.
type Model struct {
	Run       Run
	Time      *Time
	Techs     map[string]*Tech
	Locations map[string]*Location
	Links     []*Link
	Series    []*Series
}

// Run holds model-wide settings.
type Run struct {
	Mode               string
	PrimaryCarrier     string
	ObjectiveCostClass string
	// StartupTime is the number of hours from the first timestep during
	// which secondary resource use is allowed for startup-only techs. Nil
	// means DefaultStartupTime.
	StartupTime *float64
	// CostClasses lists the cost classes explicitly. When empty they are
	// derived from the cost options of all techs.
	CostClasses []string
}

// WithDefaults returns a copy of r with empty fields set to their defaults.
func (r Run) WithDefaults() Run {
	if r.Mode == "" {
		r.Mode = ModePlan
	}
	if r.PrimaryCarrier == "" {
		r.PrimaryCarrier = DefaultPrimaryCarrier
	}
	if r.ObjectiveCostClass == "" {
		r.ObjectiveCostClass = DefaultObjectiveCostClass
	}
	if r.StartupTime == nil {
		startup := DefaultStartupTime
		r.StartupTime = &startup
	}
	return r
}

// Tech is a technology definition. Options are flattened dotted keys,
// e.g. "constraints.e_cap.max".
type Tech struct {
	Name    string
	Parent  string
	Options map[string]cty.Value
}

// Location is a node of the location tree.
type Location struct {
	Name   string
	Within string
	Techs  []string
	// Overrides maps a tech name to location-specific option values.
	Overrides map[string]map[string]cty.Value
}

// Link connects two locations with one or more transmission techs.
type Link struct {
	From string
	To   string
	// Techs maps a transmission tech to its per-link options. The
	// "distance" key is the link length; every other key overrides the
	// tech's options at both endpoints.
	Techs map[string]map[string]cty.Value
}

// Time is the ordered time axis.
type Time struct {
	Steps      []string
	Resolution []float64
	Weights    []float64
}

// Series is a time-indexed parameter table for one (tech, location) pair.
// CostClass is set for cost parameters only.
type Series struct {
	Param     string
	Tech      string
	Location  string
	CostClass string
	Values    []float64
}
