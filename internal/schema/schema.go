package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// --- Network Structures ---

// Run represents the `run` block: model-wide settings.
type Run struct {
	Mode               string   `hcl:"mode,optional"`
	PrimaryCarrier     string   `hcl:"primary_carrier,optional"`
	ObjectiveCostClass string   `hcl:"objective_cost_class,optional"`
	StartupTime        *float64 `hcl:"startup_time,optional"`
	CostClasses        []string `hcl:"cost_classes,optional"`
}

// Time represents the `time` block. Resolution and weights default to 1
// for every step when omitted.
type Time struct {
	Steps      []string  `hcl:"steps"`
	Resolution []float64 `hcl:"resolution,optional"`
	Weights    []float64 `hcl:"weights,optional"`
}

// Tech represents a `tech` block. Every attribute other than `parent` is
// an option of the tech.
type Tech struct {
	Name    string   `hcl:"name,label"`
	Parent  string   `hcl:"parent,optional"`
	Options hcl.Body `hcl:",remain"`
}

// Override represents an `override` block within a location: option
// values of one tech that only apply at that location.
type Override struct {
	Tech    string   `hcl:"tech,label"`
	Options hcl.Body `hcl:",remain"`
}

// Location represents a `location` block, a node of the location tree.
type Location struct {
	Name      string      `hcl:"name,label"`
	Within    string      `hcl:"within,optional"`
	Techs     []string    `hcl:"techs,optional"`
	Overrides []*Override `hcl:"override,block"`
}

// LinkTech represents a `tech` block within a link. `distance` is the link
// length; any other attribute overrides the tech's options at both ends.
type LinkTech struct {
	Name    string   `hcl:"name,label"`
	Options hcl.Body `hcl:",remain"`
}

// Link represents a `link` block between two locations.
type Link struct {
	From  string      `hcl:"from,label"`
	To    string      `hcl:"to,label"`
	Techs []*LinkTech `hcl:"tech,block"`
}

// Series represents a `series` block: a time-varying parameter of one
// tech at one location.
type Series struct {
	Param     string    `hcl:"param,label"`
	Tech      string    `hcl:"tech"`
	Location  string    `hcl:"location"`
	CostClass string    `hcl:"cost_class,optional"`
	Values    []float64 `hcl:"values"`
}

// File represents the top-level structure of a network file. A network
// may be split across several files; run and time appear in at most one.
type File struct {
	Run       *Run        `hcl:"run,block"`
	Time      *Time       `hcl:"time,block"`
	Techs     []*Tech     `hcl:"tech,block"`
	Locations []*Location `hcl:"location,block"`
	Links     []*Link     `hcl:"link,block"`
	Series    []*Series   `hcl:"series,block"`
}
