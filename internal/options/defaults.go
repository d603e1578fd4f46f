package options

import (
	"math"

	"github.com/zclconf/go-cty/cty"
)

// RootTech is the implicit ancestor of every tech.
const RootTech = "defaults"

// Abstract tech names. Every user tech must descend from one of them.
const (
	Supply       = "supply"
	UnmetDemand  = "unmet_demand"
	Demand       = "demand"
	Storage      = "storage"
	Transmission = "transmission"
	Conversion   = "conversion"
)

var (
	inf  = cty.NumberFloatVal(math.Inf(1))
	zero = cty.NumberIntVal(0)
	one  = cty.NumberIntVal(1)
)

func num(f float64) cty.Value { return cty.NumberFloatVal(f) }

// builtinTechs returns the abstract parents with their default options.
func builtinTechs() map[string]*builtin {
	return map[string]*builtin{
		RootTech: {parent: "", options: map[string]cty.Value{
			"carrier": cty.StringVal("power"),
			"export":  cty.False,

			"per_distance":                    one,
			"constraints_per_distance.e_loss": zero,
			"depreciation.plant_life":         num(25),
			"depreciation.interest.default":   num(0.10),
			"constraints.force_r":             cty.False,
			"constraints.r":                   zero,
			"constraints.r_eff":               one,
			"constraints.r_scale":             one,
			"constraints.r_area.equals":       zero,
			"constraints.r_area.min":          zero,
			"constraints.r_area.max":          cty.False,
			"constraints.r_area_per_e_cap":    cty.False,
			"constraints.r_cap.equals":        zero,
			"constraints.r_cap.min":           zero,
			"constraints.r_cap.max":           inf,
			"constraints.r_cap_equals_e_cap":  cty.False,
			"constraints.allow_rb":            cty.False,
			"constraints.rb_eff":              one,
			"constraints.rb_cap.equals":       zero,
			"constraints.rb_cap.min":          zero,
			"constraints.rb_cap.max":          inf,
			"constraints.rb_cap_follow":       cty.False,
			"constraints.rb_cap_follow_mode":  cty.StringVal("equals"),
			"constraints.rb_startup_only":     cty.False,
			"constraints.s_cap.equals":        zero,
			"constraints.s_cap.min":           zero,
			"constraints.s_cap.max":           zero,
			"constraints.s_time.max":          zero,
			"constraints.use_s_time":          cty.False,
			"constraints.s_loss":              zero,
			"constraints.s_init":              zero,
			"constraints.e_prod":              cty.True,
			"constraints.e_con":               cty.False,
			"constraints.e_eff":               one,
			"constraints.e_eff_ref":           cty.False,
			"constraints.e_cap.equals":        zero,
			"constraints.e_cap.min":           zero,
			"constraints.e_cap.max":           zero,
			"constraints.e_cap_scale":         one,
			"constraints.e_cap_min_use":       zero,
			"constraints.c_eff":               one,
			"costs.default.s_cap":             zero,
			"costs.default.r_cap":             zero,
			"costs.default.r_area":            zero,
			"costs.default.e_cap":             zero,
			"costs.default.rb_cap":            zero,
			"costs.default.om_frac":           zero,
			"costs.default.om_fixed":          zero,
			"costs.default.om_var":            zero,
			"costs.default.om_fuel":           zero,
			"costs.default.om_rb":             zero,
			"costs.default.export":            zero,
		}},
		Supply:      {parent: RootTech, options: map[string]cty.Value{}},
		UnmetDemand: {parent: Supply, options: map[string]cty.Value{}},
		Demand: {parent: RootTech, options: map[string]cty.Value{
			"constraints.e_prod": cty.False,
			"constraints.e_con":  cty.True,
		}},
		Storage: {parent: RootTech, options: map[string]cty.Value{
			"constraints.e_con": cty.True,
		}},
		Transmission: {parent: RootTech, options: map[string]cty.Value{
			"constraints.e_con": cty.True,
		}},
		Conversion: {parent: RootTech, options: map[string]cty.Value{
			"constraints.e_con": cty.True,
		}},
	}
}

type builtin struct {
	parent  string
	options map[string]cty.Value
}

// IsAbstract reports whether name is one of the built-in abstract techs.
func IsAbstract(name string) bool {
	_, ok := builtinTechs()[name]
	return ok
}
