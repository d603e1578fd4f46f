package params

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/vk/energridgo/internal/options"
	"github.com/vk/energridgo/internal/topologystore"
	"github.com/zclconf/go-cty/cty"
)

// Bound is the (equals, min, max) triple of a capacity variable.
type Bound struct {
	// Equals is zero when unset; a zero "equals" is indistinguishable from
	// no "equals" at all.
	Equals float64
	Min    float64

	// Max is +Inf when unbounded.
	Max float64

	// MaxDisabled is true when max is explicitly false.
	MaxDisabled bool
}

// Costs holds the unit costs of one cost class.
type Costs struct {
	Unit        map[CostParam]float64
	PerDistance map[CostParam]float64

	// Depreciation is the annual capital recovery rate.
	Depreciation float64
}

// Tech is the static parameter record of a tech at a location.
type Tech struct {
	Name     string
	Location string

	Carrier       string
	SourceCarrier string
	Export        bool

	R          float64
	RScale     float64
	REff       float64
	RBEff      float64
	ForceR     bool
	EEff       float64
	EEffRef    float64
	EProd      bool
	ECon       bool
	ECapMinUse float64
	ECapScale  float64
	CEff       float64
	SLoss      float64
	SInit      float64
	STimeMax   float64
	UseSTime   bool

	RBStartupOnly   bool
	RAreaPerECap    float64
	RCapEqualsECap  bool
	RBCapFollow     string
	RBCapFollowMode string

	SCap  Bound
	RCap  Bound
	RArea Bound
	ECap  Bound
	RBCap Bound

	ELoss       float64
	PerDistance float64

	// Link is set for transmission techs whose link exists.
	Link *topologystore.Link

	Costs map[string]*Costs
}

// Bound returns the bound triple of a capacity.
func (t *Tech) Bound(c Capacity) Bound {
	switch c {
	case SCap:
		return t.SCap
	case RCap:
		return t.RCap
	case RArea:
		return t.RArea
	case RBCap:
		return t.RBCap
	default:
		return t.ECap
	}
}

// DistanceDerate returns the efficiency multiplier of a transmission tech
// over its link: 1 - e_loss * distance / per_distance. It is 1 when there
// is no link, or when the link has no distance and no loss is configured.
func (t *Tech) DistanceDerate() (float64, error) {
	if t.Link == nil {
		return 1, nil
	}
	if !t.Link.HasDistance {
		if t.ELoss > 0 {
			return 0, options.NewConfigError(options.ErrOptionNotSet, t.Name, t.Location,
				"distance must be defined for link %s,%s and transmission tech %s, as e_loss per distance is defined",
				t.Link.From, t.Link.To, t.Link.Tech)
		}
		return 1, nil
	}
	return 1 - t.ELoss*(t.Link.Distance/t.PerDistance), nil
}

// UnitCost returns the unit cost of p in class k.
func (t *Tech) UnitCost(k string, p CostParam) float64 {
	c, ok := t.Costs[k]
	if !ok {
		return 0
	}
	return c.Unit[p]
}

func (t *Tech) staticValue(p Param) float64 {
	switch p {
	case R:
		return t.R
	case RScale:
		return t.RScale
	case REff:
		return t.REff
	case RBEff:
		return t.RBEff
	case EEff:
		return t.EEff
	case ECapMinUse:
		return t.ECapMinUse
	case SLoss:
		return t.SLoss
	case ForceR:
		return boolFloat(t.ForceR)
	case EProd:
		return boolFloat(t.EProd)
	case ECon:
		return boolFloat(t.ECon)
	case UseSTime:
		return boolFloat(t.UseSTime)
	case RBStartupOnly:
		return boolFloat(t.RBStartupOnly)
	default:
		return math.NaN()
	}
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// reader resolves options for one (tech, location) and keeps the first
// error, so a record can be filled field by field.
type reader struct {
	opts *options.Store
	y, x string
	err  error
}

func (r *reader) get(key string, techLevel bool) (cty.Value, bool) {
	if r.err != nil {
		return cty.NilVal, false
	}
	x := r.x
	if techLevel {
		x = ""
	}
	v, err := r.opts.Get(r.y+"."+key, x)
	if err != nil {
		r.err = options.NewConfigError(options.ErrOptionNotSet, r.y, r.x, "%s", key)
		if !errors.Is(err, options.ErrOptionNotSet) {
			r.err = err
		}
		return cty.NilVal, false
	}
	return v, true
}

func (r *reader) fail(key string, err error) {
	if r.err == nil {
		r.err = options.NewConfigError(options.ErrInvalidOption, r.y, r.x, "%s: %v", key, err)
	}
}

func (r *reader) float(key string) float64 {
	return r.floatAt(key, false)
}

func (r *reader) floatAt(key string, techLevel bool) float64 {
	v, ok := r.get(key, techLevel)
	if !ok {
		return 0
	}
	f, err := options.Float(v)
	if err != nil {
		r.fail(key, err)
	}
	return f
}

// falsyFloat reads a number where false means zero.
func (r *reader) falsyFloat(key string, techLevel bool) float64 {
	v, ok := r.get(key, techLevel)
	if !ok || options.IsFalse(v) || v.IsNull() {
		return 0
	}
	f, err := options.Float(v)
	if err != nil {
		r.fail(key, err)
	}
	return f
}

func (r *reader) bool(key string) bool {
	v, ok := r.get(key, false)
	if !ok {
		return false
	}
	b, err := options.Bool(v)
	if err != nil {
		r.fail(key, err)
	}
	return b
}

func (r *reader) str(key string, techLevel bool) string {
	v, ok := r.get(key, techLevel)
	if !ok {
		return ""
	}
	s, err := options.String(v)
	if err != nil {
		r.fail(key, err)
	}
	return s
}

// optionalStr reads a string that may legitimately be unset.
func (r *reader) optionalStr(key string, techLevel bool) string {
	if r.err != nil {
		return ""
	}
	x := r.x
	if techLevel {
		x = ""
	}
	v, err := r.opts.Get(r.y+"."+key, x)
	if errors.Is(err, options.ErrOptionNotSet) {
		return ""
	}
	if err != nil {
		r.err = err
		return ""
	}
	s, err := options.String(v)
	if err != nil {
		r.fail(key, err)
	}
	return s
}

// optionalFloat reads a number that defaults to zero when unset.
func (r *reader) optionalFloat(key string, techLevel bool) float64 {
	if r.err != nil {
		return 0
	}
	x := r.x
	if techLevel {
		x = ""
	}
	v, err := r.opts.Get(r.y+"."+key, x)
	if errors.Is(err, options.ErrOptionNotSet) {
		return 0
	}
	if err != nil {
		r.err = err
		return 0
	}
	f, err := options.Float(v)
	if err != nil {
		r.fail(key, err)
	}
	return f
}

func (r *reader) bound(name string) Bound {
	b := Bound{
		Equals: r.falsyFloat("constraints."+name+".equals", false),
		Min:    r.falsyFloat("constraints."+name+".min", false),
	}
	v, ok := r.get("constraints."+name+".max", false)
	if !ok {
		return b
	}
	if options.IsFalse(v) {
		b.MaxDisabled = true
		return b
	}
	f, err := options.Float(v)
	if err != nil {
		r.fail("constraints."+name+".max", err)
	}
	b.Max = f
	return b
}

// followTarget reads rb_cap_follow: false means "not following", any
// other value is kept verbatim for validation by the capacity builder.
func (r *reader) followTarget(key string) string {
	v, ok := r.get(key, false)
	if !ok || !options.Truthy(v) {
		return ""
	}
	if v.Type() == cty.String {
		return v.AsString()
	}
	if v.Type() == cty.Bool {
		return "true"
	}
	f, err := options.Float(v)
	if err != nil {
		return v.Type().FriendlyName()
	}
	return fmt.Sprintf("%g", f)
}

func loadTech(ctx context.Context, opts *options.Store, topo topologystore.Store, classes []string, y, x string) (*Tech, error) {
	r := &reader{opts: opts, y: y, x: x}
	t := &Tech{Name: y, Location: x}

	t.Carrier = r.str("carrier", true)
	t.SourceCarrier = r.optionalStr("source_carrier", true)
	if v, ok := r.get("export", false); ok {
		t.Export = options.Truthy(v)
	}

	t.R = r.float("constraints.r")
	t.RScale = r.float("constraints.r_scale")
	t.REff = r.float("constraints.r_eff")
	t.RBEff = r.float("constraints.rb_eff")
	t.ForceR = r.bool("constraints.force_r")
	t.EEff = r.float("constraints.e_eff")
	t.EProd = r.bool("constraints.e_prod")
	t.ECon = r.bool("constraints.e_con")
	t.ECapMinUse = r.falsyFloat("constraints.e_cap_min_use", false)
	t.ECapScale = r.float("constraints.e_cap_scale")
	t.CEff = r.float("constraints.c_eff")
	t.SLoss = r.float("constraints.s_loss")
	t.SInit = r.float("constraints.s_init")
	t.STimeMax = r.falsyFloat("constraints.s_time.max", false)
	t.UseSTime = r.bool("constraints.use_s_time")
	t.RBStartupOnly = r.bool("constraints.rb_startup_only")
	t.RAreaPerECap = r.falsyFloat("constraints.r_area_per_e_cap", false)
	t.RCapEqualsECap = r.bool("constraints.r_cap_equals_e_cap")
	t.RBCapFollow = r.followTarget("constraints.rb_cap_follow")
	t.RBCapFollowMode = r.str("constraints.rb_cap_follow_mode", false)

	t.EEffRef = r.falsyFloat("constraints.e_eff_ref", true)
	if t.EEffRef == 0 {
		t.EEffRef = r.floatAt("constraints.e_eff", true)
	}

	t.SCap = r.bound("s_cap")
	t.RCap = r.bound("r_cap")
	t.RArea = r.bound("r_area")
	t.ECap = r.bound("e_cap")
	t.RBCap = r.bound("rb_cap")

	t.ELoss = r.float("constraints_per_distance.e_loss")
	t.PerDistance = r.floatAt("per_distance", true)

	if base, remote, ok := splitTransmission(y); ok {
		if l, found := topo.Link(ctx, x, remote, base); found {
			t.Link = &l
		}
	}

	t.Costs = make(map[string]*Costs, len(classes))
	for _, k := range classes {
		c := &Costs{
			Unit:        make(map[CostParam]float64, len(CostParams)),
			PerDistance: make(map[CostParam]float64),
		}
		for _, p := range CostParams {
			c.Unit[p] = r.cost(k, p)
			if t.Link != nil && t.Link.HasDistance {
				if unit := r.optionalFloat("costs_per_distance."+k+"."+string(p), false); unit != 0 {
					c.PerDistance[p] = unit * (t.Link.Distance / t.PerDistance)
				}
			}
		}
		c.Depreciation = r.depreciation(k)
		t.Costs[k] = c
	}

	if r.err != nil {
		return nil, r.err
	}
	if t.Link != nil && t.Link.HasDistance && t.PerDistance == 0 {
		return nil, options.NewConfigError(options.ErrInvalidOption, y, x, "per_distance must not be zero")
	}
	return t, nil
}

// cost resolves costs.<k>.<p>, falling back to costs.default.<p>.
func (r *reader) cost(k string, p CostParam) float64 {
	if r.err != nil {
		return 0
	}
	key := "costs." + k + "." + string(p)
	v, err := r.opts.GetOr(r.y+"."+key, r.x, r.y+".costs.default."+string(p))
	if err != nil {
		r.err = options.NewConfigError(options.ErrOptionNotSet, r.y, r.x, "%s", key)
		return 0
	}
	f, err := options.Float(v)
	if err != nil {
		r.fail(key, err)
	}
	return f
}

// depreciation returns the capital recovery factor of class k.
func (r *reader) depreciation(k string) float64 {
	if r.err != nil {
		return 0
	}
	v, err := r.opts.GetOr(r.y+".depreciation.interest."+k, "", r.y+".depreciation.interest.default")
	if err != nil {
		r.err = options.NewConfigError(options.ErrOptionNotSet, r.y, r.x, "depreciation.interest.%s", k)
		return 0
	}
	interest, err := options.Float(v)
	if err != nil {
		r.fail("depreciation.interest."+k, err)
		return 0
	}
	life := r.floatAt("depreciation.plant_life", true)
	if r.err != nil {
		return 0
	}
	if life <= 0 {
		r.err = options.NewConfigError(options.ErrInvalidOption, r.y, r.x, "depreciation.plant_life must be positive, got %g", life)
		return 0
	}
	return DepreciationRate(interest, life)
}

// DepreciationRate is the capital recovery factor
// i(1+i)^n / ((1+i)^n - 1), or 1/n without interest.
func DepreciationRate(interest, plantLife float64) float64 {
	if interest == 0 {
		return 1 / plantLife
	}
	f := math.Pow(1+interest, plantLife)
	return interest * f / (f - 1)
}

func splitTransmission(y string) (string, string, bool) {
	for i := 0; i < len(y); i++ {
		if y[i] == ':' {
			return y[:i], y[i+1:], true
		}
	}
	return "", "", false
}
