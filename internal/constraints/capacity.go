package constraints

import (
	"context"
	"math"

	"github.com/vk/energridgo/internal/config"
	"github.com/vk/energridgo/internal/lp"
	"github.com/vk/energridgo/internal/params"
	"github.com/vk/energridgo/internal/sets"
)

// Accepted values of rb_cap_follow and rb_cap_follow_mode.
const (
	followRCap   = "r_cap"
	followECap   = "e_cap"
	followMax    = "max"
	followEquals = "equals"
)

// buildCapacity declares the installed capacities and sizes them.
func (b *Builder) buildCapacity(ctx context.Context) error {
	s := b.sets
	pc, defR, rb := s.Members(sets.PC), s.Members(sets.DefR), s.Members(sets.RB)
	for _, d := range []struct {
		name  string
		techs []string
	}{
		{"s_cap", pc},
		{"r_cap", defR},
		{"e_cap", s.Y},
		{"e_cap_net", s.Y},
		{"rb_cap", rb},
	} {
		if err := b.declare(d.name, lp.NonNegativeReals, d.techs, s.X); err != nil {
			return err
		}
	}

	// c_r_area and c_r_cap reference e_cap, which is declared above.
	families := []struct {
		name  string
		techs []string
		rule  rule
	}{
		{"c_s_cap", pc, b.sCapRule},
		{"c_r_cap", defR, b.rCapRule},
		{"c_r_area", defR, b.rAreaRule},
		{"c_e_cap", s.Y, b.eCapRule},
		{"c_e_cap_gross_net", s.Y, b.eCapGrossNetRule},
		{"c_rb_cap", rb, b.rbCapRule},
	}
	for _, f := range families {
		if err := b.emit(ctx, f.name, lp.Product(f.techs, s.X), f.rule); err != nil {
			return err
		}
	}
	return nil
}

// varBound applies a (equals, min, max) triple to v. An explicit equals
// wins. In operate mode the max is used as an equality. In plan mode the
// triple becomes min <= v <= max, with no constraint when min is zero and
// max is infinite. maxOverride replaces the configured max when nonzero,
// and scale multiplies all three values when nonzero.
func (b *Builder) varBound(v lp.Var, bound params.Bound, maxOverride, scale float64, y, x string) (lp.Relation, bool, error) {
	equals, lo, hi := bound.Equals, bound.Min, bound.Max
	if bound.MaxDisabled {
		hi = 0
	}
	if maxOverride != 0 {
		hi = maxOverride
	}
	if scale != 0 {
		equals, lo, hi = equals*scale, lo*scale, hi*scale
	}

	if equals != 0 {
		if math.IsInf(equals, 0) {
			return fail(modelError(y, x, "%s.equals must be finite", v.Family()))
		}
		return some(lp.Eq(lp.V(v), lp.Const(equals)))
	}
	if b.run.Mode == config.ModeOperate {
		if math.IsInf(hi, 1) {
			return none()
		}
		return some(lp.Eq(lp.V(v), lp.Const(hi)))
	}
	if lo == 0 && math.IsInf(hi, 1) {
		return none()
	}
	return some(lp.Between(lo, lp.V(v), hi))
}

// sCapRule sizes storage. With use_s_time the storage is capped at
// s_time.max hours of the energy capacity.
func (b *Builder) sCapRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x := key[0], key[1]
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	var sCapMax float64
	if rec.UseSTime {
		eCap := rec.ECap.Equals
		if eCap == 0 && !rec.ECap.MaxDisabled {
			eCap = rec.ECap.Max
		}
		if rec.EEffRef == 0 {
			return fail(modelError(y, x, "reference efficiency is zero, cannot size storage from s_time"))
		}
		sCapMax = rec.STimeMax * eCap * rec.ECapScale / rec.EEffRef
	}
	return b.varBound(b.v("s_cap", y, x), rec.Bound(params.SCap), sCapMax, 0, y, x)
}

func (b *Builder) rCapRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x := key[0], key[1]
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	rCap := b.v("r_cap", y, x)
	if rec.RCapEqualsECap {
		return some(lp.Eq(lp.V(rCap), lp.V(b.v("e_cap", y, x))))
	}
	return b.varBound(rCap, rec.Bound(params.RCap), 0, 0, y, x)
}

// rAreaRule sizes the collector area. An area tied to e_cap follows it, a
// tech that cannot be built here gets no area, and a disabled area max
// fixes the area to 1 so r is used as an absolute value.
func (b *Builder) rAreaRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x := key[0], key[1]
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	area := lp.V(b.v("r_area", y, x))
	switch {
	case rec.RAreaPerECap != 0:
		return some(lp.Eq(area, lp.V(b.v("e_cap", y, x)).Times(rec.RAreaPerECap)))
	case rec.ECap.MaxDisabled || rec.ECap.Max == 0:
		return some(lp.Eq(area, lp.Const(0)))
	case rec.RArea.MaxDisabled:
		return some(lp.Eq(area, lp.Const(1)))
	default:
		return b.varBound(b.v("r_area", y, x), rec.Bound(params.RArea), 0, 0, y, x)
	}
}

// eCapRule sizes the energy conversion capacity, forced to zero where the
// tech is not allowed.
func (b *Builder) eCapRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x := key[0], key[1]
	eCap := b.v("e_cap", y, x)
	if !b.topo.IsEligible(ctx, y, x) {
		return some(lp.Eq(lp.V(eCap), lp.Const(0)))
	}
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	return b.varBound(eCap, rec.Bound(params.ECap), 0, rec.ECapScale, y, x)
}

func (b *Builder) eCapGrossNetRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x := key[0], key[1]
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	gross := lp.V(b.v("e_cap", y, x)).Times(rec.CEff)
	return some(lp.Eq(gross, lp.V(b.v("e_cap_net", y, x))))
}

// rbCapRule sizes the secondary resource capacity, either on its own or
// following r_cap or e_cap.
func (b *Builder) rbCapRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x := key[0], key[1]
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	rbCap := lp.V(b.v("rb_cap", y, x))
	if rec.RBCapFollow == "" {
		return b.varBound(b.v("rb_cap", y, x), rec.Bound(params.RBCap), 0, 0, y, x)
	}

	var target lp.Expr
	switch rec.RBCapFollow {
	case followRCap:
		if !b.sets.In(sets.DefR, y) {
			return fail(invalidOption(y, x, "rb_cap_follow is r_cap but the tech has no resource capacity"))
		}
		target = lp.V(b.v("r_cap", y, x))
	case followECap:
		target = lp.V(b.v("e_cap", y, x))
	default:
		return fail(modelError(y, x, "rb_cap_follow set to invalid value: %s", rec.RBCapFollow))
	}

	switch rec.RBCapFollowMode {
	case followMax:
		return some(lp.Le(rbCap, target))
	case followEquals:
		return some(lp.Eq(rbCap, target))
	default:
		return fail(invalidOption(y, x, "rb_cap_follow_mode must be %q or %q, got %q", followMax, followEquals, rec.RBCapFollowMode))
	}
}
