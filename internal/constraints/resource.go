package constraints

import (
	"context"

	"github.com/vk/energridgo/internal/lp"
	"github.com/vk/energridgo/internal/params"
	"github.com/vk/energridgo/internal/sets"
)

// resourceRules maps a tech class to the relation between the resource
// flow rs and the available resource.
var resourceRules = map[sets.Class]func(rs, avail lp.Expr) lp.Relation{
	sets.Supply:      lp.Le,
	sets.UnmetDemand: lp.Le,
	sets.Demand:      lp.Ge,
}

// buildResource declares rs, r_area and rbs and couples rs to the
// resource series.
func (b *Builder) buildResource(ctx context.Context) error {
	s := b.sets
	steps := s.T.Steps
	if err := b.declare("rs", lp.Reals, s.Y, s.X, steps); err != nil {
		return err
	}
	if err := b.declare("r_area", lp.NonNegativeReals, s.Members(sets.DefR), s.X); err != nil {
		return err
	}
	if err := b.declare("rbs", lp.NonNegativeReals, s.Members(sets.RB), s.X, steps); err != nil {
		return err
	}
	return b.emit(ctx, "c_rs", lp.Product(s.Members(sets.DefR), s.X, steps), b.resourceRule)
}

// resourceRule: rs == r_avail when force_r is set, otherwise the relation
// of the tech's class.
func (b *Builder) resourceRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x, t := key[0], key[1], b.step(key[2])
	r := b.params

	res, err := r.Constraint(ctx, params.R, y, x, t)
	if err != nil {
		return fail(err)
	}
	scale, err := r.Constraint(ctx, params.RScale, y, x, t)
	if err != nil {
		return fail(err)
	}
	eff, err := r.Constraint(ctx, params.REff, y, x, t)
	if err != nil {
		return fail(err)
	}
	force, err := r.Flag(ctx, params.ForceR, y, x, t)
	if err != nil {
		return fail(err)
	}

	rs := lp.V(b.v("rs", key...))
	avail := lp.V(b.v("r_area", y, x)).Times(res * scale * eff)
	if force {
		return some(lp.Eq(rs, avail))
	}
	class := b.sets.Class[y]
	relate, ok := resourceRules[class]
	if !ok {
		return fail(invalidOption(y, x, "no resource rule for %s techs; set force_r", class))
	}
	return some(relate(rs, avail))
}
