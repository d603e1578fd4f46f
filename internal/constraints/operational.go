package constraints

import (
	"context"

	"github.com/vk/energridgo/internal/lp"
	"github.com/vk/energridgo/internal/params"
	"github.com/vk/energridgo/internal/sets"
)

// buildOperational bounds the flows of every timestep by the installed
// capacities.
func (b *Builder) buildOperational(ctx context.Context) error {
	s := b.sets
	steps := s.T.Steps
	defR := s.Members(sets.DefR)
	families := []struct {
		name string
		keys []lp.Key
		rule rule
	}{
		{"c_rs_max_upper", lp.Product(defR, s.X, steps), b.rsMaxUpperRule},
		{"c_rs_max_lower", lp.Product(defR, s.X, steps), b.rsMaxLowerRule},
		{"c_es_prod_max", lp.Product(s.C, s.Y, s.X, steps), b.esProdMaxRule},
		{"c_es_prod_min", lp.Product(s.C, s.Y, s.X, steps), b.esProdMinRule},
		{"c_es_con_max", lp.Product(s.C, s.Y, s.X, steps), b.esConMaxRule},
		{"c_s_max", lp.Product(s.Members(sets.PC), s.X, steps), b.sMaxRule},
		{"c_rbs_max", lp.Product(s.Members(sets.RB), s.X, steps), b.rbsMaxRule},
	}
	for _, f := range families {
		if err := b.emit(ctx, f.name, f.keys, f.rule); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) rsMaxUpperRule(_ context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x, label := key[0], key[1], key[2]
	dt := b.sets.T.Duration(b.step(label))
	return some(lp.Le(lp.V(b.v("rs", key...)), lp.V(b.v("r_cap", y, x)).Times(dt)))
}

func (b *Builder) rsMaxLowerRule(_ context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x, label := key[0], key[1], key[2]
	dt := b.sets.T.Duration(b.step(label))
	return some(lp.Ge(lp.V(b.v("rs", key...)), lp.V(b.v("r_cap", y, x)).Times(-dt)))
}

// esProdMaxRule caps production of the tech's own carrier by e_cap when
// the tech may produce. Every other carrier is held at zero.
func (b *Builder) esProdMaxRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	c, y, x, label := key[0], key[1], key[2], key[3]
	t := b.step(label)
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	prod := lp.V(b.v("es_prod", key...))
	if c != rec.Carrier {
		return some(lp.Eq(prod, lp.Const(0)))
	}
	prod = prod.Plus(b.export(rec, y, x, label))
	canProduce, err := b.params.Flag(ctx, params.EProd, y, x, t)
	if err != nil {
		return fail(err)
	}
	if !canProduce {
		return some(lp.Eq(prod, lp.Const(0)))
	}
	dt := b.sets.T.Duration(t)
	return some(lp.Le(prod, lp.V(b.v("e_cap", y, x)).Times(dt)))
}

// esProdMinRule enforces a minimum use of e_cap when e_cap_min_use is set.
func (b *Builder) esProdMinRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	c, y, x, label := key[0], key[1], key[2], key[3]
	t := b.step(label)
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	minUse, err := b.params.Constraint(ctx, params.ECapMinUse, y, x, t)
	if err != nil {
		return fail(err)
	}
	if minUse == 0 || c != rec.Carrier {
		return none()
	}
	prod := lp.V(b.v("es_prod", key...)).Plus(b.export(rec, y, x, label))
	dt := b.sets.T.Duration(t)
	return some(lp.Ge(prod, lp.V(b.v("e_cap", y, x)).Times(dt*minUse)))
}

// esConMaxRule bounds consumption of the tech's own carrier by e_cap.
// Conversion techs are left to their conversion balance.
func (b *Builder) esConMaxRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	c, y, x, label := key[0], key[1], key[2], key[3]
	if b.sets.Class[y] == sets.Conversion {
		return none()
	}
	t := b.step(label)
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	canConsume, err := b.params.Flag(ctx, params.ECon, y, x, t)
	if err != nil {
		return fail(err)
	}
	con := lp.V(b.v("es_con", key...))
	if !canConsume || c != rec.Carrier {
		return some(lp.Eq(con, lp.Const(0)))
	}
	dt := b.sets.T.Duration(t)
	return some(lp.Ge(con, lp.V(b.v("e_cap", y, x)).Times(-dt)))
}

func (b *Builder) sMaxRule(_ context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x := key[0], key[1]
	return some(lp.Le(lp.V(b.v("s", key...)), lp.V(b.v("s_cap", y, x))))
}

// rbsMaxRule caps the secondary resource flow by rb_cap. Techs restricted
// to startup use get no secondary resource past the startup cutoff.
func (b *Builder) rbsMaxRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x, label := key[0], key[1], key[2]
	t := b.step(label)
	startupOnly, err := b.params.Flag(ctx, params.RBStartupOnly, y, x, t)
	if err != nil {
		return fail(err)
	}
	rbs := lp.V(b.v("rbs", key...))
	if startupOnly && t >= b.startupCutoff {
		return some(lp.Eq(rbs, lp.Const(0)))
	}
	dt := b.sets.T.Duration(t)
	return some(lp.Le(rbs, lp.V(b.v("rb_cap", y, x)).Times(dt)))
}
