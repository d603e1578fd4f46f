package constraints

import (
	"context"

	"github.com/vk/energridgo/internal/lp"
	"github.com/vk/energridgo/internal/sets"
)

// buildParasitics declares the flows after internal losses for techs with
// a carrier efficiency other than 1.
func (b *Builder) buildParasitics(ctx context.Context) error {
	s := b.sets
	steps := s.T.Steps
	p := s.Members(sets.P)
	if err := b.declare("ec_prod", lp.NonNegativeReals, s.C, p, s.X, steps); err != nil {
		return err
	}
	if err := b.declare("ec_con", lp.NonPositiveReals, s.C, p, s.X, steps); err != nil {
		return err
	}
	if err := b.emit(ctx, "c_ec_prod", lp.Product(s.C, p, s.X, steps), b.ecProdRule); err != nil {
		return err
	}
	return b.emit(ctx, "c_ec_con", lp.Product(s.C, p, s.X, steps), b.ecConRule)
}

func (b *Builder) ecProdRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x := key[1], key[2]
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	return some(lp.Eq(lp.V(b.v("ec_prod", key...)), lp.V(b.v("es_prod", key...)).Times(rec.CEff)))
}

// ecConRule divides consumption by c_eff. Transmission and conversion techs
// already apply their efficiency in their balance and use 1.
func (b *Builder) ecConRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x := key[1], key[2]
	cEff := 1.0
	if class := b.sets.Class[y]; class != sets.Transmission && class != sets.Conversion {
		rec, err := b.tech(ctx, y, x)
		if err != nil {
			return fail(err)
		}
		cEff = rec.CEff
	}
	ecCon := lp.V(b.v("ec_con", key...))
	if cEff <= 0 {
		return some(lp.Eq(ecCon, lp.Const(0)))
	}
	return some(lp.Eq(ecCon, lp.V(b.v("es_con", key...)).Times(1/cEff)))
}
