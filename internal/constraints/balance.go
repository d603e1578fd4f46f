package constraints

import (
	"context"
	"math"

	"github.com/vk/energridgo/internal/lp"
	"github.com/vk/energridgo/internal/params"
	"github.com/vk/energridgo/internal/sets"
	"github.com/vk/energridgo/internal/topologystore"
)

// balanceFamilies maps a tech class to the family holding its energy
// balance. Classes not listed use the primary balance.
var balanceFamilies = map[sets.Class]string{
	sets.Transmission: "c_s_balance_transmission",
	sets.Conversion:   "c_s_balance_conversion",
}

// buildBalance declares the storage level and carrier flows and emits the
// transmission, conversion and primary balances.
func (b *Builder) buildBalance(ctx context.Context) error {
	s := b.sets
	steps := s.T.Steps
	if err := b.declare("s", lp.NonNegativeReals, s.Members(sets.PC), s.X, steps); err != nil {
		return err
	}
	if err := b.declare("es_prod", lp.NonNegativeReals, s.C, s.Y, s.X, steps); err != nil {
		return err
	}
	if err := b.declare("es_con", lp.NonPositiveReals, s.C, s.Y, s.X, steps); err != nil {
		return err
	}
	if err := b.declare("export", lp.NonNegativeReals, s.Members(sets.Export), s.X, steps); err != nil {
		return err
	}

	if err := b.emit(ctx, balanceFamilies[sets.Transmission], lp.Product(s.Members(sets.Trans), s.X, steps), b.transmissionBalanceRule); err != nil {
		return err
	}
	if err := b.emit(ctx, balanceFamilies[sets.Conversion], lp.Product(s.Members(sets.Conv), s.X, steps), b.conversionBalanceRule); err != nil {
		return err
	}
	return b.emit(ctx, "c_s_balance_pc", lp.Product(s.Members(sets.PC), s.X, steps), b.pcBalanceRule)
}

// transmissionBalanceRule: what is produced at one end of a link is what
// is consumed at the other end, derated by efficiency and distance.
func (b *Builder) transmissionBalanceRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x, label := key[0], key[1], key[2]
	yRemote, xRemote, ok := topologystore.RemotePair(y, x)
	if !ok || xRemote == x || !b.sets.In(sets.Trans, yRemote) {
		return none()
	}
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	eff, err := b.params.Constraint(ctx, params.EEff, y, x, b.step(label))
	if err != nil {
		return fail(err)
	}
	derate, err := rec.DistanceDerate()
	if err != nil {
		return fail(err)
	}
	prod := lp.V(b.v("es_prod", rec.Carrier, y, x, label))
	remoteCon := lp.V(b.v("es_con", rec.Carrier, yRemote, xRemote, label))
	return some(lp.Eq(prod, remoteCon.Times(-eff*derate)))
}

// conversionBalanceRule: output carrier production (plus export) equals
// source carrier consumption times efficiency.
func (b *Builder) conversionBalanceRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x, label := key[0], key[1], key[2]
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	if rec.SourceCarrier == "" {
		return fail(optionNotSet(y, x, "source_carrier must be defined for conversion techs"))
	}
	eff, err := b.params.Constraint(ctx, params.EEff, y, x, b.step(label))
	if err != nil {
		return fail(err)
	}
	prod := lp.V(b.v("es_prod", rec.Carrier, y, x, label)).Plus(b.export(rec, y, x, label))
	con := lp.V(b.v("es_con", rec.SourceCarrier, y, x, label))
	return some(lp.Eq(prod, con.Times(-eff)))
}

// pcBalanceRule is the primary balance. Techs without storage pass the
// resource flow straight through, others carry a storage level that
// decays by s_loss per hour of the previous timestep.
func (b *Builder) pcBalanceRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x, label := key[0], key[1], key[2]
	t := b.step(label)
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	eff, err := b.params.Constraint(ctx, params.EEff, y, x, t)
	if err != nil {
		return fail(err)
	}

	var prod, con lp.Expr
	for _, c := range b.sets.C {
		prod = prod.Plus(lp.V(b.v("es_prod", c, y, x, label)))
		con = con.Plus(lp.V(b.v("es_con", c, y, x, label)))
	}
	eProd := lp.Expr{}
	export := lp.Expr{}
	if eff != 0 {
		eProd = prod.Times(1 / eff)
		export = b.export(rec, y, x, label).Times(1 / eff)
	}
	eCon := con.Times(eff)

	rbs := lp.Expr{}
	if b.sets.In(sets.RB, y) {
		rbs = lp.V(b.v("rbs", y, x, label))
	}

	useSTime, err := b.params.Flag(ctx, params.UseSTime, y, x, t)
	if err != nil {
		return fail(err)
	}
	if noStorage(rec.SCap) && !useSTime {
		rs := lp.V(b.v("rs", y, x, label))
		return some(lp.Eq(rs, lp.Sum(eProd, eCon, export).Minus(rbs)))
	}

	rs := lp.V(b.v("rs", y, x, label))
	if b.sets.Class[y] == sets.Storage {
		rs = lp.Expr{}
	}

	var prev lp.Expr
	if p, ok := b.sets.T.Prev(t); ok {
		loss, err := b.params.Constraint(ctx, params.SLoss, y, x, t)
		if err != nil {
			return fail(err)
		}
		decay := math.Pow(1-loss, b.sets.T.Duration(p))
		prev = lp.V(b.v("s", y, x, b.sets.T.Steps[p])).Times(decay)
	} else {
		prev = lp.Const(rec.SInit)
	}

	level := lp.V(b.v("s", y, x, label))
	rhs := lp.Sum(prev, rs, rbs).Minus(lp.Sum(eProd, eCon, export))
	return some(lp.Eq(level, rhs))
}

// noStorage reports whether a storage capacity bound rules out storage.
// A max of false counts as zero.
func noStorage(b params.Bound) bool {
	return b.MaxDisabled || b.Max == 0
}
