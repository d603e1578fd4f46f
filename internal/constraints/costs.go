package constraints

import (
	"context"

	"github.com/vk/energridgo/internal/lp"
	"github.com/vk/energridgo/internal/params"
	"github.com/vk/energridgo/internal/sets"
)

// capacityCosts lists the capacities carrying a construction cost and the
// subset a tech must belong to for the capacity to exist. An empty subset
// means every tech.
var capacityCosts = []struct {
	capacity params.Capacity
	subset   sets.Subset
}{
	{params.SCap, sets.PC},
	{params.RCap, sets.DefR},
	{params.RArea, sets.DefR},
	{params.ECap, ""},
	{params.RBCap, sets.RB},
}

// buildCosts declares the cost variables and accounts construction, fixed
// and variable operation costs per tech, location and cost class.
func (b *Builder) buildCosts(ctx context.Context) error {
	s := b.sets
	steps := s.T.Steps
	for _, name := range []string{"cost", "cost_con", "cost_op_fixed", "cost_op_variable"} {
		if err := b.declare(name, lp.Reals, s.Y, s.X, s.K); err != nil {
			return err
		}
	}
	for _, name := range []string{"cost_op_var", "cost_op_fuel", "cost_op_rb"} {
		if err := b.declare(name, lp.Reals, s.Y, s.X, steps, s.K); err != nil {
			return err
		}
	}

	perClass := lp.Product(s.Y, s.X, s.K)
	perStep := lp.Product(s.Y, s.X, steps, s.K)
	families := []struct {
		name string
		keys []lp.Key
		rule rule
	}{
		{"c_cost", perClass, b.costRule},
		{"c_cost_con", perClass, b.costConRule},
		{"c_cost_op_fixed", perClass, b.costOpFixedRule},
		{"c_cost_op_variable", perClass, b.costOpVariableRule},
		{"c_cost_op_var", perStep, b.costOpVarRule},
		{"c_cost_op_fuel", perStep, b.costOpFuelRule},
		{"c_cost_op_rb", perStep, b.costOpRBRule},
	}
	for _, f := range families {
		if err := b.emit(ctx, f.name, f.keys, f.rule); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) costRule(_ context.Context, key lp.Key) (lp.Relation, bool, error) {
	total := lp.Sum(
		lp.V(b.v("cost_con", key...)),
		lp.V(b.v("cost_op_fixed", key...)),
		lp.V(b.v("cost_op_variable", key...)),
	)
	return some(lp.Eq(lp.V(b.v("cost", key...)), total))
}

// capacityCost returns unit cost times installed capacity. Transmission
// techs add the distance cost and count half at each end of the link. A
// negative unit cost requires the capacity to be bounded by a c_<capacity>
// constraint.
func (b *Builder) capacityCost(rec *params.Tech, c params.Capacity, y, x, k string) (lp.Expr, error) {
	unit := rec.UnitCost(k, c.CostParam())
	if b.sets.In(sets.Trans, y) {
		perDistance := 0.0
		if costs, ok := rec.Costs[k]; ok {
			perDistance = costs.PerDistance[c.CostParam()]
		}
		unit = (unit + perDistance) / 2
	}
	if unit < 0 && !b.model.HasConstraint("c_"+string(c), y, x) {
		return lp.Expr{}, optionNotSet(y, x, "%s.max must be defined as cost is negative", c)
	}
	return lp.V(b.v(string(c), y, x)).Times(unit), nil
}

// costConRule annualizes the construction cost of every capacity the tech has.
func (b *Builder) costConRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x, k := key[0], key[1], key[2]
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	var capital lp.Expr
	for _, cc := range capacityCosts {
		if cc.subset != "" && !b.sets.In(cc.subset, y) {
			continue
		}
		term, err := b.capacityCost(rec, cc.capacity, y, x, k)
		if err != nil {
			return fail(err)
		}
		capital = capital.Plus(term)
	}
	depreciation := 0.0
	if costs, ok := rec.Costs[k]; ok {
		depreciation = costs.Depreciation
	}
	factor := depreciation * b.sets.T.AnnualizationFactor()
	return some(lp.Eq(lp.V(b.v("cost_con", key...)), capital.Times(factor)))
}

// costOpFixedRule is om_frac of the construction cost plus om_fixed per
// unit of e_cap and year.
func (b *Builder) costOpFixedRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x, k := key[0], key[1], key[2]
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	omFixed := rec.UnitCost(k, params.CostOMFixed)
	if omFixed < 0 && !b.model.HasConstraint("c_e_cap", y, x) {
		return fail(optionNotSet(y, x, "e_cap.max must be defined as om_fixed cost is negative"))
	}
	omFrac := rec.UnitCost(k, params.CostOMFrac)
	fixed := lp.Sum(
		lp.V(b.v("cost_con", key...)).Times(omFrac),
		lp.V(b.v("e_cap", y, x)).Times(omFixed*b.sets.T.AnnualizationFactor()),
	)
	return some(lp.Eq(lp.V(b.v("cost_op_fixed", key...)), fixed))
}

func (b *Builder) costOpVariableRule(_ context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x, k := key[0], key[1], key[2]
	var total lp.Expr
	for _, t := range b.sets.T.Steps {
		total = lp.Sum(total,
			lp.V(b.v("cost_op_var", y, x, t, k)),
			lp.V(b.v("cost_op_fuel", y, x, t, k)),
			lp.V(b.v("cost_op_rb", y, x, t, k)),
		)
	}
	return some(lp.Eq(lp.V(b.v("cost_op_variable", key...)), total))
}

// costOpVarRule charges om_var on production of the tech's own carrier
// plus export, and the export cost on export. Consumption is not charged.
func (b *Builder) costOpVarRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x, label, k := key[0], key[1], key[2], key[3]
	t := b.step(label)
	rec, err := b.tech(ctx, y, x)
	if err != nil {
		return fail(err)
	}
	omVar, err := b.params.Cost(ctx, params.CostOMVar, k, y, x, t)
	if err != nil {
		return fail(err)
	}
	exportCost, err := b.params.Cost(ctx, params.CostExport, k, y, x, t)
	if err != nil {
		return fail(err)
	}
	export := b.export(rec, y, x, label)
	prod := lp.V(b.v("es_prod", rec.Carrier, y, x, label)).Plus(export)
	variable := lp.Sum(prod.Times(omVar), export.Times(exportCost)).Times(b.sets.T.Weight(t))
	return some(lp.Eq(lp.V(b.v("cost_op_var", key...)), variable))
}

// costOpFuelRule charges om_fuel on the resource drawn, rs / r_eff. A zero
// r_eff means no fuel is drawn.
func (b *Builder) costOpFuelRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x, label, k := key[0], key[1], key[2], key[3]
	t := b.step(label)
	fuel := lp.V(b.v("cost_op_fuel", key...))
	eff, err := b.params.Constraint(ctx, params.REff, y, x, t)
	if err != nil {
		return fail(err)
	}
	if eff <= 0 {
		return some(lp.Eq(fuel, lp.Const(0)))
	}
	omFuel, err := b.params.Cost(ctx, params.CostOMFuel, k, y, x, t)
	if err != nil {
		return fail(err)
	}
	coef := omFuel * b.sets.T.Weight(t) / eff
	return some(lp.Eq(fuel, lp.V(b.v("rs", y, x, label)).Times(coef)))
}

// costOpRBRule is the fuel cost of the secondary resource.
func (b *Builder) costOpRBRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x, label, k := key[0], key[1], key[2], key[3]
	t := b.step(label)
	rb := lp.V(b.v("cost_op_rb", key...))
	if !b.sets.In(sets.RB, y) {
		return some(lp.Eq(rb, lp.Const(0)))
	}
	eff, err := b.params.Constraint(ctx, params.RBEff, y, x, t)
	if err != nil {
		return fail(err)
	}
	if eff <= 0 {
		return some(lp.Eq(rb, lp.Const(0)))
	}
	omRB, err := b.params.Cost(ctx, params.CostOMRB, k, y, x, t)
	if err != nil {
		return fail(err)
	}
	coef := omRB * b.sets.T.Weight(t) / eff
	return some(lp.Eq(rb, lp.V(b.v("rbs", y, x, label)).Times(coef)))
}
