package constraints

import (
	"context"
	"slices"

	"github.com/vk/energridgo/internal/lp"
	"github.com/vk/energridgo/internal/sets"
)

// buildSystem balances every carrier over each top level location and each
// location with childless children.
func (b *Builder) buildSystem(ctx context.Context) error {
	s := b.sets
	return b.emit(ctx, "c_system_balance", lp.Product(s.C, s.X, s.T.Steps), b.systemBalanceRule)
}

// systemBalanceRule sums net flow over the location and its childless
// children, after parasitic losses where a tech has them. The primary
// carrier must balance exactly, other carriers may run a surplus.
func (b *Builder) systemBalanceRule(ctx context.Context, key lp.Key) (lp.Relation, bool, error) {
	c, x, label := key[0], key[1], key[2]
	children := b.topo.ChildlessChildren(ctx, x)
	if b.topo.Level(ctx, x) != 0 && len(children) == 0 {
		return none()
	}
	family := append(slices.Clone(children), x)

	var net lp.Expr
	for _, xs := range family {
		for _, y := range b.sets.Members(sets.NP) {
			net = lp.Sum(net,
				lp.V(b.v("es_prod", c, y, xs, label)),
				lp.V(b.v("es_con", c, y, xs, label)),
			)
		}
		for _, y := range b.sets.Members(sets.P) {
			net = lp.Sum(net,
				lp.V(b.v("ec_prod", c, y, xs, label)),
				lp.V(b.v("ec_con", c, y, xs, label)),
			)
		}
	}
	if c == b.run.PrimaryCarrier {
		return some(lp.Eq(net, lp.Const(0)))
	}
	return some(lp.Ge(net, lp.Const(0)))
}
