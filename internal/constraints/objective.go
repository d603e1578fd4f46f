package constraints

import (
	"context"
	"slices"

	"github.com/vk/energridgo/internal/ctxlog"
	"github.com/vk/energridgo/internal/lp"
)

// buildObjective minimizes the total cost of the objective cost class.
func (b *Builder) buildObjective(ctx context.Context) error {
	k := b.run.ObjectiveCostClass
	if !slices.Contains(b.sets.K, k) {
		return invalidOption("", "", "objective cost class %q is not one of the cost classes %v", k, b.sets.K)
	}
	var total lp.Expr
	for _, y := range b.sets.Y {
		for _, x := range b.sets.X {
			total = total.Plus(lp.V(b.v("cost", y, x, k)))
		}
	}
	b.model.SetObjective(lp.Minimize, total)
	ctxlog.FromContext(ctx).Debug("Objective set.", "cost_class", k, "terms", len(total.Terms))
	return nil
}
