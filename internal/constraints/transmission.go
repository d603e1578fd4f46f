package constraints

import (
	"context"

	"github.com/vk/energridgo/internal/lp"
	"github.com/vk/energridgo/internal/sets"
	"github.com/vk/energridgo/internal/topologystore"
)

// buildTransmission makes both ends of a link carry the same capacity.
func (b *Builder) buildTransmission(ctx context.Context) error {
	s := b.sets
	return b.emit(ctx, "c_transmission_capacity", lp.Product(s.Members(sets.Trans), s.X), b.transmissionCapacityRule)
}

func (b *Builder) transmissionCapacityRule(_ context.Context, key lp.Key) (lp.Relation, bool, error) {
	y, x := key[0], key[1]
	yRemote, xRemote, ok := topologystore.RemotePair(y, x)
	if !ok || xRemote == x || !b.sets.In(sets.Trans, yRemote) {
		return none()
	}
	return some(lp.Eq(lp.V(b.v("e_cap", y, x)), lp.V(b.v("e_cap", yRemote, xRemote))))
}
