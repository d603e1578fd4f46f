package lp

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_Variables(t *testing.T) {
	m := NewModel("test")
	keys := Product([]string{"ccgt", "pv"}, []string{"r1"})
	f, err := m.AddVariables("e_cap", NonNegativeReals, keys)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Len())

	_, err = m.AddVariables("e_cap", NonNegativeReals, keys)
	require.Error(t, err, "redeclaring a family must fail")

	_, err = m.AddVariables("dup", Reals, []Key{K("a"), K("a")})
	require.Error(t, err)

	v, err := m.VarByAddress("e_cap[pv,r1]")
	require.NoError(t, err)
	assert.Equal(t, "e_cap[pv,r1]", m.VarAddress(v).String())

	_, err = m.VarByAddress("e_cap[wind,r1]")
	assert.Error(t, err)

	assert.Panics(t, func() { f.At("wind", "r1") })
}

func TestModel_Constraints(t *testing.T) {
	m := NewModel("test")
	f, err := m.AddVariables("x", Reals, []Key{K("a")})
	require.NoError(t, err)

	require.NoError(t, m.AddConstraint("c_x", K("a"), Le(V(f.At("a")), Const(1))))
	err = m.AddConstraint("c_x", K("a"), Le(V(f.At("a")), Const(2)))
	require.Error(t, err, "duplicate constraint index must fail")

	err = m.AddConstraint("c_bad", K("a"), Between(2, V(f.At("a")), 1))
	require.Error(t, err, "empty bounds must be rejected")

	c, err := m.ConstraintByAddress("c_x[a]")
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Upper)
	assert.True(t, m.HasConstraint("c_x", "a"))
	assert.False(t, m.HasConstraint("c_x", "b"))
	assert.Equal(t, []string{"c_x"}, m.ConstraintFamilies())
}

func TestModel_ConcurrentAdds(t *testing.T) {
	m := NewModel("test")
	f, err := m.AddVariables("x", Reals, []Key{K("a")})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				key := K(fmt.Sprintf("%d", w), fmt.Sprintf("%d", i))
				assert.NoError(t, m.AddConstraint("c", key, Ge(V(f.At("a")), Const(float64(i)))))
			}
		}(w)
	}
	wg.Wait()

	stats := m.Stats()
	assert.Equal(t, 400, stats.Constraints)
	assert.Equal(t, 1, stats.Variables)
	assert.Equal(t, 400, stats.PerFamily["c"])
}

func TestModel_Objective(t *testing.T) {
	m := NewModel("test")
	_, ok := m.Objective()
	assert.False(t, ok)

	f, err := m.AddVariables("cost", Reals, []Key{K("ccgt")})
	require.NoError(t, err)
	m.SetObjective(Minimize, V(f.At("ccgt")).Plus(V(f.At("ccgt"))))

	obj, ok := m.Objective()
	require.True(t, ok)
	require.Len(t, obj.Expr.Terms, 1)
	assert.Equal(t, 2.0, obj.Expr.Terms[0].Coef)
}
