package lp

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardForm(t *testing.T) {
	m := NewModel("test")
	y, err := m.AddVariables("y", Reals, []Key{K("0")})
	require.NoError(t, err)
	x, err := m.AddVariables("x", NonNegativeReals, []Key{K("a"), K("b")})
	require.NoError(t, err)

	xa, xb, y0 := x.At("a"), x.At("b"), y.At("0")
	require.NoError(t, m.AddConstraint("c_sum", K(), Eq(V(xa).Plus(V(xb)), V(y0))))
	require.NoError(t, m.AddConstraint("c_cap", K("a"), Le(V(xa), Const(5))))
	m.SetObjective(Minimize, V(xa).Times(3).Plus(V(xb)).Plus(Const(7)))

	sf, err := m.StandardForm()
	require.NoError(t, err)

	cols := make([]string, len(sf.Columns))
	for i, c := range sf.Columns {
		cols[i] = c.String()
	}
	if diff := cmp.Diff([]string{"x[a]", "x[b]", "y[0]"}, cols); diff != "" {
		t.Errorf("column order mismatch (-want +got):\n%s", diff)
	}
	rows := make([]string, len(sf.Rows))
	for i, r := range sf.Rows {
		rows[i] = r.String()
	}
	if diff := cmp.Diff([]string{"c_cap[a]", "c_sum"}, rows); diff != "" {
		t.Errorf("row order mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 1.0, sf.A.At(0, 0))
	assert.Equal(t, 0.0, sf.A.At(0, 1))
	assert.Equal(t, []float64{1, 1, -1}, []float64{sf.A.At(1, 0), sf.A.At(1, 1), sf.A.At(1, 2)})
	assert.True(t, math.IsInf(sf.RowLower.AtVec(0), -1))
	assert.Equal(t, 5.0, sf.RowUpper.AtVec(0))
	assert.Equal(t, 0.0, sf.RowLower.AtVec(1))
	assert.Equal(t, 0.0, sf.RowUpper.AtVec(1))
	assert.Equal(t, 0.0, sf.ColLower.AtVec(0))
	assert.True(t, math.IsInf(sf.ColLower.AtVec(2), -1))
	assert.Equal(t, 3.0, sf.Objective.AtVec(0))
	assert.Equal(t, 7.0, sf.ObjectiveOffset)

	act, err := sf.RowActivity([]float64{2, 3, 5})
	require.NoError(t, err)
	assert.Equal(t, 2.0, act.AtVec(0))
	assert.Equal(t, 0.0, act.AtVec(1))

	_, err = sf.RowActivity([]float64{1})
	assert.Error(t, err)
}

func TestStandardForm_Empty(t *testing.T) {
	_, err := NewModel("empty").StandardForm()
	assert.ErrorIs(t, err, ErrEmptyModel)
}

func TestStandardForm_TooLarge(t *testing.T) {
	m := NewModel("large")
	x, err := m.AddVariables("x", NonNegativeReals, []Key{K("a"), K("b"), K("c")})
	require.NoError(t, err)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, m.AddConstraint("c_cap", K(k), Le(V(x.At(k)), Const(1))))
	}

	limit := MaxDenseCells
	t.Cleanup(func() { MaxDenseCells = limit })

	MaxDenseCells = 8
	_, err = m.StandardForm()
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.ErrorContains(t, err, "3 rows x 3 columns")

	MaxDenseCells = 9
	_, err = m.StandardForm()
	assert.NoError(t, err)
}
