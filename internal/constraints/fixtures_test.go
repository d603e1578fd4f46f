package constraints_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/energridgo/internal/config"
	"github.com/vk/energridgo/internal/engine"
	"github.com/vk/energridgo/internal/lp"
	"github.com/zclconf/go-cty/cty"
)

const tol = 1e-9

var inf = math.Inf(1)

func num(f float64) cty.Value { return cty.NumberFloatVal(f) }

type opts map[string]cty.Value

// newNetwork returns a network with n hourly timesteps t0..t(n-1) of weight 1.
func newNetwork(n int) *config.Model {
	tm := &config.Time{}
	for i := 0; i < n; i++ {
		tm.Steps = append(tm.Steps, fmt.Sprintf("t%d", i))
		tm.Resolution = append(tm.Resolution, 1)
		tm.Weights = append(tm.Weights, 1)
	}
	return &config.Model{
		Time:      tm,
		Techs:     make(map[string]*config.Tech),
		Locations: make(map[string]*config.Location),
	}
}

func addTech(m *config.Model, name, parent string, o opts) {
	m.Techs[name] = &config.Tech{Name: name, Parent: parent, Options: o}
}

func addLocation(m *config.Model, name, within string, techs ...string) {
	m.Locations[name] = &config.Location{Name: name, Within: within, Techs: techs}
}

func addLink(m *config.Model, from, to, tech string, o opts) {
	m.Links = append(m.Links, &config.Link{From: from, To: to, Techs: map[string]map[string]cty.Value{tech: o}})
}

func buildModel(t *testing.T, m *config.Model) *lp.Model {
	t.Helper()
	res, err := engine.Build(context.Background(), m, engine.Options{Workers: 4})
	require.NoError(t, err)
	return res.Model
}

func buildErr(m *config.Model) error {
	_, err := engine.Build(context.Background(), m, engine.Options{Workers: 2})
	return err
}

func variable(t *testing.T, m *lp.Model, family string, key ...string) lp.Var {
	t.Helper()
	v, ok := m.Var(family, key...)
	require.True(t, ok, "variable %s%v not declared", family, key)
	return v
}

func constraint(t *testing.T, m *lp.Model, family string, key ...string) *lp.Constraint {
	t.Helper()
	c, ok := m.Constraint(family, key...)
	require.True(t, ok, "constraint %s%v not built", family, key)
	return c
}

// values maps "family[k1,k2]" addresses to variable values.
func values(t *testing.T, m *lp.Model, addrs map[string]float64) map[lp.Var]float64 {
	t.Helper()
	out := make(map[lp.Var]float64, len(addrs))
	for addr, val := range addrs {
		v, err := m.VarByAddress(addr)
		require.NoError(t, err)
		out[v] = val
	}
	return out
}
