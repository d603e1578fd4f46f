package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/energridgo/internal/config"
	"github.com/vk/energridgo/internal/ctxlog"
	"github.com/vk/energridgo/internal/options"
	"github.com/zclconf/go-cty/cty"
)

func network() *config.Model {
	return &config.Model{
		Time: &config.Time{
			Steps:      []string{"t0", "t1"},
			Resolution: []float64{1, 1},
			Weights:    []float64{1, 1},
		},
		Techs: map[string]*config.Tech{
			"pv": {Name: "pv", Parent: "supply", Options: map[string]cty.Value{
				"constraints.r":         cty.NumberIntVal(10),
				"constraints.e_cap.max": cty.NumberIntVal(5),
				"costs.monetary.e_cap":  cty.NumberIntVal(100),
			}},
		},
		Locations: map[string]*config.Location{
			"site": {Name: "site", Techs: []string{"pv"}},
		},
	}
}

func TestBuild(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	res, err := Build(ctx, network(), Options{Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, "energridgo", res.Model.Name)
	if diff := cmp.Diff([]string{"pv"}, res.Sets.Y); diff != "" {
		t.Errorf("techs mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"site"}, res.Sets.X)
	assert.Equal(t, []string{"monetary"}, res.Sets.K)
	assert.Equal(t, 2, res.Sets.T.Len())
	assert.Equal(t, res.Model.Stats(), res.Stats)

	assert.Contains(t, buf.String(), "Network description validated.")
	assert.Contains(t, buf.String(), "msg=\"Model built.\" mode=plan")
}

func TestBuild_ModeOverride(t *testing.T) {
	m := network()
	m.Run.Mode = config.ModePlan

	res, err := Build(context.Background(), m, Options{Name: "site", Mode: config.ModeOperate})
	require.NoError(t, err)
	assert.Equal(t, "site", res.Model.Name)
	assert.Equal(t, config.ModeOperate, m.Run.Mode)

	c, ok := res.Model.Constraint("c_e_cap", "pv", "site")
	require.True(t, ok)
	assert.Equal(t, 5.0, c.Lower)
	assert.Equal(t, 5.0, c.Upper)
}

func TestBuild_InvalidNetwork(t *testing.T) {
	m := network()
	m.Locations["site"].Techs = append(m.Locations["site"].Techs, "wind")

	_, err := Build(context.Background(), m, Options{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid network description")
	assert.ErrorContains(t, err, `unknown tech "wind"`)
}

func TestBuild_ConfigErrorIsPropagated(t *testing.T) {
	m := network()
	m.Techs["pv"].Options["constraints.rb_cap_follow_mode"] = cty.StringVal("sometimes")
	m.Techs["pv"].Options["constraints.allow_rb"] = cty.True
	m.Techs["pv"].Options["constraints.rb_cap_follow"] = cty.StringVal("e_cap")

	_, err := Build(context.Background(), m, Options{Workers: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, options.ErrInvalidOption), "got %v", err)

	var cfgErr *options.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "pv", cfgErr.Tech)
	assert.Equal(t, "site", cfgErr.Location)
}

func TestBuild_RejectsUnreadSeries(t *testing.T) {
	testCases := []struct {
		name   string
		series config.Series
		kind   error
	}{
		{"misspelled parameter", config.Series{Param: "r_efff", Tech: "pv", Location: "site"}, options.ErrInvalidOption},
		{"cost without class", config.Series{Param: "om_fuel", Tech: "pv", Location: "site"}, options.ErrOptionNotSet},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := network()
			s := tc.series
			s.Values = []float64{1, 2}
			m.Series = []*config.Series{&s}

			_, err := Build(context.Background(), m, Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)
			assert.ErrorContains(t, err, "failed to register series")
		})
	}
}
