package lp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	testCases := []struct {
		name        string
		addr        Address
		expectedStr string
	}{
		{name: "scalar family", addr: Address{Family: "objective"}, expectedStr: "objective"},
		{name: "indexed", addr: Address{Family: "e_cap", Key: K("ccgt", "r1")}, expectedStr: "e_cap[ccgt,r1]"},
		{name: "transmission tech", addr: Address{Family: "e_cap", Key: K("hvac:r2", "r1")}, expectedStr: "e_cap[hvac:r2,r1]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.addr.String())
		})
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	for _, raw := range []string{
		"es_prod[power,ccgt,r1,t0]",
		"c_transmission_capacity[hvac:r2,r1]",
		"cost",
	} {
		t.Run(raw, func(t *testing.T) {
			addr, err := ParseAddress(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, addr.String())
		})
	}
}

func TestParseAddress_Errors(t *testing.T) {
	for _, raw := range []string{"", "1abc", "e_cap[a,,b]", "e_cap[a", "e_cap[a][b]"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseAddress(raw)
			assert.Error(t, err)
		})
	}
}

func TestProduct(t *testing.T) {
	got := Product([]string{"a", "b"}, []string{"x"}, []string{"0", "1"})
	want := []Key{
		{"a", "x", "0"}, {"a", "x", "1"},
		{"b", "x", "0"}, {"b", "x", "1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Product() mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, Product([]string{"a"}, nil))
	assert.Nil(t, Product())
}
