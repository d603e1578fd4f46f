package options

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Float converts an option value to float64. Strings holding numbers are
// accepted.
func Float(v cty.Value) (float64, error) {
	if v.IsNull() {
		return 0, fmt.Errorf("expected a number, got null")
	}
	nv, err := convert.Convert(v, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %s", v.Type().FriendlyName())
	}
	f, _ := nv.AsBigFloat().Float64()
	return f, nil
}

// Bool converts an option value to bool. Numbers follow truthiness.
func Bool(v cty.Value) (bool, error) {
	if v.IsNull() {
		return false, nil
	}
	if v.Type() == cty.Number {
		return Truthy(v), nil
	}
	bv, err := convert.Convert(v, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("expected a bool, got %s", v.Type().FriendlyName())
	}
	var b bool
	if err := gocty.FromCtyValue(bv, &b); err != nil {
		return false, err
	}
	return b, nil
}

// String converts an option value to string.
func String(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", fmt.Errorf("expected a string, got null")
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("expected a string, got %s", v.Type().FriendlyName())
	}
	var s string
	if err := gocty.FromCtyValue(sv, &s); err != nil {
		return "", err
	}
	return s, nil
}

// Truthy reports whether v counts as set: null, false, zero and the empty
// string do not.
func Truthy(v cty.Value) bool {
	if v.IsNull() || !v.IsKnown() {
		return false
	}
	switch v.Type() {
	case cty.Bool:
		return v.True()
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f != 0 && !math.IsNaN(f)
	case cty.String:
		return v.AsString() != ""
	default:
		return v.LengthInt() > 0
	}
}

// IsFalse reports whether v is the boolean false, which some options use
// as an explicit "disabled" marker distinct from zero.
func IsFalse(v cty.Value) bool {
	return !v.IsNull() && v.Type() == cty.Bool && v.False()
}
