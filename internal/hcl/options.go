package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// newEvalContext returns the evaluation context shared by all network
// files. `inf` stands for an unbounded value.
func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"inf": cty.PositiveInfinity,
		},
	}
}

// flattenOptions evaluates every attribute of body and flattens nested
// objects into dotted keys, so that `constraints = { e_cap = { max = 5 } }`
// becomes "constraints.e_cap.max". Null values are dropped.
func flattenOptions(body hcl.Body, evalCtx *hcl.EvalContext) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value)
	if body == nil {
		return out, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		if !val.IsWhollyKnown() {
			return nil, fmt.Errorf("option %q has no known value", name)
		}
		flatten(name, val, out)
	}
	return out, nil
}

func flatten(prefix string, val cty.Value, out map[string]cty.Value) {
	if val.IsNull() {
		return
	}
	if ty := val.Type(); ty.IsObjectType() || ty.IsMapType() {
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			flatten(prefix+"."+k.AsString(), v, out)
		}
		return
	}
	out[prefix] = val
}
