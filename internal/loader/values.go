package loader

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/davidllorente/haproxygen/internal/model"
)

// stringsFromExpr normalizes the flexible scalar-or-list shapes of the
// declaration surface: absent yields nil, a single number or string one
// element, a list one element each. Hyphenated port ranges are plain
// strings here and pass through untouched.
func stringsFromExpr(expr hcl.Expression) ([]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	return stringsFromValue(val)
}

func stringsFromValue(val cty.Value) ([]string, error) {
	if ty := val.Type(); ty.IsTupleType() || ty.IsListType() || ty.IsSetType() {
		var out []string
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			s, err := scalarString(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}
	s, err := scalarString(val)
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}

// scalarString converts one cty scalar (string, number, or bool) to its
// rendered string form.
func scalarString(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", fmt.Errorf("value is null")
	}
	conv, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot convert %s to string: %w", val.Type().FriendlyName(), err)
	}
	return conv.AsString(), nil
}

// optionalStringFromExpr evaluates an optional scalar attribute. Absent
// and null both mean "not set".
func optionalStringFromExpr(expr hcl.Expression) (string, error) {
	if expr == nil {
		return "", nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() {
		return "", nil
	}
	return scalarString(val)
}

// bindsFromExpr decodes an explicit bind map into BindSpec values sorted
// by address spec. Anything that is not a mapping from address specs to
// option lists is a malformed bind declaration.
func bindsFromExpr(expr hcl.Expression) ([]model.BindSpec, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s", model.ErrMalformedBind, diags.Error())
	}
	if val.IsNull() {
		return nil, nil
	}
	if ty := val.Type(); !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("%w: bind must map address specs to option lists, got %s",
			model.ErrMalformedBind, ty.FriendlyName())
	}

	bySpec := val.AsValueMap()
	specs := make([]string, 0, len(bySpec))
	for spec := range bySpec {
		specs = append(specs, spec)
	}
	sort.Strings(specs)

	binds := make([]model.BindSpec, 0, len(specs))
	for _, spec := range specs {
		opts, err := stringsFromValue(bySpec[spec])
		if err != nil {
			return nil, fmt.Errorf("%w: options of bind %q: %s", model.ErrMalformedBind, spec, err)
		}
		binds = append(binds, model.BindSpec{Spec: spec, Options: opts})
	}
	return binds, nil
}

// optionsFromExpr decodes an options object into key/values pairs. An
// object constructor written in the grid file keeps its declaration
// order; any other expression shape falls back to the evaluated value
// with keys sorted, since source order is unknowable there.
func optionsFromExpr(expr hcl.Expression) ([]model.Option, error) {
	if expr == nil {
		return nil, nil
	}

	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return optionsFromValue(expr)
	}

	out := make([]model.Option, 0, len(pairs))
	for _, pair := range pairs {
		keyVal, diags := pair.Key.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		key, err := scalarString(keyVal)
		if err != nil {
			return nil, fmt.Errorf("option key: %w", err)
		}
		val, diags := pair.Value.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		if val.IsNull() {
			return nil, fmt.Errorf("option %q is null", key)
		}
		values, err := stringsFromValue(val)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", key, err)
		}
		out = append(out, model.Option{Key: key, Values: values})
	}
	return out, nil
}

func optionsFromValue(expr hcl.Expression) ([]model.Option, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if ty := val.Type(); !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("options must be an object, got %s", ty.FriendlyName())
	}

	byKey := val.AsValueMap()
	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]model.Option, 0, len(keys))
	for _, key := range keys {
		if byKey[key].IsNull() {
			return nil, fmt.Errorf("option %q is null", key)
		}
		values, err := stringsFromValue(byKey[key])
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", key, err)
		}
		out = append(out, model.Option{Key: key, Values: values})
	}
	return out, nil
}
