package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/gltfloader/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Variables available to path expressions.
const (
	varURL          = "url"
	varResourcePath = "resource_path"
	varContext      = "context"
)

var knownVariables = map[string]bool{
	varURL:          true,
	varResourcePath: true,
	varContext:      true,
}

// functions is the set of cty functions usable anywhere in an options file.
var functions = map[string]function.Function{
	"format":        stdlib.FormatFunc,
	"lower":         stdlib.LowerFunc,
	"upper":         stdlib.UpperFunc,
	"replace":       stdlib.ReplaceFunc,
	"regex_replace": stdlib.RegexReplaceFunc,
	"trimprefix":    stdlib.TrimPrefixFunc,
	"trimsuffix":    stdlib.TrimSuffixFunc,
}

// staticEvalContext is used for attributes that may call functions but
// cannot see per-artifact variables.
func staticEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{Functions: functions}
}

func artifactEvalContext(url, resourcePath, context string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			varURL:          cty.StringVal(url),
			varResourcePath: cty.StringVal(resourcePath),
			varContext:      cty.StringVal(context),
		},
		Functions: functions,
	}
}

// translatePathOption turns an optional path attribute into a PathOption.
// Expressions without variable references are evaluated once into a
// literal; the rest become functions evaluated per artifact.
func translatePathOption(attrName string, expr hcl.Expression) (config.PathOption, hcl.Diagnostics) {
	if expr == nil {
		return config.PathOption{}, nil
	}

	refs := expr.Variables()
	if len(refs) == 0 {
		val, diags := expr.Value(staticEvalContext())
		if diags.HasErrors() {
			return config.PathOption{}, diags
		}
		if val.IsNull() {
			return config.PathOption{}, nil
		}
		s, err := ctyToString(val)
		if err != nil {
			return config.PathOption{}, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid \"" + attrName + "\" value",
				Detail:   err.Error(),
				Subject:  expr.Range().Ptr(),
			}}
		}
		return config.Literal(s), nil
	}

	var diags hcl.Diagnostics
	for _, ref := range refs {
		if !knownVariables[ref.RootName()] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown variable",
				Detail:   fmt.Sprintf("%q may only reference url, resource_path and context; found %q.", attrName, ref.RootName()),
				Subject:  ref.SourceRange().Ptr(),
			})
		}
	}
	if diags.HasErrors() {
		return config.PathOption{}, diags
	}

	return config.Func(func(url, resourcePath, context string) (string, error) {
		val, diags := expr.Value(artifactEvalContext(url, resourcePath, context))
		if diags.HasErrors() {
			return "", fmt.Errorf("failed to evaluate %s: %w", attrName, diags)
		}
		s, err := ctyToString(val)
		if err != nil {
			return "", fmt.Errorf("failed to evaluate %s: %w", attrName, err)
		}
		return s, nil
	}), nil
}

func ctyToString(val cty.Value) (string, error) {
	if val.IsNull() || !val.IsKnown() {
		return "", fmt.Errorf("value must be a known, non-null string")
	}
	converted, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot convert %s to string: %w", val.Type().FriendlyName(), err)
	}
	var s string
	if err := gocty.FromCtyValue(converted, &s); err != nil {
		return "", err
	}
	return s, nil
}
