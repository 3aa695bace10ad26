// Package intake normalizes loosely-structured intake submissions into the
// typed business profile consumed by the prompt and provisioning layers.
package intake

import (
	_ "embed"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel stands in for absent or junk data everywhere downstream. Profile
// fields are never empty strings; they are either real values or Sentinel.
const Sentinel = "Not provided"

// Record is a raw intake submission: field name to scalar, or to the
// {output: scalar} wrapper some form automations emit.
type Record map[string]any

//go:embed aliases.yaml
var aliasesYAML []byte

// aliasTable maps canonical field names to submission key aliases,
// in priority order.
var aliasTable map[string][]string

func init() {
	if err := yaml.Unmarshal(aliasesYAML, &aliasTable); err != nil {
		panic("intake: parse aliases.yaml: " + err.Error())
	}
}

// Aliases returns the submission keys tried for a canonical field.
// Unknown fields return nil.
func Aliases(field string) []string {
	return aliasTable[field]
}

// Resolve returns the first present value among the given keys, unwrapping
// the {output: value} convention, or fallback if none is present. A value is
// present when it is non-nil and not the empty string. Absence is not an
// error; Resolve never fails.
func (r Record) Resolve(keys []string, fallback string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		s := unwrap(v)
		if s != "" {
			return s
		}
	}
	return fallback
}

// Field resolves a canonical field through the alias table and sanitizes the
// result. Missing or junk values come back as the Sentinel.
func (r Record) Field(field string) string {
	return Clean(r.Resolve(Aliases(field), Sentinel))
}

// DryRun reports whether the submission asked for a test-mode run. The flag
// arrives under several keys and casings and as either a bool or a string;
// "true" and "yes" count regardless of case.
func (r Record) DryRun() bool {
	raw := r.Resolve(Aliases("dry_run"), "")
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1":
		return true
	}
	return false
}

// unwrap converts a raw submission value to a string, descending into the
// {output: value} wrapper when present.
func unwrap(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if out, ok := val["output"]; ok {
			return unwrap(out)
		}
		return ""
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		// JSON numbers decode as float64; render integers without a fraction.
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}
