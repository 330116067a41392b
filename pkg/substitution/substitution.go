// Package substitution implements the Variable Substitutor: recursive
// {{name}} placeholder replacement across a step's argument tree against
// a flattened context.
package substitution

import (
	"encoding/json"
	"regexp"
	"strconv"
)

var placeholder = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_.]*)\s*\}\}`)

// Context is the flattened name→value lookup substitution resolves
// placeholders against.
type Context map[string]interface{}

// Substitute walks value recursively (maps, slices, strings) and replaces
// every {{name}} occurrence with the stringified context value. A string
// that is *entirely* one placeholder ("{{count}}") substitutes the raw
// typed value rather than its string form, so numbers/bools/objects
// survive into the argument tree instead of being stringified.
//
// Substitution is idempotent: running it twice on an already-substituted
// tree is a no-op, because a fully substituted tree contains no more
// {{...}} placeholders for the regexp to match.
func Substitute(value interface{}, ctx Context) interface{} {
	switch v := value.(type) {
	case string:
		return substituteString(v, ctx)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[k] = Substitute(val, ctx)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = Substitute(val, ctx)
		}
		return out
	default:
		return value
	}
}

func substituteString(s string, ctx Context) interface{} {
	if m := placeholder.FindStringSubmatch(s); m != nil && m[0] == s {
		if val, ok := lookup(ctx, m[1]); ok {
			return val
		}
		return s
	}
	return placeholder.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		val, ok := lookup(ctx, name)
		if !ok {
			return match
		}
		return stringify(val)
	})
}

func lookup(ctx Context, name string) (interface{}, bool) {
	v, ok := ctx[name]
	return v, ok
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
