package substitution

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ParseIfJSONShaped inspects s and, if it looks like a JSON object or
// array, parses and returns the decoded value. Otherwise it returns s
// unchanged. This is the "pre-parse JSON-shaped strings once before
// injection" rule (§4.4): without it, a string value that is itself a
// JSON document would be encoded a second time when the engine later
// JSON-marshals the whole env for script injection or selector parsing,
// producing a double-escaped string in the target runtime.
func ParseIfJSONShaped(s string) interface{} {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	first := trimmed[0]
	if first != '{' && first != '[' {
		return s
	}
	if !gjson.Valid(trimmed) {
		return s
	}
	return gjson.Parse(trimmed).Value()
}

// ParseSelectorsPayload applies ParseIfJSONShaped to every string value in
// a selectors map, matching step 4.1.1.4's "parsing string selector
// payloads as JSON when they are JSON-shaped" requirement.
func ParseSelectorsPayload(selectors map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(selectors))
	for k, v := range selectors {
		if s, ok := v.(string); ok {
			out[k] = ParseIfJSONShaped(s)
			continue
		}
		out[k] = v
	}
	return out
}
