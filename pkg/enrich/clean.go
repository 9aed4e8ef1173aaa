package enrich

import "strings"

// CleanOutput strips the formatting the webhook's language model wraps
// around its JSON: code fences, escaped and literal newlines (replaced by a
// space) and backslashes. Replacements apply in that order.
func CleanOutput(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.ReplaceAll(s, `\n`, " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, `\`, "")
	return s
}

// cleanBody applies CleanOutput to the "output" field of an object or of
// every object in an array. Other values pass through unchanged.
func cleanBody(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if out, ok := t["output"].(string); ok {
			t["output"] = CleanOutput(out)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = cleanBody(item)
		}
		return t
	default:
		return v
	}
}
