package llm

import "encoding/json"

// ExtractJSONObjects scans free-form model output for balanced top-level JSON
// objects, tolerating prose before, between, and after them. Candidates that
// fail to parse are skipped silently; the model occasionally wraps brace-
// balanced commentary around the real payload.
//
// The scanner tracks string literals and escape sequences, so a brace inside
// quoted text cannot skew the depth count.
func ExtractJSONObjects(raw string) []map[string]any {
	var out []map[string]any

	depth := 0
	inString := false
	escaped := false
	start := -1

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue // stray closing brace in surrounding prose
			}
			depth--
			if depth == 0 && start >= 0 {
				var m map[string]any
				if err := json.Unmarshal([]byte(raw[start:i+1]), &m); err == nil {
					out = append(out, m)
				}
				start = -1
			}
		}
	}
	return out
}
