package themefile

import "strings"

// Expander rewrites environment placeholders embedded in a value.
type Expander func(string) string

// Lookup resolves a variable name.
type Lookup func(name string) (string, bool)

// NoExpansion leaves values untouched.
func NoExpansion(s string) string { return s }

// MapLookup resolves names from vars first, then from fallback if set.
// Windows variable names are case-insensitive, so a second pass ignores case.
func MapLookup(vars map[string]string, fallback Lookup) Lookup {
	return func(name string) (string, bool) {
		if v, ok := vars[name]; ok {
			return v, true
		}
		for k, v := range vars {
			if strings.EqualFold(k, name) {
				return v, true
			}
		}
		if fallback != nil {
			return fallback(name)
		}
		return "", false
	}
}

// EnvExpander expands %NAME% and ${NAME} placeholders using lookup.
// Unknown placeholders are kept verbatim.
func EnvExpander(lookup Lookup) Expander {
	return func(s string) string {
		s = expandDelimited(s, "%", "%", lookup)
		return expandDelimited(s, "${", "}", lookup)
	}
}

func expandDelimited(s, open, close string, lookup Lookup) string {
	if !strings.Contains(s, open) {
		return s
	}
	var b strings.Builder
	for {
		start := strings.Index(s, open)
		if start < 0 {
			break
		}
		rest := s[start+len(open):]
		end := strings.Index(rest, close)
		if end < 0 {
			break
		}
		name := rest[:end]
		b.WriteString(s[:start])
		if v, ok := lookup(name); ok && name != "" {
			b.WriteString(v)
			s = rest[end+len(close):]
			continue
		}
		// Keep the opening delimiter and rescan from the closing one, which
		// may open the next placeholder ("100%%TEMP%").
		b.WriteString(open)
		b.WriteString(name)
		s = rest[end:]
		if open == close {
			continue
		}
		b.WriteString(close)
		s = s[len(close):]
	}
	b.WriteString(s)
	return b.String()
}
