package ast

// ScanPlaceholders counts unescaped `{}` occurrences in a decoded string
// literal's contents. `{{` and `}}` are escapes producing a literal brace
// and do not count (spec.md §4.3's print format-mode rule). Shared between
// the semantic analyzer (to validate the placeholder count) and the
// emitter (to decide whether a print call becomes `.format(...)`), so both
// stages agree on exactly the same strings.
func ScanPlaceholders(s string) int {
	count := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				i++
				continue
			}
			if i+1 < len(s) && s[i+1] == '}' {
				count++
				i++
			}
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				i++
			}
		}
	}
	return count
}
