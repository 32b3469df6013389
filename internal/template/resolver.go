package template

// Resolve decides the effective value for each distinct argument name:
// the supplied value if present (an explicit empty string is a valid
// override), else the declared default, else the empty string. Missing or
// extra entries in supplied are never an error. When the same name appears
// in several specs, the first occurrence establishes its default.
func Resolve(specs []ArgumentSpec, supplied map[string]string) map[string]string {
	values := make(map[string]string, len(specs))
	for _, spec := range specs {
		if _, seen := values[spec.Name]; seen {
			continue
		}
		switch v, ok := supplied[spec.Name]; {
		case ok:
			values[spec.Name] = v
		case spec.HasDefault:
			values[spec.Name] = spec.Default
		default:
			values[spec.Name] = ""
		}
	}
	return values
}

// DistinctSpecs collapses specs sharing a name down to their first
// occurrence, preserving order. The UI builds one form field per entry.
func DistinctSpecs(specs []ArgumentSpec) []ArgumentSpec {
	seen := make(map[string]bool, len(specs))
	var distinct []ArgumentSpec
	for _, spec := range specs {
		if seen[spec.Name] {
			continue
		}
		seen[spec.Name] = true
		distinct = append(distinct, spec)
	}
	return distinct
}
