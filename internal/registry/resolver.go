package registry

// Resolve overlays an override set on a registry's defaults. Precedence is
// default < override. Override keys that are not in the registry are dropped,
// not stored and not reported. An explicit zero override is honored as-is;
// numerical stability is the engine's concern, not the resolver's.
//
// Resolve is pure: it never mutates its inputs and holds no cache, so a
// late-arriving override is always honored on the next call.
func Resolve(specs []ParameterSpec, overrides map[string]float64) map[string]float64 {
	resolved := make(map[string]float64, len(specs))
	for _, s := range specs {
		if v, ok := overrides[s.Name]; ok {
			resolved[s.Name] = v
		} else {
			resolved[s.Name] = s.Default
		}
	}
	return resolved
}
