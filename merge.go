package layerconf

import (
	"fmt"

	"dario.cat/mergo"
)

// Merge returns the deep union of higher and lower. For every path a non-nil
// value in higher wins, otherwise the value from lower is used. Nested objects
// present on both sides are merged recursively so sibling keys from both are
// kept. Arrays and scalars are replaced as a whole. A key holding nil on
// either side is still present in the result. Neither argument is modified.
func Merge(higher, lower map[string]any) (map[string]any, error) {
	dst := cloneMap(higher)
	src := cloneMap(lower)
	// WithoutDereference keeps false, 0 and "" from higher instead of treating
	// them as unset.
	if err := mergo.Merge(&dst, src, mergo.WithoutDereference); err != nil {
		return nil, fmt.Errorf("merge config layers: %w", err)
	}
	addMissingKeys(dst, src)
	return dst, nil
}

// addMissingKeys copies keys of src absent from dst. mergo skips nil source
// values, which would drop a null default before the environment can set it.
func addMissingKeys(dst, src map[string]any) {
	for k, sv := range src {
		dv, ok := dst[k]
		if !ok {
			dst[k] = sv
			continue
		}
		dm, dok := dv.(map[string]any)
		sm, sok := sv.(map[string]any)
		if dok && sok {
			addMissingKeys(dm, sm)
		}
	}
}
