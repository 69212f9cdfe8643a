package layerconf

import (
	"sort"
	"strconv"
	"strings"
)

// normalizeEnvKey lowercases a name and replaces "." with "_", so both
// SERVER_PORT and server.port address the server.port path.
func normalizeEnvKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), ".", "_")
}

// buildEnvMap normalizes the environment names. With a prefix only variables
// named <prefix>_... are kept, with the prefix stripped. When several names
// normalize to the same key the lexically greatest original name wins.
func buildEnvMap(vars map[string]string, prefix string) map[string]string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var p string
	if prefix != "" {
		p = normalizeEnvKey(prefix) + "_"
	}

	out := make(map[string]string, len(vars))
	for _, name := range names {
		key := normalizeEnvKey(name)
		if p != "" {
			var ok bool
			if key, ok = strings.CutPrefix(key, p); !ok || key == "" {
				continue
			}
		}
		out[key] = vars[name]
	}
	return out
}

// overlayEnv replaces values of node in place with environment values whose
// normalized name matches the path of the key, e.g. server_port for
// server.port. Empty environment values are ignored. Array elements are
// addressed by index (list_0).
//
// The walk descends into the value a key held before it was overwritten, so a
// nested object replaced by an environment string is still visited under the
// extended prefix. The replaced object is no longer reachable from node, which
// makes those nested matches invisible in the result.
func overlayEnv(node any, envMap map[string]string, prefix string) {
	if len(envMap) == 0 {
		return
	}
	switch n := node.(type) {
	case map[string]any:
		for key, child := range n {
			path := prefix + normalizeEnvKey(key)
			if v := envMap[path]; v != "" {
				n[key] = v
			}
			overlayEnv(child, envMap, path+"_")
		}
	case []any:
		for i, child := range n {
			path := prefix + strconv.Itoa(i)
			if v := envMap[path]; v != "" {
				n[i] = v
			}
			overlayEnv(child, envMap, path+"_")
		}
	}
}
