package layerconf

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberRe accepts an optional sign, an integer or decimal part and an
// optional exponent. The exponent does not require a decimal part (1e3).
var numberRe = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?$`)

var (
	trueWords  = []string{"true", "on", "yes", "enable", "enabled"}
	falseWords = []string{"false", "off", "no", "disable", "disabled"}
)

// Decode converts a string into a bool or float64 when it looks like one:
//
//	true, on, yes, enable, enabled      -> true
//	false, off, no, disable, disabled   -> false
//	42, -1.5, .5, 3.14e2                -> float64
//
// Words are matched case-insensitively. Numbers that overflow float64 and any
// other string are returned unchanged.
func Decode(s string) any {
	for _, w := range trueWords {
		if strings.EqualFold(s, w) {
			return true
		}
	}
	for _, w := range falseWords {
		if strings.EqualFold(s, w) {
			return false
		}
	}
	if numberRe.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) {
			return f
		}
	}
	return s
}

// DecodeTree returns a copy of v with Decode applied to every string leaf,
// including array elements. Other values are copied unchanged.
func DecodeTree(v any) any {
	switch t := v.(type) {
	case string:
		return Decode(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = DecodeTree(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = DecodeTree(e)
		}
		return out
	default:
		return v
	}
}
