package config

import "strings"

// Resolve returns the last non-nil value, or def when every layer is unset.
func Resolve[T any](def T, values ...*T) T {
	result := def
	for _, v := range values {
		if v != nil {
			result = *v
		}
	}
	return result
}

// ResolveStrings is Resolve for lists. An explicitly empty layer clears the
// list instead of being treated as unset.
func ResolveStrings(def []string, values ...*[]string) []string {
	result := cloneStrings(def)
	for _, v := range values {
		if v == nil {
			continue
		}
		if len(*v) == 0 {
			result = []string{}
			continue
		}
		result = cloneStrings(*v)
	}
	return result
}

func ResolveAndTrim(def string, values ...*string) string {
	return strings.TrimSpace(Resolve(def, values...))
}
