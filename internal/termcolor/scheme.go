package termcolor

import (
	"strconv"
	"strings"
)

// Scheme is the terminal background brightness.
type Scheme int

const (
	SchemeDark Scheme = iota
	SchemeLight
)

// DetectScheme reads the background index from COLORFGBG ("fg;bg" or
// "fg;default;bg"); 7 and above are light. Without it, a TERM name containing
// "light" selects SchemeLight.
func DetectScheme(env map[string]string) Scheme {
	if raw := strings.TrimSpace(env["COLORFGBG"]); raw != "" {
		parts := strings.Split(raw, ";")
		bg := strings.TrimSpace(parts[len(parts)-1])
		if bg == "" && len(parts) >= 2 {
			bg = strings.TrimSpace(parts[len(parts)-2])
		}
		if n, err := strconv.Atoi(bg); err == nil && n >= 0 {
			if n >= 7 {
				return SchemeLight
			}
			return SchemeDark
		}
	}
	if strings.Contains(strings.ToLower(env["TERM"]), "light") {
		return SchemeLight
	}
	return SchemeDark
}

// Background approximates the terminal background for contrast checks.
func (s Scheme) Background() RGB {
	if s == SchemeLight {
		return RGB{249, 250, 251}
	}
	return RGB{30, 30, 30}
}
