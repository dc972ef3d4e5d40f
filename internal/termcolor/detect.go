package termcolor

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

type ColorMode int

const (
	ModeAuto ColorMode = iota
	ModeAlways
	ModeNever
)

var modeNames = [...]string{ModeAuto: "auto", ModeAlways: "always", ModeNever: "never"}

func (m ColorMode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "auto"
	}
	return modeNames[m]
}

func ParseMode(v string) (ColorMode, error) {
	name := strings.ToLower(strings.TrimSpace(v))
	if name == "" {
		return ModeAuto, nil
	}
	for m, n := range modeNames {
		if n == name {
			return ColorMode(m), nil
		}
	}
	return ModeAuto, fmt.Errorf("unknown color mode: %s", v)
}

// Profile is the richest color encoding the terminal is expected to accept.
type Profile int

const (
	ProfileBasic8 Profile = iota
	ProfileANSI256
	ProfileTrueColor
)

// EnvMap turns os.Environ-style entries into a map.
func EnvMap(values []string) map[string]string {
	env := make(map[string]string, len(values))
	for _, entry := range values {
		if entry == "" {
			continue
		}
		key, value, _ := strings.Cut(entry, "=")
		env[key] = value
	}
	return env
}

// Resolve decides whether output written to out should carry SGR sequences.
// For ModeAuto the environment is consulted first:
//
//	TERM=dumb, NO_COLOR, CLICOLOR=0      disable
//	CLICOLOR_FORCE, FORCE_COLOR (not 0)  enable
//
// and otherwise colors follow whether out is a terminal.
func Resolve(mode ColorMode, out *os.File, env map[string]string) bool {
	switch mode {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	}
	if env != nil {
		switch {
		case strings.EqualFold(strings.TrimSpace(env["TERM"]), "dumb"):
			return false
		case strings.TrimSpace(env["NO_COLOR"]) != "":
			return false
		case strings.TrimSpace(env["CLICOLOR"]) == "0":
			return false
		case forced(env["CLICOLOR_FORCE"]), forced(env["FORCE_COLOR"]):
			return true
		}
	}
	return isTerminal(out)
}

// DetectProfile inspects COLORTERM and TERM.
func DetectProfile(env map[string]string) Profile {
	colorterm := strings.ToLower(env["COLORTERM"])
	for _, hint := range []string{"truecolor", "24bit", "24-bit"} {
		if strings.Contains(colorterm, hint) {
			return ProfileTrueColor
		}
	}
	if strings.Contains(strings.ToLower(env["TERM"]), "256color") {
		return ProfileANSI256
	}
	return ProfileBasic8
}

func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

func forced(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != "0"
}
