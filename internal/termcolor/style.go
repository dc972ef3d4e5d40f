package termcolor

import (
	"strconv"
	"strings"
)

// RGB is a 24-bit color.
type RGB [3]uint8

type Style struct {
	Bold      bool
	Dim       bool
	Underline bool
	FGBasic   *int
	FG256     *int
	FGTrue    *RGB
}

// Apply wraps text in SGR sequences for s. Disabled or empty styles return
// text unchanged.
func Apply(s Style, text string, enabled bool) string {
	if !enabled || text == "" {
		return text
	}
	codes := s.codes()
	if codes == "" {
		return text
	}
	return "\x1b[" + codes + "m" + text + "\x1b[0m"
}

func (s Style) codes() string {
	parts := make([]string, 0, 4)
	if s.Bold {
		parts = append(parts, "1")
	}
	if s.Dim {
		parts = append(parts, "2")
	}
	if s.Underline {
		parts = append(parts, "4")
	}
	switch {
	case s.FGTrue != nil:
		c := *s.FGTrue
		parts = append(parts, "38;2;"+strconv.Itoa(int(c[0]))+";"+strconv.Itoa(int(c[1]))+";"+strconv.Itoa(int(c[2])))
	case s.FG256 != nil:
		parts = append(parts, "38;5;"+strconv.Itoa(*s.FG256))
	case s.FGBasic != nil:
		parts = append(parts, "3"+strconv.Itoa(*s.FGBasic))
	}
	return strings.Join(parts, ";")
}
