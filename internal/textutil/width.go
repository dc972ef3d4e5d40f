// Package textutil measures and trims text by terminal display width.
package textutil

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// CSI and OSC escape sequences.
var ansiRe = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string {
	if !strings.ContainsRune(s, 0x1b) {
		return s
	}
	return ansiRe.ReplaceAllString(s, "")
}

// VisibleWidth returns the number of terminal cells s occupies. Escape
// sequences have no width and grapheme clusters are measured as a unit.
func VisibleWidth(s string) int {
	width := 0
	g := uniseg.NewGraphemes(StripANSI(s))
	for g.Next() {
		width += runewidth.StringWidth(g.Str())
	}
	return width
}

// TruncateByWidth cuts s to at most w cells without splitting a grapheme
// cluster. When s is cut and the ellipsis fits, it is appended within w.
// Escape sequences are dropped from truncated results.
func TruncateByWidth(s string, w int, ellipsis string) string {
	if w <= 0 || s == "" {
		return ""
	}
	if VisibleWidth(s) <= w {
		return s
	}
	ellW := runewidth.StringWidth(ellipsis)
	if ellW > w {
		ellipsis, ellW = "", 0
	}
	limit := w - ellW
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(StripANSI(s))
	for g.Next() {
		segW := runewidth.StringWidth(g.Str())
		if used+segW > limit {
			break
		}
		b.WriteString(g.Str())
		used += segW
	}
	return b.String() + ellipsis
}

// SingleLine folds every run of whitespace, newlines included, into one
// space so that a value fits in a table cell.
func SingleLine(s string) string {
	if !strings.ContainsAny(s, "\t\r\n") && !strings.Contains(s, "  ") {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(s), " ")
}

// PadRight pads s with spaces to a visible width of w.
func PadRight(s string, w int) string {
	if pad := w - VisibleWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// PadLeft is PadRight on the left side.
func PadLeft(s string, w int) string {
	if pad := w - VisibleWidth(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}
