package annotate

import (
	"strconv"
	"strings"

	"go4.org/mem"

	"github.com/phyten/tagscan/internal/scan"
)

// textLine is one line of comment text with its decoration removed. off is
// the source offset of text[0].
type textLine struct {
	text []byte
	off  int
}

type position struct {
	line int
	col  int
}

type hit struct {
	at    position // first byte of the marker
	after position // first byte of the payload
	issue int
}

// strip removes comment delimiters and the usual decoration: one space after
// a line comment token; per-line indentation, a leading '*' and one space in
// block comments.
func strip(sp scan.Span, src []byte) []textLine {
	start := sp.Start + len(sp.Open)
	end := sp.End - len(sp.Close)
	if end < start {
		end = start
	}
	if sp.Kind == scan.LineComment {
		body := trimCR(src[start:end])
		if len(body) > 0 && body[0] == ' ' {
			return []textLine{{text: body[1:], off: start + 1}}
		}
		return []textLine{{text: body, off: start}}
	}

	var out []textLine
	for at := start; ; {
		stop := end
		if nl := mem.IndexByte(mem.B(src[at:end]), '\n'); nl >= 0 {
			stop = at + nl
		}
		out = append(out, decorateless(src[at:stop], at))
		if stop == end {
			break
		}
		at = stop + 1
	}
	return out
}

func decorateless(seg []byte, off int) textLine {
	seg = trimCR(seg)
	i := 0
	for i < len(seg) && (seg[i] == ' ' || seg[i] == '\t') {
		i++
	}
	if i < len(seg) && seg[i] == '*' {
		i++
		if i < len(seg) && seg[i] == ' ' {
			i++
		}
	}
	return textLine{text: seg[i:], off: off + i}
}

func trimCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}

// findMarker lists every standalone occurrence of marker, in order.
func findMarker(lines []textLine, marker string) []hit {
	var hits []hit
	for li, ln := range lines {
		for from := 0; from < len(ln.text); {
			i := mem.Index(mem.B(ln.text[from:]), mem.S(marker))
			if i < 0 {
				break
			}
			at := from + i
			from = at + 1
			if at > 0 && !isSpace(ln.text[at-1]) {
				continue
			}
			after := at + len(marker)
			issue, n, ok := issueSuffix(ln.text[after:])
			if !ok {
				continue
			}
			after += n
			if after < len(ln.text) && !isSpace(ln.text[after]) {
				continue
			}
			hits = append(hits, hit{
				at:    position{line: li, col: at},
				after: position{line: li, col: after},
				issue: issue,
			})
			from = after
		}
	}
	return hits
}

// issueSuffix recognizes "(#123)" at the start of b. ok is false when the
// number does not fit in an int.
func issueSuffix(b []byte) (num, n int, ok bool) {
	if len(b) < 2 || b[0] != '(' || b[1] != '#' {
		return 0, 0, true
	}
	i := 2
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	if i == 2 || i >= len(b) || b[i] != ')' {
		return 0, 0, true
	}
	num, err := strconv.Atoi(string(b[2:i]))
	if err != nil {
		return 0, 0, false
	}
	return num, i + 1, true
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

// collectPayload joins the text from 'from' up to 'to', one line per source
// line, right-trimming each and trimming the whole.
func collectPayload(lines []textLine, from, to position) string {
	var parts []string
	for li := from.line; li < len(lines) && li <= to.line; li++ {
		text := lines[li].text
		lo, hi := 0, len(text)
		if li == from.line {
			lo = from.col
		}
		if li == to.line {
			hi = to.col
		}
		if lo > hi {
			lo = hi
		}
		parts = append(parts, strings.TrimRight(string(text[lo:hi]), " \t"))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
