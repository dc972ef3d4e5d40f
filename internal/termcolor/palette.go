package termcolor

// Palette holds the styles used by the table writer.
type Palette struct {
	Header   Style
	Location Style
	Lang     Style
	Marker   Style
	Issue    Style
	Title    Style
	Muted    Style
}

type role struct {
	basic int
	dark  RGB
	light RGB
}

var (
	roleLocation = role{basic: 6, dark: RGB{86, 182, 194}, light: RGB{0, 110, 130}}
	roleLang     = role{basic: 5, dark: RGB{198, 120, 221}, light: RGB{140, 60, 170}}
	roleMarker   = role{basic: 4, dark: RGB{97, 175, 239}, light: RGB{30, 90, 200}}
	roleIssue    = role{basic: 3, dark: RGB{229, 192, 123}, light: RGB{150, 100, 0}}
)

// NewPalette picks colors for the background scheme and the color profile.
// Truecolor and 256-color styles are adjusted to a 4.5:1 contrast ratio
// against the scheme's background.
func NewPalette(scheme Scheme, profile Profile) Palette {
	bg := scheme.Background()
	pick := func(r role) Style {
		c := r.dark
		if scheme == SchemeLight {
			c = r.light
		}
		c = EnsureContrast(c, bg, 4.5)
		switch profile {
		case ProfileTrueColor:
			return Style{FGTrue: &c}
		case ProfileANSI256:
			idx := rgbToANSI256(c)
			return Style{FG256: &idx}
		default:
			basic := r.basic
			return Style{FGBasic: &basic}
		}
	}
	marker := pick(roleMarker)
	marker.Bold = true
	return Palette{
		Header:   Style{Bold: true, Underline: true},
		Location: pick(roleLocation),
		Lang:     pick(roleLang),
		Marker:   marker,
		Issue:    pick(roleIssue),
		Title:    Style{},
		Muted:    Style{Dim: true},
	}
}

// ForField returns the style for an output field key.
func (p Palette) ForField(key string) Style {
	switch key {
	case "location", "file", "line", "column":
		return p.Location
	case "lang":
		return p.Lang
	case "marker":
		return p.Marker
	case "issue":
		return p.Issue
	case "title", "payload":
		return p.Title
	case "kind", "description", "url", "issue_url":
		return p.Muted
	default:
		return Style{}
	}
}
