package parts

import (
	"regexp"
	"strings"
)

// sizeRegex matches pump sizes written as "6x8", "6 X 8" or "6*8".
var sizeRegex = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*[xX*]\s*(\d+(?:\.\d+)?)(.*)$`)

// NormalizeSize converts pump sizes to the "6x8" form.
// Values that are not a recognisable size are returned trimmed.
func NormalizeSize(s string) string {
	s = strings.TrimSpace(s)
	m := sizeRegex.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return m[1] + "x" + m[2] + strings.ToUpper(strings.TrimSpace(m[3]))
}

// NormalizeUpper upper-cases model and code attributes.
func NormalizeUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeDiameter renders diameters in millimetres, e.g. "320" -> "D320".
func NormalizeDiameter(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "MM")
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "D") {
		return s
	}
	return "D" + s
}
