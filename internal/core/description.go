package core

import "strings"

// DescriptionSeparator joins the label and attribute values.
const DescriptionSeparator = " - "

// ComposeDescription renders "*LABEL - v1 - v2 ... TAGS".
// Blank values are skipped. The tag string follows a single space and is
// omitted, together with that space, when empty.
func ComposeDescription(label string, values []string, tagString string) string {
	parts := make([]string, 0, len(values)+1)
	parts = append(parts, strings.TrimSpace(label))
	parts = append(parts, nonBlank(values)...)

	var b strings.Builder
	b.WriteString("*")
	b.WriteString(strings.Join(parts, DescriptionSeparator))
	if tagString = strings.TrimSpace(tagString); tagString != "" {
		b.WriteString(" ")
		b.WriteString(tagString)
	}
	return b.String()
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
