package helpers

import "strings"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeXML escapes &, < and > so the value can be embedded in XML directly
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// CollapseSpaces collapses runs of two or more spaces to a single space.
// For example, "1 190  kr" becomes "1 190 kr".
func CollapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
