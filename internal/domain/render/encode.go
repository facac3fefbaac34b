package render

import (
	"strconv"
	"strings"
)

// HTMLEncode replaces every character outside [A-Za-z0-9. ] with its
// decimal numeric character reference, so "<" becomes "&#60;".
func HTMLEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isPlain(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteString("&#")
		b.WriteString(strconv.Itoa(int(r)))
		b.WriteByte(';')
	}
	return b.String()
}

func isPlain(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.' || r == ' ':
		return true
	}
	return false
}
