package spawn

import (
	"strings"
	"unicode"
)

// spaceClass is Unicode whitespace: ASCII controls, the Zs separators,
// U+2028, U+2029 and the byte order mark. RE2's \s is ASCII-only, so a
// directive typed with a non-breaking space would otherwise be missed.
const spaceClass = `[\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]`

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// trimSpace strips leading and trailing runes in spaceClass. NEL (U+0085)
// is kept.
func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}
