package export

import "strings"

// FileName derives a download file name from a note title. Every rune outside
// [A-Za-z0-9_-] becomes an underscore; a blank title becomes "note".
func FileName(title, ext string) string {
	if strings.TrimSpace(title) == "" {
		return "note" + ext
	}
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String() + ext
}
