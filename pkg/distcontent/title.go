package distcontent

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// DeriveTitle turns a file name into a human-readable display title:
// the extension is stripped, underscore/hyphen separators and camelCase
// boundaries become spaces, and each word is title-cased.
//
//	"visum_palm_user_manual_v2.pdf" -> "Visum Palm User Manual V2"
//	"deviceFirmwareUpdate.bin"      -> "Device Firmware Update"
func DeriveTitle(fileName string) string {
	name := fileName
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}

	var b strings.Builder
	b.Grow(len(name) + 8)
	prev := rune(0)
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.' || r == ' ':
			r = ' '
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, " ")
}
