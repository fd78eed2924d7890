package report

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// The core PDF fonts only cover cp1252, so Vietnamese text is folded to
// plain Latin letters before it is drawn.
var stripMarks = runes.Remove(runes.In(unicode.Mn))

var dStroke = runes.Map(func(r rune) rune {
	switch r {
	case 'đ':
		return 'd'
	case 'Đ':
		return 'D'
	}
	return r
})

func fold(value string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, stripMarks, dStroke, norm.NFC), value)
	if err != nil {
		return value
	}
	return strings.TrimSpace(folded)
}
