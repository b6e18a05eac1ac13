package extract

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// mojibake maps UTF-8 punctuation that was decoded as Windows-1252 back to ASCII.
var mojibake = strings.NewReplacer(
	"â€™", "'",
	"â€˜", "'",
	"â€œ", `"`,
	"â€\u009d", `"`,
	"â€�", `"`,
	"â€“", "-",
	"â€”", "-",
	"â€¦", "...",
	"Â\u00a0", " ",
	"\r\n", "\n",
	"\r", "\n",
)

var horizontalSpace = regexp.MustCompile(`[ \t\f\v]+`)

// Normalize removes encoding artifacts from raw document text: the byte order
// mark, zero-width and other format runes, non-breaking spaces, common mojibake
// and carriage returns. The result is NFC-normalized.
func Normalize(raw string) string {
	t := transform.Chain(
		runes.Remove(runes.In(unicode.Cf)),
		runes.Map(func(r rune) rune {
			if r == '\u00a0' || r == '\u2007' || r == '\u202f' {
				return ' '
			}
			return r
		}),
		norm.NFC,
	)
	out, _, err := transform.String(t, mojibake.Replace(raw))
	if err != nil {
		return mojibake.Replace(raw)
	}
	return out
}

// FormatExplanation collapses horizontal whitespace, trims every line and drops
// empty lines while keeping the line breaks between the remaining ones.
func FormatExplanation(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// cleanLine trims a single captured line and collapses its inner whitespace.
func cleanLine(s string) string {
	return strings.TrimSpace(horizontalSpace.ReplaceAllString(s, " "))
}
