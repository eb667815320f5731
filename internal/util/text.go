package util

import (
	"regexp"
	"strings"
)

var accentReplacer = strings.NewReplacer(
	"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U", "Ü", "U",
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u",
	"’", "'",
)

var reSpaces = regexp.MustCompile(`\s+`)

// FoldAccents rewrites accented vowels to their plain form. The extraction
// service emits type labels both ways depending on the processor version.
func FoldAccents(input string) string {
	return accentReplacer.Replace(input)
}

// NormalizeType produces the canonical form used to match entity and
// property type names: uppercased, accents folded, outer space trimmed.
func NormalizeType(input string) string {
	return FoldAccents(strings.ToUpper(strings.TrimSpace(input)))
}

// NormalizeText is NormalizeType plus inner whitespace collapsing. Used for
// free-text fields that participate in dedupe fingerprints.
func NormalizeText(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(NormalizeType(input), " "))
}

// MappingKey builds the lookup key for supplier-code matching: uppercase,
// accents folded, everything but letters and digits stripped. Tolerates the
// formatting drift between invoices and the spreadsheet-maintained catalog.
func MappingKey(input string) string {
	folded := FoldAccents(strings.ToUpper(input))
	out := strings.Builder{}
	for _, r := range folded {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out.WriteRune(r)
		}
	}
	return out.String()
}
