package research

import (
	"strings"
	"unicode"
)

// SanitizeBrand reduces a brand name to lower-case alphanumerics for use as
// the base of candidate domain names. An empty result means the brand name
// cannot be researched at all.
func SanitizeBrand(brandName string) string {
	var b strings.Builder
	for _, r := range brandName {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
