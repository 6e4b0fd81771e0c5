package collector

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// normalizeTitle case-folds the headline and strips everything but letters,
// digits and spaces, so mirrored copies with trivial punctuation or casing
// differences fingerprint identically.
func normalizeTitle(title string) string {
	folded := folder.String(title)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}

// ContentFingerprint hashes the normalized headline together with the
// publish date. Granularity is per day: the same story syndicated under a
// different URL on the same day collides, which is the point.
func ContentFingerprint(title, publishedAt string) string {
	date := publishedAt
	if len(date) > 10 {
		date = date[:10]
	}

	sum := md5.Sum([]byte(normalizeTitle(title) + "|" + date))
	return hex.EncodeToString(sum[:])
}
