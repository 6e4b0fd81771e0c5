package verify

import (
	"regexp"
	"strings"
)

var futurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bwill\b`),
	regexp.MustCompile(`\bgoing to\b`),
	regexp.MustCompile(`\bshall\b`),
	regexp.MustCompile(`\bplans to\b`),
	regexp.MustCompile(`\bexpects to\b`),
	regexp.MustCompile(`\bintends to\b`),
	regexp.MustCompile(`\bscheduled to\b`),
	regexp.MustCompile(`\bto be\s+\w+ed\b`),
	regexp.MustCompile(`\bupcoming\b`),
	regexp.MustCompile(`\bnext (week|month|year)\b`),
	regexp.MustCompile(`\bin (the )?(future|coming days|near future)\b`),
	regexp.MustCompile(`\bsoon\b`),
	regexp.MustCompile(`\bahead\b`),
}

// ContainsFutureTense reports whether the text describes a future or
// planned event. Such claims cannot be fact-checked against the record
// and need official confirmation instead.
func ContainsFutureTense(text string) bool {
	if text == "" {
		return false
	}

	lower := strings.ToLower(text)
	for _, pattern := range futurePatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}

	return false
}
