package verify

import (
	"regexp"
	"strings"
)

type ClaimType string

const (
	ClaimHistorical ClaimType = "HISTORICAL"
	ClaimPolicy     ClaimType = "POLICY"
	ClaimGeneral    ClaimType = "GENERAL"
)

var historicalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(19|20)\d{2}\b`),
	regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+(19|20)\d{2}\b`),
	regexp.MustCompile(`\b(born|died|founded|established|independence|war|battle|signed|passed)\b`),
	regexp.MustCompile(`\b(was|were|had been|became)\b.*\b(first|second|third|last)\b`),
	regexp.MustCompile(`\b(history|historical|ancient|medieval|century|era|period)\b`),
}

var policyKeywords = []string{
	"government", "policy", "minister", "prime minister", "president",
	"parliament", "bill", "law", "regulation", "scheme", "yojana",
	"budget", "tax", "amendment", "cabinet", "announced", "launches",
	"ministry", "department", "official", "statement",
}

// DetectClaimType classifies a claim as historical, policy-related or
// general by pattern matching over dates and keywords.
func DetectClaimType(text string) ClaimType {
	if text == "" {
		return ClaimGeneral
	}

	lower := strings.ToLower(text)

	for _, pattern := range historicalPatterns {
		if pattern.MatchString(lower) {
			return ClaimHistorical
		}
	}

	for _, keyword := range policyKeywords {
		if strings.Contains(lower, keyword) {
			return ClaimPolicy
		}
	}

	return ClaimGeneral
}
