package verify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultTrustUnknown is the prior for publishers absent from the table.
const defaultTrustUnknown = 0.5

var trustedSources = map[string]float64{
	"The Hindu":          0.9,
	"Business Standard":  0.9,
	"PTI":                0.88,
	"The Indian Express": 0.88,
	"Economic Times":     0.85,
	"The Times of India": 0.85,
	"Mint":               0.85,
	"ANI":                0.82,
	"NDTV":               0.82,
	"Hindustan Times":    0.82,
	"India Today":        0.80,
	"CNBC-TV18":          0.80,
	"News18":             0.78,
	"The Print":          0.78,
	"Scroll.in":          0.78,
	"Deccan Herald":      0.78,
	"The Wire":           0.75,
	"Tribune India":      0.75,
	"Outlook India":      0.75,
}

var questionableSources = map[string]float64{
	"Unknown":      0.3,
	"Social Media": 0.2,
	"[Removed]":    0.0,
}

// Credibility is the static publisher trust table, optionally extended from
// a YAML overrides file. Scores are in [0,1] and used only as a dampening
// signal by the verifier, never alone.
type Credibility struct {
	scores map[string]float64
}

func NewCredibility() *Credibility {
	scores := make(map[string]float64, len(trustedSources)+len(questionableSources))
	for name, score := range trustedSources {
		scores[name] = score
	}
	for name, score := range questionableSources {
		scores[name] = score
	}
	return &Credibility{scores: scores}
}

// LoadOverrides merges publisher scores from a YAML file of the form
// `Publisher Name: 0.85`. Overrides win over the built-in table.
func (c *Credibility) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read credibility file: %w", err)
	}

	overrides := make(map[string]float64)
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse credibility file: %w", err)
	}

	for name, score := range overrides {
		if score < 0 || score > 1 {
			return fmt.Errorf("trust score for %q out of range [0,1]: %v", name, score)
		}
		c.scores[name] = score
	}

	return nil
}

// Trust returns the publisher's trust score, or 0.5 for unknown publishers.
func (c *Credibility) Trust(sourceName string) float64 {
	if score, ok := c.scores[sourceName]; ok {
		return score
	}
	return defaultTrustUnknown
}
