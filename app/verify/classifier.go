package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode"
)

type Label string

const (
	LabelReal Label = "real"
	LabelFake Label = "fake"
)

// Classification is the raw output of the text classifier: a binary label
// and the classifier's own probability on a 0-100 scale.
type Classification struct {
	Label      Label
	Confidence float64
}

// Classifier is the pre-trained text classification backend, consumed as a
// black box.
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// maxClassifierWords bounds the text sent to the classifier; headlines plus
// a lead paragraph carry the signal, full bodies just add latency.
const maxClassifierWords = 120

// CleanText lowercases and strips non-alphanumeric characters, matching the
// preprocessing the classification model was trained with.
func CleanText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ShortText truncates the text to the classifier's input window.
func ShortText(text string) string {
	words := strings.Fields(text)
	if len(words) > maxClassifierWords {
		words = words[:maxClassifierWords]
	}
	return strings.Join(words, " ")
}

// MLClient talks to the external classification service over HTTP.
type MLClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ Classifier = (*MLClient)(nil)

func NewMLClient(endpoint, apiKey string, client *http.Client) *MLClient {
	return &MLClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   client,
	}
}

func (c *MLClient) Classify(ctx context.Context, text string) (Classification, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Classification{}, fmt.Errorf("marshal classify payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/classify", bytes.NewReader(payload))
	if err != nil {
		return Classification{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Classification{}, fmt.Errorf("classify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Classification{}, fmt.Errorf("classifier unexpected status %s", resp.Status)
	}

	var data struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Classification{}, fmt.Errorf("decode classify response: %w", err)
	}

	label := Label(strings.ToLower(data.Label))
	if label != LabelReal && label != LabelFake {
		return Classification{}, fmt.Errorf("classifier returned unknown label %q", data.Label)
	}
	if data.Confidence < 0 || data.Confidence > 100 {
		return Classification{}, fmt.Errorf("classifier confidence out of range: %v", data.Confidence)
	}

	return Classification{Label: label, Confidence: data.Confidence}, nil
}

// sensationalMarkers carry a weak fake-news signal used only when no
// classification service is configured.
var sensationalMarkers = []string{
	"shocking", "you won't believe", "miracle", "secret", "exposed",
	"banned", "viral", "must watch", "urgent", "forwarded as received",
	"100% proof", "share before deleted",
}

// KeywordClassifier is a degraded fallback used when CLASSIFIER_URL is not
// configured, so the pipeline keeps running without the ML backend. It
// deliberately reports low confidence.
type KeywordClassifier struct{}

var _ Classifier = (*KeywordClassifier)(nil)

func (KeywordClassifier) Classify(_ context.Context, text string) (Classification, error) {
	lower := strings.ToLower(text)

	hits := 0
	for _, marker := range sensationalMarkers {
		if strings.Contains(lower, marker) {
			hits++
		}
	}

	if hits >= 2 {
		return Classification{Label: LabelFake, Confidence: 65}, nil
	}
	if hits == 1 {
		return Classification{Label: LabelFake, Confidence: 55}, nil
	}
	return Classification{Label: LabelReal, Confidence: 55}, nil
}
