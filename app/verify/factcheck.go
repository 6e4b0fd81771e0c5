package verify

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const factCheckEndpoint = "https://factchecktools.googleapis.com/v1alpha1/claims:search"

// FactCheckResult is a published claim review matched to a claim.
type FactCheckResult struct {
	Rating    string
	Publisher string
	URL       string
}

// FactChecker looks a claim up in an external claim-review index. A nil
// result with nil error means no review was found.
type FactChecker interface {
	Check(ctx context.Context, text string) (*FactCheckResult, error)
}

// GoogleFactChecker queries the Google Fact Check Tools claim search API.
type GoogleFactChecker struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

var _ FactChecker = (*GoogleFactChecker)(nil)

func NewGoogleFactChecker(apiKey string, client *http.Client) *GoogleFactChecker {
	return &GoogleFactChecker{
		apiKey:   apiKey,
		endpoint: factCheckEndpoint,
		client:   client,
	}
}

func (g *GoogleFactChecker) Enabled() bool {
	return g.apiKey != ""
}

func (g *GoogleFactChecker) Check(ctx context.Context, text string) (*FactCheckResult, error) {
	if !g.Enabled() || text == "" {
		return nil, nil
	}

	query := text
	if len(query) > 200 {
		query = query[:200]
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create fact check request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fact check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fact check unexpected status %s", resp.Status)
	}

	var data struct {
		Claims []struct {
			ClaimReview []struct {
				TextualRating string `json:"textualRating"`
				URL           string `json:"url"`
				Publisher     struct {
					Name string `json:"name"`
				} `json:"publisher"`
			} `json:"claimReview"`
		} `json:"claims"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode fact check response: %w", err)
	}

	if len(data.Claims) == 0 || len(data.Claims[0].ClaimReview) == 0 {
		return nil, nil
	}

	review := data.Claims[0].ClaimReview[0]
	return &FactCheckResult{
		Rating:    cmp.Or(review.TextualRating, "Unknown"),
		Publisher: cmp.Or(review.Publisher.Name, "Unknown"),
		URL:       review.URL,
	}, nil
}
