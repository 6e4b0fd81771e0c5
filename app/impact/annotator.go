package impact

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Impact is one societal-impact bullet attached to a verified article.
type Impact struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// impactCount is the conventional number of bullets per article.
const impactCount = 4

// generateTimeout bounds one completion call so a hung backend cannot
// stall the collection batch.
const generateTimeout = 15 * time.Second

// Annotator generates impact commentary for a verdict. It never fails past
// its boundary: a missing credential or any backend error falls back to a
// fixed default set, so storage always receives a non-empty impacts value.
type Annotator struct {
	client *openai.Client
}

func NewAnnotator(apiKey string) *Annotator {
	a := &Annotator{}
	if apiKey != "" {
		a.client = openai.NewClient(apiKey)
	}
	return a
}

// Enabled reports whether the generation backend is configured.
func (a *Annotator) Enabled() bool {
	return a.client != nil
}

// Generate produces impact bullets for the article. isFake selects between
// harm-focused and benefit-focused commentary.
func (a *Annotator) Generate(ctx context.Context, headline, description string, isFake bool) []Impact {
	if !a.Enabled() {
		return defaults(isFake)
	}

	impacts, err := a.generate(ctx, headline, description, isFake)
	if err != nil {
		slog.Warn("Impact generation failed, using defaults", "error", err)
		return defaults(isFake)
	}

	return impacts
}

func (a *Annotator) generate(ctx context.Context, headline, description string, isFake bool) ([]Impact, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(isFake),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("News Headline: %s\nDescription: %s", headline, description),
			},
		},
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	var impacts []Impact
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &impacts); err != nil {
		return nil, fmt.Errorf("failed to parse impacts JSON: %w", err)
	}

	if len(impacts) == 0 {
		return nil, fmt.Errorf("empty impacts list")
	}
	if len(impacts) > impactCount {
		impacts = impacts[:impactCount]
	}

	return impacts, nil
}

func systemPrompt(isFake bool) string {
	if isFake {
		return `You analyze the societal impact of FAKE news. Given a fake news article, ` +
			`generate exactly 4 specific harmful impacts on society. Each has a short title ` +
			`(3-5 words) and one sentence describing how this particular fake news harms people. ` +
			`Respond with only a JSON array of objects with fields "icon", "title", "description". ` +
			`Use these icons: 🧠 (manipulation), 😰 (fear/panic), 🤝 (social division), ` +
			`💔 (reputation damage), ⚖️ (democracy), ⚕️ (health risks).`
	}
	return `You analyze the societal impact of REAL, verified news. Given a real news article, ` +
		`generate exactly 4 specific positive impacts on society. Each has a short title ` +
		`(3-5 words) and one sentence describing how this particular news benefits people. ` +
		`Respond with only a JSON array of objects with fields "icon", "title", "description". ` +
		`Use these icons: 📚 (education), 🏛️ (democracy), 🤝 (unity), 💡 (awareness), ` +
		`🌍 (global), 🛡️ (safety).`
}

func defaults(isFake bool) []Impact {
	if isFake {
		return []Impact{
			{Icon: "🧠", Title: "Manipulates Opinion", Description: "This misinformation deliberately misleads people and creates false beliefs."},
			{Icon: "😰", Title: "Spreads Panic", Description: "False claims can cause unnecessary fear and anxiety in communities."},
			{Icon: "🤝", Title: "Divides Society", Description: "Creates polarization and damages trust between different groups."},
			{Icon: "💔", Title: "Harms Reputations", Description: "Can unfairly damage the reputation of individuals or organizations."},
		}
	}
	return []Impact{
		{Icon: "📚", Title: "Educates Citizens", Description: "Accurate information helps people understand important issues."},
		{Icon: "🏛️", Title: "Strengthens Democracy", Description: "Truthful journalism enables informed democratic participation."},
		{Icon: "🤝", Title: "Builds Trust", Description: "Reliable reporting fosters social cohesion and understanding."},
		{Icon: "💡", Title: "Enables Decisions", Description: "Access to facts helps people make better life choices."},
	}
}
