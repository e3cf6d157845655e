package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Result is the recommendation contract: medicine names plus an optional
// warning to consult a doctor.
type Result struct {
	Medicines []string `json:"medicines"`
	Warning   string   `json:"warning,omitempty"`
}

type Recommender interface {
	Recommend(ctx context.Context, symptoms string) (*Result, error)
}

const systemPrompt = `You are a helpful AI assistant specializing in medicine recommendations.

Based on the symptoms provided by the user, recommend a list of medicines that can help alleviate the symptoms.
If the symptoms described seem severe or potentially dangerous, include a warning to consult a doctor immediately.`

// Gemini asks a Gemini model for recommendations, constrained to a JSON
// schema so the reply parses into a Result directly.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("recommend: API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("recommend: create client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"medicines": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"warning": {Type: genai.TypeString},
		},
		Required: []string{"medicines"},
	}
}

func (g *Gemini) Recommend(ctx context.Context, symptoms string) (*Result, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema(),
	}

	contents := genai.Text(fmt.Sprintf("Symptoms: %s", symptoms))
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("recommend: generate: %w", err)
	}

	return parseResult(resp.Text())
}

func parseResult(raw string) (*Result, error) {
	raw = strings.TrimSpace(raw)
	// some models still fence JSON despite the response schema
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var res Result
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &res); err != nil {
		return nil, fmt.Errorf("recommend: parse reply: %w", err)
	}
	if res.Medicines == nil {
		res.Medicines = []string{}
	}
	return &res, nil
}
