// Package cvparse extracts a candidate profile patch from raw CV text
// using the Gemini API, validating the model's output against an embedded
// JSON schema before it reaches the profile store.
package cvparse

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/api/option"

	"github.com/minji/jobradar/internal/types"
)

//go:embed candidate_profile.schema.json
var profileSchema string

const (
	defaultModel = "gemini-2.0-flash"

	// Anything shorter than this is not a CV.
	minTextLength = 40
)

// Parser extracts a profile patch from free-form CV text.
type Parser interface {
	ParseResume(ctx context.Context, text string) (*types.ProfilePatch, error)
	Close() error
}

// GeminiParser implements Parser on top of the Gemini API.
type GeminiParser struct {
	client *genai.Client
	model  string
}

// NewGeminiParser creates a parser. model may be empty to use the default.
func NewGeminiParser(ctx context.Context, apiKey, model string) (*GeminiParser, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiParser{client: client, model: model}, nil
}

// ParseResume sends the CV text to the model and returns the extracted
// patch. The response must satisfy the embedded schema; anything else
// surfaces as a *ParseError so callers can fall back to an empty patch.
func (p *GeminiParser) ParseResume(ctx context.Context, text string) (*types.ProfilePatch, error) {
	if len(strings.TrimSpace(text)) < minTextLength {
		return nil, ErrTextTooShort
	}

	model := p.client.GenerativeModel(p.model)
	model.SetTemperature(0.1) // Low temperature for consistent output
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(text)))
	if err != nil {
		return nil, &APICallError{Message: "generate content", Cause: err}
	}

	raw, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, &ParseError{Message: "empty response", Cause: err}
	}

	return DecodePatch(CleanJSONBlock(raw))
}

// Close releases the underlying API client.
func (p *GeminiParser) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// DecodePatch validates a JSON document against the profile patch schema
// and unmarshals it. Exposed separately so the model round-trip and the
// decode step can be tested independently.
func DecodePatch(jsonText string) (*types.ProfilePatch, error) {
	schemaLoader := gojsonschema.NewStringLoader(profileSchema)
	documentLoader := gojsonschema.NewStringLoader(jsonText)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, &ParseError{Message: "response is not valid JSON", Cause: err}
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, &ParseError{Message: "response does not match profile schema: " + strings.Join(details, "; ")}
	}

	var patch types.ProfilePatch
	if err := json.Unmarshal([]byte(jsonText), &patch); err != nil {
		return nil, &ParseError{Message: "unmarshal patch", Cause: err}
	}
	return &patch, nil
}

func buildPrompt(cvText string) string {
	var sb strings.Builder
	sb.WriteString("Extract a candidate profile from the CV text below.\n\n")
	sb.WriteString("Return ONLY a JSON object with these optional fields:\n")
	sb.WriteString("- targetRoles: []string — roles the candidate is suited for (e.g. \"Business Analyst\")\n")
	sb.WriteString("- skills: []string — concrete tools and skills (e.g. \"SQL\", \"Tableau\")\n")
	sb.WriteString("- domains: []string — industry domains worked in\n")
	sb.WriteString("- preferredRegions: []string — locations mentioned as preferred or current\n")
	sb.WriteString("- experienceLevel: one of \"junior\", \"mid\", \"senior\", \"lead\"\n")
	sb.WriteString("- summary: string — one-sentence summary of the candidate\n\n")
	sb.WriteString("Omit any field you cannot determine. Do not invent information.\n\n")
	sb.WriteString("CV text:\n")
	sb.WriteString(cvText)
	return sb.String()
}

// extractTextFromResponse extracts text from a Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
