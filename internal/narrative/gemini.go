package narrative

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/encoding"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini implements Narrator and Judge on top of the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *Gemini) Narrate(ctx context.Context, spec SectionSpec) (string, error) {
	return g.generate(ctx, NarrationPrompt(spec), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.4),
	})
}

func (g *Gemini) Judge(ctx context.Context, req JudgeRequest) (Judgement, error) {
	text, err := g.generate(ctx, JudgePrompt(req), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return Judgement{}, err
	}
	return ParseJudgement(text)
}

// NarrationPrompt builds the prompt for one section. The model may only use
// the listed facts.
func NarrationPrompt(spec SectionSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite the %q section of a business AI readiness report.\n", spec.Title)
	b.WriteString("Write two or three plain sentences for an executive reader. Use only these facts:\n")
	b.WriteString(sortedFacts(spec.Facts))
	b.WriteString("\nDraft:\n")
	b.WriteString(spec.Draft)
	b.WriteString("\n")
	return b.String()
}

// JudgePrompt builds the prompt asking for a JSON judgement.
func JudgePrompt(req JudgeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score the following report excerpt for the criterion %q (%s) from 0 to 100.\n", req.Criterion, req.CriterionID)
	if req.Guidance != "" {
		b.WriteString("Guidance: " + req.Guidance + "\n")
	}
	b.WriteString(`Answer with JSON only: {"score": <number>, "rationale": "<one sentence>"}` + "\n\n")
	b.WriteString("Excerpt:\n")
	b.WriteString(req.Excerpt)
	b.WriteString("\n")
	return b.String()
}

// ParseJudgement decodes a judge answer, tolerating a fenced code block.
func ParseJudgement(text string) (Judgement, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var j Judgement
	if err := encoding.UnmarshalJSON([]byte(strings.TrimSpace(text)), &j); err != nil {
		return Judgement{}, fmt.Errorf("%w: %v", ErrInvalidJudgement, err)
	}
	if err := j.Validate(); err != nil {
		return Judgement{}, err
	}
	return j, nil
}
