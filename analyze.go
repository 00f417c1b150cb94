package screener

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
)

const (
	// DefaultModel is asked first; FallbackModel is tried once when the
	// API reports the configured model does not exist.
	DefaultModel  = "gpt-5"
	FallbackModel = "gpt-4o"

	openAIBaseURL   = "https://api.openai.com/v1"
	analysisTimeout = 6 * time.Minute
)

const systemPrompt = "You are an expert at detecting fake LinkedIn profiles and fraudulent candidates. " +
	"You have years of experience identifying patterns in fake profiles and can quickly spot red flags."

const promptTemplate = `You are an expert recruiter and fraud detection specialist. Your task is to analyze a LinkedIn profile and determine if it shows signs of being a fake or fraudulent candidate profile.

First, develop a comprehensive framework/taxonomy for evaluating LinkedIn profiles for authenticity. Consider factors such as:
- Profile completeness and consistency
- Timeline gaps or inconsistencies
- Account age indicators (new accounts are often suspicious)
- Quality of content (descriptions, endorsements, posts)
- Network characteristics
- Photo authenticity indicators
- Activity patterns
- Job history credibility
- Education verification markers
- Duplicate or template-like content
- Any other red flags you deem relevant

Then, analyze the following LinkedIn profile data against your framework:

URL: %s
Page Title: %s
Meta Description: %s

Profile Content:
%s

Provide a detailed report with:
1. Your evaluation framework (brief overview)
2. Risk Assessment (Low/Medium/High)
3. Key red flags identified (if any)
4. Positive authenticity signals (if any)
5. Specific concerns or recommendations
6. Overall conclusion with confidence level

Format your response clearly for terminal output.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Analyzer sends profile documents to the reasoning service and returns its
// free-form authenticity report. The report is never persisted.
type Analyzer struct {
	client *resty.Client
	model  string
}

// NewAnalyzer creates an Analyzer bound to the given API key.
func NewAnalyzer(apiKey string) *Analyzer {
	return &Analyzer{
		client: resty.New().
			SetBaseURL(openAIBaseURL).
			SetAuthToken(apiKey).
			SetTimeout(analysisTimeout),
		model: DefaultModel,
	}
}

// WithModel overrides the model asked first.
func (a *Analyzer) WithModel(model string) *Analyzer {
	if model != "" {
		a.model = model
	}
	return a
}

// Analyze submits the document for assessment. When the configured model is
// unknown to the API the call is retried once against FallbackModel.
func (a *Analyzer) Analyze(ctx context.Context, doc *ProfileDocument) (string, error) {
	report, err := a.complete(ctx, a.model, doc)
	if err != nil && errors.Is(err, ErrModelUnavailable) && a.model != FallbackModel {
		log.Warn("model unavailable, falling back", "model", a.model, "fallback", FallbackModel)
		return a.complete(ctx, FallbackModel, doc)
	}
	return report, err
}

func (a *Analyzer) complete(ctx context.Context, model string, doc *ProfileDocument) (string, error) {
	body := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(doc)},
		},
	}

	var out chatResponse
	var apiErr apiErrorResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("call reasoning service: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		if isModelUnavailable(msg, apiErr.Error.Code) {
			return "", fmt.Errorf("%w: %s", ErrModelUnavailable, msg)
		}
		return "", fmt.Errorf("reasoning service: %s", msg)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("reasoning service: empty choices in response")
	}
	return out.Choices[0].Message.Content, nil
}

// isModelUnavailable matches the API's "no such model" error signature.
func isModelUnavailable(message, code string) bool {
	lower := strings.ToLower(message)
	return code == "model_not_found" ||
		strings.Contains(lower, "does not exist") ||
		strings.Contains(lower, "model_not_found")
}

// buildPrompt fills the instructional template, substituting "N/A" for
// missing fields the way the reasoning service expects.
func buildPrompt(doc *ProfileDocument) string {
	return fmt.Sprintf(promptTemplate,
		valueOr(doc.URL, "N/A"),
		valueOr(doc.PageTitle, "N/A"),
		valueOr(doc.MetaDescription, "N/A"),
		valueOr(doc.VisibleText, "N/A"),
	)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
