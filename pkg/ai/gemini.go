package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/callnote-team/callnote/pkg/config"
)

// extractionPrompt is the fixed instruction sent alongside the call audio.
// The model must answer with a bare JSON object and nothing else.
const extractionPrompt = `この電話録音を分析し、以下のJSON形式で出力してください：
{
"caller": "発信者名（名乗っていない場合は'不明'）",
"purpose": "用件",
"action_required": ["対応が必要なこと1", "対応が必要なこと2"],
"urgency": "高/中/低",
"summary": "要約"
}
JSONのみを出力し、他の文字は含めないでください。`

// GeminiClient is a minimal client for the Gemini generateContent API
type GeminiClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGeminiClient creates a Gemini client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewGeminiClient(cfg *config.GeminiConfig) *GeminiClient {
	var apiKey, base, model string
	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
		model = cfg.Model
	}
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if base == "" {
		base = os.Getenv("GEMINI_API_URL")
		if base == "" {
			base = "https://generativelanguage.googleapis.com"
		}
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// inlineData carries base64-encoded media for the model
type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// contentPart is one element of a generateContent request or response
type contentPart struct {
	InlineData *inlineData `json:"inline_data,omitempty"`
	Text       string      `json:"text,omitempty"`
}

type content struct {
	Parts []contentPart `json:"parts"`
}

// GenerateRequest is the shape for generateContent requests
type GenerateRequest struct {
	Contents []content `json:"contents"`
}

// GenerateResponse is a minimal response shape
type GenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ExtractSummary submits the recording audio with the fixed extraction
// prompt and returns the raw model text of the first candidate. The text
// is expected to be a JSON object; parsing happens in the intake layer.
func (g *GeminiClient) ExtractSummary(ctx context.Context, audio []byte, mimeType string) (string, error) {
	reqBody := GenerateRequest{
		Contents: []content{{
			Parts: []contentPart{
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(audio),
				}},
				{Text: extractionPrompt},
			},
		}},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var gr GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}
