package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Estimate is the structured result of a meal-photo analysis.
type Estimate struct {
	DishName   string  `json:"dish_name"`
	Calories   float64 `json:"estimated_calories"`
	ProteinG   float64 `json:"protein_g"`
	CarbsG     float64 `json:"carbs_g"`
	FatG       float64 `json:"fat_g"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// Client estimates meal nutrition from food photos.
type Client interface {
	EstimateMeal(ctx context.Context, image []byte, mimeType string) (*Estimate, error)
}

// HTTPClient calls the Gemini vision REST API.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

// Config holds configuration for the Gemini client.
type Config struct {
	APIKey  string
	Model   string        // Default: gemini-2.0-flash
	Timeout time.Duration // Default: 30s
}

// NewHTTPClient creates a new Gemini HTTP client.
func NewHTTPClient(config Config) *HTTPClient {
	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPClient{
		apiKey:  config.APIKey,
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		model:   config.Model,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
	}
}

// estimatePrompt instructs the model to answer with bare JSON.
const estimatePrompt = `You are a professional nutrition expert with expertise in portion size estimation. Analyze this food image precisely.

For the food visible in the image, estimate the dish name, total calories, macros in grams, and your confidence (0.0 to 1.0), with a brief rationale (60 words or less).

IMPORTANT: Return ONLY valid JSON, no markdown code blocks or surrounding text. Use this exact format:
{"dish_name": "name", "estimated_calories": 350, "protein_g": 20, "carbs_g": 40, "fat_g": 12, "confidence": 0.85, "rationale": "..."}`

// Internal Gemini request/response types.
type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// EstimateMeal sends the image to the vision model and parses its JSON reply.
func (c *HTTPClient) EstimateMeal(ctx context.Context, image []byte, mimeType string) (*Estimate, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: estimatePrompt},
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
		GenerationConfig: generationConfig{
			Temperature:     0.4,
			MaxOutputTokens: 500,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("response has no candidates")
	}

	content := cleanJSON(geminiResp.Candidates[0].Content.Parts[0].Text)
	var estimate Estimate
	if err := json.Unmarshal([]byte(content), &estimate); err != nil {
		return nil, fmt.Errorf("invalid JSON from model: %w", err)
	}
	if estimate.DishName == "" {
		return nil, fmt.Errorf("model response missing dish_name")
	}
	return &estimate, nil
}

// cleanJSON strips a markdown code fence the model sometimes adds anyway.
func cleanJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = content[7:]
	} else if strings.HasPrefix(content, "```") {
		content = content[3:]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// StubClient returns a fixed estimate; used when no API key is configured so
// the endpoint stays functional in development.
type StubClient struct{}

var _ Client = (*StubClient)(nil)

// NewStubClient creates the keyless stub.
func NewStubClient() *StubClient {
	return &StubClient{}
}

// EstimateMeal returns a deterministic placeholder estimate.
func (s *StubClient) EstimateMeal(_ context.Context, _ []byte, _ string) (*Estimate, error) {
	return &Estimate{
		DishName:   "Mixed Plate",
		Calories:   450,
		ProteinG:   25,
		CarbsG:     45,
		FatG:       15,
		Confidence: 0.3,
		Rationale:  "No vision model configured; returning a typical balanced-plate estimate.",
	}, nil
}
