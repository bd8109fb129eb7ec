package strategy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Gemini calls the generateContent endpoint of the Generative Language API.
type Gemini struct {
	client *resty.Client
	model  string
}

// NewGemini builds a client for baseURL (normally
// https://generativelanguage.googleapis.com).
func NewGemini(baseURL, apiKey, model string, timeout time.Duration) *Gemini {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", apiKey).
		SetTimeout(timeout)
	return &Gemini{client: c, model: model}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content `json:"contents"`
	GenerationConfig struct {
		Temperature float64 `json:"temperature"`
		TopP        float64 `json:"topP"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate returns the concatenated text of the first candidate; an empty
// answer is not an error.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	var body generateRequest
	body.Contents = []content{{Role: "user", Parts: []part{{Text: req.Prompt()}}}}
	body.GenerationConfig.Temperature = 0.8
	body.GenerationConfig.TopP = 0.95

	var out generateResponse
	var apiErr geminiError
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(&body).
		SetResult(&out).
		SetError(&apiErr).
		SetPathParam("model", g.model).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error.Message != "" {
			return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode(), apiErr.Error.Message)
		}
		return "", fmt.Errorf("gemini status %d", resp.StatusCode())
	}
	if len(out.Candidates) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
