package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/researchaccelerator-hub/channel-insights/model"
	"github.com/rs/zerolog/log"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash-exp-image-generation:generateContent"

// GeminiClient implements the ImageGenerator interface against the
// Gemini image-generation endpoint.
type GeminiClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewGeminiClient creates a new Gemini image-generation client.
func NewGeminiClient(apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	return &GeminiClient{
		apiKey:   apiKey,
		endpoint: geminiEndpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
		ResponseMimeType   string   `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateImage sends the prompt, with the reference image first when
// one is attached, and returns the inline image from the first
// candidate. Faults propagate to the caller unchanged; there is no
// retry here.
func (c *GeminiClient) GenerateImage(ctx context.Context, prompt, imageBase64, mimeType string) (*model.ImageResult, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	parts := []geminiPart{{Text: prompt}}
	if imageBase64 != "" {
		if mimeType == "" {
			mimeType = "image/png"
		}
		parts = append([]geminiPart{{InlineData: &geminiInlineData{MimeType: mimeType, Data: imageBase64}}}, parts...)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
	}
	reqBody.GenerationConfig.ResponseModalities = []string{"TEXT", "IMAGE"}
	reqBody.GenerationConfig.ResponseMimeType = "text/plain"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image generation request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", c.endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build image generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Info().Int("prompt_len", len(prompt)).Bool("has_anchor", imageBase64 != "").Msg("Requesting image generation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image generation response: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode image generation response: %w", err)
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("image generation failed: %s", parsed.Error.Message)
	}

	if len(parsed.Candidates) == 0 || parsed.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no image in response")
	}

	for _, part := range parsed.Candidates[0].Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			result := &model.ImageResult{
				ImageBase64: part.InlineData.Data,
				MimeType:    part.InlineData.MimeType,
			}
			if result.MimeType == "" {
				result.MimeType = "image/png"
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("no image in response")
}
