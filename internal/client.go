package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes bounds how much of an upstream body is read
const maxResponseBytes = 10 * 1024 * 1024

// GenerationParameters are the sampling settings sent with every chat prompt
type GenerationParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	TopP           float64 `json:"top_p"`
	DoSample       bool    `json:"do_sample"`
	ReturnFullText bool    `json:"return_full_text"`
}

// DefaultGenerationParameters returns the fixed chat sampling settings
func DefaultGenerationParameters() GenerationParameters {
	return GenerationParameters{
		MaxNewTokens:   5000,
		Temperature:    0.2,
		TopP:           0.9,
		DoSample:       true,
		ReturnFullText: false,
	}
}

// TextGenerator completes a flattened prompt
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PhotoSearcher finds a photo for a query and returns its URL
type PhotoSearcher interface {
	RandomPhoto(ctx context.Context, query string) (string, error)
}

// ImageGenerator renders an image for a prompt and returns its URL
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// newHTTPClient builds the shared client. A zero timeout disables the client deadline.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// do sends req and returns the body of a 2xx response
func do(client *http.Client, req *http.Request, endpoint string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}

// HuggingFaceClient calls the hosted text-generation inference API
type HuggingFaceClient struct {
	apiKey     string
	baseURL    string
	model      string
	params     GenerationParameters
	normalizer *Normalizer
	httpClient *http.Client
}

// NewHuggingFaceClient creates a text-generation client from config
func NewHuggingFaceClient(cfg HuggingFaceConfig, timeout time.Duration) *HuggingFaceClient {
	return &HuggingFaceClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		params:     DefaultGenerationParameters(),
		normalizer: NewNormalizer(),
		httpClient: newHTTPClient(timeout),
	}
}

type textGenerationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters GenerationParameters `json:"parameters"`
}

// Endpoint returns the model URL prompts are posted to
func (c *HuggingFaceClient) Endpoint() string {
	return c.baseURL + "/models/" + c.model
}

// Generate posts the prompt and returns the cleaned reply, FallbackReply when the model
// produced nothing usable
func (c *HuggingFaceClient) Generate(ctx context.Context, prompt string) (string, error) {
	endpoint := c.Endpoint()
	startTime := time.Now()
	LogDebug("[HuggingFace] Generate: model=%s prompt_len=%d", c.model, len(prompt))

	payload, err := json.Marshal(textGenerationRequest{Inputs: prompt, Parameters: c.params})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	body, err := do(c.httpClient, req, endpoint)
	if err != nil {
		return "", err
	}

	reply, err := c.normalizer.NormalizeReply(body)
	if err != nil {
		return "", &DecodeError{Endpoint: endpoint, Err: err}
	}

	LogDebug("[HuggingFace] Generate: completed in %v reply_len=%d", time.Since(startTime), len(reply))
	return reply, nil
}

// UnsplashClient looks up random photos by query
type UnsplashClient struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
}

// NewUnsplashClient creates a photo search client from config
func NewUnsplashClient(cfg UnsplashConfig, timeout time.Duration) *UnsplashClient {
	return &UnsplashClient{
		accessKey:  cfg.AccessKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: newHTTPClient(timeout),
	}
}

// UnsplashPhoto is the subset of a photo record that is used
type UnsplashPhoto struct {
	URLs struct {
		Small string `json:"small"`
	} `json:"urls"`
}

// RandomPhoto returns urls.small of a random photo matching query. A response without
// the field yields "".
func (c *UnsplashClient) RandomPhoto(ctx context.Context, query string) (string, error) {
	endpoint := c.baseURL + "/photos/random"
	LogDebug("[Unsplash] RandomPhoto: query=%q", query)

	params := url.Values{}
	params.Set("query", query)
	params.Set("client_id", c.accessKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := do(c.httpClient, req, endpoint)
	if err != nil {
		return "", err
	}

	var photo UnsplashPhoto
	if err := json.Unmarshal(body, &photo); err != nil {
		return "", &DecodeError{Endpoint: endpoint, Err: err}
	}

	if photo.URLs.Small == "" {
		LogWarn("[Unsplash] RandomPhoto: response has no urls.small")
	}
	return photo.URLs.Small, nil
}

// PicogenClient calls the hosted image-generation API
type PicogenClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewPicogenClient creates an image-generation client from config
func NewPicogenClient(cfg PicogenConfig, timeout time.Duration) *PicogenClient {
	return &PicogenClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: newHTTPClient(timeout),
	}
}

type imageGenerationRequest struct {
	Prompt string `json:"prompt"`
}

type imageGenerationResponse struct {
	ImageURL string `json:"image_url"`
}

// GenerateImage posts the prompt and returns image_url, "" when the response has none
func (c *PicogenClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	endpoint := c.baseURL + "/v1/generate"
	LogDebug("[Picogen] GenerateImage: prompt_len=%d", len(prompt))

	payload, err := json.Marshal(imageGenerationRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	body, err := do(c.httpClient, req, endpoint)
	if err != nil {
		return "", err
	}

	var out imageGenerationResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &DecodeError{Endpoint: endpoint, Err: err}
	}
	return out.ImageURL, nil
}
