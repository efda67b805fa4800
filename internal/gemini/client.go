// Package gemini wraps the Google GenAI SDK for the handful of calls calmkit
// makes against the Gemini API: listing models and one-shot generation with
// optional inline images.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"calmkit/internal/config"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultBaseURL is the public Gemini API host.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/"

// Options configures a Client.
type Options struct {
	APIKey     string
	BaseURL    string // empty = DefaultBaseURL
	APIVersion string // empty = v1beta
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// OptionsFromConfig builds Options from the gemini config section.
func OptionsFromConfig(c config.GeminiConfig) Options {
	return Options{
		APIKey:     c.APIKey,
		BaseURL:    c.BaseURL,
		APIVersion: c.APIVersion,
	}
}

// Client talks to the Gemini API.
type Client struct {
	genai      *genai.Client
	baseURL    string
	apiVersion string
	logger     *zap.Logger
}

// New creates a Client. The key is required.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, config.ErrMissingAPIKey
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	apiVersion := opts.APIVersion
	if apiVersion == "" {
		apiVersion = "v1beta"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    baseURL,
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{
		genai:      client,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		logger:     logger,
	}, nil
}

// Endpoint returns the generateContent URL for model, without credentials.
func (c *Client) Endpoint(model string) string {
	return fmt.Sprintf("%s/%s/models/%s:generateContent",
		strings.TrimRight(c.baseURL, "/"), c.apiVersion, model)
}

// ModelsEndpoint returns the list-models URL, without credentials.
func (c *Client) ModelsEndpoint() string {
	return fmt.Sprintf("%s/%s/models", strings.TrimRight(c.baseURL, "/"), c.apiVersion)
}
