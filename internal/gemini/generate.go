package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	// TextProbePrompt asks for a tiny JSON document in JSON response mode.
	TextProbePrompt = `Say 'API is working!' in JSON format: {"status": "working"}`
	// VisionProbePrompt accompanies the inline image of the vision probe.
	VisionProbePrompt = "What is this image? Describe it briefly."
	// ModelProbePrompt is the plain-text check used against a named model.
	ModelProbePrompt = "Say 'API is working!' in one sentence"
)

// Request is a single generateContent call.
type Request struct {
	Model        string
	Prompt       string
	Temperature  float32
	JSONResponse bool
	Image        []byte
	ImageMIME    string
	Timeout      time.Duration
}

// Usage is the token accounting of a response.
type Usage struct {
	PromptTokens    int32
	CandidateTokens int32
	TotalTokens     int32
}

// Result is a successful generateContent reply.
type Result struct {
	Model   string
	Text    string
	Raw     []byte // indented JSON of the full response
	Latency time.Duration
	Usage   Usage
	// BlockReason is set when the prompt was blocked and no candidates came back.
	BlockReason string
}

// Generate sends one user turn and returns the first candidate's text.
// A reply without text yields ErrEmptyResponse together with a Result
// whose Raw field is set.
func (c *Client) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("model required")
	}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if len(req.Image) > 0 {
		mime := req.ImageMIME
		if mime == "" {
			mime = "image/png"
		}
		parts = append(parts, genai.NewPartFromBytes(req.Image, mime))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.JSONResponse {
		cfg.ResponseMIMEType = "application/json"
	}

	c.logger.Debug("Sending generateContent",
		zap.String("model", req.Model),
		zap.Bool("json", req.JSONResponse),
		zap.Int("image_bytes", len(req.Image)),
		zap.Duration("timeout", req.Timeout))

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, req.Model, contents, cfg)
	latency := time.Since(start)
	if err != nil {
		c.logger.Warn("generateContent failed",
			zap.String("model", req.Model),
			zap.Duration("latency", latency),
			zap.Error(err))
		return nil, classify(err, req.Timeout)
	}

	res := &Result{Model: req.Model, Latency: latency}
	if raw, err := json.MarshalIndent(resp, "", "  "); err == nil {
		res.Raw = raw
	}
	if u := resp.UsageMetadata; u != nil {
		res.Usage = Usage{
			PromptTokens:    u.PromptTokenCount,
			CandidateTokens: u.CandidatesTokenCount,
			TotalTokens:     u.TotalTokenCount,
		}
	}

	if pf := resp.PromptFeedback; pf != nil {
		res.BlockReason = string(pf.BlockReason)
	}

	res.Text = firstText(resp)
	c.logger.Info("generateContent succeeded",
		zap.String("model", req.Model),
		zap.Duration("latency", latency),
		zap.Int32("total_tokens", res.Usage.TotalTokens))

	if res.Text == "" {
		c.logger.Warn("generateContent returned no text",
			zap.String("model", req.Model),
			zap.String("block_reason", res.BlockReason))
		return res, ErrEmptyResponse
	}
	return res, nil
}

// firstText returns the first text part of the first candidate.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	for _, p := range cand.Content.Parts {
		if p != nil && p.Text != "" {
			return p.Text
		}
	}
	return ""
}

// ProbeText checks JSON-mode text generation.
func (c *Client) ProbeText(ctx context.Context, model string, temperature float32, timeout time.Duration) (*Result, error) {
	return c.Generate(ctx, Request{
		Model:        model,
		Prompt:       TextProbePrompt,
		Temperature:  temperature,
		JSONResponse: true,
		Timeout:      timeout,
	})
}

// ProbeVision checks generation with an inline image.
func (c *Client) ProbeVision(ctx context.Context, model string, image []byte, mime string, temperature float32, timeout time.Duration) (*Result, error) {
	return c.Generate(ctx, Request{
		Model:       model,
		Prompt:      VisionProbePrompt,
		Temperature: temperature,
		Image:       image,
		ImageMIME:   mime,
		Timeout:     timeout,
	})
}

// ProbeModel checks that a named model answers a plain prompt.
func (c *Client) ProbeModel(ctx context.Context, model string, temperature float32, timeout time.Duration) (*Result, error) {
	return c.Generate(ctx, Request{
		Model:       model,
		Prompt:      ModelProbePrompt,
		Temperature: temperature,
		Timeout:     timeout,
	})
}
