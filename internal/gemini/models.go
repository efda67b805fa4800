package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ModelInfo is one entry of the model catalogue.
type ModelInfo struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	DisplayName      string   `json:"displayName,omitempty"`
	Description      string   `json:"description,omitempty"`
	Methods          []string `json:"supportedGenerationMethods"`
	InputTokenLimit  int32    `json:"inputTokenLimit,omitempty"`
	OutputTokenLimit int32    `json:"outputTokenLimit,omitempty"`
}

// SupportsGenerate reports whether the model accepts generateContent.
func (m ModelInfo) SupportsGenerate() bool {
	for _, method := range m.Methods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}

// ListModels returns every base model, following pagination to the end.
func (c *Client) ListModels(ctx context.Context, timeout time.Duration) ([]ModelInfo, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	page, err := c.genai.Models.List(ctx, &genai.ListModelsConfig{QueryBase: genai.Ptr(true)})
	if err != nil {
		return nil, fmt.Errorf("list models: %w", classify(err, timeout))
	}

	models := []ModelInfo{}
	for {
		for _, m := range page.Items {
			if m == nil {
				continue
			}
			models = append(models, ModelInfo{
				ID:               strings.TrimPrefix(m.Name, "models/"),
				Name:             m.Name,
				DisplayName:      m.DisplayName,
				Description:      m.Description,
				Methods:          m.SupportedActions,
				InputTokenLimit:  m.InputTokenLimit,
				OutputTokenLimit: m.OutputTokenLimit,
			})
		}

		page, err = page.Next(ctx)
		if errors.Is(err, genai.ErrPageDone) {
			break
		}
		if err != nil {
			return models, fmt.Errorf("list models: %w", classify(err, timeout))
		}
	}

	c.logger.Debug("Models listed",
		zap.Int("count", len(models)),
		zap.Duration("latency", time.Since(start)))

	return models, nil
}
