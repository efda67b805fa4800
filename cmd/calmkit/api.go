package main

import (
	"errors"
	"fmt"

	"calmkit/cmd/calmkit/ui"
	"calmkit/internal/config"
	"calmkit/internal/gemini"
	"calmkit/internal/logging"

	"github.com/spf13/cobra"
)

// newClient builds a Gemini client from the loaded config.
func newClient(cmd *cobra.Command) (*gemini.Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	opts := gemini.OptionsFromConfig(cfg.Gemini)
	opts.Logger = logs.Get(logging.CategoryAPI)
	return gemini.New(cmd.Context(), opts)
}

// printEndpoint shows where a request goes and which key it carries.
func printEndpoint(p *ui.Printer, endpoint string) {
	p.Printf("\n📍 Endpoint: %s\n", endpoint)
	p.Printf("🔑 API Key: %s\n", config.MaskKey(cfg.Gemini.APIKey))
}

// reportAPIError prints a failed call the way a developer needs to see it:
// the HTTP status, the server's message and a hint.
func reportAPIError(p *ui.Printer, err error) {
	var statusErr *gemini.StatusError
	var timeoutErr *gemini.TimeoutError
	switch {
	case errors.As(err, &statusErr):
		p.Println()
		p.Fail("Error %d", statusErr.Code)
		p.Println()
		p.Println("📋 Response:")
		if statusErr.Status != "" {
			p.Printf("   %s: %s\n", statusErr.Status, statusErr.Message)
		} else {
			p.Printf("   %s\n", statusErr.Message)
		}
		if hint := statusErr.Hint(); hint != "" {
			p.Printf("\n💡 %s\n", hint)
		}
	case errors.As(err, &timeoutErr):
		p.Fail("ERROR: Request timeout (%s)", timeoutErr.Timeout)
	default:
		p.Fail("ERROR: %v", err)
	}
}

// reportEmptyReply prints a 200 reply that carried no candidate text,
// typically a blocked prompt. The raw response is shown so the block
// reason can be read.
func reportEmptyReply(p *ui.Printer, res *gemini.Result) {
	p.Println()
	p.OK("HTTP Status: 200")
	if res != nil && res.BlockReason != "" {
		p.Warn("No candidates in response (block reason: %s)", res.BlockReason)
	} else {
		p.Warn("No candidates in response")
	}
	if res != nil && len(res.Raw) > 0 {
		p.Println("\n📦 Response:")
		p.Println(string(res.Raw))
	}
}

// probeFailed wraps err so the exit status is non-zero after the details
// were already printed.
func probeFailed(name string, err error) error {
	return fmt.Errorf("%s failed: %w", name, err)
}
