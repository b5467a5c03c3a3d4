package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/docgrab/docgrab/internal/common"
	"github.com/docgrab/docgrab/internal/llm"
)

// Invoke implements llm.Invoker over the Gemini generateContent API.
// One image plus one instruction string in, free-form text out.
func (c *Client) Invoke(ctx context.Context, req llm.InvokeRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.invoke.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"mime", req.MIMEType,
		"image_bytes", len(req.Image),
	)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(req.Image, req.MIMEType),
			genai.NewPartFromText(req.Prompt),
		}, genai.RoleUser),
	}
	resp, err := c.genai.Models.GenerateContent(ctx, c.cfg.Model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.cfg.Temperature),
	})
	if err != nil {
		c.log.Error("llm.invoke.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: %v", common.ErrTransport, err)
	}

	text := resp.Text()
	if text == "" {
		c.log.Error("llm.invoke.empty_reply",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: empty model reply", common.ErrTransport)
	}

	c.log.Info("llm.invoke.ok",
		"req_id", rid,
		"reply_bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// ModelInfo describes one model usable for extraction.
type ModelInfo struct {
	Name        string
	Description string
}

// ListModels returns the models on this API key that support
// generateContent.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var out []ModelInfo
	for m, err := range c.genai.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("%w: list models: %v", common.ErrTransport, err)
		}
		if !supportsGenerate(m) {
			continue
		}
		out = append(out, ModelInfo{Name: m.Name, Description: m.Description})
	}
	return out, nil
}

func supportsGenerate(m *genai.Model) bool {
	for _, action := range m.SupportedActions {
		if action == "generateContent" {
			return true
		}
	}
	return false
}
