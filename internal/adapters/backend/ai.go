package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/domain"
)

func (c *Client) Analyze(ctx context.Context, token, scanID string) (domain.AIAnalysis, error) {
	var raw json.RawMessage
	err := c.do(ctx, token, http.MethodPost, "/api/ai/analyze", map[string]string{
		"scan_id": scanID,
	}, &raw)
	if err != nil {
		return domain.AIAnalysis{}, err
	}
	return domain.ParseAIAnalysis(raw), nil
}

func (c *Client) AltText(ctx context.Context, token, imageURL, pageContext string) (domain.AltTextSuggestion, error) {
	var out domain.AltTextSuggestion
	err := c.do(ctx, token, http.MethodPost, "/api/ai/alt-text", map[string]string{
		"image_url": imageURL,
		"context":   pageContext,
	}, &out)
	if err != nil {
		return domain.AltTextSuggestion{}, err
	}
	if out.ImageURL == "" {
		out.ImageURL = imageURL
	}
	return out, nil
}
