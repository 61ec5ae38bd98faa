package backend

import (
	"context"
	"net/http"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/domain"
)

func (c *Client) Submit(ctx context.Context, token, websiteID, url string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, token, http.MethodPost, "/api/scans", map[string]string{
		"website_id": websiteID,
		"url":        url,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) Status(ctx context.Context, token, jobID string) (domain.ScanStatus, error) {
	var out domain.ScanStatus
	err := c.do(ctx, token, http.MethodGet, "/api/scans/"+jobID+"/status", nil, &out)
	return out, err
}

func (c *Client) Results(ctx context.Context, token, scanID string) ([]domain.Violation, error) {
	var out struct {
		Violations []domain.Violation `json:"violations"`
	}
	if err := c.do(ctx, token, http.MethodGet, "/api/scans/"+scanID+"/results", nil, &out); err != nil {
		return nil, err
	}
	return out.Violations, nil
}
