package backend

import (
	"context"
	"net/http"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/domain"
)

func (c *Client) ListWebsites(ctx context.Context, token string) ([]domain.Website, error) {
	var out struct {
		Websites []domain.Website `json:"websites"`
	}
	if err := c.do(ctx, token, http.MethodGet, "/api/websites", nil, &out); err != nil {
		return nil, err
	}
	return out.Websites, nil
}

func (c *Client) AddWebsite(ctx context.Context, token, url, registrable string) (domain.Website, error) {
	var out domain.Website
	err := c.do(ctx, token, http.MethodPost, "/api/websites", map[string]string{
		"url":    url,
		"domain": registrable,
	}, &out)
	return out, err
}

func (c *Client) RemoveWebsite(ctx context.Context, token, websiteID string) error {
	return c.do(ctx, token, http.MethodDelete, "/api/websites/"+websiteID, nil, nil)
}

func (c *Client) ListScans(ctx context.Context, token string) ([]domain.Scan, error) {
	var out struct {
		Scans []domain.Scan `json:"scans"`
	}
	if err := c.do(ctx, token, http.MethodGet, "/api/scans", nil, &out); err != nil {
		return nil, err
	}
	return out.Scans, nil
}
