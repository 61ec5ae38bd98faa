package ports

import (
	"context"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/domain"
)

// AuthService authenticates against the remote user store.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (token string, user domain.User, err error)
	Login(ctx context.Context, email, password string) (token string, user domain.User, err error)
}

// CatalogService lists and mutates the remote website/scan catalog. Once a
// job's progress record is removed, the catalog is the only authority on
// that scan's state.
type CatalogService interface {
	ListWebsites(ctx context.Context, token string) ([]domain.Website, error)
	AddWebsite(ctx context.Context, token, url, registrable string) (domain.Website, error)
	RemoveWebsite(ctx context.Context, token, websiteID string) error
	ListScans(ctx context.Context, token string) ([]domain.Scan, error)
}

// ScanService submits and tracks remote scan jobs.
type ScanService interface {
	Submit(ctx context.Context, token, websiteID, url string) (jobID string, err error)
	Status(ctx context.Context, token, jobID string) (domain.ScanStatus, error)
	Results(ctx context.Context, token, scanID string) ([]domain.Violation, error)
}

// AIService provides remediation analysis and image alt-text generation.
type AIService interface {
	Analyze(ctx context.Context, token, scanID string) (domain.AIAnalysis, error)
	AltText(ctx context.Context, token, imageURL, pageContext string) (domain.AltTextSuggestion, error)
}
