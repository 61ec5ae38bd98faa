package websites

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/net/publicsuffix"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/domain"
	"github.com/SentryPrime1/sentryprime-dashboard/internal/ports"
)

type Service struct {
	catalog ports.CatalogService
}

func New(catalog ports.CatalogService) *Service { return &Service{catalog: catalog} }

// Register normalizes the URL to its registrable domain (eTLD+1) and adds
// the site to the remote catalog.
func (s *Service) Register(ctx context.Context, token, rawurl string) (domain.Website, error) {
	registrable, err := Normalize(rawurl)
	if err != nil {
		return domain.Website{}, err
	}
	return s.catalog.AddWebsite(ctx, token, rawurl, registrable)
}

func (s *Service) List(ctx context.Context, token string) ([]domain.Website, error) {
	return s.catalog.ListWebsites(ctx, token)
}

func (s *Service) Remove(ctx context.Context, token, websiteID string) error {
	return s.catalog.RemoveWebsite(ctx, token, websiteID)
}

func (s *Service) Scans(ctx context.Context, token string) ([]domain.Scan, error) {
	return s.catalog.ListScans(ctx, token)
}

// Normalize extracts the registrable domain from a site URL, falling back
// to the bare hostname for hosts outside the public suffix list.
func Normalize(rawurl string) (string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid website url %q", rawurl)
	}
	host := u.Hostname()
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		registrable = host
	}
	return registrable, nil
}
