package websites

import (
	"context"
	"testing"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/domain"
)

type fakeCatalog struct {
	addedURL    string
	addedDomain string
}

func (f *fakeCatalog) ListWebsites(context.Context, string) ([]domain.Website, error) {
	return nil, nil
}

func (f *fakeCatalog) AddWebsite(_ context.Context, _, url, registrable string) (domain.Website, error) {
	f.addedURL = url
	f.addedDomain = registrable
	return domain.Website{ID: "site-1", URL: url, Domain: registrable}, nil
}

func (f *fakeCatalog) RemoveWebsite(context.Context, string, string) error { return nil }

func (f *fakeCatalog) ListScans(context.Context, string) ([]domain.Scan, error) { return nil, nil }

func TestNormalize(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://www.example.co.uk/path?q=1", "example.co.uk", false},
		{"https://sub.deep.example.com", "example.com", false},
		{"http://localhost:3000", "localhost", false},
		{"not a url", "", true},
		{"/relative/only", "", true},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.url)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Normalize(%q): expected error", tt.url)
			}
			continue
		}
		if err != nil {
			t.Errorf("Normalize(%q): %v", tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestRegisterPassesRegistrableDomain(t *testing.T) {
	cat := &fakeCatalog{}
	svc := New(cat)

	site, err := svc.Register(context.Background(), "tok", "https://www.example.co.uk/about")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if cat.addedDomain != "example.co.uk" {
		t.Fatalf("registrable domain = %q, want %q", cat.addedDomain, "example.co.uk")
	}
	if site.URL != "https://www.example.co.uk/about" {
		t.Fatalf("original url not preserved: %q", site.URL)
	}
}

func TestRegisterRejectsBadURL(t *testing.T) {
	svc := New(&fakeCatalog{})
	if _, err := svc.Register(context.Background(), "tok", "nope"); err == nil {
		t.Fatal("expected error for unparseable url")
	}
}
