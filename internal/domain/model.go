package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Core domain models. Everything here mirrors what the remote backend
// reports; the gateway keeps no authoritative copy of any of it beyond the
// live scan-progress records owned by the poller.

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Website struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Domain    string    `json:"domain"` // registrable domain (eTLD+1)
	CreatedAt time.Time `json:"created_at"`
}

type Scan struct {
	ID              string     `json:"id"`
	WebsiteID       string     `json:"website_id"`
	URL             string     `json:"url"`
	Status          string     `json:"status"`
	TotalViolations int        `json:"total_violations"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
}

// Remote scan states as the backend reports them.
const (
	ScanRunning = "running"
	ScanDone    = "done"
	ScanErrored = "error"
)

// ScanStatus is one status-poll response for an in-flight scan.
type ScanStatus struct {
	State           string `json:"status"`
	TotalViolations int    `json:"total_violations"`
}

// ViolationNode is one affected DOM node within a violation.
type ViolationNode struct {
	Target         []string `json:"target"`
	HTML           string   `json:"html"`
	FailureSummary string   `json:"failureSummary"`
}

// Violation is one WCAG rule failure reported by the scan engine.
type Violation struct {
	ID          string          `json:"id"`
	Impact      string          `json:"impact"` // critical|serious|moderate|minor
	Description string          `json:"description"`
	Help        string          `json:"help"`
	HelpURL     string          `json:"helpUrl"`
	Nodes       []ViolationNode `json:"nodes"`
}

// FilterByImpact returns the violations matching the given impact severity.
// An empty impact returns the input unchanged; an unknown value matches
// nothing rather than erroring.
func FilterByImpact(vs []Violation, impact string) []Violation {
	if impact == "" {
		return vs
	}
	out := make([]Violation, 0, len(vs))
	for _, v := range vs {
		if strings.EqualFold(v.Impact, impact) {
			out = append(out, v)
		}
	}
	return out
}

// AIAnalysis is remediation guidance from the AI service. The backend's
// response is free-form JSON; Summary and PrioritizedFixes are filled when
// the recognized shape is present, otherwise Raw carries the response for
// the dashboard to render as structured data.
type AIAnalysis struct {
	Summary          string          `json:"summary,omitempty"`
	PrioritizedFixes []string        `json:"prioritized_fixes,omitempty"`
	Raw              json.RawMessage `json:"raw,omitempty"`
}

// ParseAIAnalysis interprets a raw AI response body.
func ParseAIAnalysis(raw json.RawMessage) AIAnalysis {
	var shaped struct {
		Summary          string   `json:"summary"`
		PrioritizedFixes []string `json:"prioritized_fixes"`
	}
	if err := json.Unmarshal(raw, &shaped); err == nil && (shaped.Summary != "" || len(shaped.PrioritizedFixes) > 0) {
		return AIAnalysis{Summary: shaped.Summary, PrioritizedFixes: shaped.PrioritizedFixes}
	}
	return AIAnalysis{Raw: raw}
}

// AltTextSuggestion is an AI-generated alt-text proposal for one image.
type AltTextSuggestion struct {
	ImageURL string `json:"image_url"`
	AltText  string `json:"alt_text"`
}
