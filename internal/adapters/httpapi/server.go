package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/adapters/backend"
	"github.com/SentryPrime1/sentryprime-dashboard/internal/domain"
	"github.com/SentryPrime1/sentryprime-dashboard/internal/ports"
	"github.com/SentryPrime1/sentryprime-dashboard/internal/services/session"
	"github.com/SentryPrime1/sentryprime-dashboard/internal/services/websites"
	"github.com/SentryPrime1/sentryprime-dashboard/internal/workers/scanpoller"
)

// Server is the dashboard-facing HTTP API the browser talks to.
type Server struct {
	auth     ports.AuthService
	scans    ports.ScanService
	ai       ports.AIService
	sites    *websites.Service
	sessions *session.Registry
	poller   *scanpoller.Poller
	progress ports.ProgressSink
	events   *Events
}

type Deps struct {
	Auth     ports.AuthService
	Scans    ports.ScanService
	AI       ports.AIService
	Sites    *websites.Service
	Sessions *session.Registry
	Poller   *scanpoller.Poller
	Progress ports.ProgressSink
	Events   *Events
}

func New(d Deps) *Server {
	return &Server{
		auth:     d.Auth,
		scans:    d.Scans,
		ai:       d.AI,
		sites:    d.Sites,
		sessions: d.Sessions,
		poller:   d.Poller,
		progress: d.Progress,
		events:   d.Events,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/auth/logout", s.handleLogout)
			r.Get("/auth/me", s.handleMe)

			r.Get("/websites", s.handleListWebsites)
			r.Post("/websites", s.handleAddWebsite)
			r.Delete("/websites/{id}", s.handleRemoveWebsite)

			r.Post("/websites/{id}/scans", s.handleStartScan)
			r.Delete("/websites/{id}/scans/active", s.handleCancelScan)
			r.Get("/progress", s.handleProgress)

			r.Get("/scans", s.handleListScans)
			r.Get("/scans/{id}/violations", s.handleViolations)
			r.Post("/scans/{id}/analysis", s.handleAnalysis)
			r.Post("/alt-text", s.handleAltText)
		})
	})
	return r
}

// --- auth ---

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, user, err := s.auth.Register(r.Context(), creds.Email, creds.Password, creds.Name)
	if err != nil {
		s.respondRemoteError(w, err)
		return
	}
	s.openSession(w, r, token, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, user, err := s.auth.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		s.respondRemoteError(w, err)
		return
	}
	s.openSession(w, r, token, user)
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request, token string, user domain.User) {
	if _, err := s.sessions.Create(w, r, token, user); err != nil {
		log.Error().Err(err).Msg("session create failed")
		respondError(w, http.StatusInternalServerError, "could not establish session")
		return
	}
	respond(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Destroy(w, r); err != nil {
		respondError(w, http.StatusInternalServerError, "could not end session")
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{"user": sessionFrom(r).User})
}

// --- websites ---

func (s *Server) handleListWebsites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.sites.List(r.Context(), sessionFrom(r).Token)
	if err != nil {
		s.respondRemoteError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"websites": sites})
}

func (s *Server) handleAddWebsite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}
	site, err := s.sites.Register(r.Context(), sessionFrom(r).Token, body.URL)
	if err != nil {
		var be *backend.Error
		if errors.As(err, &be) || errors.Is(err, backend.ErrNotFound) {
			s.respondRemoteError(w, err)
		} else {
			// URL normalization failure, not a remote error.
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	respond(w, http.StatusCreated, site)
}

func (s *Server) handleRemoveWebsite(w http.ResponseWriter, r *http.Request) {
	if err := s.sites.Remove(r.Context(), sessionFrom(r).Token, chi.URLParam(r, "id")); err != nil {
		s.respondRemoteError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "removed"})
}

// --- scans ---

func (s *Server) handleStartScan(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	siteID := chi.URLParam(r, "id")
	if s.poller.Active(siteID) {
		respondError(w, http.StatusConflict, "a scan is already running for this site")
		return
	}
	sites, err := s.sites.List(r.Context(), sess.Token)
	if err != nil {
		s.respondRemoteError(w, err)
		return
	}
	var target *domain.Website
	for i := range sites {
		if sites[i].ID == siteID {
			target = &sites[i]
			break
		}
	}
	if target == nil {
		respondError(w, http.StatusNotFound, "unknown website")
		return
	}
	jobID, err := s.poller.Start(r.Context(), sess.Token, scanpoller.Site{ID: target.ID, URL: target.URL})
	if err != nil {
		s.respondRemoteError(w, err)
		return
	}
	respond(w, http.StatusAccepted, map[string]string{"job_id": jobID, "site_id": siteID})
}

func (s *Server) handleCancelScan(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "id")
	if !s.poller.Cancel(siteID) {
		respondError(w, http.StatusNotFound, "no active scan for this site")
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	gen, completed := s.events.snapshot()
	respond(w, http.StatusOK, map[string]any{
		"jobs":               s.progress.Snapshot(),
		"completed":          completed,
		"catalog_generation": gen,
	})
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	scans, err := s.sites.Scans(r.Context(), sessionFrom(r).Token)
	if err != nil {
		s.respondRemoteError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"scans": scans})
}

// handleViolations degrades on a stale scan reference: rather than failing
// hard, the 404 body carries the scans the backend still knows about.
func (s *Server) handleViolations(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	violations, err := s.scans.Results(r.Context(), sess.Token, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			available, listErr := s.sites.Scans(r.Context(), sess.Token)
			if listErr != nil {
				log.Warn().Err(listErr).Msg("fallback scan list failed")
			}
			respond(w, http.StatusNotFound, map[string]any{
				"error":           "scan not found",
				"available_scans": available,
			})
			return
		}
		s.respondRemoteError(w, err)
		return
	}
	violations = domain.FilterByImpact(violations, r.URL.Query().Get("impact"))
	respond(w, http.StatusOK, map[string]any{"violations": violations})
}

// --- AI ---

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.ai.Analyze(r.Context(), sessionFrom(r).Token, chi.URLParam(r, "id"))
	if err != nil {
		s.respondRemoteError(w, err)
		return
	}
	respond(w, http.StatusOK, analysis)
}

func (s *Server) handleAltText(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ImageURL string `json:"image_url"`
		Context  string `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ImageURL == "" {
		respondError(w, http.StatusBadRequest, "image_url is required")
		return
	}
	suggestion, err := s.ai.AltText(r.Context(), sessionFrom(r).Token, body.ImageURL, body.Context)
	if err != nil {
		s.respondRemoteError(w, err)
		return
	}
	respond(w, http.StatusOK, suggestion)
}

// --- middleware & helpers ---

type ctxKey int

const sessionKey ctxKey = 0

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(sessionKey).(*session.Session)
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Resolve(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

// respondRemoteError maps a backend failure onto the dashboard response:
// client-caused statuses pass through, everything else reads as a bad
// gateway. Failures never propagate as bare 500s.
func (s *Server) respondRemoteError(w http.ResponseWriter, err error) {
	if errors.Is(err, backend.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	var be *backend.Error
	if errors.As(err, &be) {
		code := http.StatusBadGateway
		if be.Status >= 400 && be.Status < 500 {
			code = be.Status
		}
		msg := be.Message
		if msg == "" {
			msg = http.StatusText(code)
		}
		respondError(w, code, msg)
		return
	}
	log.Error().Err(err).Msg("remote request failed")
	respondError(w, http.StatusBadGateway, "backend unavailable")
}

func respond(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encode failed")
	}
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respond(w, code, map[string]string{"error": msg})
}
