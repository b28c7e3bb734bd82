package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
	"github.com/be-Happy2/JiraCheckTool/internal/rules"
	"github.com/be-Happy2/JiraCheckTool/internal/storage"
)

// Store is the minimal contract the API needs.
type Store interface {
	ListRuns(limit, offset int) ([]storage.RunRow, error)
	LoadRun(id string) (model.Run, error)
	LoadLatestRun() (model.Run, error)
	ListViolations(runID, projectKey string) ([]storage.ViolationRow, error)

	ListExemptions(activeOnly bool) ([]storage.Exemption, error)
	CreateExemption(code, projectKey, issueKey, reason, createdBy string, expires time.Time) (int64, error)
	RevokeExemption(id int64) error
}

// UserStore is the auth/audit contract the API uses.
type UserStore interface {
	GetUserByUsername(string) (storage.User, string, error)
	CreateSession(int64, string, time.Time) error
	GetSession(string) (storage.User, error)
	DeleteSession(string) error
	LogAudit(username, action, resource string, meta map[string]any) error
}

type Server struct {
	DB              Store
	UserStore       UserStore
	Logger          *slog.Logger
	SessionDuration time.Duration
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /api/v1/health", s.handleHealth)

	// Auth
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", withAuth(s, s.handleLogout, "auth:logout"))
	mux.HandleFunc("GET /api/v1/me", withAuth(s, s.handleMe, "me"))

	// Runs
	mux.HandleFunc("GET /api/v1/runs", s.handleListRuns)
	mux.HandleFunc("GET /api/v1/runs/latest", s.handleGetLatest)
	mux.HandleFunc("GET /api/v1/runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /api/v1/runs/{id}/violations", s.handleListViolations)

	// Rule inventory
	mux.HandleFunc("GET /api/v1/rules", s.handleRules)

	// Exemptions
	mux.HandleFunc("GET /api/v1/exemptions", withAuth(s, s.handleListExemptions, "exemptions:list"))
	mux.HandleFunc("POST /api/v1/exemptions", withAdmin(s, s.handleCreateExemption, "exemptions:create"))
	mux.HandleFunc("POST /api/v1/exemptions/{id}/revoke", withAdmin(s, s.handleRevokeExemption, "exemptions:revoke"))

	// Fallback 404
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := clamp(parseInt(q.Get("limit"), 20), 1, 200)
	offset := parseInt(q.Get("offset"), 0)

	rows, err := s.DB.ListRuns(limit, offset)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": rows, "limit": limit, "offset": offset,
	})
}

func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	run, err := s.DB.LoadLatestRun()
	if err != nil {
		s.err(w, http.StatusNotFound, "no runs")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.DB.LoadRun(r.PathValue("id"))
	if err != nil {
		s.err(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListViolations(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	project := strings.TrimSpace(r.URL.Query().Get("project"))
	items, err := s.DB.ListViolations(id, project)
	if err != nil {
		s.err(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id": id, "project": project, "items": items,
	})
}

// GET /api/v1/rules (codes + summaries; no auth needed for read-only)
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	type R struct {
		Codes     []model.Violation `json:"codes"`
		Summary   string            `json:"summary"`
		AppliesTo []string          `json:"applies_to"`
	}
	var out []R
	for _, rule := range rules.Catalog() {
		types := make([]string, len(rule.AppliesTo))
		for i, t := range rule.AppliesTo {
			types[i] = t.String()
		}
		out = append(out, R{Codes: rule.Codes, Summary: rule.Summary, AppliesTo: types})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

func (s *Server) err(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
