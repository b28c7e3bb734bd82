package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
	"github.com/be-Happy2/JiraCheckTool/internal/storage"
)

type stubStore struct {
	runs       []storage.RunRow
	run        model.Run
	violations []storage.ViolationRow
	exemptions []storage.Exemption
	created    *exemptionCreateReq
	revoked    int64
}

func (s *stubStore) ListRuns(limit, offset int) ([]storage.RunRow, error) { return s.runs, nil }
func (s *stubStore) LoadRun(id string) (model.Run, error) {
	if id != s.run.ID {
		return model.Run{}, sql.ErrNoRows
	}
	return s.run, nil
}
func (s *stubStore) LoadLatestRun() (model.Run, error) {
	if s.run.ID == "" {
		return model.Run{}, sql.ErrNoRows
	}
	return s.run, nil
}
func (s *stubStore) ListViolations(runID, projectKey string) ([]storage.ViolationRow, error) {
	return s.violations, nil
}
func (s *stubStore) ListExemptions(activeOnly bool) ([]storage.Exemption, error) {
	return s.exemptions, nil
}
func (s *stubStore) CreateExemption(code, projectKey, issueKey, reason, createdBy string, expires time.Time) (int64, error) {
	s.created = &exemptionCreateReq{Code: code, ProjectKey: projectKey, IssueKey: issueKey, Reason: reason}
	return 7, nil
}
func (s *stubStore) RevokeExemption(id int64) error {
	s.revoked = id
	return nil
}

type stubUsers struct {
	user storage.User
	hash string
}

func (s *stubUsers) GetUserByUsername(name string) (storage.User, string, error) {
	if name != s.user.Username {
		return storage.User{}, "", sql.ErrNoRows
	}
	return s.user, s.hash, nil
}
func (s *stubUsers) CreateSession(int64, string, time.Time) error { return nil }
func (s *stubUsers) GetSession(token string) (storage.User, error) {
	if token != "valid" {
		return storage.User{}, sql.ErrNoRows
	}
	return s.user, nil
}
func (s *stubUsers) DeleteSession(string) error { return nil }
func (s *stubUsers) LogAudit(string, string, string, map[string]any) error {
	return nil
}

func newTestServer(store *stubStore, users *stubUsers) http.Handler {
	s := &Server{DB: store, UserStore: users, SessionDuration: time.Hour}
	return s.Routes()
}

func TestHealth(t *testing.T) {
	h := newTestServer(&stubStore{}, &stubUsers{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d", res.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil || body["ok"] != true {
		t.Fatalf("body = %s", res.Body.String())
	}
}

func TestGetRun(t *testing.T) {
	store := &stubStore{run: model.Run{ID: "run-1", WindowDays: 7}}
	h := newTestServer(store, &stubUsers{})

	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v1/runs/run-1", nil))
	if res.Code != http.StatusOK || !strings.Contains(res.Body.String(), `"run-1"`) {
		t.Fatalf("get run: %d %s", res.Code, res.Body.String())
	}

	res = httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v1/runs/missing", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("missing run status = %d", res.Code)
	}
}

func TestRulesInventory(t *testing.T) {
	h := newTestServer(&stubStore{}, &stubUsers{})
	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d", res.Code)
	}
	body := res.Body.String()
	for _, code := range []string{"No DueDate", "No Component Chengdu", "No Analyse"} {
		if !strings.Contains(body, code) {
			t.Fatalf("rule inventory missing %q: %s", code, body)
		}
	}
}

func TestExemptionsRequireAuth(t *testing.T) {
	h := newTestServer(&stubStore{}, &stubUsers{})
	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/v1/exemptions", nil))
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", res.Code)
	}
}

func TestCreateExemptionRequiresAdmin(t *testing.T) {
	store := &stubStore{}
	users := &stubUsers{user: storage.User{ID: 1, Username: "viewer", Role: "viewer"}}
	h := newTestServer(store, users)

	body := `{"code":"No Labels","reason":"migration","expires_at":"2030-01-01T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/exemptions", strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "valid"})
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	if res.Code != http.StatusForbidden {
		t.Fatalf("viewer create status = %d, want 403", res.Code)
	}

	users.user.Role = "admin"
	req = httptest.NewRequest(http.MethodPost, "/api/v1/exemptions", strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "valid"})
	res = httptest.NewRecorder()
	h.ServeHTTP(res, req)
	if res.Code != http.StatusCreated {
		t.Fatalf("admin create status = %d: %s", res.Code, res.Body.String())
	}
	if store.created == nil || store.created.Code != "No Labels" {
		t.Fatalf("exemption not stored: %+v", store.created)
	}
}
