package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	profilemodel "github.com/edallison777/vitracka-sub001/internal/model/profile"
	"github.com/edallison777/vitracka-sub001/internal/model/safety"
)

type fakeRepo struct {
	profiles map[string]*profilemodel.UserProfile
	weights  []profilemodel.WeightEntry
	breaches []profilemodel.BreachRecord
	plans    map[string]profilemodel.EatingPlan
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles: make(map[string]*profilemodel.UserProfile),
		plans:    make(map[string]profilemodel.EatingPlan),
	}
}

func (f *fakeRepo) GetProfile(_ context.Context, userID string) (*profilemodel.UserProfile, error) {
	return f.profiles[userID], nil
}

func (f *fakeRepo) UpsertProfile(_ context.Context, p *profilemodel.UserProfile) error {
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeRepo) AppendWeight(_ context.Context, entry profilemodel.WeightEntry) error {
	f.weights = append(f.weights, entry)
	return nil
}

func (f *fakeRepo) AppendBreach(_ context.Context, rec profilemodel.BreachRecord) error {
	f.breaches = append(f.breaches, rec)
	return nil
}

func (f *fakeRepo) SaveEatingPlan(_ context.Context, plan profilemodel.EatingPlan) error {
	f.plans[plan.UserID] = plan
	return nil
}

func (f *fakeRepo) GetEatingPlan(_ context.Context, userID string) (*profilemodel.EatingPlan, error) {
	plan, ok := f.plans[userID]
	if !ok {
		return nil, nil
	}
	return &plan, nil
}

func (f *fakeRepo) RecordIntervention(context.Context, safety.InterventionRecord) error { return nil }
func (f *fakeRepo) Ping(context.Context) error                                         { return nil }
func (f *fakeRepo) Close() error                                                       { return nil }

func setupRouter() (*chi.Mux, *fakeRepo) {
	repo := newFakeRepo()
	handler := New(repo, nil)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, repo
}

func TestGetProfileNotFound(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/profile/missing", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestUpsertThenGetProfile(t *testing.T) {
	r, _ := setupRouter()

	body, _ := json.Marshal(map[string]any{
		"name":          "Sam",
		"coachingStyle": "gentle",
		"onGlp1":        true,
	})
	req := httptest.NewRequest(http.MethodPut, "/profile/user-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/profile/user-1", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var p profilemodel.UserProfile
	if err := json.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if p.UserID != "user-1" || p.Name != "Sam" || !p.OnGLP1 {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestAppendWeight(t *testing.T) {
	r, repo := setupRouter()

	body, _ := json.Marshal(map[string]any{"userId": "user-1", "weightKg": 82.4})
	req := httptest.NewRequest(http.MethodPost, "/weights", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(repo.weights) != 1 {
		t.Fatalf("expected 1 stored weight, got %d", len(repo.weights))
	}
	if repo.weights[0].ID == "" || repo.weights[0].RecordedAt.IsZero() {
		t.Fatal("expected id and recordedAt to be stamped")
	}
}

func TestAppendWeightRejectsNonPositive(t *testing.T) {
	r, _ := setupRouter()

	body, _ := json.Marshal(map[string]any{"userId": "user-1", "weightKg": 0})
	req := httptest.NewRequest(http.MethodPost, "/weights", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestAppendBreachRequiresDescription(t *testing.T) {
	r, _ := setupRouter()

	body, _ := json.Marshal(map[string]any{"userId": "user-1", "description": "   "})
	req := httptest.NewRequest(http.MethodPost, "/breaches", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSaveAndGetPlan(t *testing.T) {
	r, _ := setupRouter()

	body, _ := json.Marshal(map[string]any{"planText": "protein-forward breakfasts, no screens at dinner"})
	req := httptest.NewRequest(http.MethodPut, "/plans/user-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/plans/user-1", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestGetPlanNotFound(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/plans/user-1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
