package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/haeun/fitcoach-go/internal/domain"
	"go.uber.org/zap"
)

type fakePlanService struct {
	insights *domain.PlanInsights
	err      error
}

func (f *fakePlanService) GeneratePlanAndInsights(_ context.Context, _ string) (*domain.PlanInsights, error) {
	return f.insights, f.err
}

type fakeStore struct {
	onboarding map[string]*domain.Onboarding
	sessions   map[string]*domain.Session
	sets       map[string][]domain.SetLog
	feedback   []domain.Feedback
	completed  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		onboarding: map[string]*domain.Onboarding{},
		sessions:   map[string]*domain.Session{},
		sets:       map[string][]domain.SetLog{},
	}
}

func (f *fakeStore) SaveOnboarding(_ context.Context, record *domain.Onboarding) error {
	f.onboarding[record.UserID] = record
	return nil
}

func (f *fakeStore) GetOnboarding(_ context.Context, userID string) (*domain.Onboarding, error) {
	return f.onboarding[userID], nil
}

func (f *fakeStore) DeleteOnboarding(_ context.Context, userID string) error {
	delete(f.onboarding, userID)
	return nil
}

func (f *fakeStore) HasCompletedOnboarding(_ context.Context, userID string) (bool, error) {
	_, ok := f.onboarding[userID]
	return ok, nil
}

func (f *fakeStore) CreateSession(_ context.Context, session *domain.Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeStore) GetSession(_ context.Context, sessionID, userID string) (*domain.Session, error) {
	session, ok := f.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, nil
	}
	return session, nil
}

func (f *fakeStore) GetSessionSets(_ context.Context, sessionID string) ([]domain.SetLog, error) {
	return f.sets[sessionID], nil
}

func (f *fakeStore) LogSet(_ context.Context, set *domain.SetLog) error {
	f.sets[set.SessionID] = append(f.sets[set.SessionID], *set)
	return nil
}

func (f *fakeStore) CompleteSession(_ context.Context, sessionID string) error {
	f.completed = append(f.completed, sessionID)
	return nil
}

func (f *fakeStore) InsertFeedback(_ context.Context, feedback *domain.Feedback) error {
	f.feedback = append(f.feedback, *feedback)
	return nil
}

func testRouter(plans PlanService, store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(plans, store, nil, zap.NewNop())

	engine := gin.New()
	// Stand-in for the auth middleware: fixed identity.
	engine.Use(func(c *gin.Context) {
		c.Set(ctxUserID, "user-1")
		c.Next()
	})
	engine.POST("/v1/plan/generate", handler.GeneratePlan)
	engine.POST("/v1/plan/comments", handler.CoachComments)
	engine.POST("/v1/sessions", handler.CreateSession)
	engine.GET("/v1/sessions/:id", handler.GetSession)
	engine.POST("/v1/sessions/:id/sets", handler.LogSet)
	engine.POST("/v1/sessions/:id/complete", handler.CompleteSession)
	engine.POST("/v1/sessions/:id/feedback", handler.SessionFeedback)
	engine.PUT("/v1/onboarding", handler.SaveOnboarding)
	engine.GET("/v1/onboarding", handler.GetOnboarding)
	engine.GET("/v1/onboarding/status", handler.OnboardingStatus)
	engine.DELETE("/v1/onboarding", handler.DeleteOnboarding)
	return engine
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGeneratePlanReturnsInsights(t *testing.T) {
	plans := &fakePlanService{insights: &domain.PlanInsights{
		Goal:        "strength",
		Modality:    "strength & conditioning",
		DurationMin: 40,
		Plan:        []domain.Exercise{{ID: "ex-1", Name: "Squat"}},
	}}
	router := testRouter(plans, newFakeStore())

	rec := doJSON(t, router, http.MethodPost, "/v1/plan/generate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}

	var insights domain.PlanInsights
	if err := json.Unmarshal(rec.Body.Bytes(), &insights); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if insights.Goal != "strength" || len(insights.Plan) != 1 {
		t.Errorf("unexpected insights: %+v", insights)
	}
}

func TestCoachCommentsEndpoint(t *testing.T) {
	router := testRouter(&fakePlanService{}, newFakeStore())

	rec := doJSON(t, router, http.MethodPost, "/v1/plan/comments", map[string]any{
		"profile":     map[string]any{"name": "Haeun Kim", "goal": "strength"},
		"plan":        []map[string]any{{"id": "ex-1", "name": "Squat", "targetSets": 2}},
		"durationMin": 30,
		"goal":        "strength",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Comments []domain.CoachComment `json:"comments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// start, before, after, mid, end for a single-exercise plan
	if len(resp.Comments) != 5 {
		t.Errorf("expected 5 comments, got %d", len(resp.Comments))
	}
}

func TestCoachCommentsRejectsEmptyPlan(t *testing.T) {
	router := testRouter(&fakePlanService{}, newFakeStore())
	rec := doJSON(t, router, http.MethodPost, "/v1/plan/comments", map[string]any{"plan": []any{}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := newFakeStore()
	router := testRouter(&fakePlanService{}, store)

	rec := doJSON(t, router, http.MethodPost, "/v1/sessions", map[string]any{
		"goal":        "strength",
		"modality":    "strength & conditioning",
		"durationMin": 40,
		"plan":        []map[string]any{{"id": "ex-1", "name": "Squat", "targetSets": 3}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d; body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil || created.SessionID == "" {
		t.Fatalf("bad create response: %s", rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/sessions/"+created.SessionID+"/sets", map[string]any{
		"exerciseId": "ex-1",
		"setIndex":   0,
		"reps":       8,
		"weightKg":   40.0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("log set status = %d; body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/sessions/"+created.SessionID+"/feedback", map[string]any{
		"text": "Knee felt fine today.",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("feedback status = %d", rec.Code)
	}
	if len(store.feedback) != 1 || store.feedback[0].Text != "Knee felt fine today." {
		t.Errorf("feedback not stored: %+v", store.feedback)
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/sessions/"+created.SessionID+"/complete", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d", rec.Code)
	}
	if len(store.completed) != 1 {
		t.Errorf("session not completed: %v", store.completed)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/sessions/"+created.SessionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got struct {
		Session domain.Session  `json:"session"`
		Sets    []domain.SetLog `json:"sets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if len(got.Sets) != 1 {
		t.Errorf("expected 1 logged set, got %d", len(got.Sets))
	}
}

func TestLogSetCompleteSessionFlag(t *testing.T) {
	store := newFakeStore()
	store.sessions["s1"] = &domain.Session{ID: "s1", UserID: "user-1"}
	router := testRouter(&fakePlanService{}, store)

	rec := doJSON(t, router, http.MethodPost, "/v1/sessions/s1/sets", map[string]any{
		"exerciseId":      "ex-1",
		"setIndex":        0,
		"completeSession": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(store.completed) != 1 || store.completed[0] != "s1" {
		t.Errorf("completeSession flag did not complete session: %v", store.completed)
	}
}

func TestForeignSessionIsNotFound(t *testing.T) {
	store := newFakeStore()
	store.sessions["s1"] = &domain.Session{ID: "s1", UserID: "someone-else"}
	router := testRouter(&fakePlanService{}, store)

	rec := doJSON(t, router, http.MethodGet, "/v1/sessions/s1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for foreign session", rec.Code)
	}
}

func TestOnboardingRoundTrip(t *testing.T) {
	store := newFakeStore()
	router := testRouter(&fakePlanService{}, store)

	rec := doJSON(t, router, http.MethodGet, "/v1/onboarding/status", nil)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("false")) {
		t.Errorf("fresh user should not be onboarded: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPut, "/v1/onboarding", map[string]any{
		"name":          "Haeun Kim",
		"age":           "38",
		"goal":          "pain-free running",
		"activityLevel": "moderate",
		"timeAvailable": []string{"45min"},
		"trackPeriod":   true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d; body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/onboarding", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var record domain.Onboarding
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode onboarding: %v", err)
	}
	if record.Profile.Name != "Haeun Kim" || !record.TrackPeriod {
		t.Errorf("unexpected record: %+v", record)
	}

	rec = doJSON(t, router, http.MethodDelete, "/v1/onboarding", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/v1/onboarding", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", rec.Code)
	}
}

func TestSaveOnboardingRejectsInvalidEnum(t *testing.T) {
	router := testRouter(&fakePlanService{}, newFakeStore())

	rec := doJSON(t, router, http.MethodPut, "/v1/onboarding", map[string]any{
		"name":          "Haeun Kim",
		"goal":          "strength",
		"activityLevel": "extreme",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for invalid activityLevel", rec.Code)
	}
}

func TestSaveOnboardingRequiresNameAndGoal(t *testing.T) {
	router := testRouter(&fakePlanService{}, newFakeStore())

	rec := doJSON(t, router, http.MethodPut, "/v1/onboarding", map[string]any{"name": "Haeun Kim"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing goal", rec.Code)
	}
}
