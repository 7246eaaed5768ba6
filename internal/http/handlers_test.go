package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"deepmirror/internal/domain"
	"deepmirror/internal/llm"
	"deepmirror/internal/repository"
	"deepmirror/internal/service"
)

type mockResultRepo struct {
	stored    map[string]domain.Result
	createErr error
	getErr    error
}

func newMockResultRepo() *mockResultRepo {
	return &mockResultRepo{stored: make(map[string]domain.Result)}
}

func (m *mockResultRepo) Create(_ context.Context, result domain.Result) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.stored[result.ID] = result
	return nil
}

func (m *mockResultRepo) GetByID(_ context.Context, id string) (domain.Result, error) {
	if m.getErr != nil {
		return domain.Result{}, m.getErr
	}
	res, ok := m.stored[id]
	if !ok {
		return domain.Result{}, repository.ErrResultNotFound
	}
	return res, nil
}

type mockFeedbackRepo struct {
	created []domain.Feedback
	err     error
}

func (m *mockFeedbackRepo) Create(_ context.Context, feedback *domain.Feedback) error {
	if m.err != nil {
		return m.err
	}
	feedback.ID = int64(len(m.created) + 1)
	m.created = append(m.created, *feedback)
	return nil
}

func (m *mockFeedbackRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.created)), nil
}

func (m *mockFeedbackRepo) PurgeCreatedBefore(_ context.Context, cutoff time.Time) (domain.PurgeReport, error) {
	return domain.PurgeReport{Cutoff: cutoff}, nil
}

type mockNotifier struct {
	messages []string
}

func (m *mockNotifier) Notify(_ context.Context, message string) error {
	m.messages = append(m.messages, message)
	return nil
}

type testDeps struct {
	results  *mockResultRepo
	feedback *mockFeedbackRepo
	notifier *mockNotifier
	llm      *llm.MockClient
	health   error
}

func setupRouter(deps *testDeps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	provider := service.NewLLMAnalysisProvider(deps.llm, time.Second, logger)
	resultSvc := service.NewResultService(logger, deps.results, provider)
	feedbackSvc := service.NewFeedbackService(logger, deps.feedback, deps.notifier)
	health := NewHealthHandler(logger, func(context.Context) error { return deps.health })
	return NewRouter(logger, NewResultHandler(logger, resultSvc), NewFeedbackHandler(logger, feedbackSvc), health)
}

func newTestDeps() *testDeps {
	return &testDeps{
		results:  newMockResultRepo(),
		feedback: &mockFeedbackRepo{},
		notifier: &mockNotifier{},
		llm:      &llm.MockClient{Response: "Analisis de prueba"},
	}
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func performRawRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func validResultBody() map[string]any {
	return map[string]any{
		"nickname":          "espejo",
		"openness":          80,
		"conscientiousness": 30,
		"extraversion":      90,
		"agreeableness":     50,
		"neuroticism":       10,
		"detail_scores":     map[string]int{"O1": 90},
	}
}

func TestResultHandlerCreate_Success(t *testing.T) {
	deps := newTestDeps()
	r := setupRouter(deps)

	rec := performRequest(r, http.MethodPost, "/api/v1/results", validResultBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["ai_analysis"] != "Analisis de prueba" || body["nickname"] != "espejo" {
		t.Fatalf("unexpected body %v", body)
	}
	if body["detail_scores"] != `{"O1":90}` {
		t.Fatalf("unexpected detail_scores %v", body["detail_scores"])
	}
	if _, ok := deps.results.stored[body["id"].(string)]; !ok {
		t.Fatalf("expected result to be stored")
	}
}

func TestResultHandlerCreate_FallbackWhenProviderFails(t *testing.T) {
	deps := newTestDeps()
	deps.llm = &llm.MockClient{Err: llm.ErrTransport}
	r := setupRouter(deps)

	body := validResultBody()
	delete(body, "detail_scores")
	rec := performRequest(r, http.MethodPost, "/api/v1/results", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := decodeBody(t, rec)
	if out["ai_analysis"] != service.FallbackAnalysis {
		t.Fatalf("expected fallback analysis, got %v", out["ai_analysis"])
	}
	if out["detail_scores"] != nil {
		t.Fatalf("expected null detail_scores, got %v", out["detail_scores"])
	}
}

func TestResultHandlerCreate_InvalidRequest(t *testing.T) {
	r := setupRouter(newTestDeps())

	body := validResultBody()
	body["openness"] = 120
	rec := performRequest(r, http.MethodPost, "/api/v1/results", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	out := decodeBody(t, rec)
	if out["error"] != "invalid request" || out["field"] != "openness" || out["rule"] != "max=100" {
		t.Fatalf("unexpected body %v", out)
	}

	rec = performRawRequest(r, http.MethodPost, "/api/v1/results", `{"nickname":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed json, got %d", rec.Code)
	}
	if out := decodeBody(t, rec); out["field"] != "body" {
		t.Fatalf("unexpected body %v", out)
	}

	rec = performRawRequest(r, http.MethodPost, "/api/v1/results", `{"nickname":"a","openness":"alto"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrong type, got %d", rec.Code)
	}
	if out := decodeBody(t, rec); out["field"] != "openness" || out["rule"] != "type" {
		t.Fatalf("unexpected body %v", out)
	}
}

func TestResultHandlerCreate_StorageFailure(t *testing.T) {
	deps := newTestDeps()
	deps.results.createErr = errors.New("pq: relation results does not exist")
	r := setupRouter(deps)

	rec := performRequest(r, http.MethodPost, "/api/v1/results", validResultBody())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "relation") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
	out := decodeBody(t, rec)
	if out["details"] != "please contact the administrator" {
		t.Fatalf("unexpected body %v", out)
	}
}

func TestResultHandlerGet(t *testing.T) {
	deps := newTestDeps()
	r := setupRouter(deps)

	rec := performRequest(r, http.MethodPost, "/api/v1/results", validResultBody())
	id := decodeBody(t, rec)["id"].(string)

	rec = performRequest(r, http.MethodGet, "/api/v1/results/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["id"] != id {
		t.Fatalf("unexpected id")
	}

	for _, missing := range []string{"6a0f5b1e-0000-4000-8000-000000000000", "not-a-uuid"} {
		rec = performRequest(r, http.MethodGet, "/api/v1/results/"+missing, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for %s, got %d", missing, rec.Code)
		}
		if decodeBody(t, rec)["error"] != "result not found" {
			t.Fatalf("unexpected not found body")
		}
	}

	deps.results.getErr = errors.New("timeout")
	rec = performRequest(r, http.MethodGet, "/api/v1/results/"+id, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on storage fault, got %d", rec.Code)
	}
}

func TestResultHandlerView(t *testing.T) {
	deps := newTestDeps()
	r := setupRouter(deps)

	rec := performRequest(r, http.MethodPost, "/api/v1/results", validResultBody())
	id := decodeBody(t, rec)["id"].(string)

	rec = performRequest(r, http.MethodGet, "/results/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := decodeBody(t, rec)
	detail, ok := out["detail_map"].(map[string]any)
	if !ok || detail["O1"] != float64(90) {
		t.Fatalf("unexpected detail_map %v", out["detail_map"])
	}
	if inner, ok := out["result"].(map[string]any); !ok || inner["id"] != id {
		t.Fatalf("unexpected result %v", out["result"])
	}

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected json content type on view, got %q", ct)
	}

	rec = performRequest(r, http.MethodGet, "/results/6a0f5b1e-0000-4000-8000-000000000000", nil)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
	if ct := rec.Header().Get("Content-Type"); strings.HasPrefix(ct, "application/json") {
		t.Fatalf("redirect should not claim a json body, got %q", ct)
	}
}

func TestFeedbackHandlerSubmit_Success(t *testing.T) {
	deps := newTestDeps()
	r := setupRouter(deps)

	rec := performRequest(r, http.MethodPost, "/api/feedback", map[string]string{
		"sender_name": "Ana",
		"email":       "ana@example.com",
		"content":     "Muy util",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	out := decodeBody(t, rec)
	if out["id"] != float64(1) || out["message"] != service.FeedbackThanksMessage {
		t.Fatalf("unexpected body %v", out)
	}
	if _, ok := out["created_at"]; !ok {
		t.Fatalf("expected created_at in receipt")
	}
	if len(deps.notifier.messages) != 1 {
		t.Fatalf("expected one notification")
	}
}

func TestFeedbackHandlerSubmit_InvalidRequest(t *testing.T) {
	deps := newTestDeps()
	r := setupRouter(deps)

	rec := performRequest(r, http.MethodPost, "/api/feedback", map[string]string{
		"sender_name": "Ana",
		"email":       "no-es-un-email",
		"content":     "hola",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	out := decodeBody(t, rec)
	if out["field"] != "email" || out["rule"] != "feedbackemail" {
		t.Fatalf("unexpected body %v", out)
	}
	if len(deps.feedback.created) != 0 || len(deps.notifier.messages) != 0 {
		t.Fatalf("invalid feedback must not be stored")
	}
}

func TestHealthHandler(t *testing.T) {
	deps := newTestDeps()
	r := setupRouter(deps)

	rec := performRequest(r, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	deps.health = errors.New("db down")
	rec = performRequest(r, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRecoveryMiddlewareReturnsGenericError(t *testing.T) {
	r := setupRouter(newTestDeps())
	r.GET("/boom", func(c *gin.Context) { panic("nil map write") })

	rec := performRequest(r, http.MethodGet, "/boom", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	out := decodeBody(t, rec)
	if out["error"] != "internal server error" || strings.Contains(rec.Body.String(), "nil map") {
		t.Fatalf("unexpected body %v", out)
	}
}
