package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/giftlane/relevance/internal/domain"
	"github.com/giftlane/relevance/internal/domain/item"
	"github.com/giftlane/relevance/internal/domain/search/candidate"
	"github.com/giftlane/relevance/internal/domain/search/filter"
	cataloguc "github.com/giftlane/relevance/internal/usecase/catalog"
	"github.com/giftlane/relevance/internal/usecase/expand"
	healthuc "github.com/giftlane/relevance/internal/usecase/health"
	"github.com/giftlane/relevance/internal/usecase/rerank"
	searchuc "github.com/giftlane/relevance/internal/usecase/search"
)

type stubEmbedder struct {
	vec []float32
	err error
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: e.vec, Model: "test-model", TotalTokens: 3}, nil
}

type memRepo struct {
	items map[string]item.Item
}

func newMemRepo() *memRepo { return &memRepo{items: make(map[string]item.Item)} }

func (r *memRepo) Upsert(ctx context.Context, it *item.Item) error {
	r.items[it.ID()] = *it
	return nil
}

func (r *memRepo) Get(ctx context.Context, id string) (item.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return item.Item{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return it, nil
}

func (r *memRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	delete(r.items, id)
	return nil
}

type stubLexical struct {
	hits []candidate.Candidate
}

func (l *stubLexical) Search(ctx context.Context, queries []string, f filter.Filters, limit int) ([]candidate.Candidate, error) {
	return l.hits, nil
}

type stubVector struct {
	hits []candidate.Candidate
}

func (v *stubVector) Search(ctx context.Context, emb []float32, f filter.Filters, limit int, minSim float64) ([]candidate.Candidate, error) {
	return v.hits, nil
}

type stubPrefs struct {
	userID string
	vec    []float32
	err    error
}

func (p *stubPrefs) Set(ctx context.Context, userID string, vec []float32) error {
	if p.err != nil {
		return p.err
	}
	p.userID = userID
	p.vec = vec
	return nil
}

type stubPinger struct{ err error }

func (p *stubPinger) Ping(ctx context.Context) error { return p.err }

type serverFixture struct {
	router http.Handler
	repo   *memRepo
	prefs  *stubPrefs
	embed  *stubEmbedder
	pinger *stubPinger
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	embed := &stubEmbedder{vec: []float32{0.1, 0.2, 0.3}}
	repo := newMemRepo()
	prefs := &stubPrefs{}
	pinger := &stubPinger{}
	logger := zap.NewNop()

	mug := item.New("mug-1", "Travel mug", "Keeps coffee hot", 19.99, "kitchen", nil)
	tracker := item.New("tracker-1", "Fitness tracker", "Counts steps", 49.99, "electronics", nil)

	searchSvc := searchuc.New(
		expand.New(0),
		embed,
		&stubLexical{hits: []candidate.Candidate{candidate.New(mug, 3.5, 1, candidate.Keyword)}},
		&stubVector{hits: []candidate.Candidate{candidate.New(tracker, 0.9, 1, candidate.Semantic)}},
		rerank.New(nil, 0, logger),
		nil,
		logger,
	)
	catalogSvc := cataloguc.New(repo, embed)
	healthSvc := healthuc.New(pinger, nil)

	srv := NewServer(searchSvc, catalogSvc, prefs, healthSvc, logger)
	r := chi.NewRouter()
	srv.Routes(r)

	return &serverFixture{router: r, repo: repo, prefs: prefs, embed: embed, pinger: pinger}
}

func (f *serverFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

func TestSearchEndpoint_OK(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do("POST", "/v1/search", `{"query": "gift for dad"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var resp searchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(resp.Results))
	}
	if resp.Metrics.QueryID == "" {
		t.Error("expected a query id in metrics")
	}
	if resp.Metrics.KeywordCount != 1 || resp.Metrics.SemanticCount != 1 {
		t.Errorf("leg counts = %d/%d, want 1/1",
			resp.Metrics.KeywordCount, resp.Metrics.SemanticCount)
	}
}

func TestSearchEndpoint_EmptyQuery_400(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do("POST", "/v1/search", `{"query": "   "}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != codeValidation {
		t.Errorf("code = %q, want %q", resp.Code, codeValidation)
	}
}

func TestSearchEndpoint_MalformedBody_400(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do("POST", "/v1/search", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != codeBadRequest {
		t.Errorf("code = %q, want %q", resp.Code, codeBadRequest)
	}
}

func TestSearchEndpoint_ProviderDown_502(t *testing.T) {
	f := newServerFixture(t)
	f.embed.err = fmt.Errorf("%w: provider timeout", domain.ErrExternalService)

	rr := f.do("POST", "/v1/search", `{"query": "gift"}`)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != codeProviderError {
		t.Errorf("code = %q, want %q", resp.Code, codeProviderError)
	}
}

func TestUpsertItem_OK(t *testing.T) {
	f := newServerFixture(t)

	body := `{"title": "Travel mug", "description": "Keeps coffee hot", "price": 19.99, "category": "kitchen"}`
	rr := f.do("PUT", "/v1/items/mug-1", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var resp itemResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "mug-1" || resp.Title != "Travel mug" {
		t.Errorf("response = %+v", resp)
	}
	if _, ok := f.repo.items["mug-1"]; !ok {
		t.Error("item was not stored")
	}
}

func TestUpsertItem_MissingTitle_400(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do("PUT", "/v1/items/mug-1", `{"price": 5}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != codeValidation {
		t.Errorf("code = %q, want %q", resp.Code, codeValidation)
	}
}

func TestGetItem_NotFound_404(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do("GET", "/v1/items/ghost", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != codeItemNotFound {
		t.Errorf("code = %q, want %q", resp.Code, codeItemNotFound)
	}
}

func TestDeleteItem_NoContent(t *testing.T) {
	f := newServerFixture(t)
	it := item.New("mug-1", "Travel mug", "Keeps coffee hot", 19.99, "kitchen", nil)
	f.repo.items["mug-1"] = it

	rr := f.do("DELETE", "/v1/items/mug-1", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if _, ok := f.repo.items["mug-1"]; ok {
		t.Error("item was not deleted")
	}
}

func TestBatchUpsert_TooManyItems_413(t *testing.T) {
	f := newServerFixture(t)

	var sb strings.Builder
	sb.WriteString(`{"items": [`)
	for i := 0; i <= maxBatchSize; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"id": "item-%d", "title": "t", "price": 1}`, i)
	}
	sb.WriteString(`]}`)

	rr := f.do("POST", "/v1/items", sb.String())
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != codePayloadTooLarge {
		t.Errorf("code = %q, want %q", resp.Code, codePayloadTooLarge)
	}
}

func TestBatchUpsert_Empty_400(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do("POST", "/v1/items", `{"items": []}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestBatchUpsert_OK(t *testing.T) {
	f := newServerFixture(t)

	body := `{"items": [
		{"id": "a", "title": "Item A", "price": 1},
		{"id": "b", "title": "Item B", "price": 2}
	]}`
	rr := f.do("POST", "/v1/items", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if len(f.repo.items) != 2 {
		t.Errorf("stored items = %d, want 2", len(f.repo.items))
	}
}

func TestSetPreference_NoContent(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do("PUT", "/v1/users/u-1/preference", `{"embedding": [0.1, 0.2]}`)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if f.prefs.userID != "u-1" || len(f.prefs.vec) != 2 {
		t.Errorf("stored preference = %q %v", f.prefs.userID, f.prefs.vec)
	}
}

func TestSetPreference_EmptyVector_400(t *testing.T) {
	f := newServerFixture(t)
	f.prefs.err = fmt.Errorf("%w: preference vector must not be empty", domain.ErrValidation)

	rr := f.do("PUT", "/v1/users/u-1/preference", `{"embedding": []}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHealth_OK(t *testing.T) {
	f := newServerFixture(t)

	rr := f.do("GET", "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestHealth_Degraded_503(t *testing.T) {
	f := newServerFixture(t)
	f.pinger.err = fmt.Errorf("connection refused")

	rr := f.do("GET", "/healthz", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("status = %q, want degraded", resp.Status)
	}
	if resp.Checks["database"] != "error" {
		t.Errorf("database check = %q, want error", resp.Checks["database"])
	}
}
