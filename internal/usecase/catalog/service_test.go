package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/giftlane/relevance/internal/domain"
	"github.com/giftlane/relevance/internal/domain/item"
)

type mockEmbedder struct {
	calls []string
	err   error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls = append(m.calls, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{
		Embedding:   []float32{0.1, 0.2},
		Model:       "test-model",
		TotalTokens: 4,
	}, nil
}

type mockBatchEmbedder struct {
	mockEmbedder
	batchCalls [][]string
}

func (m *mockBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls = append(m.batchCalls, texts)
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{0.1, 0.2}
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings, Model: "test-model", TotalTokens: 4 * len(texts)}, nil
}

type mockRepo struct {
	items map[string]item.Item
	err   error
}

func newMockRepo() *mockRepo { return &mockRepo{items: make(map[string]item.Item)} }

func (m *mockRepo) Upsert(_ context.Context, it *item.Item) error {
	if m.err != nil {
		return m.err
	}
	m.items[it.ID()] = *it
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (item.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return item.Item{}, domain.ErrItemNotFound
	}
	return it, nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

func TestUpsert_EmbedsTitleAndDescription(t *testing.T) {
	repo := newMockRepo()
	embed := &mockEmbedder{}
	svc := New(repo, embed)

	it, err := svc.Upsert(context.Background(), ItemInput{
		ID:          "mug-1",
		Title:       "Travel mug",
		Description: "Keeps coffee hot",
		Price:       19.99,
		Category:    "kitchen",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(embed.calls) != 1 || embed.calls[0] != "Travel mug Keeps coffee hot" {
		t.Errorf("embed calls = %v, want title plus description", embed.calls)
	}
	if len(it.Vector()) != 2 {
		t.Errorf("vector length = %d, want 2", len(it.Vector()))
	}
	stored, ok := repo.items["mug-1"]
	if !ok {
		t.Fatal("item was not stored")
	}
	if stored.Title() != "Travel mug" || stored.Price() != 19.99 {
		t.Errorf("stored = %+v", stored)
	}
}

func TestUpsert_ValidationErrors(t *testing.T) {
	svc := New(newMockRepo(), &mockEmbedder{})

	tests := []struct {
		name string
		in   ItemInput
	}{
		{"missing id", ItemInput{Title: "x"}},
		{"missing title", ItemInput{ID: "a"}},
		{"negative price", ItemInput{ID: "a", Title: "x", Price: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(context.Background(), tt.in)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestUpsert_EmbedFailureFailsWrite(t *testing.T) {
	repo := newMockRepo()
	embed := &mockEmbedder{err: errors.New("provider down")}
	svc := New(repo, embed)

	_, err := svc.Upsert(context.Background(), ItemInput{ID: "a", Title: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "embed item a") {
		t.Errorf("err = %v, want embed context", err)
	}
	if len(repo.items) != 0 {
		t.Error("failed embed must not store the item")
	}
}

func TestBatchUpsert_UsesBatchProvider(t *testing.T) {
	repo := newMockRepo()
	embed := &mockBatchEmbedder{}
	svc := New(repo, embed)

	items, err := svc.BatchUpsert(context.Background(), []ItemInput{
		{ID: "a", Title: "Item A", Description: "first"},
		{ID: "b", Title: "Item B", Description: "second"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(embed.batchCalls) != 1 {
		t.Fatalf("batch calls = %d, want 1 combined call", len(embed.batchCalls))
	}
	if len(embed.calls) != 0 {
		t.Errorf("single embed calls = %d, want 0 when batching", len(embed.calls))
	}
	if got := embed.batchCalls[0]; len(got) != 2 || got[0] != "Item A first" || got[1] != "Item B second" {
		t.Errorf("batch texts = %v", got)
	}
	if len(items) != 2 || len(repo.items) != 2 {
		t.Errorf("stored = %d returned = %d, want 2/2", len(repo.items), len(items))
	}
}

func TestBatchUpsert_FallsBackToSingleEmbeds(t *testing.T) {
	repo := newMockRepo()
	embed := &mockEmbedder{}
	svc := New(repo, embed)

	_, err := svc.BatchUpsert(context.Background(), []ItemInput{
		{ID: "a", Title: "Item A"},
		{ID: "b", Title: "Item B"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embed.calls) != 2 {
		t.Errorf("embed calls = %d, want one per item", len(embed.calls))
	}
}

func TestBatchUpsert_Empty(t *testing.T) {
	svc := New(newMockRepo(), &mockEmbedder{})

	items, err := svc.BatchUpsert(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items != nil {
		t.Errorf("items = %v, want nil", items)
	}
}

func TestBatchUpsert_ValidatesBeforeEmbedding(t *testing.T) {
	embed := &mockBatchEmbedder{}
	svc := New(newMockRepo(), embed)

	_, err := svc.BatchUpsert(context.Background(), []ItemInput{
		{ID: "a", Title: "ok"},
		{ID: "", Title: "missing id"},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if len(embed.batchCalls) != 0 {
		t.Error("invalid batch must not reach the provider")
	}
}

func TestGetAndDelete_Passthrough(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, &mockEmbedder{})

	it := item.New("a", "Item A", "", 1, "misc", nil)
	repo.items["a"] = it

	got, err := svc.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != "a" {
		t.Errorf("got id = %q, want a", got.ID())
	}

	if err := svc.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), "a"); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}
