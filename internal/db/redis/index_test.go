package redis

import (
	"context"
	"strings"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/giftlane/relevance/internal/db"
)

func TestBuildCreateArgs(t *testing.T) {
	def := db.NewIndex("idx:items").
		Prefix("relevance:item:").
		Text("text").
		Tag("category").
		Numeric("price").
		VectorHNSW("vector", 1536, db.DistanceCosine, 16, 200).
		MustBuild()

	args, err := buildCreateArgs(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"idx:items", "ON", "HASH",
		"PREFIX", "1", "relevance:item:",
		"SCHEMA",
		"text", "TEXT",
		"category", "TAG",
		"price", "NUMERIC",
		"vector", "VECTOR", "HNSW", "10",
		"TYPE", "FLOAT32",
		"DIM", "1536",
		"DISTANCE_METRIC", "COSINE",
		"M", "16",
		"EF_CONSTRUCTION", "200",
	}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestBuildCreateArgs_HNSWDefaultsOmitted(t *testing.T) {
	def := db.NewIndex("idx").
		VectorHNSW("vector", 8, db.DistanceCosine, 0, 0).
		MustBuild()

	args, err := buildCreateArgs(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := strings.Join(args, " ")
	if strings.Contains(joined, "EF_CONSTRUCTION") || strings.Contains(joined, " M ") {
		t.Errorf("zero HNSW params must be omitted, got %q", joined)
	}
	if !strings.Contains(joined, "VECTOR HNSW 6") {
		t.Errorf("param count should shrink with omitted options, got %q", joined)
	}
}

func TestBuildCreateArgs_Invalid(t *testing.T) {
	if _, err := buildCreateArgs(&db.IndexDefinition{Name: ""}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE" && cmd[1] == "idx:items"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	def := db.NewIndex("idx:items").Prefix("relevance:item:").Text("text").MustBuild()

	s := NewStoreForTest(c)
	err := s.CreateIndex(context.Background(), def)
	if err != db.ErrIndexExists {
		t.Fatalf("err = %v, want ErrIndexExists", err)
	}
}

func TestIndexExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "idx:items")).
		Return(mock.Result(mock.RedisError("Unknown index name")))

	s := NewStoreForTest(c)
	ok, err := s.IndexExists(context.Background(), "idx:items")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected index to be absent")
	}
}
