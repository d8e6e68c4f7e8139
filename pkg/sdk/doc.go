// Package relevance provides an embedded Go client for the relevance hybrid
// ranking engine backed by Redis with search modules.
//
// The client wires the full engine in-process: lexical BM25 and semantic KNN
// retrieval over one catalog index, reciprocal rank fusion, optional query
// expansion, and per-user personalization.
//
//	client, _ := relevance.New(ctx,
//	    relevance.WithRedis("localhost:6379", ""),
//	    relevance.WithOpenAI(apiKey, "text-embedding-3-small", 1536),
//	)
//	defer client.Close()
//
//	_ = client.Items().Upsert(ctx, relevance.Item{
//	    ID: "mug-1", Title: "Travel mug", Category: "kitchen", Price: 19.9,
//	})
//	resp, _ := client.Search(ctx, "gift for mom", relevance.SearchOptions{Limit: 10})
package relevance
