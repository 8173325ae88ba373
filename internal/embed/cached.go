package embed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tanwk/counselor/internal/cache"
)

// CachedEmbedder wraps an Embedder with a cache keyed by embedder, model
// and text. Only texts that miss the cache are sent to the provider.
type CachedEmbedder struct {
	inner Embedder
	model string
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedEmbedder wraps inner with the given cache. model is recorded
// in cache keys so a model change invalidates old vectors.
func NewCachedEmbedder(inner Embedder, model string, c cache.Cache, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, model: model, cache: c, ttl: ttl}
}

// Name returns the wrapped embedder's name
func (e *CachedEmbedder) Name() string {
	return e.inner.Name()
}

// Embed serves cached vectors and fetches only the misses
func (e *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missTexts []string
	var missIdx []int

	for i, text := range texts {
		key := cache.Key(e.inner.Name(), e.model, text)
		if data, found := e.cache.Get(key); found {
			var vec []float32
			if err := json.Unmarshal(data, &vec); err == nil && len(vec) > 0 {
				vectors[i] = vec
				continue
			}
			// Corrupt entry: drop it and re-fetch
			_ = e.cache.Delete(key)
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}

	fetched, err := e.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	for j, vec := range fetched {
		i := missIdx[j]
		vectors[i] = vec
		if data, err := json.Marshal(vec); err == nil {
			_ = e.cache.Set(cache.Key(e.inner.Name(), e.model, texts[i]), data, e.ttl)
		}
	}
	return vectors, nil
}
