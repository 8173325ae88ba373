// Package cache provides the byte-value cache backing embedding lookups.
// Knowledge-base embeddings are stable across runs, so a disk tier saves
// one full embedding pass per process start.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from an embedder name, model and input text.
// Vectors from different models must never collide.
func Key(embedder, model, text string) string {
	hash := sha256.Sum256([]byte(embedder + "\x00" + model + "\x00" + text))
	return "counselor:v1:" + hex.EncodeToString(hash[:])
}
