package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestKey_Distinct(t *testing.T) {
	k1 := Key("openai", "text-embedding-3-small", "personal data")
	k2 := Key("openai", "text-embedding-3-large", "personal data")
	k3 := Key("ollama", "text-embedding-3-small", "personal data")
	k4 := Key("openai", "text-embedding-3-small", "consent")

	keys := map[string]bool{k1: true, k2: true, k3: true, k4: true}
	if len(keys) != 4 {
		t.Errorf("Expected 4 distinct keys, got %d", len(keys))
	}
	if k1 != Key("openai", "text-embedding-3-small", "personal data") {
		t.Error("Key must be deterministic")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss for absent key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if val, found := c.Get("k"); !found || !bytes.Equal(val, []byte("v")) {
		t.Errorf("Get = %q, %v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}

func TestDiskCache(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set(Key("e", "m", "text"), []byte("vector"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if val, found := c.Get(Key("e", "m", "text")); !found || !bytes.Equal(val, []byte("vector")) {
		t.Errorf("Get = %q, %v", val, found)
	}

	// A fresh cache over the same directory sees the entry
	c2 := NewDiskCache(c.dir, time.Minute)
	if _, found := c2.Get(Key("e", "m", "text")); !found {
		t.Error("Expected persisted entry across instances")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A second layered cache over the same disk dir has a cold memory
	// tier; the read must fall through to disk and promote
	c2 := NewLayeredCache(time.Minute, dir, time.Minute)
	if val, found := c2.Get("k"); !found || !bytes.Equal(val, []byte("v")) {
		t.Fatalf("Get = %q, %v", val, found)
	}
	if val, found := c2.memory.Get("k"); !found || !bytes.Equal(val, []byte("v")) {
		t.Errorf("Expected promotion into memory tier, got %q, %v", val, found)
	}
}

func TestLayeredCache_Clear(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Minute)

	_ = c.Set("k", []byte("v"), time.Minute)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after clear")
	}
}
