// Package publish owns result delivery. Consumers poll the published
// file for changes, so a result must never be observable half-written: a
// torn read would look like "still processing" or, worse, parse as valid
// partial JSON. Documents are written to a temp file and renamed into
// place, and each carries a monotonic sequence number so two identical
// outputs from distinct queries are still distinguishable.
package publish

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tanwk/counselor/internal/model"
)

// Publisher atomically publishes result documents to a file path and an
// in-process snapshot.
type Publisher struct {
	path   string
	mu     sync.Mutex
	seq    uint64
	latest atomic.Pointer[model.Result]
}

// NewPublisher creates a publisher targeting path. The parent directory
// must exist; rename is only atomic within one filesystem.
func NewPublisher(path string) *Publisher {
	return &Publisher{path: path}
}

// Publish stamps the result with the next sequence number, publication
// time and content hash, then atomically replaces the published file.
// The stamped result is also available via Latest.
func (p *Publisher) Publish(result *model.Result) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	result.Seq = p.seq
	result.PublishedAt = time.Now().UTC()
	result.ContentHash = ""

	// Hash the document before the hash field is stamped in
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	sum := sha256.Sum256(payload)
	result.ContentHash = hex.EncodeToString(sum[:])

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	data = append(data, '\n')

	if err := p.writeAtomic(data); err != nil {
		return err
	}

	p.latest.Store(result)
	return nil
}

// writeAtomic writes data to a temp file in the target directory and
// renames it over the published path.
func (p *Publisher) writeAtomic(data []byte) error {
	dir := filepath.Dir(p.path)

	tmp, err := os.CreateTemp(dir, ".publish-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, p.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("publish result: %w", err)
	}
	return nil
}

// Latest returns the most recently published result, or nil.
func (p *Publisher) Latest() *model.Result {
	return p.latest.Load()
}

// Path returns the published file path.
func (p *Publisher) Path() string {
	return p.path
}
