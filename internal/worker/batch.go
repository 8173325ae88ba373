package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tanwk/counselor/internal/model"
)

// Processor processes a single query to a terminal result. Satisfied by
// the analysis orchestrator.
type Processor interface {
	Process(ctx context.Context, query string) *model.Result
}

// QueryJob is one query scheduled on the pool
type QueryJob struct {
	Query     string
	Processor Processor
}

// Execute runs the query through the processor
func (j *QueryJob) Execute(ctx context.Context) Result {
	return &QueryResult{
		Query:  j.Query,
		Result: j.Processor.Process(ctx, j.Query),
	}
}

// QueryResult wraps a processed result for the pool
type QueryResult struct {
	Query  string
	Result *model.Result
}

// GetError returns an error when the query terminated with error status
func (r *QueryResult) GetError() error {
	if r.Result != nil && r.Result.Status == model.StatusError {
		return fmt.Errorf("%s: %s", r.Result.ErrorKind, r.Result.Error)
	}
	return nil
}

// BatchProcessor runs many queries concurrently over a shared processor
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// ProcessQueries processes queries concurrently, returning results in
// completion order
func (b *BatchProcessor) ProcessQueries(ctx context.Context, queries []string) []*QueryResult {
	if len(queries) == 0 {
		return []*QueryResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, q := range queries {
		pool.Submit(&QueryJob{Query: q, Processor: b.processor})
	}

	results := pool.Wait()

	queryResults := make([]*QueryResult, len(results))
	for i, r := range results {
		queryResults[i] = r.(*QueryResult)
	}
	return queryResults
}

// ProcessFile reads queries from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*QueryResult, error) {
	queries, err := ReadQueriesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}
	return b.ProcessQueries(ctx, queries), nil
}

// ReadQueriesFromFile reads queries from a file, one per line. Blank
// lines and lines starting with # are skipped.
func ReadQueriesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var queries []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return queries, nil
}
