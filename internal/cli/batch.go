package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tanwk/counselor/internal/model"
	"github.com/tanwk/counselor/internal/worker"
)

var (
	batchWorkers int
	batchOutDir  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many scenarios concurrently from a file",
	Long: `Batch reads queries from a file (one per line, # for comments) and
processes them concurrently over the shared knowledge base. Each result
is written to its own file in the output directory; a summary goes to
stdout.

Example:
  counselor batch queries.txt --workers 4 --out-dir results/`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "results", "directory for per-query result files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall batch timeout")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)
	if batchWorkers > 0 {
		cfg.Concurrency.Workers = batchWorkers
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(batchOutDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	processor := worker.NewBatchProcessor(p.analyzer, cfg.Concurrency.Workers)
	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return err
	}

	counts := map[model.Status]int{}
	for i, r := range results {
		counts[r.Result.Status]++

		path := fmt.Sprintf("%s/result-%03d.json", batchOutDir, i+1)
		data, err := json.MarshalIndent(r.Result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: marshal result for %q: %v\n", r.Query, err)
			continue
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: write %s: %v\n", path, err)
		}
	}

	fmt.Printf("Processed %d queries: %d success, %d no_matches, %d error\n",
		len(results), counts[model.StatusSuccess], counts[model.StatusNoMatches], counts[model.StatusError])
	return nil
}
