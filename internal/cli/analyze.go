package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tanwk/counselor/internal/model"
)

var (
	outPath        string
	requestTimeout time.Duration
	llmProvider    string
	llmModel       string
	embedProvider  string
	embedModel     string
	noCache        bool
	threshold      float64
	topK           int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <query>",
	Short: "Analyze a legal scenario against the PDPA",
	Long: `Analyze processes a single natural-language legal scenario:
- Extracts key legal terms (entity model + lexical rules)
- Retrieves relevant provisions, definitions, schedules and subsidiary legislation
- Generates a citation-to-reasoning analysis
- Publishes the validated result atomically

Example:
  counselor analyze "An employee asks her former employer for a copy of all personal data held about her."
  counselor analyze "A clinic emailed patient records to the wrong recipient." --out result.json
  counselor analyze "..." --llm-provider anthropic --llm-model claude-3-5-sonnet-20241022`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outPath, "out", "", "published result path (default from config: output.json)")
	analyzeCmd.Flags().DurationVar(&requestTimeout, "timeout", 3*time.Minute, "overall request timeout")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "generative backend (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "generative model name")
	analyzeCmd.Flags().StringVar(&embedProvider, "embed-provider", "", "embedding backend (openai, ollama)")
	analyzeCmd.Flags().StringVar(&embedModel, "embed-model", "", "embedding model name")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
	analyzeCmd.Flags().Float64Var(&threshold, "threshold", 0, "category similarity threshold override")
	analyzeCmd.Flags().IntVar(&topK, "top-k", 0, "max matched categories override")
}

// applyFlags folds analyze/batch/watch flag overrides into the config.
func applyFlags(cfg *model.Config) {
	if outPath != "" {
		cfg.Output.Path = outPath
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if embedProvider != "" {
		cfg.Embedding.Provider = embedProvider
	}
	if embedModel != "" {
		cfg.Embedding.Model = embedModel
	}
	if noCache {
		cfg.Embedding.CacheEnabled = false
	}
	if threshold > 0 {
		cfg.Retrieval.SimilarityThreshold = threshold
	}
	if topK > 0 {
		cfg.Retrieval.MaxCategories = topK
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(args[0])
	if query == "" {
		return fmt.Errorf("query must not be empty")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result := p.analyzer.Process(ctx, query)
	if err := p.publisher.Publish(result); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}

	printResult(result)
	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Published %s (seq %d)\n", p.publisher.Path(), result.Seq)
	}
	return nil
}

// printResult renders a result summary to stdout.
func printResult(result *model.Result) {
	fmt.Printf("Status: %s\n", result.Status)
	if len(result.KeyTerms) > 0 {
		fmt.Printf("Key terms: %s\n", strings.Join(result.KeyTerms, ", "))
	}
	if result.Degraded {
		fmt.Println("Note: entity recognition was unavailable; extraction used lexical rules only")
	}

	switch result.Status {
	case model.StatusSuccess:
		fmt.Println("\nRelevant provisions:")
		for _, key := range result.Analysis.Keys() {
			reasoning, _ := result.Analysis.Get(key)
			fmt.Printf("\n  %s\n    %s\n", key, reasoning)
		}
	case model.StatusNoMatches:
		fmt.Println("No relevant PDPA provisions found for this query.")
	case model.StatusError:
		fmt.Printf("Error (%s): %s\n", result.ErrorKind, result.Error)
	}
}
