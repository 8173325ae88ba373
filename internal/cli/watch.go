package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Interactively analyze scenarios from stdin",
	Long: `Watch reads legal scenarios from stdin, one per line, and publishes
each result as it completes. External consumers can poll the published
file; the sequence number increases with every publication.

Type a scenario and press enter; 'quit' or EOF exits.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&outPath, "out", "", "published result path (default from config: output.json)")
	watchCmd.Flags().DurationVar(&requestTimeout, "timeout", 3*time.Minute, "per-query timeout")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Results publish to %s. Enter a legal scenario ('quit' to exit):\n", p.publisher.Path())

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "quit" || query == "exit" || query == "q" {
			break
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		result := p.analyzer.Process(ctx, query)
		cancel()

		if err := p.publisher.Publish(result); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: publish failed: %v\n", err)
		}
		printResult(result)
		fmt.Println()
	}
	return scanner.Err()
}
