package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tanwk/counselor/internal/kb"
)

// kbCmd represents the kb command group
var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the knowledge base",
	Long: `Manage the statutory knowledge base: validate the four reference
documents or import a statute HTML export into a categories document.`,
}

var kbValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the knowledge base documents",
	Long: `Load all four knowledge base documents and report their contents.
Schema violations are reported and exit non-zero; the same validation
runs at startup of every analyzing command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		knowledge, err := kb.Load(cfg.KB)
		if err != nil {
			return fmt.Errorf("knowledge base invalid: %w", err)
		}

		fmt.Printf("Knowledge base OK\n")
		fmt.Printf("  Categories:  %d (%d provisions)\n", len(knowledge.Categories), knowledge.ProvisionCount())
		fmt.Printf("  Definitions: %d\n", len(knowledge.Definitions))
		fmt.Printf("  Schedules:   %d\n", len(knowledge.Schedules))
		fmt.Printf("  Subsidiary:  %d\n", len(knowledge.Subsidiary))
		return nil
	},
}

var kbImportOut string

var kbImportCmd = &cobra.Command{
	Use:   "import <statute.html>",
	Short: "Import a statute HTML export into a categories document",
	Long: `Import converts an HTML statute export into a categories JSON
document: h2 headings become categories, numbered h3 headings become
provisions. The output is a starting point for hand curation, not a
finished knowledge base.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := kb.ImportHTML(args[0], kbImportOut); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (review and curate key terms before use)\n", kbImportOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kbCmd)
	kbCmd.AddCommand(kbValidateCmd)

	kbImportCmd.Flags().StringVar(&kbImportOut, "out", "categories.json", "output path for the categories document")
	kbCmd.AddCommand(kbImportCmd)
}
