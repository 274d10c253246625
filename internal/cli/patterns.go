package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/noticewatch/internal/wire"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Inspect learned clerical patterns",
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List patterns in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		patterns := wire.PatternService().List(ctx)
		if len(patterns) == 0 {
			fmt.Println("No patterns learned yet. Run 'noticewatch learn' after reviewing.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCONFIDENCE\tSAMPLES\tENABLED\tNAME")
		fmt.Fprintln(w, "--\t----------\t-------\t-------\t----")
		for _, p := range patterns {
			fmt.Fprintf(w, "%s\t%.2f\t%d\t%t\t%s\n",
				p.ID, p.Confidence, p.SampleSize, p.Enabled, p.Name)
		}
		w.Flush()
		return nil
	},
}

var patternsShowCmd = &cobra.Command{
	Use:   "show [pattern-id]",
	Short: "Show one pattern with its criteria",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		p, ok := wire.PatternService().Get(ctx, args[0])
		if !ok {
			return fmt.Errorf("pattern %s not found", args[0])
		}

		fmt.Printf("Pattern: %s\n", p.ID)
		fmt.Printf("Name: %s\n", p.Name)
		fmt.Printf("Confidence: %.2f over %d cases\n", p.Confidence, p.SampleSize)
		fmt.Printf("Enabled: %t\n", p.Enabled)
		if p.Description != "" {
			fmt.Printf("Description: %s\n", p.Description)
		}
		if p.ReviewerNotes != "" {
			fmt.Printf("Reviewer notes: %s\n", p.ReviewerNotes)
		}
		if len(p.ExampleBills) > 0 {
			fmt.Printf("Example bills: %v\n", p.ExampleBills)
		}

		criteria, err := json.MarshalIndent(p.Criteria, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render criteria: %w", err)
		}
		fmt.Printf("Criteria:\n%s\n", criteria)
		return nil
	},
}

func init() {
	patternsCmd.AddCommand(patternsListCmd)
	patternsCmd.AddCommand(patternsShowCmd)
}

// PatternsCmd returns the patterns command
func PatternsCmd() *cobra.Command {
	return patternsCmd
}
