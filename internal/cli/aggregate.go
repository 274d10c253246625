// Package cli contains the cobra commands for noticewatch.
package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/noticewatch/internal/wire"
)

var (
	aggregateLogPath    string
	aggregateOutputPath string
	aggregateSummary    bool
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Group logged notices into the review dataset",
	Long: `Load the suspicious-notice log, group cases by signature, and write
the review dataset. Any previous dataset and its in-dataset review
progress are replaced; recorded decisions survive in the reviews log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg := wire.Config()
		if aggregateLogPath != "" {
			cfg.NoticeLogPath = aggregateLogPath
		}
		if aggregateOutputPath != "" {
			cfg.DatasetPath = aggregateOutputPath
		}

		ds, err := wire.AggregateService().Aggregate(ctx)
		if err != nil {
			return fmt.Errorf("failed to aggregate notices: %w", err)
		}

		fmt.Printf("Aggregated %d cases into %d signature groups (%d outlier cases)\n",
			ds.Metadata.TotalCases, len(ds.Groups), len(ds.Outliers))

		if aggregateSummary {
			fmt.Printf("Unreviewed: %d  Reviewed: %d  Sessions: %d  Committees: %d\n",
				ds.Metadata.UnreviewedCount, ds.Metadata.ReviewedCount,
				len(ds.Metadata.SessionsCovered), len(ds.Metadata.CommitteesAffected))
			return nil
		}

		if len(ds.Groups) == 0 {
			fmt.Println("Nothing to review.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CASES\tREVIEWED\tPATTERN")
		fmt.Fprintln(w, "-----\t--------\t-------")
		for _, g := range ds.Groups {
			fmt.Fprintf(w, "%d\t%d\t%s\n", g.CaseCount, g.ReviewedCount, g.PatternDescription)
		}
		w.Flush()

		fmt.Printf("\nRun 'noticewatch review' to start reviewing.\n")
		return nil
	},
}

func init() {
	aggregateCmd.Flags().StringVar(&aggregateLogPath, "log", "", "notice log to read (overrides config)")
	aggregateCmd.Flags().StringVar(&aggregateOutputPath, "output", "", "dataset file to write (overrides config)")
	aggregateCmd.Flags().BoolVar(&aggregateSummary, "summary", false, "print counts only, skip the group table")
}

// AggregateCmd returns the aggregate command
func AggregateCmd() *cobra.Command {
	return aggregateCmd
}
