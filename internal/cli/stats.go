package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/noticewatch/internal/wire"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show decision rollups from the archive",
	Long: `Rebuild the decision archive from the completed-reviews log and print
totals by determination, reviewer, and committee.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg := wire.Config()
		if reviews, _ := cmd.Flags().GetString("reviews"); reviews != "" {
			cfg.ReviewsPath = reviews
		}
		if logPath, _ := cmd.Flags().GetString("log"); logPath != "" {
			cfg.NoticeLogPath = logPath
		}
		if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
			cfg.ArchiveDBPath = dbPath
		}

		svc, err := wire.StatsService()
		if err != nil {
			return fmt.Errorf("failed to open decision archive: %w", err)
		}
		defer wire.CloseArchive()

		stats, err := svc.Stats(ctx)
		if err != nil {
			return err
		}

		if stats.TotalDecisions == 0 {
			fmt.Println("No decisions recorded yet.")
			return nil
		}

		fmt.Printf("Decisions: %d (%d clerical, %d violation)\n",
			stats.TotalDecisions, stats.ClericalCount, stats.ViolationCount)
		fmt.Printf("Distinct bills: %d | group-applied: %d\n",
			stats.DistinctBills, stats.GroupApplied)

		if len(stats.ByReviewer) > 0 {
			fmt.Println("\nBy reviewer:")
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "REVIEWER\tDECISIONS")
			for _, rc := range stats.ByReviewer {
				fmt.Fprintf(w, "%s\t%d\n", rc.Reviewer, rc.Count)
			}
			w.Flush()
		}

		if len(stats.ByCommittee) > 0 {
			fmt.Println("\nBy committee:")
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "COMMITTEE\tDECISIONS\tCLERICAL\tVIOLATION")
			for _, cc := range stats.ByCommittee {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\n",
					cc.CommitteeID, cc.Count, cc.ClericalCount, cc.ViolationCount)
			}
			w.Flush()
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("reviews", "", "completed-reviews log to rebuild from (overrides config)")
	statsCmd.Flags().String("log", "", "notice log used to attribute committees (overrides config)")
	statsCmd.Flags().String("db", "", "archive database path (overrides config)")
}

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return statsCmd
}
