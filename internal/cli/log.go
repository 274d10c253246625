package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/noticewatch/internal/wire"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Inspect the suspicious-notice log",
}

var logShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List logged notices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		summary, _ := cmd.Flags().GetBool("summary")

		notices, err := wire.NoticeLogService().List(ctx)
		if err != nil {
			return err
		}
		if len(notices) == 0 {
			fmt.Println("Notice log is empty.")
			return nil
		}

		if summary {
			byCommittee := make(map[string]int)
			whitelisted := 0
			for _, n := range notices {
				byCommittee[n.CommitteeID]++
				if n.WhitelistPatternID != "" && !strings.HasPrefix(n.WhitelistPatternID, "suggested_clerical:") {
					whitelisted++
				}
			}
			fmt.Printf("%d notices logged, %d whitelisted, %d committees affected\n",
				len(notices), whitelisted, len(byCommittee))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "BILL\tCOMMITTEE\tANNOUNCED\tHEARING\tDAYS\tACTION\tPATTERN")
		fmt.Fprintln(w, "----\t---------\t---------\t-------\t----\t------\t-------")
		for _, n := range notices {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
				n.BillID, n.CommitteeID,
				n.AnnouncementDate, n.ScheduledHearingDate,
				n.NoticeDays, n.ActionType, n.WhitelistPatternID)
		}
		w.Flush()
		return nil
	},
}

var logClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Destroy the notice log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		force, _ := cmd.Flags().GetBool("force")

		if !force && !confirmPrompt("Destroy the notice log? This cannot be undone.") {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := wire.NoticeLogService().Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear notice log: %w", err)
		}
		fmt.Println("Notice log cleared.")
		return nil
	},
}

func confirmPrompt(msg string) bool {
	fmt.Printf("%s [y/N]: ", msg)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func init() {
	logShowCmd.Flags().Bool("summary", false, "Print a one-line digest instead of the full table")
	logClearCmd.Flags().Bool("force", false, "Skip the confirmation prompt")

	logCmd.AddCommand(logShowCmd)
	logCmd.AddCommand(logClearCmd)
}

// LogCmd returns the log command
func LogCmd() *cobra.Command {
	return logCmd
}
