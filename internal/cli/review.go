package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/noticewatch/internal/core/aggregate"
	"github.com/example/noticewatch/internal/ctxutil"
	"github.com/example/noticewatch/internal/ports/primary"
	"github.com/example/noticewatch/internal/wire"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Interactively review grouped suspicious notices",
	Long: `Walk the review dataset case by case. Each decision is written to the
completed-reviews log immediately, so quitting mid-session loses
nothing. Review progress in the dataset is saved on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		if reviewer, _ := cmd.Flags().GetString("reviewer"); reviewer != "" {
			ctx = ctxutil.WithReviewer(ctx, reviewer)
		}
		if dataset, _ := cmd.Flags().GetString("dataset"); dataset != "" {
			wire.Config().DatasetPath = dataset
		}
		if reviews, _ := cmd.Flags().GetString("reviews"); reviews != "" {
			wire.Config().ReviewsPath = reviews
		}

		session, err := wire.ReviewService().StartSession(ctx)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Println("No review dataset found. Run 'noticewatch aggregate' first.")
				os.Exit(1)
			}
			return err
		}

		reviewed, total := session.Progress()
		if reviewed == total && total > 0 {
			fmt.Println("All cases already reviewed. Run 'noticewatch learn' to mine patterns.")
			return nil
		}
		if total == 0 {
			fmt.Println("Dataset has no grouped cases to review.")
			return nil
		}

		fmt.Printf("Reviewing %d cases (%d already done). Type ? for help.\n", total, reviewed)

		reader := bufio.NewReader(os.Stdin)
		if err := runReviewLoop(ctx, session, reader); err != nil {
			return err
		}

		if err := session.Finish(ctx); err != nil {
			return err
		}
		reviewed, total = session.Progress()
		fmt.Printf("\nSession saved: %d of %d cases reviewed.\n", reviewed, total)
		return nil
	},
}

func runReviewLoop(ctx context.Context, session primary.ReviewSession, reader *bufio.Reader) error {
	for {
		c, g, ok := session.Current()
		if !ok {
			fmt.Println("\nNo cases left to review.")
			return nil
		}

		displayCase(c, g, session)

		choice, err := promptChoice(reader)
		if err != nil {
			return err
		}

		switch choice {
		case "c":
			notes := promptNotes(reader)
			if err := session.Decide(ctx, aggregate.DeterminationClerical, notes); err != nil {
				return err
			}
			fmt.Println(color.GreenString("Marked clerical."))
		case "v":
			notes := promptNotes(reader)
			if err := session.Decide(ctx, aggregate.DeterminationViolation, notes); err != nil {
				return err
			}
			fmt.Println(color.RedString("Marked violation."))
		case "g":
			det, ok := promptGroupDetermination(reader, g)
			if !ok {
				continue
			}
			notes := promptNotes(reader)
			n, err := session.DecideGroup(ctx, det, notes)
			if err != nil {
				return err
			}
			fmt.Printf("Applied to %d cases in group.\n", n)
		case "s":
			session.Skip()
		case "q":
			return nil
		case "?":
			printReviewHelp()
		default:
			fmt.Println("Unrecognized choice. Type ? for help.")
		}
	}
}

func displayCase(c *aggregate.CaseDoc, g *aggregate.GroupDoc, session primary.ReviewSession) {
	groupCur, groupTotal := session.GroupPosition()
	reviewed, total := session.Progress()

	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	header := color.New(color.FgHiCyan, color.Bold)
	header.Printf("Group %d/%d: %s\n", groupCur, groupTotal, g.PatternDescription)
	fmt.Printf("Group size: %d cases | Session progress: %d/%d reviewed\n",
		g.CaseCount, reviewed, total)
	if g.ConfidenceScore != nil {
		fmt.Printf("Group clerical confidence so far: %.0f%%\n", *g.ConfidenceScore*100)
	}
	fmt.Println(strings.Repeat("-", 70))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Bill:\t%s (committee %s)\n", c.BillID, c.CommitteeID)
	if c.BillURL != "" {
		fmt.Fprintf(w, "URL:\t%s\n", c.BillURL)
	}
	fmt.Fprintf(w, "Announced:\t%s\n", c.ProblematicHearing.AnnouncementDate)
	fmt.Fprintf(w, "Hearing:\t%s\n", c.ProblematicHearing.ScheduledHearingDate)
	fmt.Fprintf(w, "Notice days:\t%s\n", describeNoticeDays(c.ProblematicHearing.NoticeDays))
	fmt.Fprintf(w, "Action:\t%s\n", c.ProblematicHearing.ActionType)
	w.Flush()

	if c.PriorAnnouncement != nil {
		prior := c.PriorAnnouncement
		if prior.NoticeDays != nil {
			fmt.Printf("Prior notice: announced %s with %d days lead time\n",
				prior.AnnouncementDate, *prior.NoticeDays)
		} else {
			fmt.Printf("Prior notice: announced %s\n", prior.AnnouncementDate)
		}
	} else {
		fmt.Println(color.YellowString("No prior announcement on record."))
	}

	if c.TimelineSummary.TotalHearingActions > 1 {
		fmt.Printf("Timeline (%d hearing actions):\n", c.TimelineSummary.TotalHearingActions)
		for _, a := range c.TimelineSummary.ActionSequence {
			fmt.Printf("  %s  %-22s hearing %s (%d days notice)\n",
				a.AnnouncementDate, a.ActionType, a.HearingDate, a.NoticeDays)
		}
	}

	if c.Evidence.TimeChanged {
		fmt.Println("Evidence: same-day time change detected")
	}
	if c.Evidence.TextContainsVirtual {
		fmt.Println("Evidence: action text mentions virtual attendance")
	}

	if c.PriorAnnouncement != nil && c.Evidence.TimeChanged {
		fmt.Println(color.CyanString("Likely clerical: proper prior notice with a same-day time change."))
	}

	if suggestion, ok := strings.CutPrefix(c.WhitelistPatternID, "suggested_clerical:"); ok {
		hint := color.New(color.FgHiMagenta)
		hint.Printf("Hint: pattern %s matched below the auto-classify threshold.\n", suggestion)
	}

	if c.ProblematicHearing.RawText != "" {
		fmt.Printf("Raw text: %s\n", c.ProblematicHearing.RawText)
	}
}

func describeNoticeDays(days int) string {
	switch {
	case days < 0:
		return color.RedString("%d (announced after the hearing)", days)
	case days == 0:
		return color.YellowString("0 (same-day announcement)")
	default:
		return fmt.Sprintf("%d", days)
	}
}

func promptChoice(reader *bufio.Reader) (string, error) {
	fmt.Print("\n[C]lerical  [V]iolation  [G]roup apply  [S]kip  [Q]uit  [?] help > ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}

func promptNotes(reader *bufio.Reader) string {
	fmt.Print("Notes (optional): ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func promptGroupDetermination(reader *bufio.Reader, g *aggregate.GroupDoc) (string, bool) {
	pending := len(g.PendingCases())
	fmt.Printf("Apply one determination to all %d pending cases in this group.\n", pending)
	fmt.Print("[c]lerical, [v]iolation, or anything else to cancel: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "c":
		return aggregate.DeterminationClerical, true
	case "v":
		return aggregate.DeterminationViolation, true
	default:
		fmt.Println("Cancelled.")
		return "", false
	}
}

func printReviewHelp() {
	fmt.Println(`
  c  mark this case a clerical correction (not a violation)
  v  mark this case a notice violation
  g  apply one determination to every pending case in the group
  s  skip this case for now (stays pending)
  q  quit; decisions so far are already saved
  ?  show this help`)
}

func init() {
	reviewCmd.Flags().String("reviewer", "", "Record decisions under this reviewer (default from config)")
	reviewCmd.Flags().String("dataset", "", "review dataset to load and update (overrides config)")
	reviewCmd.Flags().String("reviews", "", "completed-reviews log to append to (overrides config)")
}

// ReviewCmd returns the review command
func ReviewCmd() *cobra.Command {
	return reviewCmd
}
