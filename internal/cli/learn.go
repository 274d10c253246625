package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/noticewatch/internal/app"
	"github.com/example/noticewatch/internal/ports/primary"
	"github.com/example/noticewatch/internal/wire"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Mine clerical patterns from completed reviews",
	Long: `Replay the completed-reviews log onto the dataset and derive whitelist
patterns from signature groups with enough consistent clerical
determinations. Learned patterns are written to the pattern config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg := wire.Config()

		minSample, _ := cmd.Flags().GetInt("min-sample-size")
		minConfidence, _ := cmd.Flags().GetFloat64("min-confidence")
		noMerge, _ := cmd.Flags().GetBool("no-merge")
		summary, _ := cmd.Flags().GetBool("summary")

		if reviews, _ := cmd.Flags().GetString("reviews"); reviews != "" {
			cfg.ReviewsPath = reviews
		}
		if output, _ := cmd.Flags().GetString("output"); output != "" {
			cfg.PatternsPath = output
		}

		if minSample == 0 {
			minSample = cfg.MinSampleSize
		}
		if minConfidence == 0 {
			minConfidence = cfg.MinConfidence
		}

		result, err := wire.LearnService().Learn(ctx, primary.LearnRequest{
			MinSampleSize: minSample,
			MinConfidence: minConfidence,
			Merge:         !noMerge,
		})
		if errors.Is(err, app.ErrNoReviews) {
			fmt.Println("No completed reviews found. Run 'noticewatch review' first.")
			os.Exit(1)
		}
		if err != nil {
			return err
		}

		if len(result.Learned) == 0 {
			fmt.Printf("No group cleared the gates (min %d samples at %.0f%% clerical).\n",
				minSample, minConfidence*100)
			return nil
		}

		fmt.Printf("Learned %d pattern(s); pattern store now holds %d.\n\n",
			len(result.Learned), result.StoredTotal)
		if summary {
			return nil
		}
		for _, p := range result.Learned {
			title := color.New(color.FgHiGreen, color.Bold)
			title.Printf("%s  %s\n", p.ID, p.Name)
			fmt.Printf("  confidence %.2f over %d cases\n", p.Confidence, p.SampleSize)
			fmt.Printf("  %s\n", p.Description)
			if len(p.ExampleBills) > 0 {
				fmt.Printf("  examples: %v\n", p.ExampleBills)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	learnCmd.Flags().Int("min-sample-size", 0, "Minimum reviewed cases per group (default from config)")
	learnCmd.Flags().Float64("min-confidence", 0, "Minimum clerical fraction per group (default from config)")
	learnCmd.Flags().Bool("no-merge", false, "Replace the pattern store instead of merging by id")
	learnCmd.Flags().Bool("summary", false, "Print counts only, skip per-pattern details")
	learnCmd.Flags().String("reviews", "", "completed-reviews log to replay (overrides config)")
	learnCmd.Flags().String("output", "", "pattern config to write (overrides config)")
}

// LearnCmd returns the learn command
func LearnCmd() *cobra.Command {
	return learnCmd
}
