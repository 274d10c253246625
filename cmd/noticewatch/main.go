package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/noticewatch/internal/cli"
	"github.com/example/noticewatch/internal/version"
	"github.com/example/noticewatch/internal/wire"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "noticewatch",
		Short:   "noticewatch - legislative hearing-notice anomaly triage",
		Version: version.String(),
		Long: `noticewatch classifies suspicious legislative hearing notices. It logs
flagged notices, groups them by signature for human review, and learns
whitelist patterns that auto-classify recurring clerical corrections.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			wire.SetConfigPath(configPath)
			return wire.Init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default noticewatch.yaml, or NOTICEWATCH_CONFIG)")

	rootCmd.AddCommand(cli.AggregateCmd())
	rootCmd.AddCommand(cli.ReviewCmd())
	rootCmd.AddCommand(cli.LearnCmd())
	rootCmd.AddCommand(cli.CheckCmd())
	rootCmd.AddCommand(cli.PatternsCmd())
	rootCmd.AddCommand(cli.LogCmd())
	rootCmd.AddCommand(cli.StatsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(cli.ExitCode())
}
