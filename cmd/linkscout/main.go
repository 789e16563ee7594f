// Package main implements the linkscout CLI for guest-post outreach.
//
// linkscout discovers guest-post candidate sites for configured topics,
// analyzes them for submission contact methods, sends outreach messages
// and reconciles inbound replies against tracked opportunities.
//
// Configuration is loaded from an optional YAML file plus environment
// variables. See internal/config for details.
//
// Usage:
//
//	# Run the outreach pipeline for the configured topics
//	linkscout run
//
//	# Run a single topic, ignoring the configured list
//	linkscout run --topic "web3 marketing"
//
//	# List opportunities whose follow-up is due
//	linkscout followups
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/linkscout/internal/analyzer"
	"github.com/fyrsmithlabs/linkscout/internal/config"
	"github.com/fyrsmithlabs/linkscout/internal/contact"
	"github.com/fyrsmithlabs/linkscout/internal/logging"
	"github.com/fyrsmithlabs/linkscout/internal/orchestrator"
	"github.com/fyrsmithlabs/linkscout/internal/search"
	"github.com/fyrsmithlabs/linkscout/internal/store"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var (
	// configPath is the optional YAML configuration file.
	configPath string
	// topicOverride runs a single topic instead of the configured list.
	topicOverride string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "linkscout",
	Short: "Guest-post backlink outreach pipeline",
	Long: `linkscout automates guest-post backlink outreach: it searches for
candidate sites per topic, analyzes each for submission contact methods,
sends personalized outreach and tracks every opportunity through reply.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML configuration file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(followupsCmd)
	rootCmd.AddCommand(versionCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the outreach pipeline for the configured topics",
	Long: `Run the full pipeline: search, analyze, contact and reconcile
replies, once per configured topic.

Examples:
  # Process every configured topic
  linkscout run

  # Process one topic only
  linkscout run --topic "web3 marketing"`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&topicOverride, "topic", "", "process a single topic instead of the configured list")
}

var followupsCmd = &cobra.Command{
	Use:   "followups",
	Short: "List opportunities whose follow-up is due",
	Long: `List every opportunity that was emailed successfully, has no
recorded response, and is due for a follow-up as of today.`,
	RunE: runFollowups,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("linkscout by Fyrsmith Labs\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}

// signalContext cancels on SIGINT/SIGTERM. The pipeline stops before
// the next topic rather than mid-item.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if topicOverride != "" {
		cfg.Pipeline.Topic = topicOverride
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx, cancel := signalContext()
	defer cancel()

	records := store.New(ctx, cfg.Store, log.Named("store"))
	defer records.Close() //nolint:errcheck

	orch := orchestrator.New(
		search.NewService(cfg.Search, log.Named("search")),
		analyzer.New(cfg.Analyzer, log.Named("analyzer")),
		contact.New(cfg.Contact, log.Named("contact")),
		records,
		orchestrator.Options{
			TopicCooldown: cfg.Pipeline.TopicCooldown,
			AnalyzeDelay:  cfg.Analyzer.Delay,
			LookbackDays:  cfg.Pipeline.LookbackDays,
			FromName:      cfg.Contact.FromName,
			FromEmail:     cfg.Contact.FromEmail,
		},
		log.Named("orchestrator"),
	)

	report, err := orch.Run(ctx, cfg.Topics())
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}
	return nil
}

func printReport(cmd *cobra.Command, report *orchestrator.Report) {
	t := report.Totals()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run finished in %s\n", report.Finished.Sub(report.Started).Round(time.Second))
	fmt.Fprintf(out, "  Topics:             %d\n", len(report.Topics))
	fmt.Fprintf(out, "  Sites discovered:   %d\n", t.Discovered)
	fmt.Fprintf(out, "  Contacted:          %d\n", t.Contacted)
	fmt.Fprintf(out, "  No contact method:  %d\n", t.NoContact)
	fmt.Fprintf(out, "  Errors:             %d\n", t.Errors)
	fmt.Fprintf(out, "  Replies matched:    %d\n", t.RepliesMatched)
	fmt.Fprintf(out, "  Replies unmatched:  %d\n", t.RepliesUnmatched)
}

func runFollowups(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx, cancel := signalContext()
	defer cancel()

	records := store.New(ctx, cfg.Store, log.Named("store"))
	defer records.Close() //nolint:errcheck

	due, err := records.DueForFollowup(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to query follow-ups: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(due) == 0 {
		fmt.Fprintln(out, "No follow-ups due.")
		return nil
	}
	for _, opp := range due {
		sentAt := "unknown"
		if opp.EmailSentAt != nil {
			sentAt = opp.EmailSentAt.Format("2006-01-02")
		}
		fmt.Fprintf(out, "%s\t%s\t(emailed %s)\n", opp.SiteName, opp.URL, sentAt)
	}
	log.Info("follow-ups due", zap.Int("count", len(due)))
	return nil
}
