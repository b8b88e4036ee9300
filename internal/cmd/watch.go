package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dirshaye/LogInsight/internal/output"
	"github.com/dirshaye/LogInsight/internal/processor"
	"github.com/dirshaye/LogInsight/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-analyze log files whenever they change",
	Long: `Watch one or more log files (or glob patterns) and re-run the anomaly
analysis whenever a watched file is written to. Rapid bursts of writes
are coalesced into a single run.

Examples:
  loginsight watch /var/log/app.log
  loginsight watch "/var/log/**/*.log" --threshold 1.5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "shutting down...")
		cancel()
	}()

	w, err := watcher.New(args)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if len(w.Paths()) == 0 {
		return fmt.Errorf("no files matched the given patterns: %v", args)
	}

	fmt.Fprintf(os.Stderr, "watching %d file(s):\n", len(w.Paths()))
	for _, p := range w.Paths() {
		fmt.Fprintf(os.Stderr, "  • %s\n", p)
	}

	proc := processor.New(buildConfig())
	renderer := chooseRenderer()

	// Analyze everything once up front, then again on every change.
	for _, p := range w.Paths() {
		analyzeOne(proc, renderer, p)
	}

	go w.Start(ctx)

	for path := range w.Triggers {
		analyzeOne(proc, renderer, path)
	}
	return nil
}

// analyzeOne runs a single analysis pass, logging instead of aborting so
// the watch loop survives transient failures.
func analyzeOne(proc *processor.Processor, renderer output.Renderer, path string) {
	outcome, err := proc.ProcessFile(path)
	if err != nil {
		log.Printf("analyze %s: %v", path, err)
		return
	}
	if err := renderer.Render(outcome); err != nil {
		log.Printf("render %s: %v", path, err)
	}
}
