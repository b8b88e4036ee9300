package cmd

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/dirshaye/LogInsight/internal/processor"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths...]",
	Short: "Analyze log files for anomalies",
	Long: `Analyze one or more log files (or glob patterns). Each file's format is
auto-detected, its entries are scored by the anomaly ensemble, and a
summary with the flagged entries is printed.

Examples:
  loginsight analyze /var/log/app.log
  loginsight analyze "/var/log/**/*.log" --workers 8
  loginsight analyze app.log --sequential --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	paths, err := expandArgs(args)
	if err != nil {
		return err
	}

	proc := processor.New(buildConfig())
	renderer := chooseRenderer()

	for _, path := range paths {
		outcome, err := proc.ProcessFile(path)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", path, err)
		}
		if err := renderer.Render(outcome); err != nil {
			return err
		}
	}
	return nil
}

// expandArgs resolves each argument as a glob pattern, keeping literal
// paths that match nothing so missing files surface as proper errors.
func expandArgs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			paths = append(paths, arg)
			continue
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}
