package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dirshaye/LogInsight/internal/processor"
)

var compareCmd = &cobra.Command{
	Use:   "compare [path]",
	Short: "Benchmark sequential vs parallel processing of a file",
	Long: `Run the full pipeline over the same file twice, once sequentially and
once across the worker pool, and report both outcomes together with the
speedup factor.

Example:
  loginsight compare /var/log/big.log --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	proc := processor.New(buildConfig())

	cmp, err := proc.CompareFile(args[0])
	if err != nil {
		return fmt.Errorf("compare %s: %w", args[0], err)
	}
	return chooseRenderer().RenderComparison(cmp)
}
