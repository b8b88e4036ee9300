package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dirshaye/LogInsight/internal/output"
	"github.com/dirshaye/LogInsight/internal/processor"
)

var (
	cfgFile   string
	outputFmt string

	chunkSize  int
	threshold  float64
	sequential bool
	maxWorkers int
	timeout    time.Duration
	fitScope   string
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "loginsight",
	Short: "Parallel log anomaly analyzer",
	Long: `LogInsight ingests unstructured log files, auto-detects their format,
and scores every entry for anomalousness with an ensemble of detection
methods. Files are processed in bounded chunks, either sequentially or
across a worker pool, and both strategies can be benchmarked against
each other.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.loginsight.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk-size", 1000, "maximum entries per chunk")
	rootCmd.PersistentFlags().Float64VarP(&threshold, "threshold", "t", 2.0, "anomaly score threshold")
	rootCmd.PersistentFlags().BoolVar(&sequential, "sequential", false, "disable the worker pool and process chunks in order")
	rootCmd.PersistentFlags().IntVarP(&maxWorkers, "workers", "w", 0, "worker pool cap (default: number of CPUs)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "chunk-timeout", 60*time.Second, "per-chunk timeout for parallel runs")
	rootCmd.PersistentFlags().StringVar(&fitScope, "content-scope", "chunk", "content model fitting scope: chunk, input (sequential only)")

	_ = viper.BindPFlag("chunk_size", rootCmd.PersistentFlags().Lookup("chunk-size"))
	_ = viper.BindPFlag("anomaly_threshold", rootCmd.PersistentFlags().Lookup("threshold"))
	_ = viper.BindPFlag("max_workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("chunk_timeout", rootCmd.PersistentFlags().Lookup("chunk-timeout"))
	_ = viper.BindPFlag("content_scope", rootCmd.PersistentFlags().Lookup("content-scope"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".loginsight")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// buildConfig assembles the processing configuration from viper-resolved
// settings (flags, config file, environment).
func buildConfig() processor.Config {
	return processor.Config{
		ChunkSize:        viper.GetInt("chunk_size"),
		AnomalyThreshold: viper.GetFloat64("anomaly_threshold"),
		Parallel:         !sequential,
		MaxWorkers:       viper.GetInt("max_workers"),
		PerChunkTimeout:  viper.GetDuration("chunk_timeout"),
		ContentFitScope:  processor.FitScope(viper.GetString("content_scope")),
	}
}

// chooseRenderer picks the output renderer from the --output flag.
func chooseRenderer() output.Renderer {
	if outputFmt == "json" {
		return output.NewJSONRenderer()
	}
	return output.NewTextRenderer()
}
