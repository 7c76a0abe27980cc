// strokeml runs a stroke-risk model benchmark: five classifier families
// tuned by repeated stratified cross-validation and compared by AUC.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"strokeml/pkg/config"
	"strokeml/pkg/experiment"
	"strokeml/pkg/report"
)

var (
	logger *zap.Logger

	cfgPath  string
	dataPath string
	outPath  string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "strokeml",
	Short: "Benchmark classifiers on the stroke dataset",
	Long: `strokeml loads a tabular healthcare dataset, imputes and scales it,
tunes five model families (elastic-net logistic regression, MARS, linear
and radial SVMs, random forest) with repeated stratified k-fold
cross-validation, and compares them by AUC.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full study and write the markdown report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		res, err := experiment.Run(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		if outPath == "" {
			return report.Write(os.Stdout, res)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		if err := report.Write(f, res); err != nil {
			return err
		}
		logger.Info("report written", zap.String("path", outPath))
		return nil
	},
}

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Print the dataset summary without training anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		summary, err := experiment.Explore(cfg, logger)
		if err != nil {
			return err
		}
		return report.WriteSummary(os.Stdout, summary)
	},
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if dataPath != "" {
		cfg.Data.Path = dataPath
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML experiment config")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "path to the input CSV (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	runCmd.Flags().StringVar(&outPath, "out", "", "write the report here instead of stdout")
	rootCmd.AddCommand(runCmd, exploreCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
