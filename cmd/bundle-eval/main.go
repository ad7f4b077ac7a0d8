package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"alfredoptarigan/bundle-evaluator/internal/cache"
	"alfredoptarigan/bundle-evaluator/internal/config"
	"alfredoptarigan/bundle-evaluator/internal/models"
	"alfredoptarigan/bundle-evaluator/internal/services"
)

var (
	// Global flags
	verbose      bool
	criteriaPath string
	producerID   string
	stateDir     string
	concurrency  int
	maxContent   int64
	timeout      time.Duration
	jsonOutput   bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bundle-eval",
	Short: "Grade bundles of generated artifacts",
	Long: `bundle-eval checks a directory of generated files against the evaluation
criteria and reports a grade, scores and remediation recommendations.

The grade is informational. The exit code is non-zero only when the tool
itself fails, never because a bundle graded poorly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
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

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&criteriaPath, "criteria", "c", "", "Criteria YAML file (default: built-in criteria)")
	rootCmd.PersistentFlags().StringVarP(&producerID, "producer", "p", "", "Producer id (default: stored identity)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", cache.DefaultStateDir(), "Directory for the stored identity")
	rootCmd.PersistentFlags().Int64Var(&maxContent, "max-content-bytes", 1<<20, "Read at most this many bytes per file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of formatted text")

	batchCmd.Flags().IntVarP(&concurrency, "concurrency", "j", 4, "Bundles evaluated in parallel")
	exportCmd.Flags().IntVarP(&concurrency, "concurrency", "j", 4, "Bundles evaluated in parallel")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (required)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json or jsonl")
	exportCmd.Flags().BoolVar(&exportDetails, "details", false, "Include completeness, quality and recommendations")
	_ = exportCmd.MarkFlagRequired("out")

	// Identity subcommands
	identityCmd.AddCommand(identityShowCmd)
	identityCmd.AddCommand(identitySetCmd)

	// Add commands to root
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(identityCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newEvaluator builds the local pipeline: filesystem loader, engine and
// evaluator. The evaluator never touches a repository here.
func newEvaluator() (services.EvaluatorService, *services.Engine, error) {
	criteria, err := config.LoadCriteria(criteriaPath)
	if err != nil {
		return nil, nil, err
	}
	engine := services.NewEngine(criteria)
	loader := services.NewFileSystemLoader(criteria.MandatoryCoreFiles, maxContent, services.NewPDFParserService())
	return services.NewEvaluatorService(nil, loader, engine, logger), engine, nil
}

// resolveProducer picks the --producer flag, then the stored identity, then
// the default producer.
func resolveProducer(ctx context.Context) string {
	if producerID != "" {
		return producerID
	}
	id, err := loadIdentity(ctx)
	if err != nil {
		logger.Warn("failed to read stored identity", zap.Error(err))
		return models.DefaultProducerID
	}
	if id.ProducerID == "" {
		return models.DefaultProducerID
	}
	return id.ProducerID
}
