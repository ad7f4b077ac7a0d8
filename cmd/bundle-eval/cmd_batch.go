package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/bundle-evaluator/internal/models"
	"alfredoptarigan/bundle-evaluator/internal/services"
)

var (
	exportOut     string
	exportFormat  string
	exportDetails bool
)

// batchCmd grades several bundles and aggregates them
var batchCmd = &cobra.Command{
	Use:   "batch [dir]...",
	Short: "Evaluate several bundles concurrently and print statistics",
	Long: `Evaluates every directory given and prints one line per bundle followed by
per-producer statistics. A directory may carry its producer as a prefix:

  bundle-eval batch worker-1=./out/run1 worker-2=./out/run2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

// exportCmd grades several bundles and writes the records to a file
var exportCmd = &cobra.Command{
	Use:   "export [dir]...",
	Short: "Evaluate bundles and write the records as JSON or JSONL",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

// runBatch prints whatever finished before an interruption, then reports it.
func runBatch(cmd *cobra.Command, args []string) error {
	records, engine, batchErr := evaluateBatch(args)
	if engine == nil {
		return batchErr
	}
	stats := services.NewStatisticsAggregator().Aggregate(records)

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			Evaluations []models.EvaluationRecord `json:"evaluations"`
			Statistics  models.Statistics         `json:"statistics"`
		}{records, stats}); err != nil {
			return err
		}
		return batchErr
	}

	for _, rec := range records {
		fmt.Fprintln(out, renderRecordLine(rec))
	}
	fmt.Fprintln(out)
	if _, err := fmt.Fprintln(out, renderStatistics(stats)); err != nil {
		return err
	}
	return batchErr
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := services.ParseExportFormat(exportFormat)
	if err != nil {
		return err
	}
	records, engine, batchErr := evaluateBatch(args)
	if engine == nil {
		return batchErr
	}

	exporter := services.NewEvaluationExporter(engine.CriteriaVersion())
	opts := services.ExportOptions{Format: format, IncludeDetails: exportDetails}
	if err := exporter.ExportToFile(exportOut, records, opts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %d evaluation(s) to %s\n", len(records), exportOut); err != nil {
		return err
	}
	return batchErr
}

// evaluateBatch returns a nil engine only when nothing could run. On
// interruption it returns the finished records together with the error.
func evaluateBatch(args []string) ([]models.EvaluationRecord, *services.Engine, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	evaluator, engine, err := newEvaluator()
	if err != nil {
		return nil, nil, err
	}

	fallback := resolveProducer(ctx)
	refs := make([]services.BundleRef, 0, len(args))
	for _, arg := range args {
		refs = append(refs, parseBundleArg(arg, fallback))
	}

	batch := services.NewBatchEvaluator(evaluator, concurrency, logger)
	records, err := batch.EvaluateAll(ctx, refs)
	if err != nil {
		return records, engine, fmt.Errorf("batch interrupted after %d of %d bundles: %w", len(records), len(refs), err)
	}
	return records, engine, nil
}

// parseBundleArg splits "producer=dir". A bare dir uses the fallback producer.
func parseBundleArg(arg, fallback string) services.BundleRef {
	if producer, dir, ok := strings.Cut(arg, "="); ok && producer != "" && dir != "" {
		return services.BundleRef{Location: dir, ProducerID: producer}
	}
	return services.BundleRef{Location: arg, ProducerID: fallback}
}
