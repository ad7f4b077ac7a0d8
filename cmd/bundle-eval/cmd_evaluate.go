package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"alfredoptarigan/bundle-evaluator/internal/services"
)

// evaluateCmd grades a single bundle
var evaluateCmd = &cobra.Command{
	Use:   "evaluate [dir]",
	Short: "Evaluate one bundle directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	evaluator, _, err := newEvaluator()
	if err != nil {
		return err
	}

	record := evaluator.EvaluateBundle(ctx, services.BundleRef{
		Location:   args[0],
		ProducerID: resolveProducer(ctx),
	})

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	}
	_, err = fmt.Fprintln(out, renderRecord(record))
	return err
}
