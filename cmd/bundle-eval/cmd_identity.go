package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"alfredoptarigan/bundle-evaluator/internal/cache"
	"alfredoptarigan/bundle-evaluator/internal/models"
)

const identityKey = "identity"

// Identity is the producer id stored for this machine.
type Identity struct {
	ProducerID string    `json:"producer_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Show or set the stored producer id",
}

var identityShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored producer id",
	Args:  cobra.NoArgs,
	RunE:  runIdentityShow,
}

var identitySetCmd = &cobra.Command{
	Use:   "set [producer-id]",
	Short: "Store the producer id used when --producer is not given",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentitySet,
}

func runIdentityShow(cmd *cobra.Command, args []string) error {
	id, err := loadIdentity(context.Background())
	if err != nil {
		return err
	}
	if id.ProducerID == "" {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (no identity stored)\n", models.DefaultProducerID)
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (updated %s)\n", id.ProducerID, id.UpdatedAt.Format(time.RFC3339))
	return err
}

func runIdentitySet(cmd *cobra.Command, args []string) error {
	producer := strings.TrimSpace(args[0])
	if producer == "" {
		return fmt.Errorf("producer id must not be empty")
	}
	id := Identity{ProducerID: producer, UpdatedAt: time.Now().UTC()}
	if err := cache.SaveJSON(context.Background(), cache.NewFileStore(stateDir), identityKey, id); err != nil {
		return fmt.Errorf("failed to store identity: %w", err)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "producer id set to %s\n", producer)
	return err
}

func loadIdentity(ctx context.Context) (Identity, error) {
	var id Identity
	if _, err := cache.LoadJSON(ctx, cache.NewFileStore(stateDir), identityKey, &id); err != nil {
		return Identity{}, fmt.Errorf("failed to read identity: %w", err)
	}
	return id, nil
}
