package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [path_uuid]",
	Short: "Show a path's lifecycle status",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pathUUID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parse path id: %w", err)
	}

	eng, store, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	defer eng.Close(ctx)

	view, err := eng.PathStatus(ctx, pathUUID)
	if err != nil {
		return err
	}

	fmt.Printf("status=%s\nposition=%d\nelo=%.1f\ncanonical=%v\n", view.Status, view.Position, view.Elo, view.IsCanonical)
	if len(view.MandateID) > 0 {
		fmt.Printf("mandate_id=%x\n", view.MandateID)
	}
	return nil
}
