package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/models"
	"github.com/spf13/cobra"
)

var pathPredecessor string

var pathCmd = &cobra.Command{
	Use:   "path [position] [current]",
	Short: "Register a narrative path edge",
	Args:  cobra.ExactArgs(2),
	RunE:  runPath,
}

func init() {
	pathCmd.Flags().StringVar(&pathPredecessor, "predecessor", "", "predecessor hrönir id (omit for position 0)")
}

func runPath(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	position, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	current, err := uuid.Parse(args[1])
	if err != nil {
		return fmt.Errorf("parse current id: %w", err)
	}

	predecessor := models.ZeroUUID
	if pathPredecessor != "" {
		predecessor, err = uuid.Parse(pathPredecessor)
		if err != nil {
			return fmt.Errorf("parse predecessor id: %w", err)
		}
	}

	eng, store, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	defer eng.Close(ctx)

	pathUUID, err := eng.RegisterPath(ctx, position, predecessor, current)
	if err != nil {
		return err
	}

	fmt.Println(pathUUID)
	return nil
}
