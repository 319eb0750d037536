package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/models"
	"github.com/spf13/cobra"
)

var rankPredecessor string

var rankCmd = &cobra.Command{
	Use:   "rank [position]",
	Short: "List a cohort's paths ordered by Elo",
	Args:  cobra.ExactArgs(1),
	RunE:  runRank,
}

func init() {
	rankCmd.Flags().StringVar(&rankPredecessor, "predecessor", "", "predecessor hrönir id (omit for position 0)")
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	position, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	predecessor := models.ZeroUUID
	if rankPredecessor != "" {
		predecessor, err = uuid.Parse(rankPredecessor)
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

	ranked, err := eng.GetRanking(ctx, position, predecessor)
	if err != nil {
		return err
	}

	for _, r := range ranked {
		fmt.Printf("%s  elo=%.1f  status=%s\n", r.PathUUID, r.Elo, r.Status)
	}
	return nil
}
