package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var duelCmd = &cobra.Command{
	Use:   "duel [position]",
	Short: "Show the active maximum-entropy duel at a position",
	Args:  cobra.ExactArgs(1),
	RunE:  runDuel,
}

func runDuel(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	position, err := parsePosition(args[0])
	if err != nil {
		return err
	}

	eng, store, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	defer eng.Close(ctx)

	duel, ok, err := eng.GetDuel(ctx, position)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("no active duel: fewer than two eligible paths in the cohort")
		return nil
	}

	fmt.Printf("predecessor=%s\nA=%s\nB=%s\nentropy=%.4f\n", duel.Predecessor, duel.PathA, duel.PathB, duel.Entropy)
	return nil
}
