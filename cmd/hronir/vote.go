package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/models"
	"github.com/spf13/cobra"
)

var voteVerdicts []string

var voteCmd = &cobra.Command{
	Use:   "vote [voting_token]",
	Short: "Cast a vote transaction",
	Long: `Cast a vote transaction using voting_token as the mandate. Each
--verdict flag names one target position and the winner/loser of its
active duel, as "target:winner:loser".`,
	Args: cobra.ExactArgs(1),
	RunE: runVote,
}

func init() {
	voteCmd.Flags().StringArrayVar(&voteVerdicts, "verdict", nil, `a verdict as "target:winner:loser" (repeatable)`)
}

func runVote(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	token, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parse voting token: %w", err)
	}

	verdicts, err := parseVerdicts(voteVerdicts)
	if err != nil {
		return err
	}

	eng, store, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	defer eng.Close(ctx)

	txID, err := eng.CastVote(ctx, token, verdicts)
	if err != nil {
		return err
	}

	fmt.Println(txID)
	return nil
}

func parseVerdicts(raw []string) ([]models.Verdict, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one --verdict is required")
	}
	verdicts := make([]models.Verdict, 0, len(raw))
	for _, v := range raw {
		parts := strings.SplitN(v, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf(`verdict %q must have the form "target:winner:loser"`, v)
		}
		target, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("parse target position in %q: %w", v, err)
		}
		winner, err := uuid.Parse(parts[1])
		if err != nil {
			return nil, fmt.Errorf("parse winner path id in %q: %w", v, err)
		}
		loser, err := uuid.Parse(parts[2])
		if err != nil {
			return nil, fmt.Errorf("parse loser path id in %q: %w", v, err)
		}
		verdicts = append(verdicts, models.Verdict{
			TargetPosition: target,
			WinnerPath:     winner,
			LoserPath:      loser,
		})
	}
	return verdicts, nil
}
