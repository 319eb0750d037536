package main

import (
	"context"

	"github.com/spf13/cobra"
)

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Recompute canonical flags from position 0 forward",
	Args:  cobra.NoArgs,
	RunE:  runRecover,
}

func runRecover(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	eng, store, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	defer eng.Close(ctx)

	return eng.RecoverCanon(ctx)
}
