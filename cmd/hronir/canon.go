package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var canonCmd = &cobra.Command{
	Use:   "canon",
	Short: "Print the current canonical path",
	Args:  cobra.NoArgs,
	RunE:  runCanon,
}

func runCanon(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	eng, store, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	defer eng.Close(ctx)

	entries, err := eng.GetCanonicalPath(ctx)
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Printf("%d  path=%s  hronir=%s\n", e.Position, e.PathUUID, e.HronirID)
	}
	return nil
}
