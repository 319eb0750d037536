package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check ledger and token invariants, reporting any violations",
	Args:  cobra.NoArgs,
	RunE:  runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	eng, store, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	defer eng.Close(ctx)

	issues, err := eng.Audit(ctx)
	if err != nil {
		return err
	}

	if len(issues) == 0 {
		fmt.Println("ok")
		return nil
	}
	for _, issue := range issues {
		fmt.Println(issue)
	}
	return fmt.Errorf("%d integrity issue(s) found", len(issues))
}
