package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var storeFile string

var storeCmd = &cobra.Command{
	Use:   "store [text]",
	Short: "Store a hrönir and print its content-addressed id",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStore,
}

func init() {
	storeCmd.Flags().StringVarP(&storeFile, "file", "f", "", "read text from a file instead of stdin/args")
}

func runStore(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	text, err := readText(args, storeFile)
	if err != nil {
		return err
	}

	eng, store, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	defer eng.Close(ctx)

	id, created, err := eng.StoreHronir(ctx, text)
	if err != nil {
		return err
	}

	fmt.Printf("%s created=%v\n", id, created)
	return nil
}

// readText resolves the hrönir text from (in priority order) a --file
// flag, a positional argument, or stdin.
func readText(args []string, file string) (string, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(b), nil
	}
	if len(args) == 1 {
		return args[0], nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
