package main

import (
	"fmt"
	"os"

	"github.com/jmfields/tankful/internal/cli"
	"github.com/jmfields/tankful/internal/csvexport"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all fill-ups as CSV",
		Long: `Export every recorded fill-up in the fixed tankful CSV format,
including the derived distance, consumption, and cost columns.`,
		RunE: runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}

	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := csvexport.Write(w, entries); err != nil {
		return err
	}

	if output != "" {
		fmt.Fprintln(os.Stderr, cli.FormatSuccess(fmt.Sprintf("Exported %d entries to %s", len(entries), output)))
	}

	return nil
}
