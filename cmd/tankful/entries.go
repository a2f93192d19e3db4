package main

import (
	"fmt"

	"github.com/jmfields/tankful/internal/cli"
	"github.com/jmfields/tankful/internal/service"
	"github.com/spf13/cobra"
)

func entriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List recorded fill-ups",
		RunE:  runEntries,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum entries to show")
	cmd.Flags().String("station", "", "Only show fill-ups at this station")

	return cmd
}

func runEntries(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	station, _ := cmd.Flags().GetString("station")
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.GetEntries(ctx, service.EntryFilter{Limit: limit, Station: station})
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No fill-ups recorded yet. Try 'tankful import'."))
		return nil
	}

	fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf("%-12s %-16s %8s %8s %9s %9s %9s",
		"Date", "Station", "Liters", "Price", "Cost", "Dist km", "L/100km")))

	for _, e := range entries {
		dist, l100 := "-", "-"
		if d := e.Distance(); d != nil {
			dist = fmt.Sprintf("%.0f", *d)
		}
		if v := e.LitersPer100KM(); v != nil {
			l100 = fmt.Sprintf("%.2f", *v)
		}

		fmt.Println(cli.TableCellStyle.Render(fmt.Sprintf("%-12s %-16s %8.2f %8.2f %9.2f %9s %9s",
			e.Date.Format("2006-01-02"),
			truncate(e.GasStation, 16),
			e.TotalLiters,
			e.PricePerLiter,
			e.TotalCost(),
			dist,
			l100)))
	}

	return nil
}
