package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/jmfields/tankful/internal/cli"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show consumption and cost summaries",
		RunE:  runStats,
	}

	cmd.Flags().Int("months", 12, "How many months back to summarize")

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	months, _ := cmd.Flags().GetInt("months")
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	count, err := store.CountEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to count entries: %w", err)
	}
	if count == 0 {
		fmt.Println(cli.SubtleStyle.Render("No fill-ups recorded yet. Try 'tankful import'."))
		return nil
	}

	end := time.Now()
	start := end.AddDate(0, -months, 0)

	monthly, err := store.GetMonthlySummary(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to load monthly summary: %w", err)
	}

	fmt.Println(cli.FormatTitle("Monthly consumption"))
	fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf("%-10s %8s %10s %10s", "Month", "Fill-ups", "Liters", "Cost")))
	for _, m := range monthly {
		fmt.Println(cli.TableCellStyle.Render(fmt.Sprintf("%-10s %8d %10.2f %10.2f",
			m.Month, m.FillUps, m.TotalLiters, m.TotalCost)))
	}

	stations, err := store.GetStationSummary(ctx)
	if err != nil {
		return fmt.Errorf("failed to load station summary: %w", err)
	}

	names := make([]string, 0, len(stations))
	for name := range stations {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return stations[names[i]].TotalCost > stations[names[j]].TotalCost
	})

	fmt.Printf("\n%s\n", cli.FormatTitle("By station"))
	fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf("%-20s %8s %10s %10s", "Station", "Fill-ups", "Liters", "Cost")))
	for _, name := range names {
		s := stations[name]
		fmt.Println(cli.TableCellStyle.Render(fmt.Sprintf("%-20s %8d %10.2f %10.2f",
			truncate(name, 20), s.FillUps, s.TotalLiters, s.TotalCost)))
	}

	return nil
}
