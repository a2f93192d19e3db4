package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmfields/tankful/internal/cli"
	"github.com/jmfields/tankful/internal/common"
	"github.com/jmfields/tankful/internal/csvimport"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// columnOverrides carries the per-field column flags. A value of -1 leaves
// the suggested mapping untouched.
type columnOverrides struct {
	date          int
	liters        int
	price         int
	odometerStart int
	odometerEnd   int
	station       int
	mode          int
	full          int
	notes         int
}

func importCmd() *cobra.Command {
	var overrides columnOverrides

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import fill-ups from CSV files",
		Long: `Import fill-up records from CSV files exported by other fuel apps
or spreadsheets.

Column meanings are guessed from the header names (English and Russian
headers are recognized); use the --*-column flags to correct the guess.

Examples:
  # Import with auto-detected columns
  tankful import ~/Downloads/fuel_log.csv

  # Preview what would be imported
  tankful import --dry-run ~/Downloads/fuel_log.csv

  # Force columns and a European date format
  tankful import --date-column 0 --date-format "02.01.2006" --comma-decimal log.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, overrides)
		},
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().Bool("skip-duplicates", true, "Skip rows whose date matches an existing entry")
	cmd.Flags().Int("limit", 0, "Preview row limit (0 = config default)")
	cmd.Flags().String("date-format", csvimport.DefaultDateFormat, "Go date layout for the date column")
	cmd.Flags().Bool("comma-decimal", false, "Treat comma as the decimal separator")

	cmd.Flags().IntVar(&overrides.date, "date-column", -1, "Date column index (0-based)")
	cmd.Flags().IntVar(&overrides.liters, "liters-column", -1, "Liters column index")
	cmd.Flags().IntVar(&overrides.price, "price-column", -1, "Price-per-liter column index")
	cmd.Flags().IntVar(&overrides.odometerStart, "odometer-start-column", -1, "Odometer start column index")
	cmd.Flags().IntVar(&overrides.odometerEnd, "odometer-end-column", -1, "Odometer end column index")
	cmd.Flags().IntVar(&overrides.station, "station-column", -1, "Gas station column index")
	cmd.Flags().IntVar(&overrides.mode, "mode-column", -1, "Drive mode column index")
	cmd.Flags().IntVar(&overrides.full, "full-column", -1, "Full-refill flag column index")
	cmd.Flags().IntVar(&overrides.notes, "notes-column", -1, "Notes column index")

	return cmd
}

func runImport(cmd *cobra.Command, args []string, overrides columnOverrides) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	previewLimit, _ := cmd.Flags().GetInt("limit")

	skipDuplicates := viper.GetBool("import.skip_duplicates")
	if cmd.Flags().Changed("skip-duplicates") {
		skipDuplicates, _ = cmd.Flags().GetBool("skip-duplicates")
	}
	dateFormat, _ := cmd.Flags().GetString("date-format")
	commaDecimal, _ := cmd.Flags().GetBool("comma-decimal")

	if previewLimit <= 0 {
		previewLimit = viper.GetInt("import.preview_limit")
	}

	files, err := expandFileArgs(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	importer := csvimport.NewImporter(store)

	var total csvimport.ImportResult
	for _, path := range files {
		slog.Info("Processing file", "file", filepath.Base(path))

		content, err := os.ReadFile(path)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("failed to read %s", path), err)
		}

		parsed := csvimport.ParseCSV(string(content))
		if parsed.IsEmpty() {
			fmt.Println(cli.FormatWarning(fmt.Sprintf("%s: %v", filepath.Base(path), common.ErrEmptyFile)))
			continue
		}

		mapping := csvimport.SuggestMapping(parsed.Headers)
		applyOverrides(&mapping, overrides)
		mapping.DateFormat = dateFormat
		mapping.UseCommaDecimal = commaDecimal

		if !mapping.IsValid() {
			return common.NewUserError(
				fmt.Sprintf("%s: cannot map required columns (%s); use the --*-column flags",
					filepath.Base(path), strings.Join(missingFields(mapping), ", ")),
				common.ErrInvalidMapping)
		}

		printPreview(path, parsed, mapping, previewLimit)

		if dryRun {
			continue
		}

		bar := progressbar.Default(int64(parsed.TotalRows), "importing")
		importer.OnRow = func(_, _ int) { _ = bar.Add(1) }

		result, err := importer.ImportEntries(ctx, parsed, mapping, skipDuplicates)
		_ = bar.Finish()
		if err != nil {
			return fmt.Errorf("import of %s failed: %w", path, err)
		}

		printResult(path, result)

		total.SuccessCount += result.SuccessCount
		total.FailedCount += result.FailedCount
		total.DuplicateCount += result.DuplicateCount
	}

	if dryRun {
		fmt.Println(cli.SubtleStyle.Render("Dry run complete - no data saved"))
		return nil
	}

	if len(files) > 1 {
		fmt.Printf("\n%s\n", cli.FormatTitle(fmt.Sprintf(
			"All files: %d imported, %d failed, %d duplicates",
			total.SuccessCount, total.FailedCount, total.DuplicateCount)))
	}

	return nil
}

// applyOverrides replaces suggested columns with explicit flag values.
func applyOverrides(mapping *csvimport.FieldMapping, o columnOverrides) {
	set := func(dst **int, v int) {
		if v >= 0 {
			col := v
			*dst = &col
		}
	}
	set(&mapping.DateColumn, o.date)
	set(&mapping.LitersColumn, o.liters)
	set(&mapping.PricePerLiterColumn, o.price)
	set(&mapping.OdometerStartColumn, o.odometerStart)
	set(&mapping.OdometerEndColumn, o.odometerEnd)
	set(&mapping.GasStationColumn, o.station)
	set(&mapping.DriveModeColumn, o.mode)
	set(&mapping.IsFullRefillColumn, o.full)
	set(&mapping.NotesColumn, o.notes)
}

// missingFields names the required fields the mapping leaves unmapped.
func missingFields(m csvimport.FieldMapping) []string {
	var missing []string
	if m.DateColumn == nil {
		missing = append(missing, "date")
	}
	if m.LitersColumn == nil {
		missing = append(missing, "liters")
	}
	if m.PricePerLiterColumn == nil {
		missing = append(missing, "price per liter")
	}
	return missing
}

func printPreview(path string, parsed csvimport.ParseResult, mapping csvimport.FieldMapping, limit int) {
	preview := csvimport.GeneratePreview(parsed, mapping, limit)

	fmt.Printf("\n%s\n", cli.FormatTitle(fmt.Sprintf("%s (%d rows)", filepath.Base(path), parsed.TotalRows)))
	fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf("%-5s %-12s %-8s %-8s %-16s %s",
		"Row", "Date", "Liters", "Price", "Station", "Status")))

	for _, p := range preview {
		date, liters, price := "-", "-", "-"
		if p.Date != nil {
			date = p.Date.Format("2006-01-02")
		}
		if p.Liters != nil {
			liters = fmt.Sprintf("%.2f", *p.Liters)
		}
		if p.PricePerLiter != nil {
			price = fmt.Sprintf("%.2f", *p.PricePerLiter)
		}

		status := cli.FormatSuccess("ok")
		if !p.IsValid() {
			status = cli.FormatError(strings.Join(p.Errors, ", "))
		}

		fmt.Println(cli.TableCellStyle.Render(fmt.Sprintf("%-5d %-12s %-8s %-8s %-16s %s",
			p.RowNumber, date, liters, price, truncate(p.GasStation, 16), status)))
	}

	if parsed.TotalRows > len(preview) {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("… and %d more rows", parsed.TotalRows-len(preview))))
	}
}

func printResult(path string, result csvimport.ImportResult) {
	fmt.Println()
	if result.IsFullSuccess() {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s: imported %d entries",
			filepath.Base(path), result.SuccessCount)))
	} else {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%s: %d imported, %d failed, %d duplicates skipped",
			filepath.Base(path), result.SuccessCount, result.FailedCount, result.DuplicateCount)))
	}
	for _, msg := range result.Errors {
		fmt.Println(cli.ErrorStyle.Render("  " + msg))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
