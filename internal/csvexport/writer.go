// Package csvexport renders fuel entries in the application's fixed CSV
// export format, the mirror image of the import pipeline's output.
package csvexport

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmfields/tankful/internal/model"
)

// Header is the fixed column layout of the export format.
const Header = "Date,Odometer_Start,Odometer_End,Total_Liters,Price_per_Liter,Total_Cost,Full_Refill,Drive_Mode,Gas_Station,Distance_KM,L_per_100KM,Cost_per_KM,Notes"

// Write renders the entries to w, one row per entry, in the order given.
//
// Free-text fields are sanitized by replacing commas with semicolons instead
// of quoting; that keeps the column count stable at the cost of losing the
// original commas.
func Write(w io.Writer, entries []model.FuelEntry) error {
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, entry := range entries {
		if _, err := fmt.Fprintln(w, formatRow(entry)); err != nil {
			return fmt.Errorf("failed to write entry %s: %w", entry.ID, err)
		}
	}
	return nil
}

// Render returns the full export document as a string.
func Render(entries []model.FuelEntry) string {
	var b strings.Builder
	// strings.Builder writes cannot fail.
	_ = Write(&b, entries)
	return b.String()
}

func formatRow(e model.FuelEntry) string {
	cols := []string{
		e.Date.Format("2006-01-02"),
		optionalNumber(e.OdometerStart, 0),
		optionalNumber(e.OdometerEnd, 0),
		fmt.Sprintf("%.2f", e.TotalLiters),
		fmt.Sprintf("%.2f", e.PricePerLiter),
		fmt.Sprintf("%.2f", e.TotalCost()),
		fmt.Sprintf("%t", e.IsFullRefill),
		string(e.DriveMode),
		sanitize(e.GasStation),
		optionalNumber(e.Distance(), 0),
		optionalNumber(e.LitersPer100KM(), 2),
		optionalNumber(e.CostPerKM(), 3),
		sanitize(e.Notes),
	}
	return strings.Join(cols, ",")
}

func optionalNumber(v *float64, precision int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.*f", precision, *v)
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, ",", ";")
}
