package csvimport

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmfields/tankful/internal/model"
)

// DefaultPreviewLimit caps how many rows a preview renders.
const DefaultPreviewLimit = 10

// PreviewEntry is one row's parse-and-validate outcome. It carries whatever
// fields could be extracted plus the validation errors that would block the
// row from importing. The same conversion feeds both the preview display and
// the real import pass, so a previewed row always imports the same way.
type PreviewEntry struct {
	Date          *time.Time
	OdometerStart *float64
	OdometerEnd   *float64
	Liters        *float64
	PricePerLiter *float64
	DriveMode     *model.DriveMode
	IsFullRefill  *bool
	ID            string
	GasStation    string
	Notes         string
	Errors        []string
	RowNumber     int
}

// IsValid reports whether the row produced no validation errors.
func (p PreviewEntry) IsValid() bool {
	return len(p.Errors) == 0
}

// ToEntry converts a valid preview row into a storable fuel entry, applying
// the domain defaults: empty station becomes "Unknown", unrecognized drive
// mode becomes normal, and an absent full-refill flag defaults to true.
func (p PreviewEntry) ToEntry() model.FuelEntry {
	entry := model.FuelEntry{
		ID:            model.NewEntryID(),
		GasStation:    p.GasStation,
		Notes:         p.Notes,
		DriveMode:     model.DriveModeNormal,
		IsFullRefill:  true,
		OdometerStart: p.OdometerStart,
		OdometerEnd:   p.OdometerEnd,
	}
	if p.Date != nil {
		entry.Date = *p.Date
	}
	if p.Liters != nil {
		entry.TotalLiters = *p.Liters
	}
	if p.PricePerLiter != nil {
		entry.PricePerLiter = *p.PricePerLiter
	}
	if entry.GasStation == "" {
		entry.GasStation = "Unknown"
	}
	if p.DriveMode != nil {
		entry.DriveMode = *p.DriveMode
	}
	if p.IsFullRefill != nil {
		entry.IsFullRefill = *p.IsFullRefill
	}
	return entry
}

// RowToPreviewEntry converts a single data row into a preview entry.
// rowNumber is 1-based and counts the header line, so the first data row is 2.
// The mapping is not required to be valid; unmapped required fields surface
// as row errors rather than panics.
func RowToPreviewEntry(row []string, rowNumber int, mapping FieldMapping) PreviewEntry {
	entry := PreviewEntry{
		ID:        uuid.NewString(),
		RowNumber: rowNumber,
	}

	if mapping.DateColumn == nil {
		entry.Errors = append(entry.Errors, "Missing date")
	} else if date := parseDate(cellAt(row, mapping.DateColumn), mapping.DateFormat); date != nil {
		entry.Date = date
	} else {
		entry.Errors = append(entry.Errors, "Invalid date format")
	}

	// Odometer columns are optional; absence is not an error.
	entry.OdometerStart = parseNumber(cellAt(row, mapping.OdometerStartColumn), mapping.UseCommaDecimal)
	entry.OdometerEnd = parseNumber(cellAt(row, mapping.OdometerEndColumn), mapping.UseCommaDecimal)

	if mapping.LitersColumn == nil {
		entry.Errors = append(entry.Errors, "Missing liters")
	} else if liters := parseNumber(cellAt(row, mapping.LitersColumn), mapping.UseCommaDecimal); liters != nil && *liters > 0 {
		entry.Liters = liters
	} else {
		entry.Errors = append(entry.Errors, "Invalid liters value")
	}

	if mapping.PricePerLiterColumn == nil {
		entry.Errors = append(entry.Errors, "Missing price")
	} else if price := parseNumber(cellAt(row, mapping.PricePerLiterColumn), mapping.UseCommaDecimal); price != nil && *price > 0 {
		entry.PricePerLiter = price
	} else {
		entry.Errors = append(entry.Errors, "Invalid price value")
	}

	entry.GasStation = cellAt(row, mapping.GasStationColumn)

	if notes := cellAt(row, mapping.NotesColumn); notes != "" {
		entry.Notes = notes
	}

	if raw := cellAt(row, mapping.DriveModeColumn); raw != "" {
		if mode, ok := model.ParseDriveMode(raw); ok {
			entry.DriveMode = &mode
		}
	}

	if raw := cellAt(row, mapping.IsFullRefillColumn); raw != "" {
		entry.IsFullRefill = parseBool(raw)
	}

	if entry.OdometerStart != nil && entry.OdometerEnd != nil && *entry.OdometerEnd < *entry.OdometerStart {
		entry.Errors = append(entry.Errors, "End odometer less than start")
	}

	return entry
}

// GeneratePreview converts up to limit rows into preview entries, in file
// order. A limit of zero or less means all rows.
func GeneratePreview(result ParseResult, mapping FieldMapping, limit int) []PreviewEntry {
	entries := make([]PreviewEntry, 0, len(result.Rows))
	for i, row := range result.Rows {
		if limit > 0 && i >= limit {
			break
		}
		entries = append(entries, RowToPreviewEntry(row, i+2, mapping))
	}
	return entries
}

// cellAt returns the trimmed cell at the mapped column, or "" when the column
// is unmapped or beyond the row's width.
func cellAt(row []string, col *int) string {
	if col == nil || *col < 0 || *col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[*col])
}

// currencySymbols are stripped before numeric parsing.
var currencySymbols = []string{"$", "€", "₽", "£"}

// parseNumber parses a cell as a float. With comma-decimal convention the
// comma is the decimal point and thousands separators are unsupported;
// otherwise commas are stripped as thousands separators, which silently turns
// a stray "1,5" into 15.
func parseNumber(s string, useCommaDecimal bool) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(s)

	if useCommaDecimal {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseDate parses a cell against the configured layout first, then each
// supported fallback layout, returning the first success. Matching is exact
// per layout; there is no fuzzy parsing.
func parseDate(s, layout string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	layouts := make([]string, 0, len(SupportedDateFormats)+1)
	if layout != "" {
		layouts = append(layouts, layout)
	}
	layouts = append(layouts, SupportedDateFormats...)

	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return &t
		}
	}
	return nil
}

// boolVocabulary maps accepted spellings (English, Russian, numeric) to a
// full-refill flag value.
var boolVocabulary = map[string]bool{
	"true":    true,
	"yes":     true,
	"y":       true,
	"1":       true,
	"full":    true,
	"да":      true,
	"полный":  true,
	"false":   false,
	"no":      false,
	"n":       false,
	"0":       false,
	"partial": false,
	"нет":     false,
}

// parseBool resolves a cell to a boolean, or nil when unrecognized. The
// ultimate true default is applied only at entry conversion.
func parseBool(s string) *bool {
	v, ok := boolVocabulary[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return nil
	}
	return &v
}
