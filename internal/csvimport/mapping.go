package csvimport

import (
	"log/slog"
	"strings"
)

// DefaultDateFormat is the date layout assumed for new mappings.
const DefaultDateFormat = "2006-01-02"

// SupportedDateFormats lists the layouts a mapping may select, in the order
// they are tried as fallbacks when the configured layout fails.
var SupportedDateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02.01.2006",
	"2006/01/02",
	"2.1.2006",
	"1/2/2006",
}

// FieldMapping assigns CSV column indices to entry fields. A nil column means
// the field is not mapped. Indices are not validated against any row's
// bounds; out-of-range lookups simply yield absent values.
type FieldMapping struct {
	DateColumn          *int
	OdometerStartColumn *int
	OdometerEndColumn   *int
	LitersColumn        *int
	PricePerLiterColumn *int
	GasStationColumn    *int
	DriveModeColumn     *int
	IsFullRefillColumn  *int
	NotesColumn         *int
	DateFormat          string
	UseCommaDecimal     bool
}

// IsValid reports whether the three required fields (date, liters, price per
// liter) are all mapped.
func (m FieldMapping) IsValid() bool {
	return m.DateColumn != nil && m.LitersColumn != nil && m.PricePerLiterColumn != nil
}

// fieldRule matches a header against keyword substrings (English and Russian)
// and names the mapping slot the matching column fills. match defaults to a
// plain keyword test; rules with compound conditions override it.
type fieldRule struct {
	assign   func(*FieldMapping, *int)
	match    func(string) bool
	name     string
	keywords []string
}

func (r fieldRule) matches(header string) bool {
	if r.match != nil {
		return r.match(header)
	}
	return containsAny(header, r.keywords)
}

var (
	odometerKeywords      = []string{"odometer", "km", "mileage", "пробег"}
	odometerStartKeywords = []string{"start", "начал"}
	odometerEndKeywords   = []string{"end", "конец"}
	priceKeywords         = []string{"price", "cost", "цена", "стоимост"}
	priceUnitKeywords     = []string{"per", "за"}
)

// mappingRules is the declarative header-matching table. For each header the
// rules run top to bottom and the first match claims the header, so rule
// order is precedence: price-per-liter sits above liters because a
// "Price per Liter" header contains both a price phrase and "liter".
//
// Across headers the assignment is unconditional, so when two headers match
// the same rule the rightmost column wins.
var mappingRules = []fieldRule{
	{
		name:     "date",
		keywords: []string{"date", "дата"},
		assign:   func(m *FieldMapping, col *int) { m.DateColumn = col },
	},
	{
		name: "price_per_liter",
		match: func(h string) bool {
			return containsAny(h, priceUnitKeywords) && containsAny(h, priceKeywords)
		},
		assign: func(m *FieldMapping, col *int) { m.PricePerLiterColumn = col },
	},
	{
		name:     "liters",
		keywords: []string{"liter", "литр", "fuel", "gallon"},
		assign:   func(m *FieldMapping, col *int) { m.LitersColumn = col },
	},
	{
		name:     "gas_station",
		keywords: []string{"station", "location", "заправка", "азс", "brand", "name"},
		assign:   func(m *FieldMapping, col *int) { m.GasStationColumn = col },
	},
	{
		name:     "drive_mode",
		keywords: []string{"mode", "type", "режим"},
		assign:   func(m *FieldMapping, col *int) { m.DriveModeColumn = col },
	},
	{
		name:     "full_refill",
		keywords: []string{"full", "complete", "полн"},
		assign:   func(m *FieldMapping, col *int) { m.IsFullRefillColumn = col },
	},
	{
		name:     "notes",
		keywords: []string{"note", "comment", "заметк", "коммент"},
		assign:   func(m *FieldMapping, col *int) { m.NotesColumn = col },
	},
}

// SuggestMapping builds a best-effort mapping from header names. It never
// fails; unmatched fields are left unmapped for the caller to fill in.
//
// Price per liter is deliberately assigned only when the header carries a
// per-unit qualifier ("per", "за") next to a price word, so a bare "Price" or
// "Total Cost" column is not mistaken for a unit price.
func SuggestMapping(headers []string) FieldMapping {
	mapping := FieldMapping{DateFormat: DefaultDateFormat}

	for i, header := range headers {
		col := i
		lower := strings.ToLower(strings.TrimSpace(header))

		// The odometer family is handled outside the rule table because one
		// keyword set feeds two slots: start/end words pin a header to its
		// slot, and headers with neither fill start first, then end.
		if containsAny(lower, odometerKeywords) {
			switch {
			case containsAny(lower, odometerStartKeywords):
				mapping.OdometerStartColumn = &col
			case containsAny(lower, odometerEndKeywords):
				mapping.OdometerEndColumn = &col
			case mapping.OdometerStartColumn == nil:
				mapping.OdometerStartColumn = &col
			case mapping.OdometerEndColumn == nil:
				mapping.OdometerEndColumn = &col
			}
			continue
		}

		for _, rule := range mappingRules {
			if rule.matches(lower) {
				rule.assign(&mapping, &col)
				break
			}
		}
	}

	slog.Debug("Suggested field mapping",
		"headers", len(headers),
		"valid", mapping.IsValid())

	return mapping
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
