package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func col(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

func TestSuggestMapping(t *testing.T) {
	tests := []struct {
		name          string
		headers       []string
		date          int
		liters        int
		price         int
		odoStart      int
		odoEnd        int
		station       int
		expectedValid bool
	}{
		{
			name:          "canonical english headers",
			headers:       []string{"Date", "Liters", "Price per Liter"},
			date:          0,
			liters:        1,
			price:         2,
			odoStart:      -1,
			odoEnd:        -1,
			station:       -1,
			expectedValid: true,
		},
		{
			name:          "bare price column left unmapped",
			headers:       []string{"Date", "Liters", "Price"},
			date:          0,
			liters:        1,
			price:         -1,
			odoStart:      -1,
			odoEnd:        -1,
			station:       -1,
			expectedValid: false,
		},
		{
			name:          "cost per unit qualifies",
			headers:       []string{"Date", "Fuel", "Cost per Liter", "Total Cost"},
			date:          0,
			liters:        1,
			price:         2,
			odoStart:      -1,
			odoEnd:        -1,
			station:       -1,
			expectedValid: true,
		},
		{
			name:          "odometer start and end keywords",
			headers:       []string{"Date", "Odometer Start", "Odometer End", "Liters", "Price per Liter"},
			date:          0,
			liters:        3,
			price:         4,
			odoStart:      1,
			odoEnd:        2,
			station:       -1,
			expectedValid: true,
		},
		{
			name:          "positional odometer fallback",
			headers:       []string{"Date", "KM Before", "KM After", "Liters", "Price per Liter"},
			date:          0,
			liters:        3,
			price:         4,
			odoStart:      1,
			odoEnd:        2,
			station:       -1,
			expectedValid: true,
		},
		{
			name:          "russian headers",
			headers:       []string{"Дата", "Литры", "Цена за литр", "АЗС"},
			date:          0,
			liters:        1,
			price:         2,
			odoStart:      -1,
			odoEnd:        -1,
			station:       3,
			expectedValid: true,
		},
		{
			name:          "station keywords",
			headers:       []string{"Date", "Liters", "Price per Liter", "Station Name"},
			date:          0,
			liters:        1,
			price:         2,
			odoStart:      -1,
			odoEnd:        -1,
			station:       3,
			expectedValid: true,
		},
		{
			name:          "empty headers",
			headers:       []string{},
			date:          -1,
			liters:        -1,
			price:         -1,
			odoStart:      -1,
			odoEnd:        -1,
			station:       -1,
			expectedValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := SuggestMapping(tt.headers)

			assert.Equal(t, tt.date, col(m.DateColumn), "date column")
			assert.Equal(t, tt.liters, col(m.LitersColumn), "liters column")
			assert.Equal(t, tt.price, col(m.PricePerLiterColumn), "price column")
			assert.Equal(t, tt.odoStart, col(m.OdometerStartColumn), "odometer start column")
			assert.Equal(t, tt.odoEnd, col(m.OdometerEndColumn), "odometer end column")
			assert.Equal(t, tt.station, col(m.GasStationColumn), "station column")
			assert.Equal(t, tt.expectedValid, m.IsValid())
			assert.Equal(t, DefaultDateFormat, m.DateFormat)
		})
	}
}

// Rules reassign unconditionally, so when two headers match the same field
// the rightmost one wins.
func TestSuggestMappingLastMatchWins(t *testing.T) {
	m := SuggestMapping([]string{"Purchase Date", "Refuel Date", "Liters", "Price per Liter"})
	require.NotNil(t, m.DateColumn)
	assert.Equal(t, 1, *m.DateColumn)
}

func TestSuggestMappingOptionalFields(t *testing.T) {
	m := SuggestMapping([]string{
		"Date", "Liters", "Price per Liter", "Drive Mode", "Full Refill", "Notes",
	})

	require.NotNil(t, m.DriveModeColumn)
	assert.Equal(t, 3, *m.DriveModeColumn)
	require.NotNil(t, m.IsFullRefillColumn)
	assert.Equal(t, 4, *m.IsFullRefillColumn)
	require.NotNil(t, m.NotesColumn)
	assert.Equal(t, 5, *m.NotesColumn)
}

func TestFieldMappingIsValid(t *testing.T) {
	c0, c1, c2 := 0, 1, 2

	tests := []struct {
		mapping  FieldMapping
		name     string
		expected bool
	}{
		{
			name:     "all required set",
			mapping:  FieldMapping{DateColumn: &c0, LitersColumn: &c1, PricePerLiterColumn: &c2},
			expected: true,
		},
		{
			name:     "missing date",
			mapping:  FieldMapping{LitersColumn: &c1, PricePerLiterColumn: &c2},
			expected: false,
		},
		{
			name:     "missing liters",
			mapping:  FieldMapping{DateColumn: &c0, PricePerLiterColumn: &c2},
			expected: false,
		},
		{
			name:     "missing price",
			mapping:  FieldMapping{DateColumn: &c0, LitersColumn: &c1},
			expected: false,
		},
		{
			name: "optional fields do not substitute",
			mapping: FieldMapping{
				DateColumn: &c0, LitersColumn: &c1,
				GasStationColumn: &c2, NotesColumn: &c2,
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.mapping.IsValid())
		})
	}
}
