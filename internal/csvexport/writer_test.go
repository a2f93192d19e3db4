package csvexport

import (
	"strings"
	"testing"
	"time"

	"github.com/jmfields/tankful/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestRenderFullEntry(t *testing.T) {
	entry := model.FuelEntry{
		ID:            model.NewEntryID(),
		Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		OdometerStart: f64(1000),
		OdometerEnd:   f64(1455),
		TotalLiters:   45.5,
		PricePerLiter: 1.5,
		GasStation:    "Shell",
		DriveMode:     model.DriveModeNormal,
		IsFullRefill:  true,
		Notes:         "smooth highway run",
	}

	out := Render([]model.FuelEntry{entry})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t,
		"2024-01-15,1000,1455,45.50,1.50,68.25,true,normal,Shell,455,10.00,0.150,smooth highway run",
		lines[1])
}

func TestRenderMissingOdometers(t *testing.T) {
	entry := model.FuelEntry{
		ID:            model.NewEntryID(),
		Date:          time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		TotalLiters:   38,
		PricePerLiter: 1.62,
		GasStation:    "Unknown",
		DriveMode:     model.DriveModeEco,
		IsFullRefill:  false,
	}

	out := Render([]model.FuelEntry{entry})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"2024-02-01,,,38.00,1.62,61.56,false,eco,Unknown,,,,",
		lines[1])
}

// Commas inside free text are replaced with semicolons so the column count
// stays fixed. Lossy on purpose; the format does no quoting.
func TestRenderSanitizesCommas(t *testing.T) {
	entry := model.FuelEntry{
		ID:            model.NewEntryID(),
		Date:          time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		TotalLiters:   40,
		PricePerLiter: 1.55,
		GasStation:    "Shell, Main St",
		DriveMode:     model.DriveModeNormal,
		IsFullRefill:  true,
		Notes:         "cold, rainy, slow",
	}

	out := Render([]model.FuelEntry{entry})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Shell; Main St")
	assert.Contains(t, lines[1], "cold; rainy; slow")
	assert.Len(t, strings.Split(lines[1], ","), 13, "column count must match the header")
}

func TestRenderEmpty(t *testing.T) {
	out := Render(nil)
	assert.Equal(t, Header+"\n", out)
}
