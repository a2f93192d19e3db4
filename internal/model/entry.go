// Package model defines the core domain types shared across the application.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DriveMode describes the driving style for a fill-up interval.
type DriveMode string

// Supported drive modes.
const (
	DriveModeEco    DriveMode = "eco"
	DriveModeNormal DriveMode = "normal"
	DriveModeSport  DriveMode = "sport"
)

// driveModeSynonyms maps lowercased user input (English and Russian) to a
// canonical drive mode.
var driveModeSynonyms = map[string]DriveMode{
	"eco":        DriveModeEco,
	"economy":    DriveModeEco,
	"эко":        DriveModeEco,
	"экономный":  DriveModeEco,
	"normal":     DriveModeNormal,
	"regular":    DriveModeNormal,
	"обычный":    DriveModeNormal,
	"нормальный": DriveModeNormal,
	"sport":      DriveModeSport,
	"sports":     DriveModeSport,
	"спорт":      DriveModeSport,
	"спортивный": DriveModeSport,
}

// ParseDriveMode resolves free text to a drive mode. The second return value
// reports whether the text was recognized.
func ParseDriveMode(s string) (DriveMode, bool) {
	mode, ok := driveModeSynonyms[strings.ToLower(strings.TrimSpace(s))]
	return mode, ok
}

// FuelEntry represents a single fill-up event.
type FuelEntry struct {
	Date          time.Time
	OdometerStart *float64
	OdometerEnd   *float64
	ID            string
	GasStation    string
	Notes         string
	DriveMode     DriveMode
	TotalLiters   float64
	PricePerLiter float64
	IsFullRefill  bool
}

// NewEntryID generates a fresh synthetic entry identifier.
func NewEntryID() string {
	return uuid.NewString()
}

// TotalCost returns the total purchase cost.
func (e *FuelEntry) TotalCost() float64 {
	return e.TotalLiters * e.PricePerLiter
}

// Distance returns the kilometers driven over this interval, or nil when the
// odometer readings are missing or do not strictly increase. Equal readings
// yield no distance rather than an error.
func (e *FuelEntry) Distance() *float64 {
	if e.OdometerStart == nil || e.OdometerEnd == nil {
		return nil
	}
	if *e.OdometerEnd <= *e.OdometerStart {
		return nil
	}
	d := *e.OdometerEnd - *e.OdometerStart
	return &d
}

// LitersPer100KM returns fuel consumption per 100 km, or nil when no distance
// is available.
func (e *FuelEntry) LitersPer100KM() *float64 {
	d := e.Distance()
	if d == nil || *d <= 0 {
		return nil
	}
	v := e.TotalLiters / *d * 100
	return &v
}

// CostPerKM returns the fuel cost per kilometer, or nil when no distance is
// available.
func (e *FuelEntry) CostPerKM() *float64 {
	d := e.Distance()
	if d == nil || *d <= 0 {
		return nil
	}
	v := e.TotalCost() / *d
	return &v
}

// Validate checks the invariants a storable entry must satisfy.
func (e *FuelEntry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("entry ID cannot be empty")
	}
	if e.Date.IsZero() {
		return fmt.Errorf("entry date cannot be zero")
	}
	if e.TotalLiters <= 0 {
		return fmt.Errorf("total liters must be positive, got %.2f", e.TotalLiters)
	}
	if e.PricePerLiter <= 0 {
		return fmt.Errorf("price per liter must be positive, got %.2f", e.PricePerLiter)
	}
	if e.OdometerStart != nil && e.OdometerEnd != nil && *e.OdometerEnd < *e.OdometerStart {
		return fmt.Errorf("end odometer %.0f is less than start odometer %.0f", *e.OdometerEnd, *e.OdometerStart)
	}
	return nil
}
