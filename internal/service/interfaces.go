// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/jmfields/tankful/internal/model"
)

// EntryFilter defines filtering options for entry queries.
type EntryFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Station   string
	Limit     int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Entry operations
	SaveEntry(ctx context.Context, entry *model.FuelEntry) error
	ListEntries(ctx context.Context) ([]model.FuelEntry, error)
	GetEntries(ctx context.Context, filter EntryFilter) ([]model.FuelEntry, error)
	GetEntryByID(ctx context.Context, id string) (*model.FuelEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	CountEntries(ctx context.Context) (int, error)

	// Reporting
	GetStationSummary(ctx context.Context) (map[string]StationSummary, error)
	GetMonthlySummary(ctx context.Context, start, end time.Time) ([]MonthlySummary, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// StationSummary aggregates fill-ups for one gas station.
type StationSummary struct {
	FillUps     int
	TotalLiters float64
	TotalCost   float64
}

// MonthlySummary aggregates fill-ups for one calendar month.
type MonthlySummary struct {
	Month       string
	FillUps     int
	TotalLiters float64
	TotalCost   float64
}
