package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmfields/tankful/internal/common"
	"github.com/jmfields/tankful/internal/model"
	"github.com/jmfields/tankful/internal/service"
)

// SaveEntry validates and persists a single fuel entry.
func (s *SQLiteStorage) SaveEntry(ctx context.Context, entry *model.FuelEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fuel_entries (
			id, date, odometer_start, odometer_end, total_liters,
			price_per_liter, gas_station, drive_mode, is_full_refill, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.Date,
		entry.OdometerStart,
		entry.OdometerEnd,
		entry.TotalLiters,
		entry.PricePerLiter,
		entry.GasStation,
		string(entry.DriveMode),
		entry.IsFullRefill,
		nullableString(entry.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", entry.ID, err)
	}

	return nil
}

// ListEntries returns every entry ordered by date ascending.
func (s *SQLiteStorage) ListEntries(ctx context.Context) ([]model.FuelEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.GetEntries(ctx, service.EntryFilter{})
}

// GetEntries returns entries matching the filter, ordered by date ascending.
func (s *SQLiteStorage) GetEntries(ctx context.Context, filter service.EntryFilter) ([]model.FuelEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, date, odometer_start, odometer_end, total_liters,
		       price_per_liter, gas_station, drive_mode, is_full_refill, notes
		FROM fuel_entries
		WHERE 1=1
	`
	args := []any{}

	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, *filter.EndDate)
	}
	if filter.Station != "" {
		query += " AND gas_station = ?"
		args = append(args, filter.Station)
	}

	query += " ORDER BY date ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.FuelEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// GetEntryByID retrieves a single entry by ID.
func (s *SQLiteStorage) GetEntryByID(ctx context.Context, id string) (*model.FuelEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, date, odometer_start, odometer_end, total_liters,
		       price_per_liter, gas_station, drive_mode, is_full_refill, notes
		FROM fuel_entries
		WHERE id = ?
	`, id)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry removes an entry by ID.
func (s *SQLiteStorage) DeleteEntry(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM fuel_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// CountEntries returns the total number of entries.
func (s *SQLiteStorage) CountEntries(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fuel_entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// GetStationSummary aggregates fill-up count, liters, and cost per station.
func (s *SQLiteStorage) GetStationSummary(ctx context.Context) (map[string]service.StationSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT gas_station, COUNT(*), SUM(total_liters), SUM(total_liters * price_per_liter)
		FROM fuel_entries
		GROUP BY gas_station
		ORDER BY SUM(total_liters * price_per_liter) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query station summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summary := make(map[string]service.StationSummary)
	for rows.Next() {
		var station string
		var agg service.StationSummary
		if err := rows.Scan(&station, &agg.FillUps, &agg.TotalLiters, &agg.TotalCost); err != nil {
			return nil, fmt.Errorf("failed to scan station summary: %w", err)
		}
		summary[station] = agg
	}

	return summary, rows.Err()
}

// GetMonthlySummary aggregates fill-ups per calendar month inside the range.
func (s *SQLiteStorage) GetMonthlySummary(ctx context.Context, start, end time.Time) ([]service.MonthlySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m', date), COUNT(*), SUM(total_liters), SUM(total_liters * price_per_liter)
		FROM fuel_entries
		WHERE date >= ? AND date <= ?
		GROUP BY strftime('%Y-%m', date)
		ORDER BY strftime('%Y-%m', date) ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []service.MonthlySummary
	for rows.Next() {
		var m service.MonthlySummary
		if err := rows.Scan(&m.Month, &m.FillUps, &m.TotalLiters, &m.TotalCost); err != nil {
			return nil, fmt.Errorf("failed to scan monthly summary: %w", err)
		}
		summaries = append(summaries, m)
	}

	return summaries, rows.Err()
}

// scannable is satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (model.FuelEntry, error) {
	var entry model.FuelEntry
	var odoStart, odoEnd sql.NullFloat64
	var driveMode string
	var notes sql.NullString

	err := row.Scan(
		&entry.ID,
		&entry.Date,
		&odoStart,
		&odoEnd,
		&entry.TotalLiters,
		&entry.PricePerLiter,
		&entry.GasStation,
		&driveMode,
		&entry.IsFullRefill,
		&notes,
	)
	if err == sql.ErrNoRows {
		return entry, err
	}
	if err != nil {
		return entry, fmt.Errorf("failed to scan entry: %w", err)
	}

	if odoStart.Valid {
		entry.OdometerStart = &odoStart.Float64
	}
	if odoEnd.Valid {
		entry.OdometerEnd = &odoEnd.Float64
	}
	entry.DriveMode = model.DriveMode(driveMode)
	if notes.Valid {
		entry.Notes = notes.String
	}

	return entry, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
