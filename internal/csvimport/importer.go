package csvimport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jmfields/tankful/internal/model"
)

// EntryStore is the narrow persistence capability the importer needs: a
// snapshot of existing entries for duplicate detection, and an insert that
// validates before persisting. Rejection reasons are opaque to the importer.
type EntryStore interface {
	ListEntries(ctx context.Context) ([]model.FuelEntry, error)
	SaveEntry(ctx context.Context, entry *model.FuelEntry) error
}

// ImportResult summarizes one bulk import. Every processed row lands in
// exactly one of the three counts.
type ImportResult struct {
	Errors         []string
	SuccessCount   int
	FailedCount    int
	DuplicateCount int
}

// IsFullSuccess reports whether every row imported cleanly.
func (r ImportResult) IsFullSuccess() bool {
	return r.FailedCount == 0 && r.DuplicateCount == 0
}

// TotalRows returns the number of rows the import classified.
func (r ImportResult) TotalRows() int {
	return r.SuccessCount + r.FailedCount + r.DuplicateCount
}

// Importer commits parsed CSV rows into an EntryStore. A mutex serializes
// batches so the duplicate-detection snapshot taken at the start of a batch
// cannot go stale while rows are being inserted.
type Importer struct {
	store EntryStore

	// OnRow, when set, is called after each row is classified. Callers use
	// it for progress reporting.
	OnRow func(processed, total int)

	mu sync.Mutex
}

// NewImporter creates an importer bound to the given store.
func NewImporter(store EntryStore) *Importer {
	return &Importer{store: store}
}

// ImportEntries processes every row exactly once, in file order, classifying
// each as imported, failed, or duplicate. Row-level problems never abort the
// batch; the only error returns are a store listing failure and context
// cancellation, and already-inserted rows stay inserted either way.
//
// Duplicates are keyed by the parsed date's epoch seconds, exact to the
// second. CSV dates usually carry no time of day, so same-instant is used as
// the proxy for "same entry"; two fill-ups on the same calendar day but
// different clock times do not collide.
func (i *Importer) ImportEntries(ctx context.Context, parsed ParseResult, mapping FieldMapping, skipDuplicates bool) (ImportResult, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	var result ImportResult

	existing, err := i.store.ListEntries(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list existing entries: %w", err)
	}

	seen := make(map[int64]bool, len(existing))
	for _, e := range existing {
		seen[e.Date.Unix()] = true
	}

	for idx, row := range parsed.Rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if i.OnRow != nil {
			i.OnRow(idx+1, parsed.TotalRows)
		}

		preview := RowToPreviewEntry(row, idx+2, mapping)

		if !preview.IsValid() {
			result.FailedCount++
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: %s", preview.RowNumber, strings.Join(preview.Errors, ", ")))
			continue
		}

		if skipDuplicates && seen[preview.Date.Unix()] {
			result.DuplicateCount++
			continue
		}

		entry := preview.ToEntry()
		if err := i.store.SaveEntry(ctx, &entry); err != nil {
			slog.Warn("Store rejected entry",
				"row", preview.RowNumber,
				"error", err)
			result.FailedCount++
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: Failed to save entry", preview.RowNumber))
			continue
		}

		result.SuccessCount++
	}

	slog.Info("Import batch complete",
		"rows", parsed.TotalRows,
		"imported", result.SuccessCount,
		"failed", result.FailedCount,
		"duplicates", result.DuplicateCount)

	return result, nil
}
