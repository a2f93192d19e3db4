package csvimport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmfields/tankful/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore is an in-memory EntryStore for importer tests.
type mockStore struct {
	saveErr   error
	listErr   error
	entries   []model.FuelEntry
	saveCalls int
}

func (m *mockStore) ListEntries(_ context.Context) ([]model.FuelEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.entries, nil
}

func (m *mockStore) SaveEntry(_ context.Context, entry *model.FuelEntry) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func TestImportEntriesEndToEnd(t *testing.T) {
	parsed := ParseCSV("Date,Liters,Price\n2024-01-15,45.5,1.50\n2024-01-20,50.0,1.55")
	mapping := fullMapping()
	store := &mockStore{}

	result, err := NewImporter(store).ImportEntries(context.Background(), parsed, mapping, true)
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 0, result.FailedCount)
	assert.Equal(t, 0, result.DuplicateCount)
	assert.True(t, result.IsFullSuccess())
	assert.Empty(t, result.Errors)

	require.Len(t, store.entries, 2)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), store.entries[0].Date)
	assert.Equal(t, "Unknown", store.entries[0].GasStation)
}

func TestImportEntriesSkipsExactTimestampDuplicates(t *testing.T) {
	existing := model.FuelEntry{
		ID:            model.NewEntryID(),
		Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		TotalLiters:   40,
		PricePerLiter: 1.40,
	}
	store := &mockStore{entries: []model.FuelEntry{existing}}

	parsed := ParseCSV("Date,Liters,Price\n2024-01-15,45.5,1.50\n2024-01-20,50.0,1.55")
	result, err := NewImporter(store).ImportEntries(context.Background(), parsed, fullMapping(), true)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.DuplicateCount)
	assert.Equal(t, 0, result.FailedCount)
	assert.False(t, result.IsFullSuccess())
	assert.Empty(t, result.Errors, "duplicates are not errors")
	assert.Equal(t, 1, store.saveCalls, "duplicate row must not reach the store")
}

// Duplicate keying is exact to the second, not day-bucketed: an existing
// entry one second past midnight does not collide with a CSV date parsed to
// midnight.
func TestImportEntriesDuplicateKeyIsExact(t *testing.T) {
	existing := model.FuelEntry{
		ID:            model.NewEntryID(),
		Date:          time.Date(2024, 1, 15, 0, 0, 1, 0, time.UTC),
		TotalLiters:   40,
		PricePerLiter: 1.40,
	}
	store := &mockStore{entries: []model.FuelEntry{existing}}

	parsed := ParseCSV("Date,Liters,Price\n2024-01-15,45.5,1.50")
	result, err := NewImporter(store).ImportEntries(context.Background(), parsed, fullMapping(), true)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 0, result.DuplicateCount)
}

func TestImportEntriesWithoutSkipInsertsDuplicates(t *testing.T) {
	existing := model.FuelEntry{
		ID:            model.NewEntryID(),
		Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		TotalLiters:   40,
		PricePerLiter: 1.40,
	}
	store := &mockStore{entries: []model.FuelEntry{existing}}

	parsed := ParseCSV("Date,Liters,Price\n2024-01-15,45.5,1.50")
	result, err := NewImporter(store).ImportEntries(context.Background(), parsed, fullMapping(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 0, result.DuplicateCount)
	assert.Equal(t, 2, len(store.entries))
}

func TestImportEntriesReportsInvalidRows(t *testing.T) {
	parsed := ParseCSV("Date,Liters,Price\n" +
		"2024-01-15,45.5,1.50\n" +
		"not-a-date,45.5,1.50\n" +
		"2024-01-17,0,1.50")
	store := &mockStore{}

	result, err := NewImporter(store).ImportEntries(context.Background(), parsed, fullMapping(), true)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 2, result.FailedCount)
	assert.Equal(t, 0, result.DuplicateCount)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "Row 3: Invalid date format", result.Errors[0])
	assert.Equal(t, "Row 4: Invalid liters value", result.Errors[1])
}

func TestImportEntriesStoreRejection(t *testing.T) {
	store := &mockStore{saveErr: errors.New("disk full")}
	parsed := ParseCSV("Date,Liters,Price\n2024-01-15,45.5,1.50")

	result, err := NewImporter(store).ImportEntries(context.Background(), parsed, fullMapping(), true)
	require.NoError(t, err, "store rejection is a row outcome, not a batch failure")

	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Row 2: Failed to save entry", result.Errors[0])
}

func TestImportEntriesListFailure(t *testing.T) {
	store := &mockStore{listErr: errors.New("database locked")}
	parsed := ParseCSV("Date,Liters,Price\n2024-01-15,45.5,1.50")

	_, err := NewImporter(store).ImportEntries(context.Background(), parsed, fullMapping(), true)
	assert.Error(t, err)
	assert.Equal(t, 0, store.saveCalls)
}

// Every row lands in exactly one outcome bucket.
func TestImportEntriesAccountingInvariant(t *testing.T) {
	existing := model.FuelEntry{
		ID:            model.NewEntryID(),
		Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		TotalLiters:   40,
		PricePerLiter: 1.40,
	}
	store := &mockStore{entries: []model.FuelEntry{existing}}

	parsed := ParseCSV("Date,Liters,Price\n" +
		"2024-01-15,45.5,1.50\n" + // duplicate
		"bad-date,45.5,1.50\n" + // failed
		"2024-01-17,42.0,1.52\n" + // success
		"2024-01-18,,\n" + // failed
		"2024-01-19,39.1,1.49") // success

	result, err := NewImporter(store).ImportEntries(context.Background(), parsed, fullMapping(), true)
	require.NoError(t, err)

	assert.Equal(t, parsed.TotalRows, result.TotalRows())
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 2, result.FailedCount)
	assert.Equal(t, 1, result.DuplicateCount)
}

func TestImportEntriesContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &mockStore{}
	parsed := ParseCSV("Date,Liters,Price\n2024-01-15,45.5,1.50")

	_, err := NewImporter(store).ImportEntries(ctx, parsed, fullMapping(), true)
	assert.ErrorIs(t, err, context.Canceled)
}
