package ledger_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/warung/internal/ledger"
	"github.com/MrJamesThe3rd/warung/internal/storage"
)

func openLedger(t *testing.T) (*ledger.Ledger, *storage.Store) {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return ledger.Load(store), store
}

func txnAt(id string, date time.Time) ledger.Transaction {
	return ledger.Transaction{
		ID:   id,
		Date: date,
		Items: []ledger.Item{
			{ID: "p1", Name: "Es Teh", Price: 5000, Qty: 2},
		},
		Total: 10000,
	}
}

func TestLedger_ListReverseChronological(t *testing.T) {
	l, _ := openLedger(t)

	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	l.Append(txnAt("t1", base))
	l.Append(txnAt("t2", base.Add(time.Hour)))
	l.Append(txnAt("t3", base.Add(2*time.Hour)))

	got := l.List(ledger.Filter{})
	require.Len(t, got, 3)
	assert.Equal(t, "t3", got[0].ID)
	assert.Equal(t, "t2", got[1].ID)
	assert.Equal(t, "t1", got[2].ID)
}

func TestLedger_ListDateFilter(t *testing.T) {
	type testCase struct {
		name    string
		start   *time.Time
		end     *time.Time
		wantIDs []string
	}

	day := func(d int, hour int) time.Time {
		return time.Date(2024, 3, d, hour, 30, 0, 0, time.UTC)
	}

	datePtr := func(tt time.Time) *time.Time { return &tt }

	today := day(15, 0)

	tests := []testCase{
		{
			name:    "StartEqualsEndReturnsThatDayOnly",
			start:   datePtr(today),
			end:     datePtr(today),
			wantIDs: []string{"t2"},
		},
		{
			name:    "StartAfterAllDatesReturnsEmpty",
			start:   datePtr(day(20, 0)),
			wantIDs: []string{},
		},
		{
			name:    "EndOnly",
			end:     datePtr(day(14, 0)),
			wantIDs: []string{"t1"},
		},
		{
			name:    "OpenFilterReturnsAll",
			wantIDs: []string{"t3", "t2", "t1"},
		},
		{
			name:    "WindowIsInclusiveOfDayBounds",
			start:   datePtr(day(14, 0)),
			end:     datePtr(day(16, 0)),
			wantIDs: []string{"t3", "t2", "t1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := openLedger(t)
			l.Append(txnAt("t1", day(14, 23))) // late on the 14th
			l.Append(txnAt("t2", day(15, 12)))
			l.Append(txnAt("t3", day(16, 0))) // first minute of the 16th

			got := l.List(ledger.Filter{Start: tt.start, End: tt.end})

			ids := make([]string, 0, len(got))
			for _, tx := range got {
				ids = append(ids, tx.ID)
			}

			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestLedger_ListNeverMutates(t *testing.T) {
	l, _ := openLedger(t)
	l.Append(txnAt("t1", time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)))

	first := l.List(ledger.Filter{})
	first[0].ID = "mutated"

	again := l.List(ledger.Filter{})
	require.Len(t, again, 1)
	assert.Equal(t, "t1", again[0].ID)
}

func TestLedger_TotalsMatchItems(t *testing.T) {
	l, _ := openLedger(t)

	l.Append(ledger.Transaction{
		ID:   "t1",
		Date: time.Now(),
		Items: []ledger.Item{
			{ID: "p1", Name: "Nasi Goreng", Price: 25000, Qty: 2},
			{ID: "p2", Name: "Es Teh", Price: 5000, Qty: 1},
		},
		Total: 55000,
	})

	for _, tx := range l.All() {
		var sum int64
		for _, item := range tx.Items {
			sum += item.Price * int64(item.Qty)
		}

		assert.Equal(t, sum, tx.Total)
	}
}

func TestLedger_PersistsAcrossReload(t *testing.T) {
	l, store := openLedger(t)
	l.Append(txnAt("t1", time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)))

	reloaded := ledger.Load(store)
	require.Equal(t, 1, reloaded.Len())
	assert.Equal(t, "t1", reloaded.All()[0].ID)
}

func TestNewTransactionID(t *testing.T) {
	ts := time.Date(2024, 1, 15, 8, 30, 0, 123000000, time.UTC)
	assert.Equal(t, "TXN-20240115T083000123Z", ledger.NewTransactionID(ts))

	// Derivation is purely from the timestamp.
	assert.Equal(t, ledger.NewTransactionID(ts), ledger.NewTransactionID(ts))
}
