package backup_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/warung/internal/backup"
	"github.com/MrJamesThe3rd/warung/internal/catalog"
	"github.com/MrJamesThe3rd/warung/internal/ledger"
	"github.com/MrJamesThe3rd/warung/internal/storage"
)

func setup(t *testing.T) (*backup.Service, *catalog.Catalog, *ledger.Ledger) {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cat := catalog.Load(store)
	led := ledger.Load(store)

	return backup.NewService(cat, led), cat, led
}

func TestService_RoundTrip(t *testing.T) {
	svc, cat, led := setup(t)

	stock := 7
	cat.Add(catalog.Product{ID: "p1", Name: "Nasi Goreng", Price: 25000, SKU: "NG-001", Stock: &stock})
	cat.Add(catalog.Product{ID: "p2", Name: "Es Teh", Price: 5000, SKU: "ET-001"})
	led.Append(ledger.Transaction{
		ID:    "TXN-20240115T083000123Z",
		Date:  time.Date(2024, 1, 15, 8, 30, 0, 123000000, time.UTC),
		Items: []ledger.Item{{ID: "p1", Name: "Nasi Goreng", Price: 25000, Qty: 1}},
		Total: 25000,
	})

	var buf bytes.Buffer
	require.NoError(t, svc.Export(&buf))

	// Import into a fresh terminal reproduces equivalent state.
	other, otherCat, otherLed := setup(t)

	sum, err := other.Import(&buf)
	require.NoError(t, err)
	assert.True(t, sum.ReplacedProducts)
	assert.True(t, sum.ReplacedTxns)
	assert.Equal(t, 2, sum.Products)
	assert.Equal(t, 1, sum.Txns)

	assert.Equal(t, cat.List(), otherCat.List())

	gotTxns := otherLed.All()
	require.Len(t, gotTxns, 1)
	assert.Equal(t, "TXN-20240115T083000123Z", gotTxns[0].ID)
	assert.Equal(t, int64(25000), gotTxns[0].Total)
	assert.True(t, gotTxns[0].Date.Equal(time.Date(2024, 1, 15, 8, 30, 0, 123000000, time.UTC)))
}

func TestService_ImportAbsentFieldLeavesStateUntouched(t *testing.T) {
	svc, cat, led := setup(t)
	cat.Add(catalog.Product{ID: "p1", Name: "Nasi Goreng", Price: 25000})
	led.Append(ledger.Transaction{ID: "t1", Total: 25000})

	sum, err := svc.Import(strings.NewReader(`{"txns": []}`))
	require.NoError(t, err)

	assert.False(t, sum.ReplacedProducts)
	assert.True(t, sum.ReplacedTxns)

	// Products untouched, ledger replaced by the empty array.
	assert.Equal(t, 1, cat.Len())
	assert.Zero(t, led.Len())
}

func TestService_ImportMalformedDocument(t *testing.T) {
	svc, cat, _ := setup(t)
	cat.Add(catalog.Product{ID: "p1", Name: "Nasi Goreng", Price: 25000})

	_, err := svc.Import(strings.NewReader(`{"products": not json`))
	require.Error(t, err)

	assert.Equal(t, 1, cat.Len())
}

func TestService_ImportSkipsNonArrayField(t *testing.T) {
	svc, cat, led := setup(t)
	cat.Add(catalog.Product{ID: "p1", Name: "Nasi Goreng", Price: 25000})

	// A bad products field only skips that side; the valid txns array still
	// lands.
	doc := `{"products": "oops", "txns": [{"id": "t1", "total": 5000}]}`

	sum, err := svc.Import(strings.NewReader(doc))
	require.NoError(t, err)

	assert.False(t, sum.ReplacedProducts)
	assert.True(t, sum.ReplacedTxns)
	assert.Equal(t, 1, sum.Txns)

	assert.Equal(t, 1, cat.Len())

	txns := led.All()
	require.Len(t, txns, 1)
	assert.Equal(t, "t1", txns[0].ID)
}

func TestService_ImportNullFieldLeavesStateUntouched(t *testing.T) {
	svc, cat, _ := setup(t)
	cat.Add(catalog.Product{ID: "p1", Name: "Nasi Goreng", Price: 25000})

	sum, err := svc.Import(strings.NewReader(`{"products": null}`))
	require.NoError(t, err)

	assert.False(t, sum.ReplacedProducts)
	assert.Equal(t, 1, cat.Len())
}

func TestService_FileRoundTrip(t *testing.T) {
	svc, cat, _ := setup(t)
	cat.Add(catalog.Product{ID: "p1", Name: "Kopi Hitam", Price: 12000})

	path := filepath.Join(t.TempDir(), "pos-data.json")
	require.NoError(t, svc.ExportFile(path))

	other, otherCat, _ := setup(t)

	sum, err := other.ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Products)
	assert.Equal(t, cat.List(), otherCat.List())
}
