package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/warung/internal/catalog"
	"github.com/MrJamesThe3rd/warung/internal/storage"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()

	s, err := storage.Open(filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }

func TestCatalog_SeedDefaults(t *testing.T) {
	store := openStore(t)
	c := catalog.Load(store)

	seeded := c.SeedDefaults()
	require.True(t, seeded)

	products := c.List()
	require.Len(t, products, 3)

	names := map[string]int64{}
	ids := map[string]struct{}{}

	for _, p := range products {
		names[p.Name] = p.Price
		ids[p.ID] = struct{}{}
	}

	assert.Len(t, ids, 3, "seeded ids must be distinct")
	assert.Equal(t, map[string]int64{
		"Nasi Goreng": 25000,
		"Es Teh":      5000,
		"Kopi Hitam":  12000,
	}, names)

	// Seeding is a once-per-empty-store operation.
	assert.False(t, c.SeedDefaults())
	assert.Equal(t, 3, c.Len())

	// A reloaded non-empty catalog is never reseeded.
	reloaded := catalog.Load(store)
	assert.False(t, reloaded.SeedDefaults())
	assert.Equal(t, 3, reloaded.Len())
}

func TestCatalog_AddPersists(t *testing.T) {
	store := openStore(t)
	c := catalog.Load(store)

	c.Add(catalog.Product{ID: "p1", Name: "Teh Manis", Price: 4000, SKU: "TM-001"})

	reloaded := catalog.Load(store)
	got, ok := reloaded.Find("p1")
	require.True(t, ok)
	assert.Equal(t, "Teh Manis", got.Name)
	assert.Equal(t, int64(4000), got.Price)
}

func TestCatalog_Update(t *testing.T) {
	type testCase struct {
		name    string
		id      string
		patch   catalog.Patch
		wantOK  bool
		wantGet catalog.Product
	}

	tests := []testCase{
		{
			name:   "PatchPriceOnly",
			id:     "p1",
			patch:  catalog.Patch{Price: int64Ptr(30000)},
			wantOK: true,
			wantGet: catalog.Product{
				ID: "p1", Name: "Nasi Goreng", Price: 30000, SKU: "NG-001",
			},
		},
		{
			name:   "PatchNameAndSKU",
			id:     "p1",
			patch:  catalog.Patch{Name: strPtr("Nasi Goreng Spesial"), SKU: strPtr("NG-002")},
			wantOK: true,
			wantGet: catalog.Product{
				ID: "p1", Name: "Nasi Goreng Spesial", Price: 25000, SKU: "NG-002",
			},
		},
		{
			name:   "UnknownIDIsNoOp",
			id:     "nope",
			patch:  catalog.Patch{Price: int64Ptr(1)},
			wantOK: false,
			wantGet: catalog.Product{
				ID: "p1", Name: "Nasi Goreng", Price: 25000, SKU: "NG-001",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := catalog.Load(openStore(t))
			c.Add(catalog.Product{ID: "p1", Name: "Nasi Goreng", Price: 25000, SKU: "NG-001"})

			ok := c.Update(tt.id, tt.patch)
			assert.Equal(t, tt.wantOK, ok)

			got, found := c.Find("p1")
			require.True(t, found)
			assert.Equal(t, tt.wantGet, got)
		})
	}
}

func TestCatalog_Delete(t *testing.T) {
	c := catalog.Load(openStore(t))
	c.Add(catalog.Product{ID: "p1", Name: "A", Price: 1000})
	c.Add(catalog.Product{ID: "p2", Name: "B", Price: 2000})

	c.Delete("p1")

	_, found := c.Find("p1")
	assert.False(t, found)
	assert.Equal(t, 1, c.Len())

	// Deleting an unknown id is harmless.
	c.Delete("p1")
	assert.Equal(t, 1, c.Len())
}

func TestCatalog_Search(t *testing.T) {
	c := catalog.Load(openStore(t))
	c.Add(catalog.Product{ID: "p1", Name: "Nasi Goreng", Price: 25000, SKU: "NG-001"})
	c.Add(catalog.Product{ID: "p2", Name: "Es Teh", Price: 5000, SKU: "ET-001"})

	assert.Len(t, c.Search("nasi"), 1)
	assert.Len(t, c.Search("ET-0"), 1)
	assert.Len(t, c.Search(""), 2)
	assert.Empty(t, c.Search("bakso"))
}

func TestCatalog_SeedFromFile(t *testing.T) {
	seed := `
- name: Mie Ayam
  price: 15000
  sku: MA-001
  stock: 12
- name: Es Jeruk
  price: 7000
  sku: EJ-001
`
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	c := catalog.Load(openStore(t))

	seeded, err := c.SeedFromFile(path)
	require.NoError(t, err)
	require.True(t, seeded)

	products := c.List()
	require.Len(t, products, 2)
	assert.Equal(t, "Mie Ayam", products[0].Name)
	require.NotNil(t, products[0].Stock)
	assert.Equal(t, 12, *products[0].Stock)
	assert.Nil(t, products[1].Stock)
	assert.NotEmpty(t, products[0].ID)
	assert.NotEqual(t, products[0].ID, products[1].ID)
}

func TestNewID_Unique(t *testing.T) {
	seen := map[string]struct{}{}

	for range 100 {
		id := catalog.NewID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
