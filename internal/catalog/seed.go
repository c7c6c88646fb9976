package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func intPtr(n int) *int { return &n }

func defaultProducts() []Product {
	return []Product{
		{ID: NewID(), Name: "Nasi Goreng", Price: 25000, SKU: "NG-001", Stock: intPtr(20)},
		{ID: NewID(), Name: "Es Teh", Price: 5000, SKU: "ET-001", Stock: intPtr(50)},
		{ID: NewID(), Name: "Kopi Hitam", Price: 12000, SKU: "KH-001", Stock: intPtr(30)},
	}
}

// SeedDefaults populates the starter products on an empty catalog. Reports
// whether seeding happened; a non-empty catalog is never touched.
func (c *Catalog) SeedDefaults() bool {
	if len(c.products) > 0 {
		return false
	}

	c.products = defaultProducts()
	c.flush()

	return true
}

type seedEntry struct {
	Name  string `yaml:"name"`
	Price int64  `yaml:"price"`
	SKU   string `yaml:"sku"`
	Stock *int   `yaml:"stock"`
}

// SeedFromFile seeds an empty catalog from a YAML file of products instead
// of the built-in defaults. Ids are generated on load.
func (c *Catalog) SeedFromFile(path string) (bool, error) {
	if len(c.products) > 0 {
		return false, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading seed file: %w", err)
	}

	var entries []seedEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return false, fmt.Errorf("parsing seed file: %w", err)
	}

	if len(entries) == 0 {
		return false, nil
	}

	products := make([]Product, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" || e.Price <= 0 {
			return false, fmt.Errorf("seed entry %q: name and a positive price are required", e.Name)
		}

		products = append(products, Product{
			ID:    NewID(),
			Name:  e.Name,
			Price: e.Price,
			SKU:   e.SKU,
			Stock: e.Stock,
		})
	}

	c.products = products
	c.flush()

	return true, nil
}
