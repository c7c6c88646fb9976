package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product is a sellable item. Price is in whole rupiah. A nil Stock means
// stock is not tracked for the product.
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	SKU   string `json:"sku"`
	Stock *int   `json:"stock,omitempty"`
}

// Patch carries the fields of a product update; nil fields are left as-is.
type Patch struct {
	Name  *string
	Price *int64
	SKU   *string
	Stock *int
}

// Recorder persists a named record. Satisfied by *storage.Store; tests
// intercept the flush boundary through it.
type Recorder interface {
	Read(key string, dst any)
	Write(key string, v any)
}

// Catalog holds the products of the terminal and writes itself through to
// the store after every mutation.
type Catalog struct {
	store    Recorder
	products []Product
}

// Load reads the persisted catalog, falling back to an empty one.
func Load(store Recorder) *Catalog {
	c := &Catalog{store: store}
	store.Read("catalog", &c.products)

	return c
}

// Add appends a product. Callers supply a unique id; NewID guarantees this
// in practice.
func (c *Catalog) Add(p Product) {
	c.products = append(c.products, p)
	c.flush()
}

// Update merges patch into the product with the given id. No-op when the id
// is unknown; reports whether a product was updated.
func (c *Catalog) Update(id string, patch Patch) bool {
	for i := range c.products {
		if c.products[i].ID != id {
			continue
		}

		if patch.Name != nil {
			c.products[i].Name = *patch.Name
		}

		if patch.Price != nil {
			c.products[i].Price = *patch.Price
		}

		if patch.SKU != nil {
			c.products[i].SKU = *patch.SKU
		}

		if patch.Stock != nil {
			c.products[i].Stock = patch.Stock
		}

		c.flush()

		return true
	}

	return false
}

// Delete removes all products matching id.
func (c *Catalog) Delete(id string) {
	kept := c.products[:0]

	for _, p := range c.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}

	c.products = kept
	c.flush()
}

// Find returns the product with the given id.
func (c *Catalog) Find(id string) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}

	return Product{}, false
}

// List returns a copy of all products in catalog order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)

	return out
}

// Search returns products whose name or SKU contains the term,
// case-insensitively. An empty term matches everything.
func (c *Catalog) Search(term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))

	var out []Product

	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.SKU), term) {
			out = append(out, p)
		}
	}

	return out
}

// Replace swaps the whole product list. Used by sync merges and imports.
func (c *Catalog) Replace(products []Product) {
	c.products = products
	c.flush()
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// flush is the single write-through point for every mutation.
func (c *Catalog) flush() {
	c.store.Write("catalog", c.products)
}

// NewID generates a product id without central coordination: base-36 unix
// milliseconds plus a random suffix.
func NewID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + uuid.NewString()[:8]
}
