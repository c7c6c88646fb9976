// Package cart holds the in-progress, uncommitted selection for the next
// sale. The cart is persisted after every mutation for crash recovery but is
// logically transient: checkout clears it.
package cart

import (
	"sort"

	"github.com/MrJamesThe3rd/warung/internal/catalog"
)

// Line is a snapshot of a product at add-time plus a quantity. Lines with a
// quantity below one are removed, never stored.
type Line struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Qty   int    `json:"qty"`
}

// ProductFinder looks up a product by id. Satisfied by *catalog.Catalog.
type ProductFinder interface {
	Find(id string) (catalog.Product, bool)
}

// Recorder persists a named record. Satisfied by *storage.Store.
type Recorder interface {
	Read(key string, dst any)
	Write(key string, v any)
}

type Cart struct {
	store    Recorder
	products ProductFinder
	lines    map[string]Line
}

// Load reads the persisted cart, falling back to an empty one.
func Load(store Recorder, products ProductFinder) *Cart {
	c := &Cart{
		store:    store,
		products: products,
		lines:    map[string]Line{},
	}
	store.Read("cart", &c.lines)

	return c
}

// AddItem creates or bumps the line for the product, snapshotting its
// current name and price. Unknown products are a no-op; reports whether the
// cart changed.
func (c *Cart) AddItem(productID string, qty int) bool {
	if qty < 1 {
		qty = 1
	}

	p, ok := c.products.Find(productID)
	if !ok {
		return false
	}

	line, exists := c.lines[p.ID]
	if exists {
		line.Qty += qty
	} else {
		line = Line{ID: p.ID, Name: p.Name, Price: p.Price, Qty: qty}
	}

	c.lines[p.ID] = line
	c.flush()

	return true
}

// Increment bumps the quantity of an existing line by one.
func (c *Cart) Increment(id string) {
	line, ok := c.lines[id]
	if !ok {
		return
	}

	line.Qty++
	c.lines[id] = line
	c.flush()
}

// Decrement lowers the quantity of an existing line by one, removing the
// line entirely when it would reach zero.
func (c *Cart) Decrement(id string) {
	line, ok := c.lines[id]
	if !ok {
		return
	}

	line.Qty--
	if line.Qty <= 0 {
		delete(c.lines, id)
	} else {
		c.lines[id] = line
	}

	c.flush()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = map[string]Line{}
	c.flush()
}

// Totals returns the subtotal and item count of the current lines. Pure.
func (c *Cart) Totals() (subtotal int64, count int) {
	for _, line := range c.lines {
		subtotal += line.Price * int64(line.Qty)
		count += line.Qty
	}

	return subtotal, count
}

// Lines returns the cart lines ordered by name then id, so displays and
// checkout snapshots are deterministic.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, line)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}

		return out[i].ID < out[j].ID
	})

	return out
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) flush() {
	c.store.Write("cart", c.lines)
}
