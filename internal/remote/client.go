// Package remote talks to the optional backend: a Postgres row store for
// products and transactions, and an HTTP auth service for email/password
// identity. The backend is best-effort secondary storage; callers treat
// every error here as non-fatal for local state.
package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MrJamesThe3rd/warung/internal/catalog"
	"github.com/MrJamesThe3rd/warung/internal/ledger"
)

type Client struct {
	db *sql.DB
}

// Open connects to the backend row store.
func Open(dsn string) (*Client, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening remote store: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging remote store: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// UpsertProduct writes one product row keyed by id.
func (c *Client) UpsertProduct(ctx context.Context, p catalog.Product) error {
	query := `
		INSERT INTO products (id, name, price, sku, stock, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, price = EXCLUDED.price,
			sku = EXCLUDED.sku, stock = EXCLUDED.stock,
			updated_at = NOW()
	`

	var stock sql.NullInt64
	if p.Stock != nil {
		stock = sql.NullInt64{Int64: int64(*p.Stock), Valid: true}
	}

	if _, err := c.db.ExecContext(ctx, query, p.ID, p.Name, p.Price, p.SKU, stock); err != nil {
		return fmt.Errorf("upserting product: %w", err)
	}

	return nil
}

// UpsertTransaction writes one transaction row keyed by id. Items are
// stored as a JSON document; the backend never interprets them.
func (c *Client) UpsertTransaction(ctx context.Context, t ledger.Transaction) error {
	items, err := json.Marshal(t.Items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}

	query := `
		INSERT INTO transactions (id, date, items, total)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date, items = EXCLUDED.items, total = EXCLUDED.total
	`

	if _, err := c.db.ExecContext(ctx, query, t.ID, t.Date, items, t.Total); err != nil {
		return fmt.Errorf("upserting transaction: %w", err)
	}

	return nil
}

// InsertTransactions appends new transaction rows without conflict
// handling; a duplicate push of the same checkout returns an error the
// dispatcher logs.
func (c *Client) InsertTransactions(ctx context.Context, txns []ledger.Transaction) error {
	query := `INSERT INTO transactions (id, date, items, total) VALUES ($1, $2, $3, $4)`

	for _, t := range txns {
		items, err := json.Marshal(t.Items)
		if err != nil {
			return fmt.Errorf("encoding items: %w", err)
		}

		if _, err := c.db.ExecContext(ctx, query, t.ID, t.Date, items, t.Total); err != nil {
			return fmt.Errorf("inserting transaction %s: %w", t.ID, err)
		}
	}

	return nil
}

// SelectProducts fetches every product row.
func (c *Client) SelectProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, name, price, sku, stock FROM products`)
	if err != nil {
		return nil, fmt.Errorf("selecting products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product

	for rows.Next() {
		var (
			p     catalog.Product
			stock sql.NullInt64
		)

		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.SKU, &stock); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		if stock.Valid {
			n := int(stock.Int64)
			p.Stock = &n
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

// SelectTransactions fetches every transaction row.
func (c *Client) SelectTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, date, items, total FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("selecting transactions: %w", err)
	}
	defer rows.Close()

	var txns []ledger.Transaction

	for rows.Next() {
		var (
			t     ledger.Transaction
			items []byte
		)

		if err := rows.Scan(&t.ID, &t.Date, &items, &t.Total); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		if err := json.Unmarshal(items, &t.Items); err != nil {
			return nil, fmt.Errorf("decoding items of %s: %w", t.ID, err)
		}

		txns = append(txns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txns, nil
}
