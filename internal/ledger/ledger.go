// Package ledger keeps the append-only history of completed sales.
// Transactions are immutable once appended; only sync merges and imports may
// replace the list wholesale.
package ledger

import (
	"strings"
	"time"
)

// Item is a line snapshot inside a committed transaction, decoupled from the
// live catalog: later product edits never alter past sales.
type Item struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Qty   int    `json:"qty"`
}

// Transaction is one completed sale. Total is always computed from the items
// at creation and never edited afterwards.
type Transaction struct {
	ID    string    `json:"id"`
	Date  time.Time `json:"date"`
	Items []Item    `json:"items"`
	Total int64     `json:"total"`
}

// Filter selects transactions by date. Only the year, month and day of the
// bounds are significant: the window is [start 00:00:00, end 23:59:59]
// inclusive on the transaction's own date.
type Filter struct {
	Start *time.Time
	End   *time.Time
}

// Recorder persists a named record. Satisfied by *storage.Store.
type Recorder interface {
	Read(key string, dst any)
	Write(key string, v any)
}

type Ledger struct {
	store Recorder
	txns  []Transaction
}

// Load reads the persisted ledger, falling back to an empty one.
func Load(store Recorder) *Ledger {
	l := &Ledger{store: store}
	store.Read("ledger", &l.txns)

	return l
}

// Append adds a transaction to the ledger and persists it.
func (l *Ledger) Append(t Transaction) {
	l.txns = append(l.txns, t)
	l.flush()
}

// List returns matching transactions most recent first. Each call produces a
// fresh slice; the ledger itself is never mutated.
func (l *Ledger) List(f Filter) []Transaction {
	var start, end time.Time

	if f.Start != nil {
		s := *f.Start
		start = time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, s.Location())
	}

	if f.End != nil {
		e := *f.End
		end = time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, 999999999, e.Location())
	}

	out := make([]Transaction, 0, len(l.txns))

	for i := len(l.txns) - 1; i >= 0; i-- {
		t := l.txns[i]

		if f.Start != nil && t.Date.Before(start) {
			continue
		}

		if f.End != nil && t.Date.After(end) {
			continue
		}

		out = append(out, t)
	}

	return out
}

// All returns a copy of every transaction in append order.
func (l *Ledger) All() []Transaction {
	out := make([]Transaction, len(l.txns))
	copy(out, l.txns)

	return out
}

// Replace swaps the whole transaction list. Used by sync merges and imports
// only; everything else is append-only.
func (l *Ledger) Replace(txns []Transaction) {
	l.txns = txns
	l.flush()
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	return len(l.txns)
}

func (l *Ledger) flush() {
	l.store.Write("ledger", l.txns)
}

var idReplacer = strings.NewReplacer(":", "", ".", "", "-", "")

// NewTransactionID derives a transaction id from the checkout timestamp,
// e.g. TXN-20240115T083000123Z. Two checkouts inside the same millisecond on
// the same terminal would collide; single-terminal deployments accept this.
func NewTransactionID(t time.Time) string {
	return "TXN-" + idReplacer.Replace(t.UTC().Format("2006-01-02T15:04:05.000Z"))
}
