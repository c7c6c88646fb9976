// Package sync reconciles local catalog and ledger state with the remote
// row store. The merge policy is id-based remote-wins: no version vectors,
// no conflict detection beyond overwrite. Row failures are logged and
// counted, never fatal; the batch always runs to completion.
package sync

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/warung/internal/catalog"
	"github.com/MrJamesThe3rd/warung/internal/ledger"
)

// Remote is the backend row store: two collections keyed by id with upsert,
// insert and select-all.
//
//go:generate mockgen -source=engine.go -destination=remote_mock.go -package=sync
type Remote interface {
	UpsertProduct(ctx context.Context, p catalog.Product) error
	UpsertTransaction(ctx context.Context, t ledger.Transaction) error
	InsertTransactions(ctx context.Context, txns []ledger.Transaction) error
	SelectProducts(ctx context.Context) ([]catalog.Product, error)
	SelectTransactions(ctx context.Context) ([]ledger.Transaction, error)
}

// Gate reports whether sync may run. Satisfied by *session.Session.
type Gate interface {
	Authenticated() bool
}

// Summary counts the rows of a push round. Partial success is expected and
// acceptable.
type Summary struct {
	Pushed int
	Failed int
}

type Engine struct {
	remote  Remote
	gate    Gate
	catalog *catalog.Catalog
	ledger  *ledger.Ledger
	log     *slog.Logger
}

// New creates a sync engine. remote may be nil when the terminal runs
// local-only; every operation is then a no-op.
func New(remote Remote, gate Gate, cat *catalog.Catalog, led *ledger.Ledger, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		remote:  remote,
		gate:    gate,
		catalog: cat,
		ledger:  led,
		log:     log,
	}
}

func (e *Engine) ready() bool {
	return e.remote != nil && e.gate != nil && e.gate.Authenticated()
}

// PushAll upserts every local product and transaction to the remote store,
// keyed by id. A failed row is logged and skipped; the loop never aborts.
func (e *Engine) PushAll(ctx context.Context) Summary {
	if !e.ready() {
		return Summary{}
	}

	run := uuid.NewString()

	var sum Summary

	for _, p := range e.catalog.List() {
		if err := e.remote.UpsertProduct(ctx, p); err != nil {
			e.log.Warn("upsert product failed", "run", run, "id", p.ID, "error", err)
			sum.Failed++

			continue
		}

		sum.Pushed++
	}

	for _, t := range e.ledger.All() {
		if err := e.remote.UpsertTransaction(ctx, t); err != nil {
			e.log.Warn("upsert transaction failed", "run", run, "id", t.ID, "error", err)
			sum.Failed++

			continue
		}

		sum.Pushed++
	}

	e.log.Info("push finished", "run", run, "pushed", sum.Pushed, "failed", sum.Failed)

	return sum
}

// PullAll fetches both remote collections and merges them into local state,
// remote wins per id. Each collection is fetched independently: a failed
// select is logged and leaves that side of the local state untouched.
func (e *Engine) PullAll(ctx context.Context) {
	if !e.ready() {
		return
	}

	run := uuid.NewString()

	if products, err := e.remote.SelectProducts(ctx); err != nil {
		e.log.Warn("pull products failed", "run", run, "error", err)
	} else {
		merged := MergeByID(e.catalog.List(), products, func(p catalog.Product) string { return p.ID })
		e.catalog.Replace(merged)
	}

	if txns, err := e.remote.SelectTransactions(ctx); err != nil {
		e.log.Warn("pull transactions failed", "run", run, "error", err)
	} else {
		merged := MergeByID(e.ledger.All(), txns, func(t ledger.Transaction) string { return t.ID })
		e.ledger.Replace(merged)
	}
}

// PushOne submits a single new transaction, used right after checkout. No
// merge; insert only.
func (e *Engine) PushOne(ctx context.Context, t ledger.Transaction) error {
	if !e.ready() {
		return nil
	}

	return e.remote.InsertTransactions(ctx, []ledger.Transaction{t})
}

// Round runs a pull-then-push reconciliation, the sequence triggered after
// sign-in and by the manual sync action.
func (e *Engine) Round(ctx context.Context) Summary {
	e.PullAll(ctx)
	return e.PushAll(ctx)
}
