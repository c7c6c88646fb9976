// Package checkout converts a non-empty cart into a committed transaction.
// Local durability is the source of truth: the remote push after a checkout
// is fire-and-forget and never rolls back the committed sale.
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/MrJamesThe3rd/warung/internal/cart"
	"github.com/MrJamesThe3rd/warung/internal/ledger"
	"github.com/MrJamesThe3rd/warung/internal/task"
)

// ErrEmptyCart is returned when checkout is attempted on an empty cart. No
// state changes in that case.
var ErrEmptyCart = errors.New("cart is empty")

//go:generate mockgen -source=checkout.go -destination=pusher_mock.go -package=checkout
type Pusher interface {
	PushOne(ctx context.Context, t ledger.Transaction) error
}

type Engine struct {
	cart     *cart.Cart
	ledger   *ledger.Ledger
	pusher   Pusher
	dispatch *task.Dispatcher
	now      func() time.Time
}

// New creates a checkout engine. pusher may be nil when no remote is
// configured or the terminal runs offline.
func New(c *cart.Cart, l *ledger.Ledger, pusher Pusher, dispatch *task.Dispatcher) *Engine {
	return &Engine{
		cart:     c,
		ledger:   l,
		pusher:   pusher,
		dispatch: dispatch,
		now:      time.Now,
	}
}

// Checkout commits the current cart as a transaction: snapshots the lines,
// appends to the ledger, clears the cart, and hands the transaction back for
// receipt rendering. When a pusher is configured the transaction is also
// submitted to the remote store in the background.
func (e *Engine) Checkout() (ledger.Transaction, error) {
	if e.cart.Empty() {
		return ledger.Transaction{}, ErrEmptyCart
	}

	subtotal, _ := e.cart.Totals()
	now := e.now()

	lines := e.cart.Lines()
	items := make([]ledger.Item, len(lines))

	for i, line := range lines {
		items[i] = ledger.Item{
			ID:    line.ID,
			Name:  line.Name,
			Price: line.Price,
			Qty:   line.Qty,
		}
	}

	txn := ledger.Transaction{
		ID:    ledger.NewTransactionID(now),
		Date:  now,
		Items: items,
		Total: subtotal,
	}

	e.ledger.Append(txn)
	e.cart.Clear()

	if e.pusher != nil && e.dispatch != nil {
		e.dispatch.Go("push transaction", func(ctx context.Context) error {
			return e.pusher.PushOne(ctx, txn)
		})
	}

	return txn, nil
}
