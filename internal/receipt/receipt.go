// Package receipt renders a committed transaction as plain text sized for a
// 32-column receipt printer. It only ever consumes a finished transaction;
// nothing here can reach back into cart or catalog state.
package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/warung/internal/ledger"
)

const width = 32

type Renderer struct {
	storeName string
	printer   *message.Printer
}

func NewRenderer(storeName string) *Renderer {
	return &Renderer{
		storeName: storeName,
		printer:   message.NewPrinter(language.Indonesian),
	}
}

// Money formats whole rupiah with Indonesian digit grouping, e.g. Rp 25.000.
func (r *Renderer) Money(amount int64) string {
	return r.printer.Sprintf("Rp %d", amount)
}

// Render produces the full receipt text for a transaction.
func (r *Renderer) Render(t ledger.Transaction) string {
	var sb strings.Builder

	divider := strings.Repeat("-", width)

	sb.WriteString(center(r.storeName) + "\n")
	sb.WriteString(center(t.Date.Format("02 Jan 2006 15:04")) + "\n")
	sb.WriteString(center(t.ID) + "\n")
	sb.WriteString(divider + "\n")

	for _, item := range t.Items {
		left := fmt.Sprintf("%s x%d", item.Name, item.Qty)
		sb.WriteString(row(left, r.Money(item.Price*int64(item.Qty))) + "\n")
	}

	sb.WriteString(divider + "\n")
	sb.WriteString(row("Total", r.Money(t.Total)) + "\n")
	sb.WriteString("\n")
	sb.WriteString(center("Terima kasih - "+r.storeName) + "\n")

	return sb.String()
}

// Widths count runes, not bytes, so names like "Spésial" keep the columns
// aligned.
func center(s string) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}

	return strings.Repeat(" ", pad/2) + s
}

func row(left, right string) string {
	space := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if space < 1 {
		keep := width - utf8.RuneCountInString(right) - 1
		if keep < 1 {
			keep = 1
		}

		if runes := []rune(left); keep < len(runes) {
			left = string(runes[:keep])
		}

		space = 1
	}

	return left + strings.Repeat(" ", space) + right
}
