package view

import (
	"context"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const remoteTimeout = 30 * time.Second

var printer = message.NewPrinter(language.Indonesian)

// FormatMoney formats a rupiah amount with thousand separators, e.g. "Rp 25.000".
func FormatMoney(amount int64) string {
	return printer.Sprintf("Rp %d", amount)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// RemoteCtx returns a context with a standard timeout for remote operations.
func RemoteCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), remoteTimeout)
}
