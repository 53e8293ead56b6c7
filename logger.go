// Package bridge is the normalization layer of a market-data middleware
// bridge: it rebuilds per-instrument order books from vendor field-update
// events and republishes them as vendor-neutral messages.
package bridge

import (
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger allows setting a custom logger
func SetLogger(l *slog.Logger) {
	logger = l
}
