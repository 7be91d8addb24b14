// Package testutil provides shared test helpers.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/macropadd/internal/layer"
)

// DiscardLogger returns a logger whose output is thrown away.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseTable parses a layer document, failing the test on error.
func ParseTable(t *testing.T, doc string) *layer.Table {
	t.Helper()
	table, err := layer.ParseTable([]byte(doc), DiscardLogger())
	if err != nil {
		t.Fatalf("parse table: %v", err)
	}
	return table
}
