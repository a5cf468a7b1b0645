package ingest

import (
	"github.com/charmbracelet/log"

	"github.com/mvfrancisco/extrato/pkg/models"
)

// Dialect pairs a bank-export header convention with its row parser. The
// dialect set is small and closed, so a plain table beats interface
// machinery here.
type Dialect struct {
	ID    string
	Label string

	// Match reports whether the normalized header belongs to this dialect.
	Match func(normalizedHeader []string) bool

	// Parse maps raw data rows into a per-file ParseResult.
	Parse func(rows [][]string, ctx *models.IngestionContext) *models.ParseResult
}

// Registry holds dialects in fixed priority order; the first whose Match
// succeeds handles the file. When none matches the caller must treat the
// file as unrecognized — guessing a dialect is never attempted.
type Registry struct {
	dialects []Dialect
}

// NewRegistry returns a registry with the built-in dialects: the generic
// date/title/amount export is checked before the richer Banco do Brasil
// export.
func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{dialects: []Dialect{
		NewNubankDialect(logger),
		NewBBDialect(logger),
	}}
}

// Register appends a dialect at the end of the priority order.
func (r *Registry) Register(d Dialect) {
	r.dialects = append(r.dialects, d)
}

// Dialects returns the registered dialects in priority order.
func (r *Registry) Dialects() []Dialect {
	return r.dialects
}

// FindByHeader returns the first dialect matching the normalized header.
func (r *Registry) FindByHeader(normalizedHeader []string) (Dialect, bool) {
	for _, d := range r.dialects {
		if d.Match(normalizedHeader) {
			return d, true
		}
	}
	return Dialect{}, false
}

func indexOf(header []string, key string) int {
	for i, field := range header {
		if field == key {
			return i
		}
	}
	return -1
}

func indexOfAny(header []string, keys []string) int {
	for i, field := range header {
		for _, key := range keys {
			if field == key {
				return i
			}
		}
	}
	return -1
}

func cellAt(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}
