// Package csv renders import candidates as a review CSV for download.
package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/mvfrancisco/extrato/pkg/models"
)

// FilterFunc selects which candidates to include; nil keeps everything.
type FilterFunc func(*models.Candidate) bool

var header = []string{"Date", "Description", "Kind", "Amount", "Document", "Key"}

// Render writes candidates in row order. Amounts are signed decimal
// units: expenses negative, everything else positive.
func Render(candidates []*models.Candidate, filter FilterFunc) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write(header)
	for _, c := range candidates {
		if filter != nil && !filter(c) {
			continue
		}
		amount := float64(c.AmountCents) / 100
		if c.Kind == models.KindExpense {
			amount = -amount
		}
		_ = w.Write([]string{
			c.DateISO,
			c.Description,
			string(c.Kind),
			fmt.Sprintf("%.2f", amount),
			c.DocumentNumber,
			c.IdempotencyKey,
		})
	}
	w.Flush()

	return buf.Bytes()
}
