package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/mvfrancisco/extrato/pkg/models"
)

// keyPrefix namespaces idempotency keys away from other identifier spaces.
const keyPrefix = "imp_"

// HashText returns the hex SHA-256 digest of the decoded file text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// IdempotencyKey derives the stable identity of a candidate from the file
// content hash and the candidate's own fields. The separator "|" cannot
// appear in any component: the numeric fields are formatted digits and the
// text fields come out of the tokenizer, which never emits pipes into
// dates, kinds or the file hash, while description/name/document are free
// text that is hashed, not split. Two rows across repeated imports of
// byte-identical files get the same key if and only if every component
// matches; no randomness is involved.
func IdempotencyKey(ctx *models.IngestionContext, c *models.Candidate) string {
	parts := []string{
		ctx.FileHash,
		ctx.ParserID,
		strconv.Itoa(c.RowIndex),
		c.DateISO,
		strconv.FormatInt(c.AmountCents, 10),
		string(c.Kind),
		c.Description,
		c.Name,
		c.DocumentNumber,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// AssignKeys stamps an idempotency key on every candidate in the result.
// Each key depends only on the row's own fields plus the finalized file
// context, so assignment order is irrelevant.
func AssignKeys(result *models.ParseResult, ctx *models.IngestionContext) {
	for i := range result.Rows {
		if c := result.Rows[i].Candidate; c != nil {
			c.IdempotencyKey = IdempotencyKey(ctx, c)
		}
	}
}
