// Package ynab forwards imported candidates to a YNAB budget. The
// idempotency key travels in the transaction memo, so a second push of
// the same statement finds its rows already present and creates nothing.
package ynab

import (
	"fmt"
	"strings"

	"github.com/brunomvsouza/ynab.go"
	"github.com/brunomvsouza/ynab.go/api"
	"github.com/brunomvsouza/ynab.go/api/transaction"
	"github.com/charmbracelet/log"

	"github.com/mvfrancisco/extrato/pkg/models"
)

// Client wraps the YNAB API client.
type Client struct {
	client ynab.ClientServicer
	logger *log.Logger
}

func New(token string, logger *log.Logger) *Client {
	return &Client{client: ynab.NewClient(token), logger: logger}
}

// PushResult summarizes one push: how many candidates were created
// remotely and how many were already there.
type PushResult struct {
	Created int
	Skipped int
}

// Push creates every candidate whose idempotency key is not yet present
// on the remote account. Candidates without a key are refused — without
// one there is no way to tell a re-push from a new transaction.
func (c *Client) Push(budgetID, accountID string, candidates []*models.Candidate) (PushResult, error) {
	var res PushResult

	remote, err := c.client.Transaction().GetTransactionsByAccount(budgetID, accountID, nil)
	if err != nil {
		return res, fmt.Errorf("failed to fetch remote transactions: %w", err)
	}

	existing := make(map[string]struct{}, len(remote))
	for _, tx := range remote {
		if key := memoKey(tx.Memo); key != "" {
			existing[key] = struct{}{}
		}
	}

	payloads, skipped, err := plan(accountID, candidates, existing)
	if err != nil {
		return res, err
	}
	res.Skipped = skipped

	if len(payloads) == 0 {
		c.logger.Info("nothing to push", "account_id", accountID, "skipped", res.Skipped)
		return res, nil
	}

	if _, err := c.client.Transaction().CreateTransactions(budgetID, payloads); err != nil {
		return res, fmt.Errorf("failed to create transactions: %w", err)
	}
	res.Created = len(payloads)
	c.logger.Info("pushed transactions", "account_id", accountID, "created", res.Created, "skipped", res.Skipped)

	return res, nil
}

// plan splits candidates into payloads to create and a count of those the
// remote account already carries.
func plan(accountID string, candidates []*models.Candidate, existing map[string]struct{}) ([]transaction.PayloadTransaction, int, error) {
	payloads := make([]transaction.PayloadTransaction, 0, len(candidates))
	skipped := 0

	for _, candidate := range candidates {
		if candidate.IdempotencyKey == "" {
			return nil, 0, fmt.Errorf("candidate at row %d has no idempotency key", candidate.RowIndex)
		}
		if _, ok := existing[candidate.IdempotencyKey]; ok {
			skipped++
			continue
		}

		p, err := payloadFor(accountID, candidate)
		if err != nil {
			return nil, 0, err
		}
		payloads = append(payloads, p)
	}

	return payloads, skipped, nil
}

func payloadFor(accountID string, c *models.Candidate) (transaction.PayloadTransaction, error) {
	date, err := api.DateFromString(c.DateISO)
	if err != nil {
		return transaction.PayloadTransaction{}, fmt.Errorf("row %d: bad date %q: %w", c.RowIndex, c.DateISO, err)
	}

	// YNAB amounts are signed milliunits.
	amount := c.AmountCents * 10
	if c.Kind == models.KindExpense {
		amount = -amount
	}

	payee := c.Description
	memo := fmt.Sprintf("%s,%s", c.IdempotencyKey, c.Kind)

	return transaction.PayloadTransaction{
		AccountID: accountID,
		Date:      date,
		Amount:    amount,
		Cleared:   transaction.ClearingStatusCleared,
		Approved:  true,
		PayeeName: &payee,
		Memo:      &memo,
	}, nil
}

// memoKey extracts the idempotency key from the first CSV field of a
// remote transaction memo.
func memoKey(memo *string) string {
	if memo == nil {
		return ""
	}
	value := strings.Trim(*memo, "\"")
	if idx := strings.Index(value, ","); idx > 0 {
		value = value[:idx]
	}
	if !strings.HasPrefix(value, "imp_") {
		return ""
	}
	return value
}
