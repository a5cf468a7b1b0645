package models

// Kind classifies the direction of a transaction candidate.
type Kind string

const (
	KindIncome   Kind = "income"
	KindExpense  Kind = "expense"
	KindTransfer Kind = "transfer"
)

// Installment carries the parsed installment tag of a purchase
// description, e.g. "parc 2/10" or "3/12".
type Installment struct {
	Index int    `json:"index"`
	Total int    `json:"total"`
	Tag   string `json:"tag"`
}

// Candidate is a normalized transaction extracted from one statement row.
// It is produced once by a dialect parser and only touched again by the
// idempotency-key assignment step.
type Candidate struct {
	DateISO          string       `json:"dateISO"`
	AmountCents      int64        `json:"amountCents"`
	Kind             Kind         `json:"kind"`
	Description      string       `json:"description,omitempty"`
	ExtraDescription string       `json:"extraDescription,omitempty"`
	Name             string       `json:"name,omitempty"`
	DocumentNumber   string       `json:"documentNumber,omitempty"`
	Installment      *Installment `json:"installment,omitempty"`

	// RowIndex is 1-based over the non-blank data rows of the file.
	RowIndex int `json:"rowIndex"`

	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}
