package models

// RowStatus is the per-row outcome class.
type RowStatus string

const (
	StatusValid   RowStatus = "valid"
	StatusWarning RowStatus = "warning"
	StatusIgnored RowStatus = "ignored"
)

// Machine-readable row reason codes.
const (
	ReasonOK                 = "OK"
	ReasonMissingDate        = "MISSING_DATE"
	ReasonInvalidDate        = "INVALID_DATE"
	ReasonMissingAmount      = "MISSING_AMOUNT"
	ReasonInvalidAmount      = "INVALID_AMOUNT"
	ReasonZeroAmount         = "ZERO_AMOUNT"
	ReasonBalanceLine        = "BALANCE_LINE"
	ReasonCardPayment        = "CARD_PAYMENT"
	ReasonMissingDescription = "MISSING_DESCRIPTION"
)

// RowResult records what happened to a single data row. Every non-blank
// input row maps to exactly one RowResult.
type RowResult struct {
	RowIndex      int               `json:"rowIndex"`
	Status        RowStatus         `json:"status"`
	ReasonCode    string            `json:"reasonCode"`
	ReasonMessage string            `json:"reasonMessage"`
	Raw           map[string]string `json:"raw,omitempty"`
	Candidate     *Candidate        `json:"candidate,omitempty"`
}

// ImportCounts tallies row outcomes. It is always derived from the rows,
// never mutated on its own.
type ImportCounts struct {
	Valid    int `json:"valid"`
	Warnings int `json:"warnings"`
	Ignored  int `json:"ignored"`
}

// ParseResult is the per-file aggregate a dialect parser builds up while
// iterating rows. File-level errors are distinct from row-level problems:
// a single error aborts the file.
type ParseResult struct {
	Rows   []RowResult `json:"rows"`
	Errors []string    `json:"errors,omitempty"`
}

func NewParseResult() *ParseResult {
	return &ParseResult{}
}

func (r *ParseResult) AddRow(row RowResult) {
	r.Rows = append(r.Rows, row)
}

func (r *ParseResult) AddError(message string) {
	r.Errors = append(r.Errors, message)
}

func (r *ParseResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Valid returns the candidates of rows that parsed cleanly, in row order.
func (r *ParseResult) Valid() []*Candidate {
	out := make([]*Candidate, 0, len(r.Rows))
	for _, row := range r.Rows {
		if row.Status == StatusValid && row.Candidate != nil {
			out = append(out, row.Candidate)
		}
	}
	return out
}

// Counts recomputes the valid/warning/ignored tally from the rows.
func (r *ParseResult) Counts() ImportCounts {
	var c ImportCounts
	for _, row := range r.Rows {
		switch row.Status {
		case StatusValid:
			c.Valid++
		case StatusWarning:
			c.Warnings++
		case StatusIgnored:
			c.Ignored++
		}
	}
	return c
}
