package models

// IngestionContext is the immutable per-file metadata assembled before row
// parsing begins. All files of one import share the same ImportSessionID.
type IngestionContext struct {
	FileName         string   `json:"fileName"`
	ImportSessionID  string   `json:"importSessionId"`
	Delimiter        string   `json:"delimiter"`
	Header           []string `json:"header"`
	NormalizedHeader []string `json:"normalizedHeader"`
	ParserID         string   `json:"parserId"`
	FileHash         string   `json:"fileHash"`
}

// File outcome statuses.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// FileOutcome is the tagged per-file result of an import: either a success
// carrying the parse result and a bounded preview, or a single error
// message. Exactly one outcome is produced per uploaded file.
type FileOutcome struct {
	FileName string `json:"fileName"`
	Status   string `json:"status"`

	// Success fields.
	ParserID string       `json:"parserId,omitempty"`
	Result   *ParseResult `json:"result,omitempty"`
	Preview  []*Candidate `json:"preview,omitempty"`

	// Error field.
	Message string `json:"message,omitempty"`
}

func SuccessOutcome(fileName, parserID string, result *ParseResult, preview []*Candidate) FileOutcome {
	return FileOutcome{
		FileName: fileName,
		Status:   OutcomeSuccess,
		ParserID: parserID,
		Result:   result,
		Preview:  preview,
	}
}

func ErrorOutcome(fileName, message string) FileOutcome {
	return FileOutcome{
		FileName: fileName,
		Status:   OutcomeError,
		Message:  message,
	}
}
