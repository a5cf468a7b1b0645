package ingest

import "strings"

// Tokenize scans delimited text into rows of fields with a single
// left-to-right pass. Quotes follow CSV conventions ("" inside a quoted
// field is a literal quote), the delimiter and line breaks only terminate
// fields outside quotes, and rows whose fields are all empty are dropped.
// Dropping blank rows here keeps the 1-based data-row numbering stable for
// everything downstream, including idempotency keys.
//
// encoding/csv is deliberately not used: bank exports contain bare quotes
// and ragged rows it rejects, and it cannot filter blank rows before they
// are counted.
func Tokenize(text, delimiter string) [][]string {
	delim := byte(',')
	if delimiter != "" {
		delim = delimiter[0]
	}

	var rows [][]string
	var row []string
	var field strings.Builder
	inQuotes := false

	flushField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	flushRow := func() {
		flushField()
		for _, value := range row {
			if value != "" {
				rows = append(rows, row)
				break
			}
		}
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		if c == '"' {
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				field.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
			continue
		}

		if !inQuotes && c == delim {
			flushField()
			continue
		}

		if !inQuotes && (c == '\n' || c == '\r') {
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			flushRow()
			continue
		}

		field.WriteByte(c)
	}

	flushRow()
	return rows
}
