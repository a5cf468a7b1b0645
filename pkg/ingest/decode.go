package ingest

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const replacementChar = "\uFFFD"

// DecodeText turns raw statement bytes into text. Encodings are tried in a
// fixed order (UTF-8, Windows-1252, ISO-8859-1) and the first decode that
// produces no replacement character wins. ISO-8859-1 defines every byte, so
// the final fallback always yields usable text and DecodeText never fails.
func DecodeText(data []byte) string {
	if utf8.Valid(data) && !bytes.Contains(data, []byte(replacementChar)) {
		return string(data)
	}

	if decoded, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
		if !bytes.Contains(decoded, []byte(replacementChar)) {
			return string(decoded)
		}
	}

	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return string(decoded)
}
