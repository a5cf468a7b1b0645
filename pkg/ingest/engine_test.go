package ingest

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvfrancisco/extrato/pkg/models"
)

func newTestEngine() *Engine {
	return New(log.New(io.Discard))
}

func TestParseFilesSingleValidRow(t *testing.T) {
	engine := newTestEngine()
	files := []File{{
		Name: "card.csv",
		Data: []byte("Date,Title,Amount\n2024-01-05,Uber,-23.50\n"),
	}}

	outcomes := engine.ParseFiles(context.Background(), files, "")
	require.Len(t, outcomes, 1)

	outcome := outcomes[0]
	require.Equal(t, models.OutcomeSuccess, outcome.Status)
	assert.Equal(t, NubankParserID, outcome.ParserID)

	valid := outcome.Result.Valid()
	require.Len(t, valid, 1)
	c := valid[0]
	assert.Equal(t, "2024-01-05", c.DateISO)
	assert.Equal(t, int64(2350), c.AmountCents)
	assert.Equal(t, models.KindExpense, c.Kind)
	assert.Equal(t, "Uber", c.Description)
	assert.Contains(t, c.IdempotencyKey, "imp_")

	require.Len(t, outcome.Preview, 1)
	assert.Same(t, c, outcome.Preview[0])
}

func TestParseFilesKeysStableAcrossRuns(t *testing.T) {
	engine := newTestEngine()
	file := File{
		Name: "card.csv",
		Data: []byte("Date,Title,Amount\n2024-01-05,Uber,-23.50\n2024-01-06,iFood,-45.00\n"),
	}

	first := engine.ParseFiles(context.Background(), []File{file}, "session-a")
	second := engine.ParseFiles(context.Background(), []File{file}, "session-b")

	firstValid := first[0].Result.Valid()
	secondValid := second[0].Result.Valid()
	require.Len(t, firstValid, 2)
	require.Len(t, secondValid, 2)
	for i := range firstValid {
		assert.Equal(t, firstValid[i].IdempotencyKey, secondValid[i].IdempotencyKey)
	}
}

func TestParseFilesUnrecognizedHeader(t *testing.T) {
	engine := newTestEngine()
	outcomes := engine.ParseFiles(context.Background(), []File{{
		Name: "weird.csv",
		Data: []byte("foo,bar\n1,2\n"),
	}}, "")

	require.Len(t, outcomes, 1)
	assert.Equal(t, models.OutcomeError, outcomes[0].Status)
	assert.Equal(t, "csv header not recognized", outcomes[0].Message)
}

func TestParseFilesEmptyFile(t *testing.T) {
	engine := newTestEngine()
	outcomes := engine.ParseFiles(context.Background(), []File{{
		Name: "empty.csv",
		Data: []byte("\n\n"),
	}}, "")

	require.Len(t, outcomes, 1)
	assert.Equal(t, models.OutcomeError, outcomes[0].Status)
	assert.Equal(t, "csv header not found", outcomes[0].Message)
}

func TestParseFilesRejectsUnsupportedTypes(t *testing.T) {
	engine := newTestEngine()
	outcomes := engine.ParseFiles(context.Background(), []File{
		{Name: "fatura.pdf", Data: []byte("%PDF-1.4")},
		{Name: "notes.docx", Data: []byte("x")},
	}, "")

	require.Len(t, outcomes, 2)
	assert.Equal(t, "pdf import not enabled", outcomes[0].Message)
	assert.Equal(t, "unsupported file type", outcomes[1].Message)
}

func TestParseFilesPreservesInputOrder(t *testing.T) {
	engine := newTestEngine()
	files := []File{
		{Name: "a.csv", Data: []byte("Date,Title,Amount\n2024-01-01,A,-1.00\n")},
		{Name: "bad.csv", Data: []byte("foo,bar\n")},
		{Name: "c.csv", Data: []byte("Date,Title,Amount\n2024-01-03,C,-3.00\n")},
	}

	outcomes := engine.ParseFiles(context.Background(), files, "")
	require.Len(t, outcomes, 3)
	assert.Equal(t, "a.csv", outcomes[0].FileName)
	assert.Equal(t, models.OutcomeSuccess, outcomes[0].Status)
	assert.Equal(t, "bad.csv", outcomes[1].FileName)
	assert.Equal(t, models.OutcomeError, outcomes[1].Status)
	assert.Equal(t, "c.csv", outcomes[2].FileName)
	assert.Equal(t, models.OutcomeSuccess, outcomes[2].Status)
}

func TestParseFilesOneErrorDoesNotPoisonOthers(t *testing.T) {
	engine := newTestEngine()
	outcomes := engine.ParseFiles(context.Background(), []File{
		{Name: "broken.csv", Data: []byte("foo,bar\n")},
		{Name: "ok.csv", Data: []byte("Date,Title,Amount\n2024-01-05,Uber,-23.50\n")},
	}, "")

	require.Len(t, outcomes, 2)
	assert.Equal(t, models.OutcomeError, outcomes[0].Status)
	assert.Equal(t, models.OutcomeSuccess, outcomes[1].Status)
	assert.Len(t, outcomes[1].Result.Valid(), 1)
}

func TestParseFilesAbortsOnCancelledContext(t *testing.T) {
	engine := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := engine.ParseFiles(ctx, []File{{
		Name: "card.csv",
		Data: []byte("Date,Title,Amount\n2024-01-05,Uber,-23.50\n"),
	}}, "")

	require.Len(t, outcomes, 1)
	assert.Equal(t, models.OutcomeError, outcomes[0].Status)
	assert.Equal(t, "import aborted", outcomes[0].Message)
}

func TestParseFilesWindows1252Statement(t *testing.T) {
	engine := newTestEngine()

	// "Lançamento" with ç as the single Windows-1252 byte 0xE7.
	data := append([]byte("Data,Lan"), 0xE7)
	data = append(data, []byte("amento,Valor\n17/03/2025,Pix - Enviado,\"-1.234,56\"\n")...)

	outcomes := engine.ParseFiles(context.Background(), []File{{Name: "bb.csv", Data: data}}, "")
	require.Len(t, outcomes, 1)

	outcome := outcomes[0]
	require.Equal(t, models.OutcomeSuccess, outcome.Status)
	assert.Equal(t, BBParserID, outcome.ParserID)

	valid := outcome.Result.Valid()
	require.Len(t, valid, 1)
	assert.Equal(t, "2025-03-17", valid[0].DateISO)
	assert.Equal(t, int64(123456), valid[0].AmountCents)
	assert.Equal(t, models.KindExpense, valid[0].Kind)
}

func TestParseFilesSemicolonDelimiter(t *testing.T) {
	engine := newTestEngine()
	outcomes := engine.ParseFiles(context.Background(), []File{{
		Name: "bb.txt",
		Data: []byte("Data;Lançamento;Valor\n02/03/2025;Pix - Recebido;500,00\n"),
	}}, "")

	require.Len(t, outcomes, 1)
	require.Equal(t, models.OutcomeSuccess, outcomes[0].Status)
	valid := outcomes[0].Result.Valid()
	require.Len(t, valid, 1)
	assert.Equal(t, models.KindIncome, valid[0].Kind)
	assert.Equal(t, int64(50000), valid[0].AmountCents)
}

func TestParseFilesPreviewIsBounded(t *testing.T) {
	engine := newTestEngine()

	data := "Date,Title,Amount\n"
	for i := 0; i < PreviewSize+5; i++ {
		data += "2024-01-05,Uber,-23.50\n"
	}

	outcomes := engine.ParseFiles(context.Background(), []File{{Name: "big.csv", Data: []byte(data)}}, "")
	require.Len(t, outcomes, 1)
	require.Equal(t, models.OutcomeSuccess, outcomes[0].Status)
	assert.Len(t, outcomes[0].Result.Valid(), PreviewSize+5)
	assert.Len(t, outcomes[0].Preview, PreviewSize)
}
