package ingest

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvfrancisco/extrato/pkg/models"
)

// Header layout of a full Banco do Brasil export after normalization.
var bbHeader = []string{"data", "lancamento", "detalhes", "ndocumento", "valor", "tipolancamento"}

func bbContext() *models.IngestionContext {
	return &models.IngestionContext{
		FileName:         "bb.csv",
		ParserID:         BBParserID,
		NormalizedHeader: bbHeader,
	}
}

func parseBBRows(t *testing.T, rows [][]string) *models.ParseResult {
	t.Helper()
	dialect := NewBBDialect(log.New(io.Discard))
	return dialect.Parse(rows, bbContext())
}

func TestBBValidRow(t *testing.T) {
	result := parseBBRows(t, [][]string{
		{"17/03/2025", "Pix - Enviado", "PAG*Mercado", "123456", "-1.234,56", "Saída"},
	})

	require.Len(t, result.Rows, 1)
	row := result.Rows[0]
	assert.Equal(t, models.StatusValid, row.Status)

	c := row.Candidate
	require.NotNil(t, c)
	assert.Equal(t, "2025-03-17", c.DateISO)
	assert.Equal(t, int64(123456), c.AmountCents)
	assert.Equal(t, models.KindExpense, c.Kind)
	assert.Equal(t, "PAG*Mercado", c.Description)
	assert.Equal(t, "Pix - Enviado", c.ExtraDescription)
	assert.Equal(t, "123456", c.DocumentNumber)
}

func TestBBBalanceLinesAlwaysIgnored(t *testing.T) {
	result := parseBBRows(t, [][]string{
		{"01/03/2025", "Saldo Anterior", "", "", "10.000,00", ""},
		{"31/03/2025", "", "SALDO", "", "9.500,00", ""},
		{"31/03/2025", "Saldo do dia", "", "", "", ""},
	})

	require.Len(t, result.Rows, 3)
	for i, row := range result.Rows {
		assert.Equal(t, models.StatusIgnored, row.Status, "row %d", i+1)
		assert.Equal(t, models.ReasonBalanceLine, row.ReasonCode, "row %d", i+1)
		assert.Nil(t, row.Candidate, "row %d", i+1)
	}
}

func TestBBKindFromSign(t *testing.T) {
	result := parseBBRows(t, [][]string{
		{"02/03/2025", "Pix - Recebido", "", "", "500,00", ""},
		{"03/03/2025", "Compra com cartão", "", "", "-80,00", ""},
	})

	require.Len(t, result.Rows, 2)
	assert.Equal(t, models.KindIncome, result.Rows[0].Candidate.Kind)
	assert.Equal(t, models.KindExpense, result.Rows[1].Candidate.Kind)
}

func TestBBEntryTypeOverridesSign(t *testing.T) {
	result := parseBBRows(t, [][]string{
		{"02/03/2025", "Estorno", "", "", "-50,00", "Entrada"},
		{"03/03/2025", "Tarifa", "", "", "15,00", "Saída"},
	})

	require.Len(t, result.Rows, 2)
	assert.Equal(t, models.KindIncome, result.Rows[0].Candidate.Kind)
	assert.Equal(t, models.KindExpense, result.Rows[1].Candidate.Kind)
}

func TestBBDescriptionFallsBackToLaunch(t *testing.T) {
	result := parseBBRows(t, [][]string{
		{"02/03/2025", "Pix - Enviado", "", "", "-20,00", ""},
	})

	require.Len(t, result.Rows, 1)
	c := result.Rows[0].Candidate
	require.NotNil(t, c)
	assert.Equal(t, "Pix - Enviado", c.Description)
	assert.Empty(t, c.ExtraDescription)
}

func TestBBDataProblems(t *testing.T) {
	result := parseBBRows(t, [][]string{
		{"", "Pix", "", "", "-20,00", ""},
		{"02/03/2025", "Pix", "", "", "", ""},
		{"99/99/2025", "Pix", "", "", "-20,00", ""},
		{"02/03/2025", "Pix", "", "", "xx", ""},
		{"02/03/2025", "Pix", "", "", "0,00", ""},
	})

	require.Len(t, result.Rows, 5)
	wantCodes := []string{
		models.ReasonMissingDate,
		models.ReasonMissingAmount,
		models.ReasonInvalidDate,
		models.ReasonInvalidAmount,
		models.ReasonZeroAmount,
	}
	for i, row := range result.Rows {
		assert.Equal(t, models.StatusWarning, row.Status, "row %d", i+1)
		assert.Equal(t, wantCodes[i], row.ReasonCode, "row %d", i+1)
	}
}

func TestBBMissingColumnsIsFileError(t *testing.T) {
	dialect := NewBBDialect(log.New(io.Discard))
	ctx := bbContext()
	ctx.NormalizedHeader = []string{"data", "valor"}

	result := dialect.Parse(nil, ctx)
	require.True(t, result.HasErrors())
	assert.Equal(t, "required columns missing", result.Errors[0])
}
