package ingest

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mvfrancisco/extrato/pkg/models"
)

// BBParserID identifies the Banco do Brasil checking-account export.
const BBParserID = "csv-bb"

var (
	bbDateFields     = []string{"data", "date"}
	bbAmountFields   = []string{"valor", "amount"}
	bbDetailsFields  = []string{"detalhes", "descricao", "historico", "title"}
	bbLaunchFields   = []string{"lancamento"}
	bbDocumentFields = []string{"ndocumento", "documento"}
	bbTypeFields     = []string{"tipolancamento", "tipo"}
)

// NewBBDialect builds the parser for Banco do Brasil statements. The
// header must carry a date column, an amount column and at least one
// description-like column under any accepted synonym.
func NewBBDialect(logger *log.Logger) Dialect {
	return Dialect{
		ID:    BBParserID,
		Label: "CSV Banco do Brasil",
		Match: func(normalizedHeader []string) bool {
			hasDate := indexOfAny(normalizedHeader, bbDateFields) >= 0
			hasAmount := indexOfAny(normalizedHeader, bbAmountFields) >= 0
			hasDesc := indexOfAny(normalizedHeader, append(append([]string{}, bbLaunchFields...), bbDetailsFields...)) >= 0
			return hasDate && hasAmount && hasDesc
		},
		Parse: func(rows [][]string, ctx *models.IngestionContext) *models.ParseResult {
			return parseBB(rows, ctx, logger)
		},
	}
}

func parseBB(rows [][]string, ctx *models.IngestionContext, logger *log.Logger) *models.ParseResult {
	result := models.NewParseResult()

	dateIndex := indexOfAny(ctx.NormalizedHeader, bbDateFields)
	amountIndex := indexOfAny(ctx.NormalizedHeader, bbAmountFields)
	detailsIndex := indexOfAny(ctx.NormalizedHeader, bbDetailsFields)
	launchIndex := indexOfAny(ctx.NormalizedHeader, bbLaunchFields)
	documentIndex := indexOfAny(ctx.NormalizedHeader, bbDocumentFields)
	typeIndex := indexOfAny(ctx.NormalizedHeader, bbTypeFields)

	if dateIndex < 0 || amountIndex < 0 || (detailsIndex < 0 && launchIndex < 0) {
		result.AddError("required columns missing")
		return result
	}

	for i, row := range rows {
		rowIndex := i + 1

		details := strings.TrimSpace(cellAt(row, detailsIndex))
		launch := strings.TrimSpace(cellAt(row, launchIndex))
		raw := map[string]string{
			"data":       strings.TrimSpace(cellAt(row, dateIndex)),
			"lancamento": launch,
			"detalhes":   details,
			"valor":      strings.TrimSpace(cellAt(row, amountIndex)),
		}

		description := details
		if description == "" {
			description = launch
		}
		extraDescription := ""
		if details != "" && launch != "" && details != launch {
			extraDescription = launch
		}

		// Running/opening balance pseudo-rows are not transactions; skip
		// them before even looking at the date or amount.
		normalizedDesc := NormalizeText(firstNonEmpty(description, extraDescription))
		if normalizedDesc == "saldo" || normalizedDesc == "saldo anterior" || strings.HasPrefix(normalizedDesc, "saldo ") {
			logger.Debug("balance line", "row", rowIndex, "desc", description)
			result.AddRow(models.RowResult{
				RowIndex:      rowIndex,
				Status:        models.StatusIgnored,
				ReasonCode:    models.ReasonBalanceLine,
				ReasonMessage: "balance line skipped",
				Raw:           raw,
			})
			continue
		}

		if raw["data"] == "" {
			result.AddRow(warningRow(rowIndex, models.ReasonMissingDate, "date missing", raw))
			continue
		}
		if raw["valor"] == "" {
			result.AddRow(warningRow(rowIndex, models.ReasonMissingAmount, "amount missing", raw))
			continue
		}

		dateISO, ok := ParseDateToISO(raw["data"])
		if !ok {
			result.AddRow(warningRow(rowIndex, models.ReasonInvalidDate, "invalid date", raw))
			continue
		}

		cents, ok := ParseMoneyToCents(raw["valor"])
		if !ok {
			result.AddRow(warningRow(rowIndex, models.ReasonInvalidAmount, "invalid amount", raw))
			continue
		}
		amountCents := cents
		if amountCents < 0 {
			amountCents = -amountCents
		}
		if amountCents == 0 {
			result.AddRow(warningRow(rowIndex, models.ReasonZeroAmount, "zero amount", raw))
			continue
		}

		kind := models.KindIncome
		if cents < 0 {
			kind = models.KindExpense
		}
		// An explicit entry-type marker always wins over sign inference.
		normalizedType := NormalizeText(cellAt(row, typeIndex))
		if strings.Contains(normalizedType, "entrada") {
			kind = models.KindIncome
		}
		if strings.Contains(normalizedType, "saida") {
			kind = models.KindExpense
		}

		candidate := &models.Candidate{
			DateISO:          dateISO,
			AmountCents:      amountCents,
			Kind:             kind,
			Description:      description,
			ExtraDescription: extraDescription,
			DocumentNumber:   strings.TrimSpace(cellAt(row, documentIndex)),
			RowIndex:         rowIndex,
		}

		if description == "" {
			result.AddRow(models.RowResult{
				RowIndex:      rowIndex,
				Status:        models.StatusWarning,
				ReasonCode:    models.ReasonMissingDescription,
				ReasonMessage: "description missing",
				Raw:           raw,
				Candidate:     candidate,
			})
			continue
		}

		result.AddRow(models.RowResult{
			RowIndex:      rowIndex,
			Status:        models.StatusValid,
			ReasonCode:    models.ReasonOK,
			ReasonMessage: "valid row",
			Raw:           raw,
			Candidate:     candidate,
		})
	}

	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
