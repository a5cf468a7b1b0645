package ingest

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mvfrancisco/extrato/pkg/models"
)

// NubankParserID identifies the generic date/title/amount card export.
const NubankParserID = "csv-nubank"

var nubankRequired = []string{"date", "title", "amount"}

// NewNubankDialect builds the parser for Nubank credit-card exports. The
// header must carry all three required columns by exact normalized name.
func NewNubankDialect(logger *log.Logger) Dialect {
	return Dialect{
		ID:    NubankParserID,
		Label: "CSV Nubank",
		Match: func(normalizedHeader []string) bool {
			for _, field := range nubankRequired {
				if indexOf(normalizedHeader, field) < 0 {
					return false
				}
			}
			return true
		},
		Parse: func(rows [][]string, ctx *models.IngestionContext) *models.ParseResult {
			return parseNubank(rows, ctx, logger)
		},
	}
}

func parseNubank(rows [][]string, ctx *models.IngestionContext, logger *log.Logger) *models.ParseResult {
	result := models.NewParseResult()

	dateIndex := indexOf(ctx.NormalizedHeader, "date")
	titleIndex := indexOf(ctx.NormalizedHeader, "title")
	amountIndex := indexOf(ctx.NormalizedHeader, "amount")
	if dateIndex < 0 || titleIndex < 0 || amountIndex < 0 {
		result.AddError("required columns missing")
		return result
	}

	for i, row := range rows {
		rowIndex := i + 1
		raw := map[string]string{
			"date":   strings.TrimSpace(cellAt(row, dateIndex)),
			"title":  strings.TrimSpace(cellAt(row, titleIndex)),
			"amount": strings.TrimSpace(cellAt(row, amountIndex)),
		}

		if raw["date"] == "" {
			result.AddRow(warningRow(rowIndex, models.ReasonMissingDate, "date missing", raw))
			continue
		}
		if raw["amount"] == "" {
			result.AddRow(warningRow(rowIndex, models.ReasonMissingAmount, "amount missing", raw))
			continue
		}

		dateISO, ok := ParseDateToISO(raw["date"])
		if !ok {
			result.AddRow(warningRow(rowIndex, models.ReasonInvalidDate, "invalid date", raw))
			continue
		}

		cents, ok := ParseMoneyToCents(raw["amount"])
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

		title := raw["title"]
		normalizedTitle := NormalizeText(title)

		candidate := &models.Candidate{
			DateISO:     dateISO,
			AmountCents: amountCents,
			Description: title,
			RowIndex:    rowIndex,
		}
		if base, inst := ParseInstallment(title); inst != nil {
			logger.Debug("installment tag", "row", rowIndex, "base", base, "tag", inst.Tag)
			candidate.Installment = inst
		}

		// Card bill payments are neutral: they mirror a checking-account
		// debit that is imported on its own.
		if strings.Contains(normalizedTitle, "pagamento recebido") {
			candidate.Kind = models.KindTransfer
			result.AddRow(models.RowResult{
				RowIndex:      rowIndex,
				Status:        models.StatusIgnored,
				ReasonCode:    models.ReasonCardPayment,
				ReasonMessage: "card bill payment (neutral)",
				Raw:           raw,
				Candidate:     candidate,
			})
			continue
		}

		candidate.Kind = models.KindExpense
		if strings.Contains(normalizedTitle, "estorno") || strings.Contains(normalizedTitle, "reembolso") {
			candidate.Kind = models.KindIncome
		}

		if title == "" {
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

func warningRow(rowIndex int, code, message string, raw map[string]string) models.RowResult {
	return models.RowResult{
		RowIndex:      rowIndex,
		Status:        models.StatusWarning,
		ReasonCode:    code,
		ReasonMessage: message,
		Raw:           raw,
	}
}
