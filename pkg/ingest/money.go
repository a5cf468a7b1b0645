package ingest

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoneyToCents parses a locale-tolerant monetary string into signed
// minor units. Both "1.234,56" and "1,234.56" conventions are handled by
// taking whichever of the last comma or last period appears later as the
// decimal separator; everything before it is grouping. Parentheses or a
// minus sign make the value negative. Inputs that leave no digits behind,
// or that do not parse as a number, return ok=false — never a guess.
func ParseMoneyToCents(raw string) (int64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}

	cleaned := stripToNumber(trimmed)
	if cleaned == "" {
		return 0, false
	}

	sign := int64(1)
	if strings.Contains(cleaned, "(") && strings.Contains(cleaned, ")") {
		sign = -1
	} else if strings.Contains(cleaned, "-") {
		sign = -1
	}

	normalized := strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', '-':
			return -1
		}
		return r
	}, cleaned)

	lastComma := strings.LastIndex(normalized, ",")
	lastDot := strings.LastIndex(normalized, ".")
	separatorIndex := lastComma
	if lastDot > separatorIndex {
		separatorIndex = lastDot
	}

	integerPart := normalized
	decimalPart := ""
	if separatorIndex >= 0 {
		integerPart = normalized[:separatorIndex]
		decimalPart = normalized[separatorIndex+1:]
	}
	integerPart = stripSeparators(integerPart)
	decimalPart = stripSeparators(decimalPart)

	combined := integerPart
	if decimalPart != "" {
		combined = integerPart + "." + decimalPart
	}

	amount, err := decimal.NewFromString(combined)
	if err != nil {
		return 0, false
	}

	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return cents * sign, true
}

func stripToNumber(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		switch r {
		case ',', '.', '-', '(', ')':
			return r
		}
		return -1
	}, s)
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ',' || r == '.' {
			return -1
		}
		return r
	}, s)
}
