package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mvfrancisco/extrato/pkg/models"
)

var installmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bparc(?:ela)?\s*(\d{1,2})\s*(?:/|de)\s*(\d{1,2})\b`),
	regexp.MustCompile(`\b(\d{1,2})\s*/\s*(\d{1,2})\b`),
	regexp.MustCompile(`\b(\d{1,2})\s+de\s+(\d{1,2})\b`),
}

var descriptionNoise = regexp.MustCompile(`[()\[\]]|[-–—]+`)

// ParseInstallment extracts an installment tag like "parc 2/10", "3/12" or
// "2 de 10" from a purchase description. It returns the description with
// the tag removed plus the parsed tag, or ("", nil) when no valid tag is
// present. Tags with a total of 1 or an index outside 1..total are not
// installments.
func ParseInstallment(description string) (string, *models.Installment) {
	value := strings.TrimSpace(description)
	if value == "" {
		return "", nil
	}

	for _, pattern := range installmentPatterns {
		m := pattern.FindStringSubmatch(value)
		if m == nil {
			continue
		}

		index, _ := strconv.Atoi(m[1])
		total, _ := strconv.Atoi(m[2])
		if total <= 1 || index < 1 || index > total {
			continue
		}

		base := cleanDescription(strings.Replace(value, m[0], " ", 1))
		if base == "" {
			base = cleanDescription(value)
		}

		return base, &models.Installment{
			Index: index,
			Total: total,
			Tag:   strings.TrimSpace(m[0]),
		}
	}

	return "", nil
}

func cleanDescription(value string) string {
	return strings.Join(strings.Fields(descriptionNoise.ReplaceAllString(value, " ")), " ")
}
