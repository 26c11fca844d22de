package relay

import (
	"strconv"
	"strings"

	"relaybot/internal/storage"
)

// formFieldCount is the number of positional lines in the application form.
const formFieldCount = 9

// ParseApplicationForm splits a submitted form into its nine positional
// fields. Parsing is permissive: missing lines default to empty values and
// non-numeric VAT or amount fields become zero. A submission is never
// rejected for shape.
func ParseApplicationForm(text string) storage.ClientApplication {
	fields := make([]string, formFieldCount)
	for i, line := range strings.Split(text, "\n") {
		if i >= formFieldCount {
			break
		}
		fields[i] = strings.TrimSpace(line)
	}

	return storage.ClientApplication{
		CompanyName:    fields[0],
		TaxID:          fields[1],
		Bank:           fields[2],
		VATRate:        parseIntDefault(fields[3]),
		Category:       fields[4],
		PaymentPurpose: fields[5],
		Amount:         parseAmountDefault(fields[6]),
		EquipmentType:  fields[7],
		Description:    fields[8],
	}
}

// parseIntDefault reads a leading integer, tolerating percent signs and
// surrounding noise ("20%", "20 процентов"). Garbage yields zero.
func parseIntDefault(s string) int {
	s = strings.TrimSpace(s)
	digits := leadingDigits(s)
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// parseAmountDefault reads an amount, dropping spacing and common
// thousand separators ("1 500 000", "1.500.000"). Garbage yields zero.
func parseAmountDefault(s string) int64 {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '.' || r == ',' || r == '_':
			continue
		default:
			// Stop at the first foreign rune so "100 usd" parses as 100.
			if b.Len() > 0 {
				goto done
			}
			return 0
		}
	}
done:
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}
