// Package format turns stored bill fields into display strings and back.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	bills "billed-app/internal/bills/domain"
)

const (
	opFormatDate   = "format date"
	opConvertDate  = "convert date"
	opFormatStatus = "format status"

	monthTokenRunes = 3
)

// Formatter renders bill dates and statuses for one locale.
// It is immutable once built and safe for concurrent use.
type Formatter struct {
	months  [12]string
	byToken map[string]time.Month
	labels  map[bills.Status]string
}

// NewFormatter precomputes month tokens for locale.
func NewFormatter(locale Locale) (*Formatter, error) {
	caser := cases.Title(locale.Tag)
	f := &Formatter{
		byToken: make(map[string]time.Month, 12),
		labels:  make(map[bills.Status]string, len(bills.Statuses)),
	}
	for i, name := range locale.ShortMonths {
		base := strings.TrimSuffix(caser.String(strings.TrimSpace(name)), ".")
		if base == "" {
			return nil, fmt.Errorf("format: empty month name at %d", i+1)
		}
		token, err := uniqueToken(base, f.byToken)
		if err != nil {
			return nil, err
		}
		f.months[i] = token
		f.byToken[token] = time.Month(i + 1)
	}
	for _, status := range bills.Statuses {
		label := locale.StatusLabels[status]
		if label == "" {
			return nil, fmt.Errorf("format: missing label for status %s", status)
		}
		f.labels[status] = label
	}
	return f, nil
}

// uniqueToken takes the shortest prefix of base, at least three runes long,
// that no earlier month already uses.
func uniqueToken(base string, taken map[string]time.Month) (string, error) {
	runes := []rune(base)
	n := monthTokenRunes
	if n > len(runes) {
		n = len(runes)
	}
	for ; n <= len(runes); n++ {
		token := string(runes[:n]) + "."
		if _, exists := taken[token]; !exists {
			return token, nil
		}
	}
	return "", fmt.Errorf("format: month %q has no unique abbreviation", base)
}

// FormatDate renders an ISO date as "D Mmm. YY", e.g. "4 Avr. 23".
func (f *Formatter) FormatDate(dateStr string) (string, error) {
	date, err := time.Parse(bills.DateLayout, dateStr)
	if err != nil {
		return "", malformed(opFormatDate, dateStr)
	}
	return fmt.Sprintf("%d %s %02d", date.Day(), f.months[date.Month()-1], date.Year()%100), nil
}

// ConvertDateToISO reverses FormatDate. Two-digit years are read as 20YY.
func (f *Formatter) ConvertDateToISO(formatted string) (string, error) {
	parts := strings.Split(formatted, " ")
	if len(parts) != 3 {
		return "", malformed(opConvertDate, formatted)
	}
	day, ok := parseDigits(parts[0], 1, 2)
	if !ok {
		return "", malformed(opConvertDate, formatted)
	}
	month, ok := f.byToken[parts[1]]
	if !ok {
		return "", unsupported(opConvertDate, formatted)
	}
	if _, ok := parseDigits(parts[2], 2, 2); !ok {
		return "", malformed(opConvertDate, formatted)
	}
	iso := fmt.Sprintf("20%s-%02d-%02d", parts[2], int(month), day)
	if _, err := time.Parse(bills.DateLayout, iso); err != nil {
		return "", malformed(opConvertDate, formatted)
	}
	return iso, nil
}

// FormatStatus returns the display label of a bill status.
func (f *Formatter) FormatStatus(status string) (string, error) {
	if status == "" {
		return "", malformed(opFormatStatus, status)
	}
	label, ok := f.labels[bills.Status(status)]
	if !ok {
		return "", unsupported(opFormatStatus, status)
	}
	return label, nil
}

// MonthTokens returns the twelve display month tokens, January first.
func (f *Formatter) MonthTokens() []string {
	return append([]string(nil), f.months[:]...)
}

func parseDigits(value string, minLen, maxLen int) (int, bool) {
	if len(value) < minLen || len(value) > maxLen {
		return 0, false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

var defaultFormatter = mustFormatter(French())

func mustFormatter(locale Locale) *Formatter {
	f, err := NewFormatter(locale)
	if err != nil {
		panic(err)
	}
	return f
}

// Default returns the shared French formatter.
func Default() *Formatter { return defaultFormatter }

// FormatDate formats with the default formatter.
func FormatDate(dateStr string) (string, error) { return defaultFormatter.FormatDate(dateStr) }

// ConvertDateToISO converts with the default formatter.
func ConvertDateToISO(formatted string) (string, error) {
	return defaultFormatter.ConvertDateToISO(formatted)
}

// FormatStatus formats with the default formatter.
func FormatStatus(status string) (string, error) { return defaultFormatter.FormatStatus(status) }
