package bills

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date layout used by stored bills.
const DateLayout = "2006-01-02"

// Status is the review state of a bill.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

// Statuses lists every known status in review order.
var Statuses = []Status{StatusPending, StatusAccepted, StatusRefused}

// NormalizeStatus validates a raw status string.
func NormalizeStatus(value string) (Status, bool) {
	switch Status(value) {
	case StatusPending, StatusAccepted, StatusRefused:
		return Status(value), true
	default:
		return "", false
	}
}

// Bill is an expense report record as supplied by the bill store.
type Bill struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	Type         string          `json:"type"`
	Name         string          `json:"name"`
	Date         string          `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	VAT          string          `json:"vat"`
	Pct          int             `json:"pct"`
	Commentary   string          `json:"commentary"`
	CommentAdmin string          `json:"commentAdmin"`
	FileURL      string          `json:"fileUrl"`
	FileName     string          `json:"fileName"`
	Status       Status          `json:"status"`
}

// ParseDate parses an ISO calendar date.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return parsed, nil
}

// Validate checks the record invariants.
func (b Bill) Validate() error {
	if b.Email == "" {
		return ErrEmptyEmail
	}
	if _, err := ParseDate(b.Date); err != nil {
		return err
	}
	if _, ok := NormalizeStatus(string(b.Status)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, b.Status)
	}
	if b.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// SortAntiChrono orders bills from latest to earliest date.
// ISO dates compare lexicographically; unparseable dates go last.
func SortAntiChrono(list []Bill) {
	sort.SliceStable(list, func(i, j int) bool {
		return dateAfter(list[i].Date, list[j].Date)
	})
}

func dateAfter(a, b string) bool {
	_, errA := ParseDate(a)
	_, errB := ParseDate(b)
	switch {
	case errA != nil && errB != nil:
		return false
	case errA != nil:
		return false
	case errB != nil:
		return true
	}
	return a > b
}
