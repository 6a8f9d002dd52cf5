package bills

import "errors"

var (
	// ErrInvalidDate is returned when a bill date is not a calendar date.
	ErrInvalidDate = errors.New("bills: invalid date")
	// ErrInvalidStatus is returned when a bill status is not recognized.
	ErrInvalidStatus = errors.New("bills: invalid status")
	// ErrEmptyEmail is returned when a bill has no owner email.
	ErrEmptyEmail = errors.New("bills: empty email")
	// ErrEmptyID is returned when saving a bill without id.
	ErrEmptyID = errors.New("bills: empty id")
	// ErrNegativeAmount is returned when a bill amount is negative.
	ErrNegativeAmount = errors.New("bills: negative amount")
	// ErrNilBill is returned when saving a nil bill.
	ErrNilBill = errors.New("bills: nil bill")
)

// ErrNotFound is returned by bill stores when the requested bills do not exist.
var ErrNotFound = errors.New("bills: not found")
