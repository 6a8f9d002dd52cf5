package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	bills "billed-app/internal/bills/domain"
	"billed-app/internal/bills/format"
	"billed-app/internal/observability/metrics"
)

// BillView is a bill ready for display.
type BillView struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	Type         string          `json:"type"`
	Name         string          `json:"name"`
	ISODate      string          `json:"isoDate"`
	Date         string          `json:"date"`
	DateValid    bool            `json:"dateValid"`
	Amount       decimal.Decimal `json:"amount"`
	VAT          string          `json:"vat"`
	Pct          int             `json:"pct"`
	Commentary   string          `json:"commentary"`
	CommentAdmin string          `json:"commentAdmin"`
	FileURL      string          `json:"fileUrl"`
	FileName     string          `json:"fileName"`
	RawStatus    bills.Status    `json:"rawStatus"`
	Status       string          `json:"status"`
}

// ListService fetches bills and prepares them for display.
type ListService struct {
	reader    BillReader
	formatter *format.Formatter
	labels    Labels
	logger    *log.Logger
}

// NewListService constructs a ListService.
func NewListService(reader BillReader, formatter *format.Formatter, labels Labels, logger *log.Logger) (*ListService, error) {
	if reader == nil {
		return nil, errors.New("bills list: nil reader")
	}
	if formatter == nil {
		formatter = format.Default()
	}
	if labels.UnknownStatus == "" {
		labels.UnknownStatus = "Statut inconnu"
	}
	return &ListService{reader: reader, formatter: formatter, labels: labels, logger: logger}, nil
}

// List returns bills from latest to earliest with display dates and labels.
func (s *ListService) List(ctx context.Context, filter Filter) ([]BillView, error) {
	start := time.Now()
	list, err := s.reader.ListBills(ctx, filter)
	if err != nil {
		metrics.ObserveBillsList(metrics.ResultError, time.Since(start))
		return nil, fmt.Errorf("bills list: %w", err)
	}

	sorted := append([]bills.Bill(nil), list...)
	bills.SortAntiChrono(sorted)

	views := make([]BillView, 0, len(sorted))
	for _, bill := range sorted {
		views = append(views, s.view(bill))
	}
	metrics.ObserveBillsList(metrics.ResultSuccess, time.Since(start))
	return views, nil
}

func (s *ListService) view(bill bills.Bill) BillView {
	view := BillView{
		ID:           bill.ID,
		Email:        bill.Email,
		Type:         bill.Type,
		Name:         bill.Name,
		ISODate:      bill.Date,
		Date:         bill.Date,
		Amount:       bill.Amount,
		VAT:          bill.VAT,
		Pct:          bill.Pct,
		Commentary:   bill.Commentary,
		CommentAdmin: bill.CommentAdmin,
		FileURL:      bill.FileURL,
		FileName:     bill.FileName,
		RawStatus:    bill.Status,
		Status:       s.labels.UnknownStatus,
	}

	if formatted, err := s.formatter.FormatDate(bill.Date); err != nil {
		metrics.IncFormatError(metrics.FieldDate, format.Kind(err))
		s.logf("bills list: corrupted date id=%s: %v", bill.ID, err)
	} else {
		view.Date = formatted
		view.DateValid = true
	}

	if label, err := s.formatter.FormatStatus(string(bill.Status)); err != nil {
		metrics.IncFormatError(metrics.FieldStatus, format.Kind(err))
		s.logf("bills list: unknown status id=%s: %v", bill.ID, err)
	} else {
		view.Status = label
	}
	return view
}

func (s *ListService) logf(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(msg, args...)
	}
}
