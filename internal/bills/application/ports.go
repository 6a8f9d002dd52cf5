package application

import (
	"context"

	bills "billed-app/internal/bills/domain"
)

// Filter narrows a bill listing. An empty Email lists every bill.
type Filter struct {
	Email string
}

// BillReader reads bills from the bill store.
type BillReader interface {
	ListBills(ctx context.Context, filter Filter) ([]bills.Bill, error)
}
