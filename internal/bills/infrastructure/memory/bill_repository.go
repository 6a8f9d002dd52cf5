package memory

import (
	"context"
	"sort"
	"sync"

	"billed-app/internal/bills/application"
	bills "billed-app/internal/bills/domain"
)

// BillRepository is an in-memory bill store for demo/testing.
type BillRepository struct {
	mu   sync.RWMutex
	data map[string]bills.Bill
}

// NewBillRepository constructs a repository.
func NewBillRepository() *BillRepository {
	return &BillRepository{data: make(map[string]bills.Bill)}
}

// Save stores a bill (overwrites existing).
func (r *BillRepository) Save(ctx context.Context, bill *bills.Bill) error {
	_ = ctx
	if bill == nil {
		return bills.ErrNilBill
	}
	if bill.ID == "" {
		return bills.ErrEmptyID
	}
	r.mu.Lock()
	r.data[bill.ID] = *bill
	r.mu.Unlock()
	return nil
}

// ListBills returns copies of stored bills ordered by id.
func (r *BillRepository) ListBills(ctx context.Context, filter application.Filter) ([]bills.Bill, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]bills.Bill, 0, len(r.data))
	for _, bill := range r.data {
		if filter.Email != "" && bill.Email != filter.Email {
			continue
		}
		result = append(result, bill)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
