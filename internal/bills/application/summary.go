package application

import (
	"github.com/shopspring/decimal"

	bills "billed-app/internal/bills/domain"
)

// StatusTotal aggregates bills sharing one status.
type StatusTotal struct {
	Status bills.Status    `json:"status"`
	Label  string          `json:"label"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary aggregates a bill listing.
type Summary struct {
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
	ByStatus []StatusTotal   `json:"by_status"`
}

// Summarize totals views per status. Known statuses come first in review
// order; unrecognized statuses follow in order of appearance.
func (s *ListService) Summarize(views []BillView) Summary {
	summary := Summary{Total: decimal.Zero}
	index := make(map[bills.Status]int)
	for _, status := range bills.Statuses {
		label, err := s.formatter.FormatStatus(string(status))
		if err != nil {
			label = string(status)
		}
		index[status] = len(summary.ByStatus)
		summary.ByStatus = append(summary.ByStatus, StatusTotal{Status: status, Label: label, Amount: decimal.Zero})
	}
	for _, view := range views {
		summary.Count++
		summary.Total = summary.Total.Add(view.Amount)
		i, ok := index[view.RawStatus]
		if !ok {
			i = len(summary.ByStatus)
			index[view.RawStatus] = i
			summary.ByStatus = append(summary.ByStatus, StatusTotal{
				Status: view.RawStatus,
				Label:  view.Status,
				Amount: decimal.Zero,
			})
		}
		entry := &summary.ByStatus[i]
		entry.Count++
		entry.Amount = entry.Amount.Add(view.Amount)
	}
	return summary
}
