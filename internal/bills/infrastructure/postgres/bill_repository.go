package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"billed-app/internal/bills/application"
	bills "billed-app/internal/bills/domain"
)

// BillRepository reads and writes bills in postgres.
type BillRepository struct {
	db *sql.DB
}

// NewBillRepository constructs a repository.
func NewBillRepository(db *sql.DB) *BillRepository {
	return &BillRepository{db: db}
}

// ListBills lists bills, newest date first. Dates are returned as stored so
// that corrupted values reach the caller untouched.
func (r *BillRepository) ListBills(ctx context.Context, filter application.Filter) ([]bills.Bill, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("bill repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, email, type, name, date, amount, vat, pct,
	commentary, comment_admin, file_url, file_name, status
FROM bills
WHERE ($1::text = '' OR email = $1)
ORDER BY date DESC, id ASC`, filter.Email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []bills.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *bill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save upserts a bill.
func (r *BillRepository) Save(ctx context.Context, bill *bills.Bill) error {
	if r == nil || r.db == nil {
		return errors.New("bill repo: nil db")
	}
	if bill == nil {
		return bills.ErrNilBill
	}
	if bill.ID == "" {
		return bills.ErrEmptyID
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO bills (
	id, email, type, name, date, amount, vat, pct,
	commentary, comment_admin, file_url, file_name, status
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
)
ON CONFLICT (id) DO UPDATE SET
	email = EXCLUDED.email,
	type = EXCLUDED.type,
	name = EXCLUDED.name,
	date = EXCLUDED.date,
	amount = EXCLUDED.amount,
	vat = EXCLUDED.vat,
	pct = EXCLUDED.pct,
	commentary = EXCLUDED.commentary,
	comment_admin = EXCLUDED.comment_admin,
	file_url = EXCLUDED.file_url,
	file_name = EXCLUDED.file_name,
	status = EXCLUDED.status`,
		bill.ID, bill.Email, bill.Type, bill.Name, bill.Date, bill.Amount.String(), bill.VAT, bill.Pct,
		bill.Commentary, bill.CommentAdmin, bill.FileURL, bill.FileName, string(bill.Status),
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*bills.Bill, error) {
	var (
		bill         bills.Bill
		amount       string
		vat          sql.NullString
		commentary   sql.NullString
		commentAdmin sql.NullString
		fileURL      sql.NullString
		fileName     sql.NullString
		status       string
	)
	if err := row.Scan(
		&bill.ID, &bill.Email, &bill.Type, &bill.Name, &bill.Date, &amount, &vat, &bill.Pct,
		&commentary, &commentAdmin, &fileURL, &fileName, &status,
	); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	bill.Amount = parsed
	bill.VAT = vat.String
	bill.Commentary = commentary.String
	bill.CommentAdmin = commentAdmin.String
	bill.FileURL = fileURL.String
	bill.FileName = fileName.String
	bill.Status = bills.Status(status)
	return &bill, nil
}
