package integration_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"billed-app/internal/bills/application"
	bills "billed-app/internal/bills/domain"
	"billed-app/internal/bills/format"
	billsrepo "billed-app/internal/bills/infrastructure/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestBills_PostgresListFormatted(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := applyBillMigrations(db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	ctx := context.Background()
	email := "integration@billed.test"
	_, _ = db.ExecContext(ctx, "DELETE FROM bills WHERE email = $1", email)

	repo := billsrepo.NewBillRepository(db)
	seed := []bills.Bill{
		{ID: "it-1", Email: email, Type: "Transports", Name: "Vol", Date: "2023-01-01", Amount: decimal.RequireFromString("120.50"), Status: bills.StatusPending},
		{ID: "it-2", Email: email, Type: "Transports", Name: "Train", Date: "2022-05-05", Amount: decimal.NewFromInt(40), Status: bills.StatusAccepted},
		{ID: "it-3", Email: email, Type: "Restaurants et bars", Name: "Dîner", Date: "2023-12-31", Amount: decimal.NewFromInt(60), Status: bills.StatusRefused},
		{ID: "it-4", Email: email, Type: "Transports", Name: "Corrompu", Date: "2023-13-45", Amount: decimal.NewFromInt(1), Status: bills.StatusPending},
	}
	for i := range seed {
		if err := repo.Save(ctx, &seed[i]); err != nil {
			t.Fatalf("save %s: %v", seed[i].ID, err)
		}
	}
	// upsert keeps a single row
	seed[0].Name = "Vol Paris-Brest"
	if err := repo.Save(ctx, &seed[0]); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	service, err := application.NewListService(repo, format.Default(), application.Labels{}, nil)
	if err != nil {
		t.Fatalf("list service: %v", err)
	}
	views, err := service.List(ctx, application.Filter{Email: email})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 4 {
		t.Fatalf("expected 4 bills, got %d", len(views))
	}

	wantDates := []string{"31 Déc. 23", "1 Jan. 23", "5 Mai. 22", "2023-13-45"}
	for i, want := range wantDates {
		if views[i].Date != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, views[i].Date)
		}
	}
	if views[1].Name != "Vol Paris-Brest" {
		t.Fatalf("expected upserted name, got %q", views[1].Name)
	}
	if !views[1].Amount.Equal(decimal.RequireFromString("120.50")) {
		t.Fatalf("amount mismatch: %s", views[1].Amount)
	}
}

func applyBillMigrations(db *sql.DB) error {
	path := filepath.Join(projectRoot(), "migrations", "001_bills.sql")
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = db.Exec(string(content))
	return err
}

func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return filepath.Clean(filepath.Join(dir, "..", "..", ".."))
}
