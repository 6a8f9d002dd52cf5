package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"billed-app/internal/auth"
	bills "billed-app/internal/bills/domain"
	billsrepo "billed-app/internal/bills/infrastructure/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var billTypes = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}

type config struct {
	dsn         string
	email       string
	count       int
	startDate   string
	stepDays    int
	fixtures    string
	tokenSecret string
	tokenType   string
	tokenTTL    time.Duration
}

func main() {
	cfg := parseConfig()
	if cfg.dsn == "" {
		log.Fatal("PG_DSN or DATABASE_URL is required")
	}
	if cfg.email == "" {
		log.Fatal("email is required")
	}

	db, err := sql.Open("pgx", cfg.dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	var list []bills.Bill
	if cfg.fixtures != "" {
		list, err = loadFixtures(cfg.fixtures)
		if err != nil {
			log.Fatalf("load fixtures: %v", err)
		}
	} else {
		if cfg.count <= 0 {
			log.Fatal("count must be > 0")
		}
		start, err := parseStartDate(cfg.startDate)
		if err != nil {
			log.Fatalf("invalid start-date: %v", err)
		}
		list = generateBills(cfg.email, start, cfg.count, cfg.stepDays)
	}

	ctx := context.Background()
	repo := billsrepo.NewBillRepository(db)
	saved := 0
	for i := range list {
		if err := list[i].Validate(); err != nil {
			log.Printf("skip bill id=%s: %v", list[i].ID, err)
			continue
		}
		if err := repo.Save(ctx, &list[i]); err != nil {
			log.Fatalf("save bill id=%s: %v", list[i].ID, err)
		}
		saved++
	}
	log.Printf("seeded bills: %d/%d", saved, len(list))

	if cfg.tokenSecret != "" {
		role, ok := auth.NormalizeRole(cfg.tokenType)
		if !ok {
			log.Fatalf("invalid token type %q", cfg.tokenType)
		}
		token, err := auth.SignJWT([]byte(cfg.tokenSecret), cfg.email, role, cfg.tokenTTL)
		if err != nil {
			log.Fatalf("sign token: %v", err)
		}
		fmt.Println(token)
	}
}

func parseConfig() config {
	cfg := config{}
	flag.StringVar(&cfg.dsn, "pg-dsn", envOrDefault("PG_DSN", envOrDefault("DATABASE_URL", "")), "Postgres DSN")
	flag.StringVar(&cfg.email, "email", envOrDefault("SEED_EMAIL", "employee@test.tld"), "owner email of generated bills")
	flag.IntVar(&cfg.count, "count", envOrInt("SEED_COUNT", 12), "number of bills to generate")
	flag.StringVar(&cfg.startDate, "start-date", envOrDefault("START_DATE", ""), "date of the latest bill (YYYY-MM-DD)")
	flag.IntVar(&cfg.stepDays, "step-days", envOrInt("STEP_DAYS", 17), "days between generated bills")
	flag.StringVar(&cfg.fixtures, "fixtures", envOrDefault("SEED_FIXTURES", ""), "JSON file of bills to load instead of generating")
	flag.StringVar(&cfg.tokenSecret, "token-secret", envOrDefault("AUTH_JWT_SECRET", ""), "print a dev token signed with this secret")
	flag.StringVar(&cfg.tokenType, "token-type", envOrDefault("TOKEN_TYPE", "employee"), "user type in the dev token")
	flag.DurationVar(&cfg.tokenTTL, "token-ttl", 24*time.Hour, "dev token lifetime")
	flag.Parse()
	return cfg
}

func parseStartDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	return bills.ParseDate(value)
}

func generateBills(email string, latest time.Time, count, stepDays int) []bills.Bill {
	if stepDays <= 0 {
		stepDays = 1
	}
	list := make([]bills.Bill, 0, count)
	for i := 0; i < count; i++ {
		date := latest.AddDate(0, 0, -i*stepDays)
		list = append(list, bills.Bill{
			ID:       uuid.NewString(),
			Email:    email,
			Type:     billTypes[i%len(billTypes)],
			Name:     fmt.Sprintf("note %d", i+1),
			Date:     date.Format(bills.DateLayout),
			Amount:   decimal.New(int64(1500+i*725), -2),
			VAT:      "20",
			Pct:      20,
			FileName: fmt.Sprintf("note-%d.jpg", i+1),
			Status:   bills.Statuses[i%len(bills.Statuses)],
		})
	}
	return list
}

func loadFixtures(path string) ([]bills.Bill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []bills.Bill
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == "" {
			list[i].ID = uuid.NewString()
		}
	}
	return list, nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
