// seed_companies.go loads a CSV of companies and their latest financial
// indicators into the Arbiter database.
//
// Usage:
//
//	go run scripts/seed_companies.go -csv companies.csv -db postgres://localhost/arbiter
//
// The header row names the columns: name and symbol are required, rank,
// rank_change and years_in_rank are optional, and any indicator column
// (revenue, roe, EV_to_EBITDA, ...) may follow. Empty cells are stored as NULL.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/Arbiter/internal/store"
)

type row struct {
	company    *store.Company
	indicators *store.Indicators
}

func main() {
	csvPath := flag.String("csv", "companies.csv", "path to the CSV file")
	dbURL := flag.String("db", os.Getenv("ARBITER_DATABASE_URL"), "Postgres connection URL")
	dryRun := flag.Bool("dry-run", false, "print parsed rows without writing")
	flag.Parse()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	rows, err := parseRows(f)
	if err != nil {
		log.Fatalf("parse %s: %v", *csvPath, err)
	}
	log.Printf("parsed %d companies from %s", len(rows), *csvPath)

	if *dryRun {
		for i, r := range rows {
			fmt.Printf("[%d] %s (%s) values=%v\n", i+1, r.company.Name, r.company.Symbol, r.indicators.Values())
		}
		return
	}

	ctx := context.Background()
	db, err := store.NewPostgresStore(ctx, *dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	saved, skipped := 0, 0
	for _, r := range rows {
		if _, err := db.SaveSnapshot(ctx, r.company, r.indicators); err != nil {
			log.Printf("skip %s: %v", r.company.Symbol, err)
			skipped++
			continue
		}
		saved++
	}
	log.Printf("done: %d saved, %d skipped", saved, skipped)
}

func parseRows(r io.Reader) ([]row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"name", "symbol"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}

	var rows []row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		get := func(name string) string {
			if i, ok := col[name]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		num := func(name string) (*float64, error) {
			s := get(name)
			if s == "" {
				return nil, nil
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, name, err)
			}
			return &v, nil
		}
		integer := func(name string) (*int64, error) {
			v, err := num(name)
			if v == nil || err != nil {
				return nil, err
			}
			n := int64(*v)
			return &n, nil
		}

		c := &store.Company{Name: get("name"), Symbol: get("symbol"), RankChange: get("rank_change")}
		if c.Name == "" || c.Symbol == "" {
			return nil, fmt.Errorf("line %d: name and symbol are required", line)
		}
		if v, err := integer("rank"); err != nil {
			return nil, err
		} else if v != nil {
			n := int(*v)
			c.Rank = &n
		}
		if v, err := integer("years_in_rank"); err != nil {
			return nil, err
		} else if v != nil {
			n := int(*v)
			c.YearsInRank = &n
		}

		ind := &store.Indicators{}
		for name, dst := range map[string]**float64{
			"revenue":                   &ind.Revenue,
			"profit":                    &ind.Profit,
			"profit_change_percentage":  &ind.ProfitChangePercentage,
			"revenue_change_percentage": &ind.RevenueChangePercentage,
			"roe":                       &ind.ROE,
			"price_to_earnings_ratio":   &ind.PriceToEarningsRatio,
			"stock_volatility":          &ind.StockVolatility,
			"dividend_yield":            &ind.DividendYield,
			"earnings_per_share":        &ind.EarningsPerShare,
			"EV_to_EBITDA":              &ind.EVToEBITDA,
			"assets":                    &ind.Assets,
			"debt_to_equity_ratio":      &ind.DebtToEquityRatio,
		} {
			v, err := num(name)
			if err != nil {
				return nil, err
			}
			*dst = v
		}
		if ind.Employees, err = integer("employees"); err != nil {
			return nil, err
		}
		rows = append(rows, row{company: c, indicators: ind})
	}
}
