package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const companyColumns = `id, name, symbol, rank, rank_change, years_in_rank`

const indicatorColumns = `id, company_id,
	revenue, profit, profit_change_percentage, revenue_change_percentage,
	roe, price_to_earnings_ratio, stock_volatility, dividend_yield,
	earnings_per_share, ev_to_ebitda,
	assets, employees, debt_to_equity_ratio,
	updated_at`

func (s *PostgresStore) ListCompanies(ctx context.Context) ([]*Company, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+companyColumns+`
		FROM companies
		ORDER BY rank ASC NULLS LAST, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (s *PostgresStore) GetCompany(ctx context.Context, id int64) (*Company, error) {
	c, err := scanCompany(s.pool.QueryRow(ctx, `
		SELECT `+companyColumns+`
		FROM companies WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("company %d: %w", id, ErrNotFound)
	}
	return c, err
}

// GetIndicators returns the most recent snapshot for a company, or
// ErrNotFound when none was ingested.
func (s *PostgresStore) GetIndicators(ctx context.Context, companyID int64) (*Indicators, error) {
	ind := &Indicators{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+indicatorColumns+`
		FROM financial_indicators WHERE company_id = $1
		ORDER BY updated_at DESC
		LIMIT 1`, companyID,
	).Scan(
		&ind.ID, &ind.CompanyID,
		&ind.Revenue, &ind.Profit, &ind.ProfitChangePercentage, &ind.RevenueChangePercentage,
		&ind.ROE, &ind.PriceToEarningsRatio, &ind.StockVolatility, &ind.DividendYield,
		&ind.EarningsPerShare, &ind.EVToEBITDA,
		&ind.Assets, &ind.Employees, &ind.DebtToEquityRatio,
		&ind.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("indicators for company %d: %w", companyID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return ind, nil
}

func (s *PostgresStore) GetProfiles(ctx context.Context, ids []int64) ([]*Profile, error) {
	return assembleProfiles(ctx, s, ids)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*Company, error) {
	c := &Company{}
	var rankChange sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.Symbol, &c.Rank, &rankChange, &c.YearsInRank); err != nil {
		return nil, err
	}
	if rankChange.Valid {
		c.RankChange = rankChange.String
	}
	return c, nil
}

// SaveSnapshot upserts a company by symbol and appends an indicator
// snapshot in one transaction. It returns the company id. Used by the
// ingestion script; the service itself only reads.
func (s *PostgresStore) SaveSnapshot(ctx context.Context, c *Company, ind *Indicators) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var rankChange *string
	if c.RankChange != "" {
		rankChange = &c.RankChange
	}
	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO companies (name, symbol, rank, rank_change, years_in_rank)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			rank = EXCLUDED.rank,
			rank_change = EXCLUDED.rank_change,
			years_in_rank = EXCLUDED.years_in_rank
		RETURNING id`,
		c.Name, c.Symbol, c.Rank, rankChange, c.YearsInRank,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert company %s: %w", c.Symbol, err)
	}

	if ind != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO financial_indicators (
				company_id,
				revenue, profit, profit_change_percentage, revenue_change_percentage,
				roe, price_to_earnings_ratio, stock_volatility, dividend_yield,
				earnings_per_share, ev_to_ebitda,
				assets, employees, debt_to_equity_ratio
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			id,
			ind.Revenue, ind.Profit, ind.ProfitChangePercentage, ind.RevenueChangePercentage,
			ind.ROE, ind.PriceToEarningsRatio, ind.StockVolatility, ind.DividendYield,
			ind.EarningsPerShare, ind.EVToEBITDA,
			ind.Assets, ind.Employees, ind.DebtToEquityRatio,
		)
		if err != nil {
			return 0, fmt.Errorf("insert indicators for %s: %w", c.Symbol, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	c.ID = id
	return id, nil
}
