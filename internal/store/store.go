package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a company id does not exist.
var ErrNotFound = errors.New("not found")

type Company struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Rank        *int   `json:"rank,omitempty"`
	RankChange  string `json:"rank_change,omitempty"`
	YearsInRank *int   `json:"years_in_rank,omitempty"`
}

// Indicators is the latest financial snapshot of a company. Columns the data
// provider could not fill are nil.
type Indicators struct {
	ID        int64 `json:"id"`
	CompanyID int64 `json:"company_id"`

	Revenue                 *float64 `json:"revenue,omitempty"`
	Profit                  *float64 `json:"profit,omitempty"`
	ProfitChangePercentage  *float64 `json:"profit_change_percentage,omitempty"`
	RevenueChangePercentage *float64 `json:"revenue_change_percentage,omitempty"`
	ROE                     *float64 `json:"roe,omitempty"`
	PriceToEarningsRatio    *float64 `json:"price_to_earnings_ratio,omitempty"`
	StockVolatility         *float64 `json:"stock_volatility,omitempty"`
	DividendYield           *float64 `json:"dividend_yield,omitempty"`
	EarningsPerShare        *float64 `json:"earnings_per_share,omitempty"`
	EVToEBITDA              *float64 `json:"EV_to_EBITDA,omitempty"`

	Assets            *float64 `json:"assets,omitempty"`
	Employees         *int64   `json:"employees,omitempty"`
	DebtToEquityRatio *float64 `json:"debt_to_equity_ratio,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Values maps criterion ids to the non-null indicator columns.
func (ind *Indicators) Values() map[string]float64 {
	out := make(map[string]float64, 12)
	set := func(id string, v *float64) {
		if v != nil {
			out[id] = *v
		}
	}
	set("revenue", ind.Revenue)
	set("profit", ind.Profit)
	set("profit_change_percentage", ind.ProfitChangePercentage)
	set("revenue_change_percentage", ind.RevenueChangePercentage)
	set("roe", ind.ROE)
	set("price_to_earnings_ratio", ind.PriceToEarningsRatio)
	set("stock_volatility", ind.StockVolatility)
	set("dividend_yield", ind.DividendYield)
	set("earnings_per_share", ind.EarningsPerShare)
	set("EV_to_EBITDA", ind.EVToEBITDA)
	set("assets", ind.Assets)
	set("debt_to_equity_ratio", ind.DebtToEquityRatio)
	if ind.Employees != nil {
		out["employees"] = float64(*ind.Employees)
	}
	return out
}

// Profile is a company together with its indicator values keyed by
// criterion id.
type Profile struct {
	Company *Company           `json:"company"`
	Values  map[string]float64 `json:"values"`
}

type Store interface {
	ListCompanies(ctx context.Context) ([]*Company, error)
	GetCompany(ctx context.Context, id int64) (*Company, error)
	GetIndicators(ctx context.Context, companyID int64) (*Indicators, error)

	// GetProfiles returns one profile per id in the order given. A company
	// without indicators yields an empty value map.
	GetProfiles(ctx context.Context, ids []int64) ([]*Profile, error)

	Close() error
}

type profileSource interface {
	GetCompany(ctx context.Context, id int64) (*Company, error)
	GetIndicators(ctx context.Context, companyID int64) (*Indicators, error)
}

func assembleProfiles(ctx context.Context, src profileSource, ids []int64) ([]*Profile, error) {
	profiles := make([]*Profile, 0, len(ids))
	for _, id := range ids {
		c, err := src.GetCompany(ctx, id)
		if err != nil {
			return nil, err
		}
		p := &Profile{Company: c, Values: map[string]float64{}}
		ind, err := src.GetIndicators(ctx, id)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			return nil, err
		default:
			p.Values = ind.Values()
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
