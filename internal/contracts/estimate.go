package contracts

import (
	"github.com/shopspring/decimal"

	"github.com/quanmat/fasalmitra-backend/pkg/enums"
)

// Estimator produces the platform's price estimate for a contract at
// creation. The estimate is snapshotted onto the contract and later becomes
// the order amount.
type Estimator interface {
	Estimate(quintals, pricePerQuintal decimal.Decimal, season enums.CropSeason) (estQuintals, estTotal decimal.Decimal)
}

// seasonFactors nudge the quoted price toward observed seasonal market
// movement. Off-season crops command a small premium.
var seasonFactors = map[enums.CropSeason]decimal.Decimal{
	enums.CropSeasonKharif: decimal.NewFromInt(1),
	enums.CropSeasonRabi:   decimal.NewFromInt(1),
	enums.CropSeasonZaid:   decimal.NewFromFloat(1.05),
}

type heuristicEstimator struct{}

// NewHeuristicEstimator returns the default season-factor pricing estimator.
func NewHeuristicEstimator() Estimator {
	return heuristicEstimator{}
}

func (heuristicEstimator) Estimate(quintals, pricePerQuintal decimal.Decimal, season enums.CropSeason) (decimal.Decimal, decimal.Decimal) {
	factor, ok := seasonFactors[season]
	if !ok {
		factor = decimal.NewFromInt(1)
	}
	total := quintals.Mul(pricePerQuintal).Mul(factor).Round(2)
	return quintals, total
}
