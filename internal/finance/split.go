package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartnerWeight is one partner eligible for a split, with their relative
// share points.
type PartnerWeight struct {
	WorkerID uuid.UUID
	Name     string
	Points   int
}

// Share is one partner's computed portion of a visit's net margin.
type Share struct {
	WorkerID   uuid.UUID       `json:"worker_id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

var hundred = decimal.NewFromInt(100)

// ComputeSplit distributes netMargin among partners proportionally to their
// points. Degenerate inputs (no partners, non-positive margin, zero total
// points) yield an empty breakdown rather than an error.
//
// Every partner except the last gets an independently rounded (2 decimal
// places) proportional amount and percentage; the last partner gets the
// remainder of both, so the amounts always sum to exactly netMargin and the
// percentages to exactly 100. Do not round the last partner proportionally:
// the remainder assignment is what keeps the books reconciled to the cent.
func ComputeSplit(netMargin decimal.Decimal, partners []PartnerWeight) []Share {
	if len(partners) == 0 || !netMargin.IsPositive() {
		return []Share{}
	}

	if len(partners) == 1 {
		return []Share{{
			WorkerID:   partners[0].WorkerID,
			Name:       partners[0].Name,
			Amount:     netMargin.Round(2),
			Percentage: hundred,
		}}
	}

	totalPoints := 0
	for _, p := range partners {
		totalPoints += p.Points
	}
	if totalPoints == 0 {
		return []Share{}
	}
	total := decimal.NewFromInt(int64(totalPoints))

	remainingAmount := netMargin.Round(2)
	remainingPercentage := hundred

	shares := make([]Share, 0, len(partners))
	for i, p := range partners {
		if i == len(partners)-1 {
			shares = append(shares, Share{
				WorkerID:   p.WorkerID,
				Name:       p.Name,
				Amount:     remainingAmount,
				Percentage: remainingPercentage,
			})
			break
		}

		points := decimal.NewFromInt(int64(p.Points))
		amount := points.Div(total).Mul(netMargin).Round(2)
		percentage := points.Div(total).Mul(hundred).Round(2)

		remainingAmount = remainingAmount.Sub(amount)
		remainingPercentage = remainingPercentage.Sub(percentage)

		shares = append(shares, Share{
			WorkerID:   p.WorkerID,
			Name:       p.Name,
			Amount:     amount,
			Percentage: percentage,
		})
	}
	return shares
}
