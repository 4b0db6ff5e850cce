package scoring

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// bonusTier maps a minimum average score to a base amount in the platform's
// base currency unit.
type bonusTier struct {
	MinAverage float64
	Base       float64
}

// Tiers and multipliers are policy, not recorded fact: bonuses are derived
// on demand for display and never persisted, so editing this table
// retroactively changes every historical display until an admin disburses
// through the separate payroll workflow.
var bonusTiers = []bonusTier{
	{MinAverage: 90, Base: 5000},
	{MinAverage: 80, Base: 4000},
	{MinAverage: 70, Base: 3000},
	{MinAverage: 60, Base: 2000},
	{MinAverage: 50, Base: 1000},
}

// BonusFor derives the display bonus for an average score and rank: tier base
// times rank multiplier, rounded to the nearest whole unit.
func BonusFor(averageScore float64, rank int) int64 {
	var base float64
	for _, tier := range bonusTiers {
		if averageScore >= tier.MinAverage {
			base = tier.Base
			break
		}
	}
	var multiplier float64
	switch rank {
	case 1:
		multiplier = 1.5
	case 2:
		multiplier = 1.25
	case 3:
		multiplier = 1.1
	default:
		multiplier = 1.0
	}
	return int64(math.Round(base * multiplier))
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a bonus amount with digit grouping for display.
func FormatAmount(amount int64) string {
	return amountPrinter.Sprintf("%d", amount)
}
