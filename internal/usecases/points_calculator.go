package usecases

import (
	"github.com/shopspring/decimal"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
)

// ComputePoints converts a positive currency amount into a points delta under
// a rule version:
//
//	raw = amount * points_per_unit * promo_multiplier
//
// "floor" truncates toward zero (raw is never negative, so floor and truncate
// agree). "nearest" rounds half away from zero: 2.5 earns 3 points. The
// result is always a non-negative integer.
func ComputePoints(amount decimal.Decimal, rule *entities.RuleVersion) (int64, error) {
	if amount.Sign() <= 0 {
		return 0, domainerrors.BadRequest("amount must be positive")
	}

	raw := amount.Mul(rule.PointsPerUnit).Mul(rule.PromoMultiplier)

	var rounded decimal.Decimal
	switch rule.Rounding {
	case entities.RoundingNearest:
		rounded = raw.Round(0)
	case entities.RoundingFloor:
		rounded = raw.Floor()
	default:
		return 0, domainerrors.BadRequest("unknown rounding mode")
	}

	points := rounded.IntPart()
	if points < 0 {
		points = 0
	}
	return points, nil
}
