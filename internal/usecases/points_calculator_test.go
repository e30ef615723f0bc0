package usecases

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
)

func rule(ppu string, rounding entities.RoundingMode, multiplier string) *entities.RuleVersion {
	return &entities.RuleVersion{
		PointsPerUnit:   decimal.RequireFromString(ppu),
		Rounding:        rounding,
		PromoMultiplier: decimal.RequireFromString(multiplier),
	}
}

func TestComputePoints(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		rule   *entities.RuleVersion
		want   int64
	}{
		{"floor truncates fractional points", "12.99", rule("1", entities.RoundingFloor, "1"), 12},
		{"floor exact amount", "50", rule("1", entities.RoundingFloor, "1"), 50},
		{"nearest rounds down below half", "12.49", rule("1", entities.RoundingNearest, "1"), 12},
		{"nearest rounds half away from zero", "2.5", rule("1", entities.RoundingNearest, "1"), 3},
		{"nearest rounds up above half", "12.51", rule("1", entities.RoundingNearest, "1"), 13},
		{"multiplier applies before rounding", "10", rule("1", entities.RoundingFloor, "1.55"), 15},
		{"fractional points per unit", "19.99", rule("0.5", entities.RoundingFloor, "1"), 9},
		{"double promo", "12.99", rule("1", entities.RoundingFloor, "2"), 25},
		{"small amount floors to zero", "0.40", rule("1", entities.RoundingFloor, "1"), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputePoints(decimal.RequireFromString(tc.amount), tc.rule)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestComputePoints_RejectsBadInput(t *testing.T) {
	_, err := ComputePoints(decimal.Zero, rule("1", entities.RoundingFloor, "1"))
	require.Error(t, err)

	_, err = ComputePoints(decimal.NewFromInt(-5), rule("1", entities.RoundingFloor, "1"))
	require.Error(t, err)

	_, err = ComputePoints(decimal.NewFromInt(5), rule("1", entities.RoundingMode("ceil"), "1"))
	require.Error(t, err)
}
