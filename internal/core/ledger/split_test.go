package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitmate-app/splitmate_backend/internal/apperrors"
	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
	"github.com/splitmate-app/splitmate_backend/internal/core/ledger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func assertSplitSums(t *testing.T, total decimal.Decimal, splits []domain.Split) {
	t.Helper()
	sumAmount := decimal.Zero
	sumPct := decimal.Zero
	for _, s := range splits {
		sumAmount = sumAmount.Add(s.Amount)
		sumPct = sumPct.Add(s.Percentage)
	}
	assert.True(t, ledger.WithinTolerance(sumAmount, total),
		"split amounts sum to %s, want %s", sumAmount, total)
	assert.True(t, ledger.WithinTolerance(sumPct, dec("100")),
		"split percentages sum to %s, want 100", sumPct)
}

func TestComputeSplits_Equal(t *testing.T) {
	tests := []struct {
		name        string
		total       decimal.Decimal
		users       []string
		wantAmounts []string
		wantPct     []string
	}{
		{
			name:        "150 among three divides evenly",
			total:       dec("150.00"),
			users:       []string{"u1", "u2", "u3"},
			wantAmounts: []string{"50.00", "50.00", "50.00"},
			wantPct:     []string{"33.33", "33.33", "33.33"},
		},
		{
			name:        "100 among three assigns remainder to first",
			total:       dec("100.00"),
			users:       []string{"u1", "u2", "u3"},
			wantAmounts: []string{"33.34", "33.33", "33.33"},
			wantPct:     []string{"33.33", "33.33", "33.33"},
		},
		{
			name:        "single participant takes everything",
			total:       dec("42.50"),
			users:       []string{"u1"},
			wantAmounts: []string{"42.50"},
			wantPct:     []string{"100"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := make([]ledger.SplitInput, len(tt.users))
			for i, u := range tt.users {
				inputs[i] = ledger.SplitInput{UserID: u}
			}

			splits, err := ledger.ComputeSplits(tt.total, domain.SplitEqual, inputs)
			require.NoError(t, err)
			require.Len(t, splits, len(tt.users))

			for i, want := range tt.wantAmounts {
				assert.True(t, splits[i].Amount.Equal(dec(want)),
					"split %d amount = %s, want %s", i, splits[i].Amount, want)
			}
			for i, want := range tt.wantPct {
				assert.True(t, splits[i].Percentage.Equal(dec(want)),
					"split %d percentage = %s, want %s", i, splits[i].Percentage, want)
			}
			assertSplitSums(t, tt.total, splits)
		})
	}
}

func TestComputeSplits_Percentage(t *testing.T) {
	inputs := []ledger.SplitInput{
		{UserID: "u1", Percentage: dec("50")},
		{UserID: "u2", Percentage: dec("30")},
		{UserID: "u3", Percentage: dec("20")},
	}

	splits, err := ledger.ComputeSplits(dec("200.00"), domain.SplitPercentage, inputs)
	require.NoError(t, err)

	assert.True(t, splits[0].Amount.Equal(dec("100.00")))
	assert.True(t, splits[1].Amount.Equal(dec("60.00")))
	assert.True(t, splits[2].Amount.Equal(dec("40.00")))
	assertSplitSums(t, dec("200.00"), splits)
}

func TestComputeSplits_PercentageSumMismatch(t *testing.T) {
	inputs := []ledger.SplitInput{
		{UserID: "u1", Percentage: dec("50")},
		{UserID: "u2", Percentage: dec("40")},
	}

	_, err := ledger.ComputeSplits(dec("100.00"), domain.SplitPercentage, inputs)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestComputeSplits_Custom(t *testing.T) {
	inputs := []ledger.SplitInput{
		{UserID: "u1", Amount: dec("70.00")},
		{UserID: "u2", Amount: dec("30.00")},
	}

	splits, err := ledger.ComputeSplits(dec("100.00"), domain.SplitCustom, inputs)
	require.NoError(t, err)

	assert.True(t, splits[0].Percentage.Equal(dec("70")))
	assert.True(t, splits[1].Percentage.Equal(dec("30")))
	assertSplitSums(t, dec("100.00"), splits)
}

func TestComputeSplits_CustomSumMismatch(t *testing.T) {
	inputs := []ledger.SplitInput{
		{UserID: "u1", Amount: dec("70.00")},
		{UserID: "u2", Amount: dec("20.00")},
	}

	_, err := ledger.ComputeSplits(dec("100.00"), domain.SplitCustom, inputs)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestComputeSplits_InvalidInputs(t *testing.T) {
	t.Run("no participants", func(t *testing.T) {
		_, err := ledger.ComputeSplits(dec("10.00"), domain.SplitEqual, nil)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("non-positive total", func(t *testing.T) {
		_, err := ledger.ComputeSplits(dec("0"), domain.SplitEqual, []ledger.SplitInput{{UserID: "u1"}})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := ledger.ComputeSplits(dec("10.00"), domain.SplitMethod("weighted"), []ledger.SplitInput{{UserID: "u1"}})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}
