package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culturatoken/ctk-platform/internal/domain"
	"github.com/culturatoken/ctk-platform/internal/ledger"
)

func TestSplitShares(t *testing.T) {
	rates := ledger.DefaultRates()

	tests := []struct {
		name        string
		gross       float64
		invested    []float64
		expectedErr error
	}{
		{name: "even split", gross: 1000, invested: []float64{500, 500}},
		{name: "proportional split", gross: 1000, invested: []float64{100, 300, 600}},
		{name: "single investor", gross: 250.75, invested: []float64{1234.56}},
		{name: "zero gross", gross: 0, invested: []float64{100}, expectedErr: domain.ErrInvalidAmount},
		{name: "negative gross", gross: -5, invested: []float64{100}, expectedErr: domain.ErrInvalidAmount},
		{name: "no investors", gross: 1000, invested: nil, expectedErr: domain.ErrNoActiveInvestors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, fee, err := rates.SplitShares(tt.gross, tt.invested)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, shares, len(tt.invested))
			assert.InDelta(t, tt.gross*0.02, fee, 1e-9)

			// Sum of shares equals gross minus the platform fee
			var sum float64
			for _, s := range shares {
				sum += s
			}
			assert.InDelta(t, tt.gross*0.98, sum, 1e-9)

			// Shares are proportional to invested value
			var totalInvested float64
			for _, v := range tt.invested {
				totalInvested += v
			}
			for i, v := range tt.invested {
				assert.InDelta(t, (v/totalInvested)*tt.gross*0.98, shares[i], 1e-9)
			}
		})
	}
}

func TestDistributeRoyalties(t *testing.T) {
	rates := ledger.DefaultRates()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	profile := testProfile()
	profile.Investments = []domain.Investment{
		{ID: "01A", ShowID: "show-1", TotalValue: 300, Status: domain.InvestmentActive},
		{ID: "01B", ShowID: "show-1", TotalValue: 700, Status: domain.InvestmentActive},
		{ID: "01C", ShowID: "show-1", TotalValue: 999, Status: domain.InvestmentCancelled},
		{ID: "01D", ShowID: "show-2", TotalValue: 400, Status: domain.InvestmentActive},
	}
	show := testShow()

	result, err := rates.DistributeRoyalties(profile, show, 1000, now)
	require.NoError(t, err)

	assert.InDelta(t, 20, result.PlatformFee, 1e-9)
	assert.InDelta(t, 980, result.NetAmount, 1e-9)
	assert.Equal(t, 2, result.InvestorCount)
	// Both active show-1 investments belong to this profile
	assert.InDelta(t, 980, result.ShareCredited, 1e-9)
	assert.InDelta(t, 980, profile.Royalties, 1e-9)

	require.Len(t, show.RoyaltyDistributions, 1)
	dist := show.RoyaltyDistributions[0]
	assert.Equal(t, now, dist.Date)
	assert.InDelta(t, 1000, dist.GrossAmount, 1e-9)
	assert.Equal(t, 2, dist.InvestorCount)
	assert.InDelta(t, 490, dist.PerInvestor, 1e-9)
}

func TestDistributeRoyalties_NoActiveInvestors(t *testing.T) {
	rates := ledger.DefaultRates()

	profile := testProfile()
	profile.Investments = []domain.Investment{
		{ID: "01A", ShowID: "show-1", TotalValue: 300, Status: domain.InvestmentCancelled},
	}
	show := testShow()

	_, err := rates.DistributeRoyalties(profile, show, 1000, time.Now())
	require.ErrorIs(t, err, domain.ErrNoActiveInvestors)
	assert.Zero(t, profile.Royalties)
	assert.Empty(t, show.RoyaltyDistributions)
}

func TestClaimRoyalties(t *testing.T) {
	rates := ledger.DefaultRates()

	t.Run("claim in USDC pays one to one", func(t *testing.T) {
		profile := testProfile()
		profile.Royalties = 125.50

		result, err := rates.ClaimRoyalties(profile, domain.PayoutUSDC)
		require.NoError(t, err)
		assert.InDelta(t, 125.50, result.Credited, 1e-9)
		assert.InDelta(t, 1125.50, profile.BalanceUSDC, 1e-9)
		assert.Zero(t, profile.Royalties)
	})

	t.Run("claim in CTK applies conversion and bonus", func(t *testing.T) {
		profile := testProfile()
		profile.Royalties = 125.50

		result, err := rates.ClaimRoyalties(profile, domain.PayoutCTK)
		require.NoError(t, err)
		// (125.50 / 2.5) * 1.1 = 55.22
		assert.InDelta(t, 55.22, result.Credited, 1e-9)
		assert.InDelta(t, 105.22, profile.BalanceCTK, 1e-9)
		assert.Zero(t, profile.Royalties)
	})

	t.Run("second claim fails without mutation", func(t *testing.T) {
		profile := testProfile()
		profile.Royalties = 50

		_, err := rates.ClaimRoyalties(profile, domain.PayoutUSDC)
		require.NoError(t, err)

		before := profile.Clone()
		_, err = rates.ClaimRoyalties(profile, domain.PayoutUSDC)
		require.ErrorIs(t, err, domain.ErrNoClaimableRoyalties)
		assert.Equal(t, before, profile)
	})
}
