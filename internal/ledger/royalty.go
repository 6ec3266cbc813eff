package ledger

import (
	"time"

	"github.com/culturatoken/ctk-platform/internal/domain"
)

// DistributionResult reports the effects of a royalty distribution
type DistributionResult struct {
	GrossAmount   float64 `json:"gross_amount"`
	PlatformFee   float64 `json:"platform_fee"`
	NetAmount     float64 `json:"net_amount"`
	InvestorCount int     `json:"investor_count"`
	// ShareCredited is the amount added to the profile's claimable royalties
	ShareCredited float64 `json:"share_credited"`
}

// ClaimResult reports the effects of claiming royalties
type ClaimResult struct {
	// Claimed is the royalty balance that was converted
	Claimed float64 `json:"claimed"`
	// Credited is the amount added to the payout currency balance
	Credited float64               `json:"credited"`
	Currency domain.PayoutCurrency `json:"currency"`
}

// SplitShares computes the proportional per-investor shares of a gross
// distribution after the platform fee. The returned shares sum to
// gross × (1 − fee) exactly up to floating point rounding. The second
// return value is the platform fee.
func (r Rates) SplitShares(gross float64, invested []float64) ([]float64, float64, error) {
	if gross <= 0 {
		return nil, 0, domain.ErrInvalidAmount
	}
	if len(invested) == 0 {
		return nil, 0, domain.ErrNoActiveInvestors
	}

	var totalInvested float64
	for _, v := range invested {
		totalInvested += v
	}
	if totalInvested <= 0 {
		return nil, 0, domain.ErrNoActiveInvestors
	}

	fee := gross * r.PlatformFeeRate
	net := gross - fee

	shares := make([]float64, len(invested))
	for i, v := range invested {
		shares[i] = (v / totalInvested) * net
	}

	return shares, fee, nil
}

// DistributeRoyalties splits a gross amount among the profile's active
// investments in the show, credits the claimable royalty balance, and
// appends a distribution record to the show. All computation happens before
// the first write, so a failed distribution leaves both arguments untouched.
func (r Rates) DistributeRoyalties(profile *domain.UserProfile, show *domain.Show, gross float64, now time.Time) (*DistributionResult, error) {
	investors := profile.ActiveInvestments(show.ID)

	invested := make([]float64, len(investors))
	for i, inv := range investors {
		invested[i] = inv.TotalValue
	}

	shares, fee, err := r.SplitShares(gross, invested)
	if err != nil {
		return nil, err
	}

	var credited float64
	for _, share := range shares {
		credited += share
	}

	profile.Royalties += credited
	show.RoyaltyDistributions = append(show.RoyaltyDistributions, domain.RoyaltyDistribution{
		Date:          now,
		GrossAmount:   gross,
		InvestorCount: len(investors),
		PerInvestor:   (gross - fee) / float64(len(investors)),
	})

	return &DistributionResult{
		GrossAmount:   gross,
		PlatformFee:   fee,
		NetAmount:     gross - fee,
		InvestorCount: len(investors),
		ShareCredited: credited,
	}, nil
}

// ClaimRoyalties converts the full claimable royalty balance to the chosen
// payout currency and zeroes it. USDC pays out 1:1; CTK converts at the
// platform rate with the claim bonus applied. A second claim with nothing
// accrued fails without mutating the profile.
func (r Rates) ClaimRoyalties(profile *domain.UserProfile, payout domain.PayoutCurrency) (*ClaimResult, error) {
	if profile.Royalties <= 0 {
		return nil, domain.ErrNoClaimableRoyalties
	}

	amount := profile.Royalties
	result := &ClaimResult{Claimed: amount, Currency: payout}

	switch payout {
	case domain.PayoutUSDC:
		result.Credited = amount
		profile.BalanceUSDC += amount
	case domain.PayoutCTK:
		result.Credited = (amount / r.CTKPerUSDC) * r.ClaimBonusRate
		profile.BalanceCTK += result.Credited
	default:
		return nil, domain.ErrInvalidAmount
	}

	profile.Royalties = 0
	return result, nil
}
