package ledger

import "math"

// Rates holds the platform's financial parameters. The historical client
// hardcoded these in several places with diverging values; they are
// configuration here, with defaults matching the original constants.
type Rates struct {
	// MinInvestment is the smallest accepted investment, in USDC-equivalent value
	MinInvestment float64
	// CTKPerUSDC is the fixed CTK conversion rate per unit of USDC-equivalent value
	CTKPerUSDC float64
	// RewardDivisor controls the CTK reward: 1 CTK per RewardDivisor invested
	RewardDivisor float64
	// PlatformFeeRate is the fraction of every royalty distribution retained by the platform
	PlatformFeeRate float64
	// ClaimBonusRate is the multiplier applied when claiming royalties in CTK
	ClaimBonusRate float64
	// TokenDecimals is the precision of purchased show token quantities
	TokenDecimals int
}

// DefaultRates returns the platform's standard financial parameters
func DefaultRates() Rates {
	return Rates{
		MinInvestment:   100,
		CTKPerUSDC:      2.5,
		RewardDivisor:   5,
		PlatformFeeRate: 0.02,
		ClaimBonusRate:  1.10,
		TokenDecimals:   4,
	}
}

// TokenAmount returns the quantity of show tokens bought for an amount at a
// given price, rounded to the configured token precision
func (r Rates) TokenAmount(amount, pricePerToken float64) float64 {
	return roundTo(amount/pricePerToken, r.TokenDecimals)
}

// CTKCost returns how much CTK is needed to cover a USDC-equivalent amount
func (r Rates) CTKCost(amount float64) float64 {
	return amount / r.CTKPerUSDC
}

// CTKReward returns the CTK reward credited for an invested amount,
// regardless of the payment currency
func (r Rates) CTKReward(amount float64) float64 {
	return amount / r.RewardDivisor
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow10(decimals)
	return math.Round(v*factor) / factor
}
