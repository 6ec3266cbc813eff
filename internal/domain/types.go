package domain

import (
	"time"
)

// WalletKind represents how a user's wallet is managed
type WalletKind string

const (
	WalletCustodial WalletKind = "custodial"
	WalletMetamask  WalletKind = "metamask"
	WalletPhantom   WalletKind = "phantom"
	WalletOther     WalletKind = "other"
)

// RiskLevel represents the risk profile of a show or a user's tolerance
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// IsValidRiskLevel checks if a risk level is valid
func IsValidRiskLevel(r RiskLevel) bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// InvestmentGoal represents what a user wants out of their investments
type InvestmentGoal string

const (
	GoalGrowth          InvestmentGoal = "growth"
	GoalIncome          InvestmentGoal = "income"
	GoalDiversification InvestmentGoal = "diversification"
)

// IsValidInvestmentGoal checks if an investment goal is valid
func IsValidInvestmentGoal(g InvestmentGoal) bool {
	return g == GoalGrowth || g == GoalIncome || g == GoalDiversification
}

// PaymentMethod represents the currency used to pay for an investment
type PaymentMethod string

const (
	PayUSDC PaymentMethod = "usdc"
	PayCTK  PaymentMethod = "ctk"
)

// IsValidPaymentMethod checks if a payment method is valid
func IsValidPaymentMethod(m PaymentMethod) bool {
	return m == PayUSDC || m == PayCTK
}

// PayoutCurrency represents the currency royalties are claimed in
type PayoutCurrency string

const (
	PayoutUSDC PayoutCurrency = "usdc"
	PayoutCTK  PayoutCurrency = "ctk"
)

// IsValidPayoutCurrency checks if a payout currency is valid
func IsValidPayoutCurrency(c PayoutCurrency) bool {
	return c == PayoutUSDC || c == PayoutCTK
}

// InvestmentStatus represents the lifecycle state of an investment
type InvestmentStatus string

const (
	InvestmentActive    InvestmentStatus = "active"
	InvestmentCompleted InvestmentStatus = "completed"
	InvestmentCancelled InvestmentStatus = "cancelled"
)

// ShowStatus represents the lifecycle state of a show campaign
type ShowStatus string

const (
	ShowFunding    ShowStatus = "funding"
	ShowProduction ShowStatus = "production"
	ShowCompleted  ShowStatus = "completed"
	ShowCancelled  ShowStatus = "cancelled"
)

// Genre represents the cultural genre of a show
type Genre string

const (
	GenreTeatro  Genre = "teatro"
	GenreCirco   Genre = "circo"
	GenreDanza   Genre = "danza"
	GenreMusical Genre = "musical"
)

// Preferences holds a user's investment preferences used for recommendations
type Preferences struct {
	FavoriteGenres []Genre        `json:"favorite_genres"`
	RiskTolerance  RiskLevel      `json:"risk_tolerance"`
	InvestmentGoal InvestmentGoal `json:"investment_goal"`
}

// LikesGenre reports whether the genre is among the user's favorites
func (p Preferences) LikesGenre(g Genre) bool {
	for _, fav := range p.FavoriteGenres {
		if fav == g {
			return true
		}
	}
	return false
}

// Investment records a single token purchase in a show
type Investment struct {
	// ID is a ULID assigned at purchase time
	ID string `json:"id"`
	// ShowID references the show the tokens belong to
	ShowID string `json:"show_id"`
	// ShowName is denormalized for display without a catalog lookup
	ShowName string `json:"show_name"`
	// Tokens is the quantity of show tokens purchased
	Tokens float64 `json:"tokens"`
	// TotalValue is the amount paid, in USDC-equivalent value
	TotalValue float64 `json:"total_value"`
	// ROI is the show's annual ROI percentage snapshotted at purchase time
	ROI float64 `json:"roi"`
	// Date is the purchase timestamp
	Date time.Time `json:"date"`
	// Status is the lifecycle state of this investment
	Status InvestmentStatus `json:"status"`
}

// Active reports whether the investment participates in royalty distributions
func (i Investment) Active() bool {
	return i.Status == InvestmentActive
}

// RoyaltyDistribution records a lump royalty payout split among a show's investors
type RoyaltyDistribution struct {
	// Date is when the distribution happened
	Date time.Time `json:"date"`
	// GrossAmount is the full distributed amount before the platform fee
	GrossAmount float64 `json:"gross_amount"`
	// InvestorCount is the number of active investors at distribution time
	InvestorCount int `json:"investor_count"`
	// PerInvestor is the net pool divided by investor count, kept so individual
	// shares can be reconstructed from history
	PerInvestor float64 `json:"per_investor"`
}

// Show represents a fundable cultural production campaign
type Show struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Genre          Genre      `json:"genre"`
	TargetAmount   float64    `json:"target_amount"`
	FundedPercent  float64    `json:"funded_percent"`
	ROI            float64    `json:"roi"`
	RiskLevel      RiskLevel  `json:"risk_level"`
	TotalTokens    float64    `json:"total_tokens"`
	PricePerToken  float64    `json:"price_per_token"`
	DurationMonths int        `json:"duration_months"`
	Status         ShowStatus `json:"status"`

	RoyaltyDistributions []RoyaltyDistribution `json:"royalty_distributions,omitempty"`
}

// TotalValue returns the full token value of the show
func (s *Show) TotalValue() float64 {
	return s.TotalTokens * s.PricePerToken
}

// RemainingCapacity returns how much value can still be invested before the
// show is fully funded
func (s *Show) RemainingCapacity() float64 {
	remaining := s.TotalValue() * (1 - s.FundedPercent/100)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FullyFunded reports whether the show reached its funding goal
func (s *Show) FullyFunded() bool {
	return s.FundedPercent >= 100
}

// Clone returns a deep copy of the show
func (s *Show) Clone() *Show {
	clone := *s
	clone.RoyaltyDistributions = append([]RoyaltyDistribution(nil), s.RoyaltyDistributions...)
	return &clone
}

// UserProfile holds the full state of a platform user
type UserProfile struct {
	Email         string     `json:"email"`
	WalletAddress string     `json:"wallet_address"`
	WalletKind    WalletKind `json:"wallet_kind"`
	BalanceUSDC   float64    `json:"balance_usdc"`
	BalanceCTK    float64    `json:"balance_ctk"`
	// Royalties is the claimable royalty balance accumulated by distributions
	Royalties float64 `json:"royalties"`
	// Position is the derived leaderboard position, not authoritative
	Position      int          `json:"position"`
	TotalInvested float64      `json:"total_invested"`
	Investments   []Investment `json:"investments"`
	Preferences   Preferences  `json:"preferences"`
}

// Clone returns a deep copy of the profile so mutations can be staged and
// committed or discarded as a unit
func (p *UserProfile) Clone() *UserProfile {
	clone := *p
	clone.Investments = append([]Investment(nil), p.Investments...)
	clone.Preferences.FavoriteGenres = append([]Genre(nil), p.Preferences.FavoriteGenres...)
	return &clone
}

// ActiveInvestments returns the profile's active investments in a show
func (p *UserProfile) ActiveInvestments(showID string) []Investment {
	var active []Investment
	for _, inv := range p.Investments {
		if inv.ShowID == showID && inv.Active() {
			active = append(active, inv)
		}
	}
	return active
}
