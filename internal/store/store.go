package store

import (
	"context"
	"time"

	"github.com/culturatoken/ctk-platform/internal/domain"
	"github.com/culturatoken/ctk-platform/internal/ledger"
	"github.com/culturatoken/ctk-platform/internal/store/schema"
)

// CreateInvestmentParams describes a backend token purchase
type CreateInvestmentParams struct {
	// Email identifies the investing account
	Email string
	// ShowID is the public campaign identifier
	ShowID string
	// Amount is the purchase value in USDC-equivalent
	Amount float64
	// PaymentMethod selects the balance to debit
	PaymentMethod domain.PaymentMethod
	// InvestmentID is the public identifier; generated when empty
	InvestmentID string
}

// InvestmentOutcome reports a committed backend investment
type InvestmentOutcome struct {
	Investment schema.Investment
	CTKReward  float64
	// ReachedGoal is true when the purchase pushed the campaign to 100% funded
	ReachedGoal bool
}

// DistributionOutcome reports a committed royalty distribution
type DistributionOutcome struct {
	DistributionID int64
	GrossAmount    float64
	PlatformFee    float64
	NetAmount      float64
	InvestorCount  int
}

// LeaderboardEntry ranks an account by total invested value
type LeaderboardEntry struct {
	Position      int     `json:"position"`
	Email         string  `json:"email"`
	TotalInvested float64 `json:"total_invested"`
}

// Store defines the interface for database operations
type Store interface {
	// CreateUser creates a platform account
	CreateUser(ctx context.Context, user *schema.User) error
	// GetUserByEmail retrieves an account by email
	GetUserByEmail(ctx context.Context, email string) (*schema.User, error)
	// UpdateUserWallet replaces an account's wallet address
	UpdateUserWallet(ctx context.Context, email string, address string) error
	// UpdateUserPreferences replaces an account's recommendation preferences
	UpdateUserPreferences(ctx context.Context, email string, preferences []byte) error

	// CreateShow creates a campaign
	CreateShow(ctx context.Context, show *schema.Show) error
	// GetShowByShowID retrieves a campaign by its public identifier
	GetShowByShowID(ctx context.Context, showID string) (*schema.Show, error)
	// ListShows retrieves all campaigns ordered by creation time
	ListShows(ctx context.Context) ([]schema.Show, error)

	// CreateInvestment atomically validates and commits a token purchase:
	// balances, investment record and campaign funding move together or
	// not at all
	CreateInvestment(ctx context.Context, params CreateInvestmentParams) (*InvestmentOutcome, error)
	// ListInvestments retrieves an account's investments, newest first
	ListInvestments(ctx context.Context, email string) ([]schema.Investment, error)

	// DistributeRoyalties atomically splits a gross amount among a
	// campaign's active investors proportionally to their invested value
	DistributeRoyalties(ctx context.Context, showID string, gross float64, now time.Time) (*DistributionOutcome, error)
	// ClaimRoyalties converts an account's claimable royalties to the
	// chosen payout currency and zeroes the claimable balance
	ClaimRoyalties(ctx context.Context, email string, payout domain.PayoutCurrency) (*ledger.ClaimResult, error)

	// Leaderboard ranks accounts by total invested value
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// EnqueueRevenue queues gross show revenue for the distributor sweep
	EnqueueRevenue(ctx context.Context, showID string, amount float64) error
	// PendingRevenues retrieves queued revenue oldest first
	PendingRevenues(ctx context.Context, limit int) ([]schema.PendingRevenue, error)
	// MarkRevenueDistributed finalizes a queued revenue entry
	MarkRevenueDistributed(ctx context.Context, id int64, distributedAt time.Time) error
	// MarkRevenueFailed records a failed distribution attempt
	MarkRevenueFailed(ctx context.Context, id int64) error
}
