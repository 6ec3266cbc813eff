package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/culturatoken/ctk-platform/internal/domain"
	"github.com/culturatoken/ctk-platform/internal/ledger"
	"github.com/culturatoken/ctk-platform/internal/notify"
	"github.com/culturatoken/ctk-platform/internal/recommender"
	"github.com/culturatoken/ctk-platform/internal/store"
	"github.com/culturatoken/ctk-platform/internal/store/schema"
	"github.com/culturatoken/ctk-platform/internal/wallet"
)

// Config holds executor parameters
type Config struct {
	// InitialUSDC and InitialCTK seed the balances of a new registration
	InitialUSDC float64
	InitialCTK  float64
}

// Executor is the interface for the API business logic
type Executor interface {
	// RegisterUser creates an account. An empty wallet address gets a
	// custodial wallet derived from the email.
	RegisterUser(ctx context.Context, email, walletAddress string, prefs domain.Preferences) (*schema.User, error)
	// GetUser retrieves an account by email
	GetUser(ctx context.Context, email string) (*schema.User, error)
	// UpdatePreferences replaces an account's recommendation preferences
	UpdatePreferences(ctx context.Context, email string, prefs domain.Preferences) error
	// ConnectWallet replaces an account's wallet address
	ConnectWallet(ctx context.Context, email, walletAddress string) (*schema.User, error)

	// CreateShow creates a campaign
	CreateShow(ctx context.Context, show *schema.Show) (*schema.Show, error)
	// GetShow retrieves a campaign by its public identifier
	GetShow(ctx context.Context, showID string) (*schema.Show, error)
	// ListShows lists all campaigns
	ListShows(ctx context.Context) ([]schema.Show, error)

	// CreateInvestment commits a token purchase and publishes the
	// resulting ledger event
	CreateInvestment(ctx context.Context, email, showID string, amount float64, method domain.PaymentMethod) (*store.InvestmentOutcome, error)
	// ListInvestments lists an account's investments, newest first
	ListInvestments(ctx context.Context, email string) ([]schema.Investment, error)

	// DistributeRoyalties splits gross revenue among a campaign's investors
	DistributeRoyalties(ctx context.Context, showID string, gross float64) (*store.DistributionOutcome, error)
	// ClaimRoyalties converts an account's claimable royalties
	ClaimRoyalties(ctx context.Context, email string, payout domain.PayoutCurrency) (*ledger.ClaimResult, error)

	// Recommendations ranks open campaigns for an account's preferences
	Recommendations(ctx context.Context, email string) ([]recommender.Recommendation, error)
	// Leaderboard ranks accounts by total invested value
	Leaderboard(ctx context.Context, limit int) ([]store.LeaderboardEntry, error)

	// EnqueueRevenue queues gross show revenue for the distributor sweep
	EnqueueRevenue(ctx context.Context, showID string, amount float64) error
}

type executor struct {
	cfg       Config
	store     store.Store
	rec       *recommender.Recommender
	publisher notify.Publisher
}

// NewExecutor creates the API executor
func NewExecutor(cfg Config, st store.Store, rec *recommender.Recommender, publisher notify.Publisher) Executor {
	if publisher == nil {
		publisher = notify.NoopPublisher{}
	}
	return &executor{cfg: cfg, store: st, rec: rec, publisher: publisher}
}

func (e *executor) RegisterUser(ctx context.Context, email, walletAddress string, prefs domain.Preferences) (*schema.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if walletAddress == "" {
		walletAddress = wallet.DeriveCustodialAddress(email)
	}

	prefsJSON, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize preferences: %w", err)
	}

	user := &schema.User{
		Email:         email,
		WalletAddress: walletAddress,
		BalanceUSDC:   e.cfg.InitialUSDC,
		BalanceCTK:    e.cfg.InitialCTK,
		Preferences:   prefsJSON,
	}
	if err := e.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (e *executor) GetUser(ctx context.Context, email string) (*schema.User, error) {
	return e.store.GetUserByEmail(ctx, email)
}

func (e *executor) UpdatePreferences(ctx context.Context, email string, prefs domain.Preferences) error {
	if !domain.IsValidRiskLevel(prefs.RiskTolerance) {
		return fmt.Errorf("invalid risk tolerance %q", prefs.RiskTolerance)
	}
	if !domain.IsValidInvestmentGoal(prefs.InvestmentGoal) {
		return fmt.Errorf("invalid investment goal %q", prefs.InvestmentGoal)
	}

	prefsJSON, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to serialize preferences: %w", err)
	}
	return e.store.UpdateUserPreferences(ctx, email, prefsJSON)
}

func (e *executor) ConnectWallet(ctx context.Context, email, walletAddress string) (*schema.User, error) {
	if wallet.KindFromAddress(walletAddress, email) == domain.WalletOther {
		return nil, fmt.Errorf("unrecognized wallet address %q", walletAddress)
	}
	if err := e.store.UpdateUserWallet(ctx, email, walletAddress); err != nil {
		return nil, err
	}
	return e.store.GetUserByEmail(ctx, email)
}

func (e *executor) CreateShow(ctx context.Context, show *schema.Show) (*schema.Show, error) {
	if show.ShowID == "" {
		show.ShowID = ulid.Make().String()
	}
	if show.Status == "" {
		show.Status = string(domain.ShowFunding)
	}
	if err := e.store.CreateShow(ctx, show); err != nil {
		return nil, err
	}
	return show, nil
}

func (e *executor) GetShow(ctx context.Context, showID string) (*schema.Show, error) {
	return e.store.GetShowByShowID(ctx, showID)
}

func (e *executor) ListShows(ctx context.Context) ([]schema.Show, error) {
	return e.store.ListShows(ctx)
}

func (e *executor) CreateInvestment(ctx context.Context, email, showID string, amount float64, method domain.PaymentMethod) (*store.InvestmentOutcome, error) {
	outcome, err := e.store.CreateInvestment(ctx, store.CreateInvestmentParams{
		Email:         email,
		ShowID:        showID,
		Amount:        amount,
		PaymentMethod: method,
	})
	if err != nil {
		return nil, err
	}

	e.publishEvent(ctx, notify.EventInvestmentCreated, email, showID, amount)
	return outcome, nil
}

func (e *executor) ListInvestments(ctx context.Context, email string) ([]schema.Investment, error) {
	return e.store.ListInvestments(ctx, email)
}

func (e *executor) DistributeRoyalties(ctx context.Context, showID string, gross float64) (*store.DistributionOutcome, error) {
	outcome, err := e.store.DistributeRoyalties(ctx, showID, gross, time.Now())
	if err != nil {
		return nil, err
	}

	e.publishEvent(ctx, notify.EventRoyaltiesDistributed, "", showID, gross)
	return outcome, nil
}

func (e *executor) ClaimRoyalties(ctx context.Context, email string, payout domain.PayoutCurrency) (*ledger.ClaimResult, error) {
	result, err := e.store.ClaimRoyalties(ctx, email, payout)
	if err != nil {
		return nil, err
	}

	e.publishEvent(ctx, notify.EventRoyaltiesClaimed, email, "", result.Claimed)
	return result, nil
}

func (e *executor) Recommendations(ctx context.Context, email string) ([]recommender.Recommendation, error) {
	user, err := e.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var prefs domain.Preferences
	if len(user.Preferences) > 0 {
		if err := json.Unmarshal(user.Preferences, &prefs); err != nil {
			return nil, fmt.Errorf("failed to parse preferences: %w", err)
		}
	}

	shows, err := e.store.ListShows(ctx)
	if err != nil {
		return nil, err
	}

	catalog := make([]domain.Show, len(shows))
	for i := range shows {
		catalog[i] = domain.Show{
			ID:             shows[i].ShowID,
			Name:           shows[i].Name,
			Description:    shows[i].Description,
			Genre:          domain.Genre(shows[i].Genre),
			TargetAmount:   shows[i].TargetAmount,
			FundedPercent:  shows[i].FundedPercent,
			ROI:            shows[i].ROI,
			RiskLevel:      domain.RiskLevel(shows[i].RiskLevel),
			TotalTokens:    shows[i].TotalTokens,
			PricePerToken:  shows[i].PricePerToken,
			DurationMonths: shows[i].DurationMonths,
			Status:         domain.ShowStatus(shows[i].Status),
		}
	}

	return e.rec.Recommend(catalog, prefs), nil
}

func (e *executor) Leaderboard(ctx context.Context, limit int) ([]store.LeaderboardEntry, error) {
	return e.store.Leaderboard(ctx, limit)
}

func (e *executor) EnqueueRevenue(ctx context.Context, showID string, amount float64) error {
	return e.store.EnqueueRevenue(ctx, showID, amount)
}

func (e *executor) publishEvent(ctx context.Context, eventType notify.EventType, email, showID string, amount float64) {
	// Broker failures must not fail the committed operation
	_ = e.publisher.PublishEvent(ctx, &notify.LedgerEvent{
		ID:         notify.NewEventID(),
		Type:       eventType,
		Email:      email,
		ShowID:     showID,
		Amount:     amount,
		OccurredAt: time.Now(),
	})
}
