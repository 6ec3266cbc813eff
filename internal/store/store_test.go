package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/culturatoken/ctk-platform/internal/domain"
	"github.com/culturatoken/ctk-platform/internal/store/schema"
)

// RunStoreTests runs the full store test suite against any Store
// implementation
func RunStoreTests(t *testing.T, initStore func(t *testing.T) Store) {
	t.Run("UserLifecycle", func(t *testing.T) { testUserLifecycle(t, initStore(t)) })
	t.Run("ShowLifecycle", func(t *testing.T) { testShowLifecycle(t, initStore(t)) })
	t.Run("CreateInvestment", func(t *testing.T) { testCreateInvestment(t, initStore(t)) })
	t.Run("CreateInvestmentValidation", func(t *testing.T) { testCreateInvestmentValidation(t, initStore(t)) })
	t.Run("DistributeRoyalties", func(t *testing.T) { testDistributeRoyalties(t, initStore(t)) })
	t.Run("ClaimRoyalties", func(t *testing.T) { testClaimRoyalties(t, initStore(t)) })
	t.Run("Leaderboard", func(t *testing.T) { testLeaderboard(t, initStore(t)) })
	t.Run("PendingRevenueFlow", func(t *testing.T) { testPendingRevenueFlow(t, initStore(t)) })
}

func seedUser(t *testing.T, s Store, email string, usdc, ctk float64) *schema.User {
	t.Helper()
	user := &schema.User{
		Email:         email,
		WalletAddress: "0x1234567890123456789012345678901234567890",
		BalanceUSDC:   usdc,
		BalanceCTK:    ctk,
		Preferences:   datatypes.JSON([]byte(`{"favorite_genres":["teatro"],"risk_tolerance":"medium","investment_goal":"income"}`)),
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func seedShow(t *testing.T, s Store, showID string, funded float64) *schema.Show {
	t.Helper()
	show := &schema.Show{
		ShowID:         showID,
		Name:           "La Noche Boca Arriba",
		Genre:          string(domain.GenreTeatro),
		TargetAmount:   50000,
		FundedPercent:  funded,
		ROI:            12,
		RiskLevel:      string(domain.RiskMedium),
		TotalTokens:    1000,
		PricePerToken:  50,
		DurationMonths: 8,
		Status:         string(domain.ShowFunding),
	}
	require.NoError(t, s.CreateShow(context.Background(), show))
	return show
}

func testUserLifecycle(t *testing.T, s Store) {
	ctx := context.Background()
	seedUser(t, s, "ana@example.com", 1000, 50)

	user, err := s.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, user.BalanceUSDC)
	assert.Equal(t, 50.0, user.BalanceCTK)

	_, err = s.GetUserByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	require.NoError(t, s.UpdateUserWallet(ctx, "ana@example.com", "0xabc0000000000000000000000000000000000001"))
	user, err = s.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "0xabc0000000000000000000000000000000000001", user.WalletAddress)

	err = s.UpdateUserWallet(ctx, "ghost@example.com", "0xabc0000000000000000000000000000000000001")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	prefs := []byte(`{"favorite_genres":["circo"],"risk_tolerance":"high","investment_goal":"growth"}`)
	require.NoError(t, s.UpdateUserPreferences(ctx, "ana@example.com", prefs))
	user, err = s.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.JSONEq(t, string(prefs), string(user.Preferences))
}

func testShowLifecycle(t *testing.T, s Store) {
	ctx := context.Background()
	seedShow(t, s, "show-1", 78)
	seedShow(t, s, "show-2", 40)

	show, err := s.GetShowByShowID(ctx, "show-1")
	require.NoError(t, err)
	assert.Equal(t, "La Noche Boca Arriba", show.Name)
	assert.Equal(t, 78.0, show.FundedPercent)

	_, err = s.GetShowByShowID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrShowNotFound)

	shows, err := s.ListShows(ctx)
	require.NoError(t, err)
	require.Len(t, shows, 2)
	assert.Equal(t, "show-1", shows[0].ShowID)
}

func testCreateInvestment(t *testing.T, s Store) {
	ctx := context.Background()
	seedUser(t, s, "ana@example.com", 1000, 50)
	seedShow(t, s, "show-1", 78)

	outcome, err := s.CreateInvestment(ctx, CreateInvestmentParams{
		Email:         "ana@example.com",
		ShowID:        "show-1",
		Amount:        500,
		PaymentMethod: domain.PayUSDC,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, outcome.CTKReward)
	assert.Equal(t, 10.0, outcome.Investment.Tokens)
	assert.False(t, outcome.ReachedGoal)
	assert.NotEmpty(t, outcome.Investment.InvestmentID)

	user, err := s.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.InDelta(t, 500.0, user.BalanceUSDC, 1e-6)
	assert.InDelta(t, 150.0, user.BalanceCTK, 1e-6)
	assert.InDelta(t, 500.0, user.TotalInvested, 1e-6)

	show, err := s.GetShowByShowID(ctx, "show-1")
	require.NoError(t, err)
	assert.InDelta(t, 79.0, show.FundedPercent, 1e-6)

	investments, err := s.ListInvestments(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Len(t, investments, 1)
	assert.Equal(t, outcome.Investment.InvestmentID, investments[0].InvestmentID)
	assert.Equal(t, string(domain.InvestmentActive), investments[0].Status)
}

func testCreateInvestmentValidation(t *testing.T, s Store) {
	ctx := context.Background()
	seedUser(t, s, "ana@example.com", 1000, 50)
	seedShow(t, s, "show-1", 78)
	seedShow(t, s, "show-full", 100)

	tests := []struct {
		name    string
		params  CreateInvestmentParams
		wantErr error
	}{
		{
			name: "below minimum",
			params: CreateInvestmentParams{
				Email: "ana@example.com", ShowID: "show-1",
				Amount: 50, PaymentMethod: domain.PayUSDC,
			},
			wantErr: domain.ErrBelowMinimumInvestment,
		},
		{
			name: "insufficient balance",
			params: CreateInvestmentParams{
				Email: "ana@example.com", ShowID: "show-1",
				Amount: 5000, PaymentMethod: domain.PayUSDC,
			},
			wantErr: domain.ErrInsufficientBalance,
		},
		{
			name: "fully funded show",
			params: CreateInvestmentParams{
				Email: "ana@example.com", ShowID: "show-full",
				Amount: 500, PaymentMethod: domain.PayUSDC,
			},
			wantErr: domain.ErrShowFullyFunded,
		},
		{
			name: "unknown user",
			params: CreateInvestmentParams{
				Email: "ghost@example.com", ShowID: "show-1",
				Amount: 500, PaymentMethod: domain.PayUSDC,
			},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "unknown show",
			params: CreateInvestmentParams{
				Email: "ana@example.com", ShowID: "missing",
				Amount: 500, PaymentMethod: domain.PayUSDC,
			},
			wantErr: domain.ErrShowNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateInvestment(ctx, tc.params)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	// Failed attempts leave balances untouched
	user, err := s.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, user.BalanceUSDC, 1e-6)
	assert.Zero(t, user.TotalInvested)
}

func testDistributeRoyalties(t *testing.T, s Store) {
	ctx := context.Background()
	seedUser(t, s, "ana@example.com", 1000, 0)
	seedUser(t, s, "bob@example.com", 1000, 0)
	seedShow(t, s, "show-1", 10)

	// Ana invests 600, Bob 200: shares should split 75% / 25%
	_, err := s.CreateInvestment(ctx, CreateInvestmentParams{
		Email: "ana@example.com", ShowID: "show-1",
		Amount: 600, PaymentMethod: domain.PayUSDC,
	})
	require.NoError(t, err)
	_, err = s.CreateInvestment(ctx, CreateInvestmentParams{
		Email: "bob@example.com", ShowID: "show-1",
		Amount: 200, PaymentMethod: domain.PayUSDC,
	})
	require.NoError(t, err)

	outcome, err := s.DistributeRoyalties(ctx, "show-1", 1000, time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 20.0, outcome.PlatformFee, 1e-6)
	assert.InDelta(t, 980.0, outcome.NetAmount, 1e-6)
	assert.Equal(t, 2, outcome.InvestorCount)

	ana, err := s.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.InDelta(t, 735.0, ana.Royalties, 1e-6)

	bob, err := s.GetUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.InDelta(t, 245.0, bob.Royalties, 1e-6)

	// No investors means no distribution
	seedShow(t, s, "show-empty", 10)
	_, err = s.DistributeRoyalties(ctx, "show-empty", 1000, time.Now())
	assert.ErrorIs(t, err, domain.ErrNoActiveInvestors)

	_, err = s.DistributeRoyalties(ctx, "missing", 1000, time.Now())
	assert.ErrorIs(t, err, domain.ErrShowNotFound)
}

func testClaimRoyalties(t *testing.T, s Store) {
	ctx := context.Background()
	seedUser(t, s, "ana@example.com", 1000, 0)
	seedShow(t, s, "show-1", 10)

	_, err := s.CreateInvestment(ctx, CreateInvestmentParams{
		Email: "ana@example.com", ShowID: "show-1",
		Amount: 500, PaymentMethod: domain.PayUSDC,
	})
	require.NoError(t, err)
	_, err = s.DistributeRoyalties(ctx, "show-1", 125.50, time.Now())
	require.NoError(t, err)

	// 125.50 × 0.98 = 122.99 claimable, as CTK: (122.99 / 2.5) × 1.1
	claim, err := s.ClaimRoyalties(ctx, "ana@example.com", domain.PayoutCTK)
	require.NoError(t, err)
	assert.InDelta(t, 122.99, claim.Claimed, 1e-6)
	assert.InDelta(t, 54.1156, claim.Credited, 1e-4)

	user, err := s.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Zero(t, user.Royalties)
	assert.InDelta(t, 100.0+claim.Credited, user.BalanceCTK, 1e-4)

	// Nothing left to claim
	_, err = s.ClaimRoyalties(ctx, "ana@example.com", domain.PayoutUSDC)
	assert.ErrorIs(t, err, domain.ErrNoClaimableRoyalties)
}

func testLeaderboard(t *testing.T, s Store) {
	ctx := context.Background()
	seedUser(t, s, "ana@example.com", 10000, 0)
	seedUser(t, s, "bob@example.com", 10000, 0)
	seedUser(t, s, "carla@example.com", 10000, 0)
	seedShow(t, s, "show-1", 0)

	for email, amount := range map[string]float64{
		"ana@example.com":   2000,
		"bob@example.com":   3500,
		"carla@example.com": 1000,
	} {
		_, err := s.CreateInvestment(ctx, CreateInvestmentParams{
			Email: email, ShowID: "show-1",
			Amount: amount, PaymentMethod: domain.PayUSDC,
		})
		require.NoError(t, err)
	}

	entries, err := s.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, "bob@example.com", entries[0].Email)
	assert.InDelta(t, 3500.0, entries[0].TotalInvested, 1e-6)
	assert.Equal(t, 2, entries[1].Position)
	assert.Equal(t, "ana@example.com", entries[1].Email)
}

func testPendingRevenueFlow(t *testing.T, s Store) {
	ctx := context.Background()
	seedShow(t, s, "show-1", 10)

	require.NoError(t, s.EnqueueRevenue(ctx, "show-1", 800))
	require.NoError(t, s.EnqueueRevenue(ctx, "show-1", 1200))
	assert.ErrorIs(t, s.EnqueueRevenue(ctx, "show-1", 0), domain.ErrInvalidAmount)
	assert.ErrorIs(t, s.EnqueueRevenue(ctx, "missing", 100), domain.ErrShowNotFound)

	pending, err := s.PendingRevenues(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, 800.0, pending[0].Amount)
	assert.Equal(t, "show-1", pending[0].Show.ShowID)

	require.NoError(t, s.MarkRevenueDistributed(ctx, pending[0].ID, time.Now()))
	require.NoError(t, s.MarkRevenueFailed(ctx, pending[1].ID))

	remaining, err := s.PendingRevenues(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// IDs are validated
	err = s.MarkRevenueDistributed(ctx, 999999, time.Now())
	assert.Error(t, err)
}
