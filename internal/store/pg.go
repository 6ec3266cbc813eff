package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/culturatoken/ctk-platform/internal/domain"
	"github.com/culturatoken/ctk-platform/internal/ledger"
	"github.com/culturatoken/ctk-platform/internal/store/schema"
)

type pgStore struct {
	db    *gorm.DB
	rates ledger.Rates
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB, rates ledger.Rates) Store {
	return &pgStore{db: db, rates: rates}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults: 20 open, 5 idle,
// 5 minute lifetime, 10 minute idle time.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

func (s *pgStore) CreateUser(ctx context.Context, user *schema.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *pgStore) GetUserByEmail(ctx context.Context, email string) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *pgStore) UpdateUserWallet(ctx context.Context, email string, address string) error {
	result := s.db.WithContext(ctx).Model(&schema.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"wallet_address": address,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *pgStore) UpdateUserPreferences(ctx context.Context, email string, preferences []byte) error {
	result := s.db.WithContext(ctx).Model(&schema.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"preferences": preferences,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *pgStore) CreateShow(ctx context.Context, show *schema.Show) error {
	return s.db.WithContext(ctx).Create(show).Error
}

func (s *pgStore) GetShowByShowID(ctx context.Context, showID string) (*schema.Show, error) {
	var show schema.Show
	err := s.db.WithContext(ctx).Where("show_id = ?", showID).First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShowNotFound
		}
		return nil, err
	}
	return &show, nil
}

func (s *pgStore) ListShows(ctx context.Context) ([]schema.Show, error) {
	var shows []schema.Show
	err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&shows).Error
	return shows, err
}

// CreateInvestment runs the same ledger validation and mutation logic as the
// local session, inside one transaction with both rows locked
func (s *pgStore) CreateInvestment(ctx context.Context, params CreateInvestmentParams) (*InvestmentOutcome, error) {
	var outcome *InvestmentOutcome

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user schema.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ?", params.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		var show schema.Show
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("show_id = ?", params.ShowID).First(&show).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrShowNotFound
			}
			return err
		}

		profile := userToProfile(&user)
		dshow := showToDomain(&show)

		id := params.InvestmentID
		if id == "" {
			id = ulid.Make().String()
		}
		now := time.Now()

		result, err := s.rates.ProcessInvestment(profile, dshow, ledger.InvestmentRequest{
			ShowID:        params.ShowID,
			Amount:        params.Amount,
			PaymentMethod: params.PaymentMethod,
		}, id, now)
		if err != nil {
			return err
		}

		if err := tx.Model(&schema.User{}).Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"balance_usdc":   profile.BalanceUSDC,
				"balance_ctk":    profile.BalanceCTK,
				"total_invested": profile.TotalInvested,
				"updated_at":     now,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&schema.Show{}).Where("id = ?", show.ID).
			Updates(map[string]interface{}{
				"funded_percent": dshow.FundedPercent,
				"updated_at":     now,
			}).Error; err != nil {
			return err
		}

		record := schema.Investment{
			InvestmentID: id,
			UserID:       user.ID,
			ShowID:       show.ID,
			Tokens:       result.Investment.Tokens,
			TotalValue:   result.Investment.TotalValue,
			ROI:          result.Investment.ROI,
			Status:       string(domain.InvestmentActive),
			Date:         now,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		outcome = &InvestmentOutcome{
			Investment:  record,
			CTKReward:   result.CTKReward,
			ReachedGoal: result.ReachedGoal,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (s *pgStore) ListInvestments(ctx context.Context, email string) ([]schema.Investment, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var investments []schema.Investment
	err = s.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("date DESC, id DESC").
		Find(&investments).Error
	return investments, err
}

// DistributeRoyalties splits a gross amount among every account holding an
// active investment in the campaign, proportionally to invested value
func (s *pgStore) DistributeRoyalties(ctx context.Context, showID string, gross float64, now time.Time) (*DistributionOutcome, error) {
	var outcome *DistributionOutcome

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var show schema.Show
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("show_id = ?", showID).First(&show).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrShowNotFound
			}
			return err
		}

		var investments []schema.Investment
		if err := tx.Where("show_id = ? AND status = ?", show.ID, string(domain.InvestmentActive)).
			Order("id ASC").
			Find(&investments).Error; err != nil {
			return err
		}

		invested := make([]float64, len(investments))
		for i, inv := range investments {
			invested[i] = inv.TotalValue
		}

		shares, fee, err := s.rates.SplitShares(gross, invested)
		if err != nil {
			return err
		}

		// Aggregate shares per account before writing
		perUser := make(map[int64]float64)
		for i, inv := range investments {
			perUser[inv.UserID] += shares[i]
		}
		for userID, share := range perUser {
			if err := tx.Model(&schema.User{}).Where("id = ?", userID).
				Updates(map[string]interface{}{
					"royalties":  gorm.Expr("royalties + ?", share),
					"updated_at": now,
				}).Error; err != nil {
				return err
			}
		}

		record := schema.RoyaltyDistribution{
			ShowID:        show.ID,
			GrossAmount:   gross,
			PlatformFee:   fee,
			NetAmount:     gross - fee,
			InvestorCount: len(investments),
			PerInvestor:   (gross - fee) / float64(len(investments)),
			Date:          now,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		outcome = &DistributionOutcome{
			DistributionID: record.ID,
			GrossAmount:    gross,
			PlatformFee:    fee,
			NetAmount:      gross - fee,
			InvestorCount:  len(investments),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (s *pgStore) ClaimRoyalties(ctx context.Context, email string, payout domain.PayoutCurrency) (*ledger.ClaimResult, error) {
	var result *ledger.ClaimResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user schema.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		profile := userToProfile(&user)
		claim, err := s.rates.ClaimRoyalties(profile, payout)
		if err != nil {
			return err
		}

		if err := tx.Model(&schema.User{}).Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"balance_usdc": profile.BalanceUSDC,
				"balance_ctk":  profile.BalanceCTK,
				"royalties":    profile.Royalties,
				"updated_at":   time.Now(),
			}).Error; err != nil {
			return err
		}

		result = claim
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *pgStore) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	var users []schema.User
	err := s.db.WithContext(ctx).
		Where("total_invested > 0").
		Order("total_invested DESC, email ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		entries[i] = LeaderboardEntry{
			Position:      i + 1,
			Email:         user.Email,
			TotalInvested: user.TotalInvested,
		}
	}
	return entries, nil
}

func (s *pgStore) EnqueueRevenue(ctx context.Context, showID string, amount float64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	show, err := s.GetShowByShowID(ctx, showID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Create(&schema.PendingRevenue{
		ShowID: show.ID,
		Amount: amount,
		Status: schema.RevenuePending,
	}).Error
}

func (s *pgStore) PendingRevenues(ctx context.Context, limit int) ([]schema.PendingRevenue, error) {
	if limit <= 0 {
		limit = 100
	}

	var revenues []schema.PendingRevenue
	err := s.db.WithContext(ctx).
		Preload("Show").
		Where("status = ?", schema.RevenuePending).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&revenues).Error
	return revenues, err
}

func (s *pgStore) MarkRevenueDistributed(ctx context.Context, id int64, distributedAt time.Time) error {
	result := s.db.WithContext(ctx).Model(&schema.PendingRevenue{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         schema.RevenueDistributed,
			"distributed_at": distributedAt,
			"attempts":       gorm.Expr("attempts + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("pending revenue %d not found", id)
	}
	return nil
}

func (s *pgStore) MarkRevenueFailed(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Model(&schema.PendingRevenue{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":   schema.RevenueFailed,
			"attempts": gorm.Expr("attempts + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("pending revenue %d not found", id)
	}
	return nil
}

// userToProfile maps an account row to the domain shape the ledger operates on
func userToProfile(user *schema.User) *domain.UserProfile {
	return &domain.UserProfile{
		Email:         user.Email,
		WalletAddress: user.WalletAddress,
		BalanceUSDC:   user.BalanceUSDC,
		BalanceCTK:    user.BalanceCTK,
		Royalties:     user.Royalties,
		TotalInvested: user.TotalInvested,
	}
}

// showToDomain maps a campaign row to the domain shape the ledger operates on
func showToDomain(show *schema.Show) *domain.Show {
	return &domain.Show{
		ID:             show.ShowID,
		Name:           show.Name,
		Description:    show.Description,
		Genre:          domain.Genre(show.Genre),
		TargetAmount:   show.TargetAmount,
		FundedPercent:  show.FundedPercent,
		ROI:            show.ROI,
		RiskLevel:      domain.RiskLevel(show.RiskLevel),
		TotalTokens:    show.TotalTokens,
		PricePerToken:  show.PricePerToken,
		DurationMonths: show.DurationMonths,
		Status:         domain.ShowStatus(show.Status),
	}
}
