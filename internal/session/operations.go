package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/culturatoken/ctk-platform/internal/domain"
	"github.com/culturatoken/ctk-platform/internal/ledger"
	"github.com/culturatoken/ctk-platform/internal/notify"
	"github.com/culturatoken/ctk-platform/internal/recommender"
)

// Invest purchases show tokens for the logged-in user. The mutation is
// staged on clones of the profile and the show, the settlement delay runs
// with those clones off to the side, and only a fully successful purchase
// is committed and persisted. Any failure leaves session state untouched.
func (s *Session) Invest(ctx context.Context, req ledger.InvestmentRequest) (*ledger.InvestmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, domain.ErrNotLoggedIn
	}
	show, ok := s.shows[req.ShowID]
	if !ok {
		return nil, domain.ErrShowNotFound
	}

	profileClone := s.profile.Clone()
	showClone := show.Clone()

	result, err := s.rates.ProcessInvestment(profileClone, showClone, req, newID(), s.clock.Now())
	if err != nil {
		s.notifier.Notify(ctx, notify.Notice{
			Level:   notify.LevelError,
			Message: investErrorMessage(err),
		})
		return nil, err
	}

	if err := s.settler.Settle(ctx); err != nil {
		return nil, fmt.Errorf("settlement interrupted: %w", err)
	}

	s.profile = profileClone
	s.shows[req.ShowID] = showClone
	s.persistLocked(ctx)

	s.publish(ctx, &notify.LedgerEvent{
		ID:         notify.NewEventID(),
		Type:       notify.EventInvestmentCreated,
		Email:      s.profile.Email,
		ShowID:     req.ShowID,
		Amount:     req.Amount,
		OccurredAt: s.clock.Now(),
	})

	s.notifier.Notify(ctx, notify.Notice{
		Level: notify.LevelSuccess,
		Message: fmt.Sprintf("Invested %.2f USDC in %s, earned %.2f CTK",
			req.Amount, showClone.Name, result.CTKReward),
	})
	if result.ReachedGoal {
		s.notifier.Notify(ctx, notify.Notice{
			Level:   notify.LevelSuccess,
			Message: fmt.Sprintf("%s reached its funding goal!", showClone.Name),
		})
	}
	return result, nil
}

// DistributeRoyalties splits a gross royalty amount for a show among the
// profile's active investments and credits the claimable balance
func (s *Session) DistributeRoyalties(ctx context.Context, showID string, gross float64) (*ledger.DistributionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, domain.ErrNotLoggedIn
	}
	show, ok := s.shows[showID]
	if !ok {
		return nil, domain.ErrShowNotFound
	}

	profileClone := s.profile.Clone()
	showClone := show.Clone()

	result, err := s.rates.DistributeRoyalties(profileClone, showClone, gross, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.profile = profileClone
	s.shows[showID] = showClone
	s.persistLocked(ctx)

	s.publish(ctx, &notify.LedgerEvent{
		ID:         notify.NewEventID(),
		Type:       notify.EventRoyaltiesDistributed,
		Email:      s.profile.Email,
		ShowID:     showID,
		Amount:     gross,
		OccurredAt: s.clock.Now(),
	})

	s.notifier.Notify(ctx, notify.Notice{
		Level: notify.LevelSuccess,
		Message: fmt.Sprintf("Royalties distributed: %.2f USDC credited from %s",
			result.ShareCredited, showClone.Name),
	})
	return result, nil
}

// ClaimRoyalties converts the claimable royalty balance into the chosen
// payout currency
func (s *Session) ClaimRoyalties(ctx context.Context, payout domain.PayoutCurrency) (*ledger.ClaimResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, domain.ErrNotLoggedIn
	}

	profileClone := s.profile.Clone()
	result, err := s.rates.ClaimRoyalties(profileClone, payout)
	if err != nil {
		if errors.Is(err, domain.ErrNoClaimableRoyalties) {
			s.notifier.Notify(ctx, notify.Notice{
				Level:   notify.LevelError,
				Message: "No royalties available to claim",
			})
		}
		return nil, err
	}

	if err := s.settler.Settle(ctx); err != nil {
		return nil, fmt.Errorf("settlement interrupted: %w", err)
	}

	s.profile = profileClone
	s.persistLocked(ctx)

	s.publish(ctx, &notify.LedgerEvent{
		ID:         notify.NewEventID(),
		Type:       notify.EventRoyaltiesClaimed,
		Email:      s.profile.Email,
		Amount:     result.Claimed,
		OccurredAt: s.clock.Now(),
	})

	s.notifier.Notify(ctx, notify.Notice{
		Level: notify.LevelSuccess,
		Message: fmt.Sprintf("Claimed %.2f royalties as %.2f %s",
			result.Claimed, result.Credited, result.Currency),
	})
	return result, nil
}

// Recommendations ranks the catalog against the profile's preferences
func (s *Session) Recommendations() ([]recommender.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, domain.ErrNotLoggedIn
	}

	catalog := make([]domain.Show, 0, len(s.order))
	for _, id := range s.order {
		catalog = append(catalog, *s.shows[id].Clone())
	}
	return s.rec.Recommend(catalog, s.profile.Preferences), nil
}

// PerformanceHistory reports how each active investment tracks its
// projected ROI
func (s *Session) PerformanceHistory() ([]ledger.PerformanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, domain.ErrNotLoggedIn
	}
	return s.rates.PerformanceHistory(s.profile.Investments, s.shows), nil
}

// AccumulatedRoyalties summarizes royalties accrued per show
func (s *Session) AccumulatedRoyalties() ([]ledger.AccruedRoyalty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil, domain.ErrNotLoggedIn
	}
	return s.rates.AccumulatedRoyalties(s.profile.Investments, s.shows), nil
}

// investErrorMessage maps validation sentinels to user-facing notices
func investErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrBelowMinimumInvestment):
		return "Investment is below the minimum amount"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "Insufficient balance for this investment"
	case errors.Is(err, domain.ErrShowFullyFunded):
		return "This show is already fully funded"
	case errors.Is(err, domain.ErrExceedsRemainingCapacity):
		return "Investment exceeds the show's remaining capacity"
	default:
		return "Investment failed"
	}
}
