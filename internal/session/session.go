package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/culturatoken/ctk-platform/internal/adapter"
	"github.com/culturatoken/ctk-platform/internal/domain"
	"github.com/culturatoken/ctk-platform/internal/ledger"
	"github.com/culturatoken/ctk-platform/internal/logger"
	"github.com/culturatoken/ctk-platform/internal/notify"
	"github.com/culturatoken/ctk-platform/internal/recommender"
	"github.com/culturatoken/ctk-platform/internal/settle"
	"github.com/culturatoken/ctk-platform/internal/statestore"
	"github.com/culturatoken/ctk-platform/internal/wallet"
)

// Config holds the session parameters
type Config struct {
	// InitialUSDC and InitialCTK seed the balances of a new registration
	InitialUSDC float64
	InitialCTK  float64
}

// Deps are the session collaborators. Nil fields fall back to inert
// defaults so tests can supply only what they assert on.
type Deps struct {
	Rates       ledger.Rates
	Recommender *recommender.Recommender
	State       *statestore.Store
	Settler     settle.Settler
	Notifier    notify.Notifier
	Publisher   notify.Publisher
	Clock       adapter.Clock
}

// Session owns the state of one logged-in user: the profile, the show
// catalog and the active wallet provider. Every operation is serialized
// through a single mutex; financial mutations are staged on clones and
// committed only when the whole operation succeeded, so a failed operation
// never leaves partial state behind.
type Session struct {
	mu sync.Mutex

	profile *domain.UserProfile
	shows   map[string]*domain.Show
	order   []string

	provider wallet.Provider

	rates     ledger.Rates
	rec       *recommender.Recommender
	state     *statestore.Store
	settler   settle.Settler
	notifier  notify.Notifier
	publisher notify.Publisher
	clock     adapter.Clock

	initialUSDC float64
	initialCTK  float64
}

// New creates a session with the given configuration and collaborators
func New(cfg Config, deps Deps) *Session {
	if deps.Settler == nil {
		deps.Settler = settle.NewImmediate()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewLogNotifier()
	}
	if deps.Publisher == nil {
		deps.Publisher = notify.NoopPublisher{}
	}
	if deps.Clock == nil {
		deps.Clock = adapter.NewClock()
	}
	if deps.Recommender == nil {
		deps.Recommender = recommender.New(recommender.DefaultConfig())
	}

	return &Session{
		shows:       make(map[string]*domain.Show),
		rates:       deps.Rates,
		rec:         deps.Recommender,
		state:       deps.State,
		settler:     deps.Settler,
		notifier:    deps.Notifier,
		publisher:   deps.Publisher,
		clock:       deps.Clock,
		initialUSDC: cfg.InitialUSDC,
		initialCTK:  cfg.InitialCTK,
	}
}

// LoadCatalog replaces the show catalog. Listing order follows the input.
func (s *Session) LoadCatalog(shows []domain.Show) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shows = make(map[string]*domain.Show, len(shows))
	s.order = s.order[:0]
	for i := range shows {
		show := shows[i]
		s.shows[show.ID] = &show
		s.order = append(s.order, show.ID)
	}
}

// Shows returns the catalog in listing order
func (s *Session) Shows() []domain.Show {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Show, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.shows[id].Clone())
	}
	return out
}

// Show returns a copy of one catalog entry
func (s *Session) Show(id string) (domain.Show, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	show, ok := s.shows[id]
	if !ok {
		return domain.Show{}, domain.ErrShowNotFound
	}
	return *show.Clone(), nil
}

// Profile returns a copy of the logged-in profile
func (s *Session) Profile() (domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return domain.UserProfile{}, domain.ErrNotLoggedIn
	}
	return *s.profile.Clone(), nil
}

// Restore loads a previously persisted profile. A corrupt snapshot is
// discarded and reported through the notifier; the session continues
// logged out.
func (s *Session) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil
	}

	profile, err := s.state.Load()
	if err != nil {
		if errors.Is(err, domain.ErrStorageCorrupted) {
			logger.WarnCtx(ctx, "discarding corrupt session state", zap.Error(err))
			s.notifier.Notify(ctx, notify.Notice{
				Level:   notify.LevelError,
				Message: "Stored session was corrupted and has been reset",
			})
			return nil
		}
		return err
	}
	if profile == nil {
		return nil
	}

	profile.WalletKind = wallet.KindFromAddress(profile.WalletAddress, profile.Email)
	s.profile = profile

	logger.InfoCtx(ctx, "session restored",
		zap.String("email", profile.Email),
		zap.String("wallet_kind", string(profile.WalletKind)))
	return nil
}

// RegisterCustodial creates a new profile with a custodial wallet derived
// from the email and seeds the configured starting balances
func (s *Session) RegisterCustodial(ctx context.Context, email string, prefs domain.Preferences) (domain.UserProfile, error) {
	if email == "" {
		return domain.UserProfile{}, fmt.Errorf("email is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	provider := wallet.NewCustodialProvider(email)
	address, err := provider.Connect(ctx)
	if err != nil {
		provider.Close()
		return domain.UserProfile{}, fmt.Errorf("failed to create custodial wallet: %w", err)
	}

	s.closeProviderLocked()
	s.provider = provider

	s.profile = &domain.UserProfile{
		Email:         email,
		WalletAddress: address,
		WalletKind:    domain.WalletCustodial,
		BalanceUSDC:   s.initialUSDC,
		BalanceCTK:    s.initialCTK,
		Preferences:   prefs,
	}
	s.persistLocked(ctx)

	s.notifier.Notify(ctx, notify.Notice{
		Level:   notify.LevelSuccess,
		Message: fmt.Sprintf("Welcome! Your custodial wallet %s is ready", address),
	})
	return *s.profile.Clone(), nil
}

// ConnectWallet attaches an external wallet provider to the logged-in
// profile and starts watching it for account changes and disconnects
func (s *Session) ConnectWallet(ctx context.Context, provider wallet.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return domain.ErrNotLoggedIn
	}

	address, err := provider.Connect(ctx)
	if err != nil {
		s.notifier.Notify(ctx, notify.Notice{
			Level:   notify.LevelError,
			Message: "Wallet connection failed",
		})
		return fmt.Errorf("failed to connect wallet: %w", err)
	}

	s.closeProviderLocked()
	s.provider = provider
	s.profile.WalletAddress = address
	s.profile.WalletKind = provider.Kind()
	s.persistLocked(ctx)

	go s.watchProvider(provider)

	s.notifier.Notify(ctx, notify.Notice{
		Level:   notify.LevelSuccess,
		Message: fmt.Sprintf("Wallet connected: %s", address),
	})
	return nil
}

// watchProvider applies wallet events until the provider's event channel
// closes. A disconnect logs the session out.
func (s *Session) watchProvider(provider wallet.Provider) {
	ctx := context.Background()
	for ev := range provider.Events() {
		switch ev.Type {
		case wallet.EventAccountChanged:
			s.mu.Lock()
			if s.profile != nil && s.provider == provider {
				s.profile.WalletAddress = ev.Address
				s.profile.WalletKind = wallet.KindFromAddress(ev.Address, s.profile.Email)
				s.persistLocked(ctx)
			}
			s.mu.Unlock()
			s.notifier.Notify(ctx, notify.Notice{
				Level:   notify.LevelInfo,
				Message: fmt.Sprintf("Wallet account changed: %s", ev.Address),
			})
		case wallet.EventDisconnected:
			s.mu.Lock()
			owned := s.provider == provider
			s.mu.Unlock()
			if owned {
				_ = s.Logout(ctx)
			}
		}
	}
}

// Logout drops the in-memory profile, closes the wallet provider and
// removes the persisted snapshot
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return nil
	}

	s.closeProviderLocked()
	s.profile = nil

	if s.state != nil {
		if err := s.state.Clear(); err != nil {
			logger.WarnCtx(ctx, "failed to clear session state", zap.Error(err))
		}
	}

	s.notifier.Notify(ctx, notify.Notice{
		Level:   notify.LevelInfo,
		Message: "Logged out",
	})
	return nil
}

// UpdatePreferences replaces the profile's investment preferences
func (s *Session) UpdatePreferences(ctx context.Context, prefs domain.Preferences) error {
	if !domain.IsValidRiskLevel(prefs.RiskTolerance) {
		return fmt.Errorf("invalid risk tolerance %q", prefs.RiskTolerance)
	}
	if !domain.IsValidInvestmentGoal(prefs.InvestmentGoal) {
		return fmt.Errorf("invalid investment goal %q", prefs.InvestmentGoal)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return domain.ErrNotLoggedIn
	}
	s.profile.Preferences = prefs
	s.persistLocked(ctx)
	return nil
}

// Close releases the wallet provider. The persisted snapshot is kept so
// the session can be restored later.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeProviderLocked()
}

// closeProviderLocked closes the current provider. Callers hold s.mu.
func (s *Session) closeProviderLocked() {
	if s.provider != nil {
		s.provider.Close()
		s.provider = nil
	}
}

// persistLocked saves the profile snapshot. Persistence failures are
// logged and reported but never fail the operation that triggered them.
// Callers hold s.mu.
func (s *Session) persistLocked(ctx context.Context) {
	if s.state == nil || s.profile == nil {
		return
	}
	if err := s.state.Save(s.profile); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("email", s.profile.Email))
		s.notifier.Notify(ctx, notify.Notice{
			Level:   notify.LevelError,
			Message: "Failed to save session state",
		})
	}
}

// publish emits a ledger event. Broker failures are logged, never fatal.
func (s *Session) publish(ctx context.Context, event *notify.LedgerEvent) {
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		logger.WarnCtx(ctx, "failed to publish ledger event",
			zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func newID() string {
	return ulid.Make().String()
}
