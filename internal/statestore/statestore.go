package statestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/culturatoken/ctk-platform/internal/adapter"
	"github.com/culturatoken/ctk-platform/internal/domain"
)

// Namespace is the fixed key under which the user state is persisted
const Namespace = "culturatoken_user"

// Snapshot is the minimal persisted subset of a user profile. Derived and
// ephemeral fields (wallet kind, leaderboard position) are deliberately
// excluded and re-derived on restore.
type Snapshot struct {
	Email         string              `json:"email"`
	WalletAddress string              `json:"walletAddress"`
	BalanceUSDC   float64             `json:"balanceUSDC"`
	BalanceCTK    float64             `json:"balanceCTK"`
	Royalties     float64             `json:"royalties"`
	TotalInvested float64             `json:"totalInvested"`
	Investments   []domain.Investment `json:"investments"`
	Preferences   domain.Preferences  `json:"preferences"`
}

// valid checks that the required fields of a restored snapshot are present
func (s Snapshot) valid() bool {
	return s.Email != "" &&
		s.WalletAddress != "" &&
		s.BalanceUSDC >= 0 &&
		s.BalanceCTK >= 0
}

// Store persists user profile snapshots as a JSON document under a fixed
// namespace in a state directory. A single active session per namespace is
// assumed; there is no cross-process locking.
type Store struct {
	dir  string
	fs   adapter.FileSystem
	json adapter.JSON
}

// New creates a state store rooted at dir
func New(dir string, fs adapter.FileSystem, jsonAdapter adapter.JSON) *Store {
	return &Store{dir: dir, fs: fs, json: jsonAdapter}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, Namespace+".json")
}

// Save serializes the persisted subset of the profile and writes it
// atomically (temp file + rename) so a crash mid-write never leaves a
// partially written snapshot behind.
func (s *Store) Save(profile *domain.UserProfile) error {
	snapshot := Snapshot{
		Email:         profile.Email,
		WalletAddress: profile.WalletAddress,
		BalanceUSDC:   profile.BalanceUSDC,
		BalanceCTK:    profile.BalanceCTK,
		Royalties:     profile.Royalties,
		TotalInvested: profile.TotalInvested,
		Investments:   profile.Investments,
		Preferences:   profile.Preferences,
	}

	data, err := s.json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	if err := s.fs.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp := s.path() + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path()); err != nil {
		return fmt.Errorf("failed to commit state: %w", err)
	}

	return nil
}

// Load restores a previously saved profile. It returns (nil, nil) when no
// snapshot exists. A snapshot that cannot be parsed or fails field
// validation is discarded and reported as domain.ErrStorageCorrupted;
// callers are expected to treat that as non-fatal and continue with
// default state.
func (s *Store) Load() (*domain.UserProfile, error) {
	data, err := s.fs.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var snapshot Snapshot
	if err := s.json.Unmarshal(data, &snapshot); err != nil {
		s.discard()
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageCorrupted, err)
	}
	if !snapshot.valid() {
		s.discard()
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrStorageCorrupted)
	}

	return &domain.UserProfile{
		Email:         snapshot.Email,
		WalletAddress: snapshot.WalletAddress,
		BalanceUSDC:   snapshot.BalanceUSDC,
		BalanceCTK:    snapshot.BalanceCTK,
		Royalties:     snapshot.Royalties,
		TotalInvested: snapshot.TotalInvested,
		Investments:   snapshot.Investments,
		Preferences:   snapshot.Preferences,
	}, nil
}

// Clear removes the persisted snapshot. Clearing an already empty store is
// not an error.
func (s *Store) Clear() error {
	if err := s.fs.Remove(s.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}

// discard removes a corrupt snapshot so the next load starts clean
func (s *Store) discard() {
	_ = s.fs.Remove(s.path())
}
