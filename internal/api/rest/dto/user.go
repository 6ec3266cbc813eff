package dto

import (
	"encoding/json"
	"time"

	"github.com/culturatoken/ctk-platform/internal/domain"
	"github.com/culturatoken/ctk-platform/internal/store/schema"
)

// RegisterUserRequest is the payload for creating an account
type RegisterUserRequest struct {
	Email         string             `json:"email" binding:"required,email"`
	WalletAddress string             `json:"wallet_address"`
	Preferences   PreferencesRequest `json:"preferences"`
}

// PreferencesRequest carries recommendation preferences
type PreferencesRequest struct {
	FavoriteGenres []string `json:"favorite_genres"`
	RiskTolerance  string   `json:"risk_tolerance"`
	InvestmentGoal string   `json:"investment_goal"`
}

// ToDomain converts the request preferences to domain preferences
func (p PreferencesRequest) ToDomain() domain.Preferences {
	genres := make([]domain.Genre, 0, len(p.FavoriteGenres))
	for _, g := range p.FavoriteGenres {
		genres = append(genres, domain.Genre(g))
	}
	return domain.Preferences{
		FavoriteGenres: genres,
		RiskTolerance:  domain.RiskLevel(p.RiskTolerance),
		InvestmentGoal: domain.InvestmentGoal(p.InvestmentGoal),
	}
}

// ConnectWalletRequest is the payload for replacing an account's wallet
type ConnectWalletRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
}

// UserResponse represents a platform account
type UserResponse struct {
	Email         string          `json:"email"`
	WalletAddress string          `json:"wallet_address"`
	WalletKind    string          `json:"wallet_kind"`
	BalanceUSDC   float64         `json:"balance_usdc"`
	BalanceCTK    float64         `json:"balance_ctk"`
	Royalties     float64         `json:"royalties"`
	TotalInvested float64         `json:"total_invested"`
	Preferences   json.RawMessage `json:"preferences,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// MapUserToDTO maps a schema.User to UserResponse
func MapUserToDTO(user *schema.User, kind domain.WalletKind) *UserResponse {
	return &UserResponse{
		Email:         user.Email,
		WalletAddress: user.WalletAddress,
		WalletKind:    string(kind),
		BalanceUSDC:   user.BalanceUSDC,
		BalanceCTK:    user.BalanceCTK,
		Royalties:     user.Royalties,
		TotalInvested: user.TotalInvested,
		Preferences:   json.RawMessage(user.Preferences),
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}
