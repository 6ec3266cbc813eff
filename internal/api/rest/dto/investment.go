package dto

import (
	"time"

	"github.com/culturatoken/ctk-platform/internal/recommender"
	"github.com/culturatoken/ctk-platform/internal/store"
	"github.com/culturatoken/ctk-platform/internal/store/schema"
)

// CreateInvestmentRequest is the payload for a token purchase
type CreateInvestmentRequest struct {
	Email         string  `json:"email" binding:"required,email"`
	ShowID        string  `json:"show_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
}

// InvestmentResponse represents a committed token purchase
type InvestmentResponse struct {
	InvestmentID string    `json:"investment_id"`
	ShowID       string    `json:"show_id,omitempty"`
	Tokens       float64   `json:"tokens"`
	TotalValue   float64   `json:"total_value"`
	ROI          float64   `json:"roi"`
	Status       string    `json:"status"`
	Date         time.Time `json:"date"`
}

// InvestmentOutcomeResponse reports the full outcome of a purchase
type InvestmentOutcomeResponse struct {
	Investment  InvestmentResponse `json:"investment"`
	CTKReward   float64            `json:"ctk_reward"`
	ReachedGoal bool               `json:"reached_goal"`
}

// InvestmentListResponse represents an account's investments
type InvestmentListResponse struct {
	Investments []InvestmentResponse `json:"items"`
	Total       int                  `json:"total"`
}

// DistributeRoyaltiesRequest is the payload for a royalty distribution
type DistributeRoyaltiesRequest struct {
	GrossAmount float64 `json:"gross_amount" binding:"required,gt=0"`
}

// DistributionResponse reports a committed royalty distribution
type DistributionResponse struct {
	DistributionID int64   `json:"distribution_id"`
	ShowID         string  `json:"show_id"`
	GrossAmount    float64 `json:"gross_amount"`
	PlatformFee    float64 `json:"platform_fee"`
	NetAmount      float64 `json:"net_amount"`
	InvestorCount  int     `json:"investor_count"`
}

// ClaimRoyaltiesRequest is the payload for claiming royalties
type ClaimRoyaltiesRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Payout string `json:"payout" binding:"required"`
}

// ClaimResponse reports a committed royalty claim
type ClaimResponse struct {
	Claimed  float64 `json:"claimed"`
	Credited float64 `json:"credited"`
	Currency string  `json:"currency"`
}

// EnqueueRevenueRequest is the payload for queueing show revenue
type EnqueueRevenueRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// RecommendationResponse represents a scored campaign suggestion
type RecommendationResponse struct {
	Show  ShowResponse `json:"show"`
	Score float64      `json:"score"`
}

// RecommendationListResponse represents ranked campaign suggestions
type RecommendationListResponse struct {
	Recommendations []RecommendationResponse `json:"items"`
	Total           int                      `json:"total"`
}

// LeaderboardResponse ranks accounts by total invested value
type LeaderboardResponse struct {
	Entries []store.LeaderboardEntry `json:"items"`
	Total   int                      `json:"total"`
}

// MapInvestmentToDTO maps a schema.Investment to InvestmentResponse
func MapInvestmentToDTO(inv *schema.Investment, showID string) *InvestmentResponse {
	return &InvestmentResponse{
		InvestmentID: inv.InvestmentID,
		ShowID:       showID,
		Tokens:       inv.Tokens,
		TotalValue:   inv.TotalValue,
		ROI:          inv.ROI,
		Status:       inv.Status,
		Date:         inv.Date,
	}
}

// MapRecommendationToDTO maps a recommender.Recommendation to RecommendationResponse
func MapRecommendationToDTO(rec recommender.Recommendation) RecommendationResponse {
	return RecommendationResponse{
		Show: ShowResponse{
			ShowID:         rec.Show.ID,
			Name:           rec.Show.Name,
			Description:    rec.Show.Description,
			Genre:          string(rec.Show.Genre),
			TargetAmount:   rec.Show.TargetAmount,
			FundedPercent:  rec.Show.FundedPercent,
			ROI:            rec.Show.ROI,
			RiskLevel:      string(rec.Show.RiskLevel),
			TotalTokens:    rec.Show.TotalTokens,
			PricePerToken:  rec.Show.PricePerToken,
			DurationMonths: rec.Show.DurationMonths,
			Status:         string(rec.Show.Status),
		},
		Score: rec.Score,
	}
}
