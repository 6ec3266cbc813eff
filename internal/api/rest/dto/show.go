package dto

import (
	"time"

	"github.com/culturatoken/ctk-platform/internal/store/schema"
)

// CreateShowRequest is the payload for creating a campaign
type CreateShowRequest struct {
	ShowID         string  `json:"show_id"`
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	Genre          string  `json:"genre" binding:"required"`
	TargetAmount   float64 `json:"target_amount" binding:"required,gt=0"`
	ROI            float64 `json:"roi"`
	RiskLevel      string  `json:"risk_level" binding:"required"`
	TotalTokens    float64 `json:"total_tokens" binding:"required,gt=0"`
	PricePerToken  float64 `json:"price_per_token" binding:"required,gt=0"`
	DurationMonths int     `json:"duration_months"`
}

// ToSchema converts the request to a schema.Show
func (r CreateShowRequest) ToSchema() *schema.Show {
	return &schema.Show{
		ShowID:         r.ShowID,
		Name:           r.Name,
		Description:    r.Description,
		Genre:          r.Genre,
		TargetAmount:   r.TargetAmount,
		ROI:            r.ROI,
		RiskLevel:      r.RiskLevel,
		TotalTokens:    r.TotalTokens,
		PricePerToken:  r.PricePerToken,
		DurationMonths: r.DurationMonths,
	}
}

// ShowResponse represents a campaign
type ShowResponse struct {
	ShowID         string    `json:"show_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Genre          string    `json:"genre"`
	TargetAmount   float64   `json:"target_amount"`
	FundedPercent  float64   `json:"funded_percent"`
	ROI            float64   `json:"roi"`
	RiskLevel      string    `json:"risk_level"`
	TotalTokens    float64   `json:"total_tokens"`
	PricePerToken  float64   `json:"price_per_token"`
	DurationMonths int       `json:"duration_months"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ShowListResponse represents a list of campaigns
type ShowListResponse struct {
	Shows []ShowResponse `json:"items"`
	Total int            `json:"total"`
}

// MapShowToDTO maps a schema.Show to ShowResponse
func MapShowToDTO(show *schema.Show) *ShowResponse {
	return &ShowResponse{
		ShowID:         show.ShowID,
		Name:           show.Name,
		Description:    show.Description,
		Genre:          show.Genre,
		TargetAmount:   show.TargetAmount,
		FundedPercent:  show.FundedPercent,
		ROI:            show.ROI,
		RiskLevel:      show.RiskLevel,
		TotalTokens:    show.TotalTokens,
		PricePerToken:  show.PricePerToken,
		DurationMonths: show.DurationMonths,
		Status:         show.Status,
		CreatedAt:      show.CreatedAt,
		UpdatedAt:      show.UpdatedAt,
	}
}
