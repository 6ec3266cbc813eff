package schema

import (
	"time"
)

// Show represents the shows table - fundable cultural production campaigns
type Show struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ShowID is the public campaign identifier
	ShowID string `gorm:"column:show_id;not null;uniqueIndex;type:text"`
	// Name is the campaign display name
	Name string `gorm:"column:name;not null;type:text"`
	// Description is the campaign pitch
	Description string `gorm:"column:description;type:text"`
	// Genre is the cultural genre (teatro, circo, danza, musical)
	Genre string `gorm:"column:genre;not null;type:text;index"`
	// TargetAmount is the funding goal in USDC-equivalent value
	TargetAmount float64 `gorm:"column:target_amount;not null;type:numeric(20,8)"`
	// FundedPercent is the current funding progress, clamped to [0,100]
	FundedPercent float64 `gorm:"column:funded_percent;not null;default:0;type:numeric(8,4)"`
	// ROI is the projected annual return percentage
	ROI float64 `gorm:"column:roi;not null;type:numeric(8,4)"`
	// RiskLevel classifies the campaign risk (low, medium, high)
	RiskLevel string `gorm:"column:risk_level;not null;type:text"`
	// TotalTokens is the token supply of the campaign
	TotalTokens float64 `gorm:"column:total_tokens;not null;type:numeric(20,8)"`
	// PricePerToken is the token price in USDC-equivalent value
	PricePerToken float64 `gorm:"column:price_per_token;not null;type:numeric(20,8)"`
	// DurationMonths is the expected production run length
	DurationMonths int `gorm:"column:duration_months;not null;default:0"`
	// Status is the campaign lifecycle state
	Status string `gorm:"column:status;not null;default:'funding';type:text;index"`
	// CreatedAt is the timestamp when this campaign was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this campaign was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Investments          []Investment          `gorm:"foreignKey:ShowID;references:ID;constraint:OnDelete:CASCADE"`
	RoyaltyDistributions []RoyaltyDistribution `gorm:"foreignKey:ShowID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Show model
func (Show) TableName() string {
	return "shows"
}
