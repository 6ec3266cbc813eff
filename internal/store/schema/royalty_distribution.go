package schema

import (
	"time"
)

// RoyaltyDistribution represents the royalty_distributions table - recorded
// revenue splits among a campaign's investors
type RoyaltyDistribution struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ShowID references the distributing campaign
	ShowID int64 `gorm:"column:show_id;not null;index"`
	// GrossAmount is the full distributed amount before the platform fee
	GrossAmount float64 `gorm:"column:gross_amount;not null;type:numeric(20,8)"`
	// PlatformFee is the amount retained by the platform
	PlatformFee float64 `gorm:"column:platform_fee;not null;type:numeric(20,8)"`
	// NetAmount is the pool credited to investors
	NetAmount float64 `gorm:"column:net_amount;not null;type:numeric(20,8)"`
	// InvestorCount is the number of active investors at distribution time
	InvestorCount int `gorm:"column:investor_count;not null"`
	// PerInvestor is the net pool divided by investor count
	PerInvestor float64 `gorm:"column:per_investor;not null;type:numeric(20,8)"`
	// Date is when the distribution happened
	Date time.Time `gorm:"column:date;not null;default:now();type:timestamptz"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	Show Show `gorm:"foreignKey:ShowID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the RoyaltyDistribution model
func (RoyaltyDistribution) TableName() string {
	return "royalty_distributions"
}
