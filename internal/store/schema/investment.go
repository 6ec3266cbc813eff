package schema

import (
	"time"
)

// Investment represents the investments table - committed token purchases
type Investment struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// InvestmentID is the public identifier assigned at purchase time (ULID)
	InvestmentID string `gorm:"column:investment_id;not null;uniqueIndex;type:text"`
	// UserID references the investing account
	UserID int64 `gorm:"column:user_id;not null;index"`
	// ShowID references the funded campaign
	ShowID int64 `gorm:"column:show_id;not null;index"`
	// Tokens is the quantity of show tokens purchased
	Tokens float64 `gorm:"column:tokens;not null;type:numeric(20,8)"`
	// TotalValue is the amount paid, in USDC-equivalent value
	TotalValue float64 `gorm:"column:total_value;not null;type:numeric(20,8)"`
	// ROI is the campaign's annual ROI snapshotted at purchase time
	ROI float64 `gorm:"column:roi;not null;type:numeric(8,4)"`
	// Status is the investment lifecycle state (active, completed, cancelled)
	Status string `gorm:"column:status;not null;default:'active';type:text;index"`
	// Date is the purchase timestamp
	Date time.Time `gorm:"column:date;not null;default:now();type:timestamptz"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Show Show `gorm:"foreignKey:ShowID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Investment model
func (Investment) TableName() string {
	return "investments"
}
