package schema

import (
	"time"

	"gorm.io/datatypes"
)

// User represents the users table - platform accounts with their token balances
type User struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Email is the account identifier
	Email string `gorm:"column:email;not null;uniqueIndex;type:text"`
	// WalletAddress is the connected or custodial wallet address
	WalletAddress string `gorm:"column:wallet_address;not null;type:text"`
	// BalanceUSDC is the simulated USDC balance
	BalanceUSDC float64 `gorm:"column:balance_usdc;not null;default:0;type:numeric(20,8)"`
	// BalanceCTK is the platform token balance
	BalanceCTK float64 `gorm:"column:balance_ctk;not null;default:0;type:numeric(20,8)"`
	// Royalties is the claimable royalty balance
	Royalties float64 `gorm:"column:royalties;not null;default:0;type:numeric(20,8)"`
	// TotalInvested accumulates every committed investment
	TotalInvested float64 `gorm:"column:total_invested;not null;default:0;type:numeric(20,8)"`
	// Preferences holds the recommendation preferences as a JSON document
	Preferences datatypes.JSON `gorm:"column:preferences;type:jsonb"`
	// CreatedAt is the timestamp when this account was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this account was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Investments []Investment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
