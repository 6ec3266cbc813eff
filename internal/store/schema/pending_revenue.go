package schema

import (
	"time"
)

// RevenueStatus is the lifecycle state of queued show revenue
type RevenueStatus string

const (
	// RevenuePending means the revenue has been reported but not yet distributed
	RevenuePending RevenueStatus = "pending"
	// RevenueDistributed means the revenue has been split among investors
	RevenueDistributed RevenueStatus = "distributed"
	// RevenueFailed means distribution failed and needs operator attention
	RevenueFailed RevenueStatus = "failed"
)

// PendingRevenue represents the pending_revenues table - show revenue queued
// for the distributor sweep
type PendingRevenue struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ShowID references the earning campaign
	ShowID int64 `gorm:"column:show_id;not null;index"`
	// Amount is the gross revenue to distribute
	Amount float64 `gorm:"column:amount;not null;type:numeric(20,8)"`
	// Status tracks the distribution lifecycle
	Status RevenueStatus `gorm:"column:status;not null;default:'pending';type:text;index"`
	// Attempts counts distribution attempts
	Attempts int `gorm:"column:attempts;not null;default:0"`
	// CreatedAt is the timestamp when the revenue was reported
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// DistributedAt is set when the revenue was successfully distributed
	DistributedAt *time.Time `gorm:"column:distributed_at;type:timestamptz"`

	// Associations
	Show Show `gorm:"foreignKey:ShowID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the PendingRevenue model
func (PendingRevenue) TableName() string {
	return "pending_revenues"
}
