package notify

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a ledger event published to the message broker
type EventType string

const (
	EventInvestmentCreated    EventType = "investment.created"
	EventRoyaltiesDistributed EventType = "royalties.distributed"
	EventRoyaltiesClaimed     EventType = "royalties.claimed"
)

// LedgerEvent is the broker payload emitted after a financial mutation
// commits. Amount carries the USDC gross of the operation.
type LedgerEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Email      string    `json:"email"`
	ShowID     string    `json:"show_id,omitempty"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEventID returns a unique identifier for a ledger event
func NewEventID() string {
	return uuid.NewString()
}
