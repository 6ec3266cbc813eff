package wallet

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/culturatoken/ctk-platform/internal/domain"
)

// EventType identifies wallet lifecycle notifications
type EventType string

const (
	// EventAccountChanged is emitted when the active account switches
	EventAccountChanged EventType = "account_changed"
	// EventDisconnected is emitted when the wallet disconnects; sessions log out
	EventDisconnected EventType = "disconnected"
)

// Event is a wallet lifecycle notification
type Event struct {
	Type    EventType
	Address string
}

// Provider abstracts a wallet connector. The core logic only consumes the
// resulting address string and the change/disconnect signal; the concrete
// transport (browser extension, custodial backend) is a collaborator
// concern.
type Provider interface {
	// Kind identifies the wallet family this provider connects to
	Kind() domain.WalletKind
	// Connect establishes the connection and returns the account address
	Connect(ctx context.Context) (string, error)
	// Events delivers account change and disconnect notifications.
	// The channel is closed by Close.
	Events() <-chan Event
	// Close releases the provider and closes the event channel
	Close()
}

// DeriveCustodialAddress deterministically derives a custodial wallet
// address from an email, so the same registration always maps to the same
// address
func DeriveCustodialAddress(email string) string {
	hash := crypto.Keccak256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return common.BytesToAddress(hash[12:]).Hex()
}

// KindFromAddress classifies a wallet address. The persisted snapshot does
// not store the wallet kind, so restore re-derives it: an address matching
// the custodial derivation of the owner's email is custodial, any other
// valid hex address is treated as MetaMask, a sol-prefixed address as
// Phantom, anything else as other.
func KindFromAddress(address, email string) domain.WalletKind {
	switch {
	case address == "":
		return domain.WalletOther
	case email != "" && strings.EqualFold(address, DeriveCustodialAddress(email)):
		return domain.WalletCustodial
	case common.IsHexAddress(address):
		return domain.WalletMetamask
	case strings.HasPrefix(strings.ToLower(address), "sol"):
		return domain.WalletPhantom
	default:
		return domain.WalletOther
	}
}
