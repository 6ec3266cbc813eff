package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/culturatoken/ctk-platform/internal/domain"
)

// CustodialProvider is the built-in wallet for email registrations. The
// address is derived from the email, so it never needs external signing
// infrastructure.
type CustodialProvider struct {
	email  string
	events chan Event
	once   sync.Once
}

// NewCustodialProvider creates a custodial provider bound to an email
func NewCustodialProvider(email string) *CustodialProvider {
	return &CustodialProvider{
		email:  email,
		events: make(chan Event, 1),
	}
}

func (p *CustodialProvider) Kind() domain.WalletKind {
	return domain.WalletCustodial
}

func (p *CustodialProvider) Connect(_ context.Context) (string, error) {
	if p.email == "" {
		return "", fmt.Errorf("custodial wallet requires an email")
	}
	return DeriveCustodialAddress(p.email), nil
}

func (p *CustodialProvider) Events() <-chan Event {
	return p.events
}

// Close closes the event channel. Custodial wallets never emit events, so
// consumers only observe the close.
func (p *CustodialProvider) Close() {
	p.once.Do(func() { close(p.events) })
}

// SimulatedProvider stands in for an external wallet connector (MetaMask,
// Phantom). It returns a fixed address and lets the owner inject account
// change and disconnect events, which is enough to drive the session event
// loop in demos and tests.
type SimulatedProvider struct {
	kind       domain.WalletKind
	address    string
	connectErr error
	events     chan Event
	once       sync.Once
}

// NewSimulatedProvider creates a provider of the given kind returning the
// given address on connect
func NewSimulatedProvider(kind domain.WalletKind, address string) *SimulatedProvider {
	return &SimulatedProvider{
		kind:    kind,
		address: address,
		events:  make(chan Event, 4),
	}
}

// FailConnect makes subsequent Connect calls return err
func (p *SimulatedProvider) FailConnect(err error) {
	p.connectErr = err
}

func (p *SimulatedProvider) Kind() domain.WalletKind {
	return p.kind
}

func (p *SimulatedProvider) Connect(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.connectErr != nil {
		return "", p.connectErr
	}
	return p.address, nil
}

func (p *SimulatedProvider) Events() <-chan Event {
	return p.events
}

// EmitAccountChanged switches the active account and notifies listeners
func (p *SimulatedProvider) EmitAccountChanged(address string) {
	p.address = address
	p.events <- Event{Type: EventAccountChanged, Address: address}
}

// EmitDisconnected notifies listeners that the wallet disconnected
func (p *SimulatedProvider) EmitDisconnected() {
	p.events <- Event{Type: EventDisconnected}
}

func (p *SimulatedProvider) Close() {
	p.once.Do(func() { close(p.events) })
}
