package domain

import "errors"

var (
	// ErrShowNotFound is returned when a show identifier resolves to nothing
	ErrShowNotFound = errors.New("show not found")

	// ErrUserNotFound is returned when a user identifier resolves to nothing
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidAmount is returned when an amount is zero or negative
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrBelowMinimumInvestment is returned when an investment is under the minimum
	ErrBelowMinimumInvestment = errors.New("investment below minimum amount")

	// ErrInsufficientBalance is returned when the chosen currency balance cannot cover the amount
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrShowFullyFunded is returned when investing in a show that already reached its goal
	ErrShowFullyFunded = errors.New("show already fully funded")

	// ErrExceedsRemainingCapacity is returned when an investment is larger than the unfunded portion of the show
	ErrExceedsRemainingCapacity = errors.New("investment exceeds remaining capacity")

	// ErrNoActiveInvestors is returned when distributing royalties for a show with no active investments
	ErrNoActiveInvestors = errors.New("no active investors for show")

	// ErrNoClaimableRoyalties is returned when claiming with a zero royalty balance
	ErrNoClaimableRoyalties = errors.New("no claimable royalties")

	// ErrNotLoggedIn is returned when a session operation requires an authenticated user
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrStorageCorrupted is returned when a persisted snapshot fails validation.
	// Treated as non-fatal: callers discard the snapshot and continue with defaults.
	ErrStorageCorrupted = errors.New("stored state is corrupted")
)
