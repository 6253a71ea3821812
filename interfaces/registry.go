package interfaces

import "github.com/holiman/uint256"

// CapabilityRegistry maps capability identifiers to a supported flag.
// Callers query it to discover which operation sets a registry instance
// implements.
type CapabilityRegistry interface {
	// Register marks a capability as supported. Idempotent.
	Register(id CapabilityID)

	// Deregister clears a capability. Deregistering the base
	// CapabilityQueryID fails with ErrSelfDeregister.
	Deregister(id CapabilityID) error

	// Supports reports whether a capability is declared. Always true for
	// the base CapabilityQueryID.
	Supports(id CapabilityID) bool
}

// CapabilityResolver looks up the capability set declared by an account.
// Accounts with no declared capability set resolve to nil.
type CapabilityResolver interface {
	CapabilitiesOf(account Address) CapabilityRegistry
}

// AccessGate holds a single privileged principal and authorizes
// privileged operations.
type AccessGate interface {
	// Owner returns the privileged principal, or the zero address after
	// ownership has been renounced.
	Owner() Address

	// AssertCallerIsOwner fails with ErrCallerIsZero if caller is the zero
	// sentinel and with ErrNotOwner unless caller is the stored owner.
	AssertCallerIsOwner(caller Address) error

	// TransferOwnership hands the gate to a new non-zero owner. Only the
	// current owner may call it.
	TransferOwnership(caller, newOwner Address) error

	// RenounceOwnership clears the owner, permanently disabling all
	// privileged operations. Only the current owner may call it.
	RenounceOwnership(caller Address) error
}

// TokenLedger owns the token holder, balance and approval state and
// implements mint, transfer, burn and approval with authorization checks.
// Every operation takes an explicit caller principal; there is no ambient
// caller context.
type TokenLedger interface {
	BalanceOf(account Address) (*uint256.Int, error)
	OwnerOf(tokenID TokenID) (Address, error)
	GetApproved(tokenID TokenID) (Address, error)
	IsApprovedForAll(owner, operator Address) bool

	Approve(caller, to Address, tokenID TokenID) error
	SetApprovalForAll(caller, operator Address, approved bool) error
	TransferFrom(caller, from, to Address, tokenID TokenID) error
	SafeTransferFrom(caller, from, to Address, tokenID TokenID, data []byte) error

	// Mint, SafeMint and Burn are privileged; the facade gates them behind
	// the access gate and they are not exposed to unprivileged callers.
	Mint(to Address, tokenID TokenID) error
	SafeMint(to Address, tokenID TokenID, data []byte) error
	Burn(tokenID TokenID) error
}

// RoyaltyPolicy owns the default royalty rate and per-token overrides and
// resolves the (receiver, amount) a marketplace should pay for a sale.
type RoyaltyPolicy interface {
	DefaultRoyalty() RoyaltyConfig
	TokenRoyalty(tokenID TokenID) RoyaltyConfig
	RoyaltyInfo(tokenID TokenID, salePrice *uint256.Int) (Address, *uint256.Int, error)

	SetDefaultRoyalty(cfg RoyaltyConfig) error
	SetTokenRoyalty(tokenID TokenID, cfg RoyaltyConfig) error
	ResetTokenRoyalty(tokenID TokenID)
}

// ReceiverAcceptor decides whether a destination account accepts a token
// delivered by safe transfer or safe mint. The check runs before any
// ledger mutation, so a rejection leaves no partial state.
type ReceiverAcceptor interface {
	Accepts(operator, from, to Address, tokenID TokenID, data []byte) bool
}

// Event is an audit record emitted by the token ledger.
type Event interface {
	// Name returns the canonical event name (Transfer, Approval,
	// ApprovalForAll).
	Name() string
}

// TransferEvent records an ownership change. Mint uses a zero From, burn a
// zero To.
type TransferEvent struct {
	From    Address
	To      Address
	TokenID TokenID
}

func (TransferEvent) Name() string { return "Transfer" }

// ApprovalEvent records a single-token approval grant.
type ApprovalEvent struct {
	Owner    Address
	Approved Address
	TokenID  TokenID
}

func (ApprovalEvent) Name() string { return "Approval" }

// ApprovalForAllEvent records an operator grant or revocation.
type ApprovalForAllEvent struct {
	Owner    Address
	Operator Address
	Approved bool
}

func (ApprovalForAllEvent) Name() string { return "ApprovalForAll" }

// EventSink consumes events emitted by the core components.
type EventSink interface {
	Emit(event Event)
}
