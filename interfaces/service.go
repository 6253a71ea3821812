package interfaces

import (
	"context"

	"github.com/holiman/uint256"
)

// TokenRegistryService is the complete operation surface of one registry
// instance: capability discovery, access control, the token ledger, the
// royalty policy and state persistence. Implementations serialize
// operations so each runs to completion before the next.
//
// Every mutating operation takes the caller principal explicitly; there
// is no ambient caller context.
type TokenRegistryService interface {
	// Capability discovery and administration.
	Supports(id CapabilityID) bool
	RegisterCapability(caller Address, id CapabilityID) error
	DeregisterCapability(caller Address, id CapabilityID) error

	// Access control.
	Owner() Address
	TransferOwnership(caller, newOwner Address) error
	RenounceOwnership(caller Address) error

	// Token ledger queries.
	BalanceOf(account Address) (*uint256.Int, error)
	OwnerOf(tokenID TokenID) (Address, error)
	GetApproved(tokenID TokenID) (Address, error)
	IsApprovedForAll(owner, operator Address) bool

	// Token ledger mutations.
	Approve(caller, to Address, tokenID TokenID) error
	SetApprovalForAll(caller, operator Address, approved bool) error
	TransferFrom(caller, from, to Address, tokenID TokenID) error
	SafeTransferFrom(caller, from, to Address, tokenID TokenID, data []byte) error
	Mint(caller, to Address, tokenID TokenID) error
	SafeMint(caller, to Address, tokenID TokenID, data []byte) error
	Burn(caller Address, tokenID TokenID) error

	// Royalty policy.
	DefaultRoyalty() RoyaltyConfig
	TokenRoyalty(tokenID TokenID) RoyaltyConfig
	RoyaltyInfo(tokenID TokenID, salePrice *uint256.Int) (Address, *uint256.Int, error)
	SetDefaultRoyalty(caller Address, cfg RoyaltyConfig) error
	SetTokenRoyalty(caller Address, tokenID TokenID, cfg RoyaltyConfig) error
	ResetTokenRoyalty(caller Address, tokenID TokenID) error

	// Persistence.
	Snapshot(ctx context.Context) (ContentID, error)
	Restore(ctx context.Context, id ContentID) error
	FlushEvents(ctx context.Context) (ContentID, error)
}
