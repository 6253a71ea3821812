// Package registry assembles a complete token registry instance from its
// core components and exposes it as a single serialized facade.
//
// # Architecture
//
// A Registry owns one instance each of:
//
//   - capability.Registry: the set of capability identifiers the
//     instance declares to external callers.
//   - accessgate.Gate: the single-owner gate authorizing privileged
//     operations.
//   - ledger.Ledger: holder, balance and approval state with the
//     authorization checks of every token operation.
//   - royalty.Policy: the default royalty rate and per-token overrides.
//   - eventlog.Log: the ordered audit log of Transfer, Approval and
//     ApprovalForAll events.
//
// The core components are single-threaded by design; the facade's mutex
// serializes every operation so each runs to completion before the next,
// making individual operations atomic from a caller's point of view.
//
// # Privileged operations
//
// Mint, SafeMint, Burn, the royalty setters, capability administration
// and ownership changes require the caller to be the gate's owner.
// Queries and the standard transfer/approval operations are open to any
// caller, with the ledger enforcing per-token authorization.
//
// # Persistence
//
// When constructed with a storage backend, the facade can export its
// full state as a content-addressed snapshot and restore from one, and
// flush the event log for off-instance indexing. Restores are
// all-or-nothing: a malformed snapshot leaves the running state
// untouched.
//
// # Usage
//
//	reg, err := registry.New(registry.Config{
//		Owner:          owner,
//		DefaultRoyalty: interfaces.RoyaltyConfig{
//			Receiver:    treasury,
//			Numerator:   uint256.NewInt(250),
//			Denominator: uint256.NewInt(10000),
//		},
//		Storage: backend,
//		Log:     logger,
//	})
//	if err != nil {
//		return err
//	}
//
//	err = reg.Mint(owner, collector, interfaces.NewTokenID(1))
package registry
