// Package interfaces defines the shared types and component contracts of
// the token registry system.
//
// The package holds three groups of declarations:
//
//   - Value types used across components: Address, TokenID, CapabilityID,
//     RoyaltyConfig and the content-addressed storage identifiers.
//
//   - Component interfaces: TokenLedger and RoyaltyPolicy (the core state
//     machines), CapabilityRegistry and AccessGate (their collaborators),
//     and the supporting EventSink, ReceiverAcceptor and StorageBackend
//     contracts.
//
//   - Sentinel errors for every failure mode the components report.
//     Callers match them with errors.Is; implementations wrap them with
//     additional context.
//
// Caller identity is always an explicit Address parameter. There is no
// ambient caller context anywhere in the system, which keeps the
// authorization checks testable and unbypassable.
package interfaces
