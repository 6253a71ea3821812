// Package registry wires the capability registry, access gate, token
// ledger and royalty policy into one serialized facade and adds snapshot
// persistence on top of content-addressed storage.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/holiman/uint256"

	"github.com/razah7-lab/cairo-erc-2981/accessgate"
	"github.com/razah7-lab/cairo-erc-2981/capability"
	"github.com/razah7-lab/cairo-erc-2981/eventlog"
	"github.com/razah7-lab/cairo-erc-2981/interfaces"
	"github.com/razah7-lab/cairo-erc-2981/ledger"
	"github.com/razah7-lab/cairo-erc-2981/royalty"
)

// Config collects everything a registry instance needs at construction.
type Config struct {
	// Owner is the initial privileged principal. Must be non-zero.
	Owner interfaces.Address

	// DefaultRoyalty is the initial fallback royalty configuration.
	DefaultRoyalty interfaces.RoyaltyConfig

	// Resolver looks up receiver capability sets for safe transfer and
	// safe mint. Nil means every receiver is accepted.
	Resolver interfaces.CapabilityResolver

	// Storage persists snapshots and event log exports. Nil disables
	// persistence; Snapshot, Restore and FlushEvents then fail with
	// ErrBackendUnavailable.
	Storage interfaces.StorageBackend

	Log *slog.Logger
}

// Registry is the facade over one registry instance. A single mutex
// serializes all operations, which is what lets the core components stay
// lock-free and makes each operation atomic from the outside.
type Registry struct {
	mu sync.Mutex

	capabilities *capability.Registry
	gate         *accessgate.Gate
	ledger       *ledger.Ledger
	policy       *royalty.Policy
	acceptor     interfaces.ReceiverAcceptor
	events       *eventlog.Log
	storage      interfaces.StorageBackend
	log          *slog.Logger
}

var _ interfaces.TokenRegistryService = (*Registry)(nil)

// snapshotVersion guards against restoring exports produced by an
// incompatible layout.
const snapshotVersion = 1

type snapshot struct {
	Version      int           `json:"version"`
	Owner        string        `json:"owner"`
	Capabilities []string      `json:"capabilities"`
	Ledger       ledger.State  `json:"ledger"`
	Royalty      royalty.State `json:"royalty"`
}

// New constructs and initializes a registry instance: the owner is set,
// the token and royalty capabilities are registered, and the default
// royalty is configured. Construction is the one-time setup; there is no
// separate initialize step to call or to call twice.
func New(cfg Config) (*Registry, error) {
	if cfg.Owner.IsZero() {
		return nil, fmt.Errorf("%w: registry owner must be non-zero", interfaces.ErrInvalidAccount)
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	capabilities := capability.NewRegistry(cfg.Log)
	capabilities.Register(interfaces.CapabilityQueryID)
	capabilities.Register(interfaces.TokenRegistryID)

	var acceptor interfaces.ReceiverAcceptor
	if cfg.Resolver != nil {
		acceptor = capability.NewAcceptor(cfg.Resolver)
	}

	events := eventlog.New(cfg.Log)
	policy := royalty.New(capabilities, cfg.Log)
	if err := policy.Initialize(cfg.DefaultRoyalty); err != nil {
		return nil, fmt.Errorf("failed to initialize royalty policy: %w", err)
	}

	return &Registry{
		capabilities: capabilities,
		gate:         accessgate.New(cfg.Owner, cfg.Log),
		ledger:       ledger.New(acceptor, events, cfg.Log),
		policy:       policy,
		acceptor:     acceptor,
		events:       events,
		storage:      cfg.Storage,
		log:          cfg.Log,
	}, nil
}

// Supports reports whether the instance declares capability id.
func (r *Registry) Supports(id interfaces.CapabilityID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capabilities.Supports(id)
}

// RegisterCapability declares an additional capability. Owner only.
func (r *Registry) RegisterCapability(caller interfaces.Address, id interfaces.CapabilityID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.gate.AssertCallerIsOwner(caller); err != nil {
		return err
	}
	r.capabilities.Register(id)
	return nil
}

// DeregisterCapability withdraws a declared capability. Owner only; the
// base capability-query id cannot be withdrawn.
func (r *Registry) DeregisterCapability(caller interfaces.Address, id interfaces.CapabilityID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.gate.AssertCallerIsOwner(caller); err != nil {
		return err
	}
	return r.capabilities.Deregister(id)
}

// Owner returns the privileged principal.
func (r *Registry) Owner() interfaces.Address {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gate.Owner()
}

// TransferOwnership hands the instance to newOwner.
func (r *Registry) TransferOwnership(caller, newOwner interfaces.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gate.TransferOwnership(caller, newOwner)
}

// RenounceOwnership permanently disables every privileged operation.
func (r *Registry) RenounceOwnership(caller interfaces.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gate.RenounceOwnership(caller)
}

// BalanceOf returns the number of tokens held by account.
func (r *Registry) BalanceOf(account interfaces.Address) (*uint256.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.BalanceOf(account)
}

// OwnerOf returns the holder of tokenID.
func (r *Registry) OwnerOf(tokenID interfaces.TokenID) (interfaces.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.OwnerOf(tokenID)
}

// GetApproved returns the approved address for tokenID.
func (r *Registry) GetApproved(tokenID interfaces.TokenID) (interfaces.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.GetApproved(tokenID)
}

// IsApprovedForAll reports whether operator may act on all of owner's
// tokens.
func (r *Registry) IsApprovedForAll(owner, operator interfaces.Address) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.IsApprovedForAll(owner, operator)
}

// Approve grants to a single-token approval for tokenID.
func (r *Registry) Approve(caller, to interfaces.Address, tokenID interfaces.TokenID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.Approve(caller, to, tokenID)
}

// SetApprovalForAll records a blanket operator grant for caller's tokens.
func (r *Registry) SetApprovalForAll(caller, operator interfaces.Address, approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.SetApprovalForAll(caller, operator, approved)
}

// TransferFrom moves tokenID from from to to.
func (r *Registry) TransferFrom(caller, from, to interfaces.Address, tokenID interfaces.TokenID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.TransferFrom(caller, from, to, tokenID)
}

// SafeTransferFrom moves tokenID with the receiver-acceptance check.
func (r *Registry) SafeTransferFrom(caller, from, to interfaces.Address, tokenID interfaces.TokenID, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.SafeTransferFrom(caller, from, to, tokenID, data)
}

// Mint creates tokenID with holder to. Owner only.
func (r *Registry) Mint(caller, to interfaces.Address, tokenID interfaces.TokenID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.gate.AssertCallerIsOwner(caller); err != nil {
		return err
	}
	return r.ledger.Mint(to, tokenID)
}

// SafeMint creates tokenID with the receiver-acceptance check. Owner
// only.
func (r *Registry) SafeMint(caller, to interfaces.Address, tokenID interfaces.TokenID, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.gate.AssertCallerIsOwner(caller); err != nil {
		return err
	}
	return r.ledger.SafeMint(to, tokenID, data)
}

// Burn destroys tokenID. Owner only.
func (r *Registry) Burn(caller interfaces.Address, tokenID interfaces.TokenID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.gate.AssertCallerIsOwner(caller); err != nil {
		return err
	}
	return r.ledger.Burn(tokenID)
}

// DefaultRoyalty returns the fallback royalty configuration.
func (r *Registry) DefaultRoyalty() interfaces.RoyaltyConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.policy.DefaultRoyalty()
}

// TokenRoyalty returns the royalty override for tokenID, zero-receiver
// when none is set.
func (r *Registry) TokenRoyalty(tokenID interfaces.TokenID) interfaces.RoyaltyConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.policy.TokenRoyalty(tokenID)
}

// RoyaltyInfo resolves the royalty receiver and amount for a sale of
// tokenID at salePrice.
func (r *Registry) RoyaltyInfo(tokenID interfaces.TokenID, salePrice *uint256.Int) (interfaces.Address, *uint256.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.policy.RoyaltyInfo(tokenID, salePrice)
}

// SetDefaultRoyalty overwrites the default royalty. Owner only.
func (r *Registry) SetDefaultRoyalty(caller interfaces.Address, cfg interfaces.RoyaltyConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.gate.AssertCallerIsOwner(caller); err != nil {
		return err
	}
	return r.policy.SetDefaultRoyalty(cfg)
}

// SetTokenRoyalty overwrites the royalty override for tokenID. Owner
// only.
func (r *Registry) SetTokenRoyalty(caller interfaces.Address, tokenID interfaces.TokenID, cfg interfaces.RoyaltyConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.gate.AssertCallerIsOwner(caller); err != nil {
		return err
	}
	return r.policy.SetTokenRoyalty(tokenID, cfg)
}

// ResetTokenRoyalty removes the royalty override for tokenID. Owner
// only.
func (r *Registry) ResetTokenRoyalty(caller interfaces.Address, tokenID interfaces.TokenID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.gate.AssertCallerIsOwner(caller); err != nil {
		return err
	}
	r.policy.ResetTokenRoyalty(tokenID)
	return nil
}

// Events returns the audit events recorded so far, in emission order.
func (r *Registry) Events() []eventlog.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events.Records()
}

// FlushEvents exports the event log to the storage backend and returns
// the content ID of the export.
func (r *Registry) FlushEvents(ctx context.Context) (interfaces.ContentID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.storage == nil {
		return interfaces.ContentID{}, fmt.Errorf("%w: no storage backend configured", interfaces.ErrBackendUnavailable)
	}
	return r.events.FlushTo(ctx, r.storage)
}

// Snapshot serializes the full instance state and stores it in the
// storage backend, returning the snapshot's content ID.
func (r *Registry) Snapshot(ctx context.Context) (interfaces.ContentID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.storage == nil {
		return interfaces.ContentID{}, fmt.Errorf("%w: no storage backend configured", interfaces.ErrBackendUnavailable)
	}

	snap := snapshot{
		Version: snapshotVersion,
		Owner:   r.gate.Owner().String(),
		Ledger:  r.ledger.ExportState(),
		Royalty: r.policy.ExportState(),
	}
	for _, id := range r.capabilities.List() {
		snap.Capabilities = append(snap.Capabilities, id.String())
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return interfaces.ContentID{}, fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	id, err := r.storage.Store(ctx, data, interfaces.SnapshotType)
	if err != nil {
		return interfaces.ContentID{}, fmt.Errorf("failed to store snapshot: %w", err)
	}

	r.log.Info("snapshot stored",
		slog.String("contentID", id.String()),
		slog.Int("tokens", len(snap.Ledger.Tokens)))
	return id, nil
}

// Restore fetches a snapshot by content ID and replaces the instance
// state with it. A failure at any stage leaves the current state
// untouched.
func (r *Registry) Restore(ctx context.Context, id interfaces.ContentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.storage == nil {
		return fmt.Errorf("%w: no storage backend configured", interfaces.ErrBackendUnavailable)
	}

	data, err := r.storage.Fetch(ctx, id, interfaces.SnapshotType)
	if err != nil {
		return fmt.Errorf("failed to fetch snapshot %s: %w", id, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	owner, err := interfaces.NewAddressFromHex(snap.Owner)
	if err != nil {
		return fmt.Errorf("invalid snapshot owner: %w", err)
	}

	capIDs := make([]interfaces.CapabilityID, 0, len(snap.Capabilities))
	for _, raw := range snap.Capabilities {
		capID, err := interfaces.NewCapabilityIDFromHex(raw)
		if err != nil {
			return fmt.Errorf("invalid snapshot capability id %q: %w", raw, err)
		}
		capIDs = append(capIDs, capID)
	}

	// Decode into staged components first so a malformed snapshot cannot
	// leave the instance half-restored. The capability set is staged too:
	// ids registered after the snapshot was taken must not survive.
	stagedCapabilities := capability.NewRegistry(r.log)
	for _, capID := range capIDs {
		stagedCapabilities.Register(capID)
	}
	stagedLedger := ledger.New(r.acceptor, r.events, r.log)
	if err := stagedLedger.ImportState(snap.Ledger); err != nil {
		return fmt.Errorf("failed to restore ledger state: %w", err)
	}
	stagedPolicy := royalty.New(stagedCapabilities, r.log)
	if err := stagedPolicy.ImportState(snap.Royalty); err != nil {
		return fmt.Errorf("failed to restore royalty state: %w", err)
	}

	r.capabilities = stagedCapabilities
	r.ledger = stagedLedger
	r.policy = stagedPolicy
	r.gate = accessgate.New(owner, r.log)

	r.log.Info("snapshot restored",
		slog.String("contentID", id.String()),
		slog.Int("tokens", len(snap.Ledger.Tokens)))
	return nil
}
