// Package capability implements the interface-capability registry:
// a per-instance set of capability identifiers that external callers
// query to discover which operation sets a registry supports.
package capability

import (
	"log/slog"

	"github.com/razah7-lab/cairo-erc-2981/interfaces"
)

// Registry is a map-backed capability set. The base CapabilityQueryID is
// always supported and can never be deregistered.
type Registry struct {
	supported map[interfaces.CapabilityID]bool
	log       *slog.Logger
}

// NewRegistry creates an empty capability set.
func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		supported: make(map[interfaces.CapabilityID]bool),
		log:       log,
	}
}

// Register marks a capability as supported. Registering an already
// supported id is a no-op.
func (r *Registry) Register(id interfaces.CapabilityID) {
	if r.supported[id] {
		return
	}
	r.supported[id] = true
	r.log.Debug("capability registered", slog.String("id", id.String()))
}

// Deregister clears a capability. The base CapabilityQueryID is rejected:
// a registry that answers capability queries cannot deny answering them.
func (r *Registry) Deregister(id interfaces.CapabilityID) error {
	if id == interfaces.CapabilityQueryID {
		return interfaces.ErrSelfDeregister
	}
	delete(r.supported, id)
	r.log.Debug("capability deregistered", slog.String("id", id.String()))
	return nil
}

// Supports reports whether a capability is declared. Pure query; always
// true for the base CapabilityQueryID.
func (r *Registry) Supports(id interfaces.CapabilityID) bool {
	if id == interfaces.CapabilityQueryID {
		return true
	}
	return r.supported[id]
}

// List returns the declared capability ids in unspecified order. The
// implicit base CapabilityQueryID is included only when explicitly
// registered.
func (r *Registry) List() []interfaces.CapabilityID {
	ids := make([]interfaces.CapabilityID, 0, len(r.supported))
	for id := range r.supported {
		ids = append(ids, id)
	}
	return ids
}

// StaticResolver maps addresses to their declared capability sets. It
// backs the receiver-acceptance check: hosts register the capability sets
// of contract accounts they know about.
type StaticResolver struct {
	accounts map[interfaces.Address]interfaces.CapabilityRegistry
}

// NewStaticResolver creates an empty resolver.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{
		accounts: make(map[interfaces.Address]interfaces.CapabilityRegistry),
	}
}

// Declare associates an account with its capability set.
func (r *StaticResolver) Declare(account interfaces.Address, caps interfaces.CapabilityRegistry) {
	r.accounts[account] = caps
}

// CapabilitiesOf returns the capability set declared by account, or nil
// for accounts with no declared set (externally owned accounts).
func (r *StaticResolver) CapabilitiesOf(account interfaces.Address) interfaces.CapabilityRegistry {
	return r.accounts[account]
}

// Acceptor implements the receiver-acceptance check against a capability
// resolver. An account with a declared capability set must support
// TokenReceiverID; an account with no declared set is treated as
// externally owned and accepted.
type Acceptor struct {
	resolver interfaces.CapabilityResolver
}

// NewAcceptor creates an acceptor backed by resolver.
func NewAcceptor(resolver interfaces.CapabilityResolver) *Acceptor {
	return &Acceptor{resolver: resolver}
}

// Accepts reports whether the destination accepts the token.
func (a *Acceptor) Accepts(_, _, to interfaces.Address, _ interfaces.TokenID, _ []byte) bool {
	caps := a.resolver.CapabilitiesOf(to)
	if caps == nil {
		return true
	}
	return caps.Supports(interfaces.TokenReceiverID)
}
