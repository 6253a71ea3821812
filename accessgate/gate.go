// Package accessgate implements the single-owner access control gate that
// authorizes privileged registry operations.
package accessgate

import (
	"log/slog"

	"github.com/razah7-lab/cairo-erc-2981/interfaces"
)

// Gate holds a single privileged principal.
type Gate struct {
	owner interfaces.Address
	log   *slog.Logger
}

// New creates a gate owned by owner.
func New(owner interfaces.Address, log *slog.Logger) *Gate {
	return &Gate{owner: owner, log: log}
}

// Owner returns the privileged principal, or the zero address after
// ownership has been renounced.
func (g *Gate) Owner() interfaces.Address {
	return g.owner
}

// AssertCallerIsOwner authorizes a privileged call. The zero-caller check
// runs first, guarding against unauthenticated default-context calls
// even when the owner has been renounced to zero.
func (g *Gate) AssertCallerIsOwner(caller interfaces.Address) error {
	if caller.IsZero() {
		return interfaces.ErrCallerIsZero
	}
	if caller != g.owner {
		return interfaces.ErrNotOwner
	}
	return nil
}

// TransferOwnership hands the gate to newOwner. Only the current owner
// may call it; the zero address is rejected (renouncing is explicit).
func (g *Gate) TransferOwnership(caller, newOwner interfaces.Address) error {
	if err := g.AssertCallerIsOwner(caller); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return interfaces.ErrInvalidReceiver
	}

	g.log.Info("ownership transferred",
		slog.String("previous", g.owner.String()),
		slog.String("new", newOwner.String()))
	g.owner = newOwner
	return nil
}

// RenounceOwnership clears the owner, permanently disabling every
// privileged operation behind this gate.
func (g *Gate) RenounceOwnership(caller interfaces.Address) error {
	if err := g.AssertCallerIsOwner(caller); err != nil {
		return err
	}

	g.log.Info("ownership renounced", slog.String("previous", g.owner.String()))
	g.owner = interfaces.ZeroAddress
	return nil
}
