package accessgate

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/razah7-lab/cairo-erc-2981/interfaces"
)

var (
	owner    = mustAddr("0x0000000000000000000000000000000000000001")
	stranger = mustAddr("0x0000000000000000000000000000000000000002")
)

func mustAddr(s string) interfaces.Address {
	addr, err := interfaces.NewAddressFromHex(s)
	if err != nil {
		panic(err)
	}
	return addr
}

func newTestGate() *Gate {
	return New(owner, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAssertCallerIsOwner(t *testing.T) {
	g := newTestGate()

	assert.NoError(t, g.AssertCallerIsOwner(owner))
	assert.ErrorIs(t, g.AssertCallerIsOwner(stranger), interfaces.ErrNotOwner)
	assert.ErrorIs(t, g.AssertCallerIsOwner(interfaces.ZeroAddress), interfaces.ErrCallerIsZero)
}

func TestTransferOwnership(t *testing.T) {
	g := newTestGate()

	err := g.TransferOwnership(stranger, stranger)
	assert.ErrorIs(t, err, interfaces.ErrNotOwner)

	err = g.TransferOwnership(owner, interfaces.ZeroAddress)
	assert.ErrorIs(t, err, interfaces.ErrInvalidReceiver)

	require.NoError(t, g.TransferOwnership(owner, stranger))
	assert.Equal(t, stranger, g.Owner())
	assert.NoError(t, g.AssertCallerIsOwner(stranger))
	assert.ErrorIs(t, g.AssertCallerIsOwner(owner), interfaces.ErrNotOwner)
}

func TestRenounceOwnership(t *testing.T) {
	g := newTestGate()

	require.NoError(t, g.RenounceOwnership(owner))
	assert.True(t, g.Owner().IsZero())

	// No caller can pass the gate afterwards; the zero caller is still
	// rejected by the zero-sentinel check, not accepted as owner.
	assert.ErrorIs(t, g.AssertCallerIsOwner(owner), interfaces.ErrNotOwner)
	assert.ErrorIs(t, g.AssertCallerIsOwner(interfaces.ZeroAddress), interfaces.ErrCallerIsZero)
}
