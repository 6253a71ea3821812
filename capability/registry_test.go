package capability

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/razah7-lab/cairo-erc-2981/interfaces"
)

func newTestRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterAndSupports(t *testing.T) {
	r := newTestRegistry()

	assert.False(t, r.Supports(interfaces.TokenRegistryID))

	r.Register(interfaces.TokenRegistryID)
	assert.True(t, r.Supports(interfaces.TokenRegistryID))

	// Idempotent.
	r.Register(interfaces.TokenRegistryID)
	assert.True(t, r.Supports(interfaces.TokenRegistryID))
}

func TestCapabilityQueryIDAlwaysSupported(t *testing.T) {
	r := newTestRegistry()

	// Supported without ever being registered.
	assert.True(t, r.Supports(interfaces.CapabilityQueryID))

	err := r.Deregister(interfaces.CapabilityQueryID)
	assert.ErrorIs(t, err, interfaces.ErrSelfDeregister)
	assert.True(t, r.Supports(interfaces.CapabilityQueryID))
}

func TestDeregister(t *testing.T) {
	r := newTestRegistry()
	r.Register(interfaces.RoyaltyPolicyID)

	require.NoError(t, r.Deregister(interfaces.RoyaltyPolicyID))
	assert.False(t, r.Supports(interfaces.RoyaltyPolicyID))

	// Deregistering an absent id is a no-op.
	require.NoError(t, r.Deregister(interfaces.RoyaltyPolicyID))
}

func TestAcceptor(t *testing.T) {
	eoa, err := interfaces.NewAddressFromHex("0x00000000000000000000000000000000000000aa")
	require.NoError(t, err)
	receiver, err := interfaces.NewAddressFromHex("0x00000000000000000000000000000000000000bb")
	require.NoError(t, err)
	nonReceiver, err := interfaces.NewAddressFromHex("0x00000000000000000000000000000000000000cc")
	require.NoError(t, err)

	receiverCaps := newTestRegistry()
	receiverCaps.Register(interfaces.TokenReceiverID)

	resolver := NewStaticResolver()
	resolver.Declare(receiver, receiverCaps)
	resolver.Declare(nonReceiver, newTestRegistry())

	acceptor := NewAcceptor(resolver)
	tokenID := interfaces.NewTokenID(1)

	// Unknown accounts are externally owned and accepted.
	assert.True(t, acceptor.Accepts(eoa, eoa, eoa, tokenID, nil))

	// Declared accounts must support the token-receiver capability.
	assert.True(t, acceptor.Accepts(eoa, eoa, receiver, tokenID, nil))
	assert.False(t, acceptor.Accepts(eoa, eoa, nonReceiver, tokenID, nil))
}
