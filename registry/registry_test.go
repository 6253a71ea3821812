package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/razah7-lab/cairo-erc-2981/capability"
	"github.com/razah7-lab/cairo-erc-2981/interfaces"
	"github.com/razah7-lab/cairo-erc-2981/storage"
)

var (
	owner     = mustAddr("0x1000000000000000000000000000000000000001")
	collector = mustAddr("0x2000000000000000000000000000000000000002")
	buyer     = mustAddr("0x3000000000000000000000000000000000000003")
	treasury  = mustAddr("0x4000000000000000000000000000000000000004")
)

func mustAddr(s string) interfaces.Address {
	addr, err := interfaces.NewAddressFromHex(s)
	if err != nil {
		panic(err)
	}
	return addr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultRoyalty() interfaces.RoyaltyConfig {
	return interfaces.RoyaltyConfig{
		Receiver:    treasury,
		Numerator:   uint256.NewInt(250),
		Denominator: uint256.NewInt(10000),
	}
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := New(Config{
		Owner:          owner,
		DefaultRoyalty: defaultRoyalty(),
		Storage:        storage.NewMemoryBackend(testLogger()),
		Log:            testLogger(),
	})
	require.NoError(t, err)
	return reg
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{Owner: interfaces.ZeroAddress, DefaultRoyalty: defaultRoyalty(), Log: testLogger()})
	assert.ErrorIs(t, err, interfaces.ErrInvalidAccount)

	_, err = New(Config{
		Owner: owner,
		DefaultRoyalty: interfaces.RoyaltyConfig{
			Receiver:    treasury,
			Numerator:   uint256.NewInt(2),
			Denominator: uint256.NewInt(1),
		},
		Log: testLogger(),
	})
	assert.ErrorIs(t, err, interfaces.ErrInvalidFeeRate)
}

func TestNewDeclaresCapabilities(t *testing.T) {
	reg := testRegistry(t)

	assert.True(t, reg.Supports(interfaces.CapabilityQueryID))
	assert.True(t, reg.Supports(interfaces.TokenRegistryID))
	assert.True(t, reg.Supports(interfaces.RoyaltyPolicyID))
	assert.False(t, reg.Supports(interfaces.TokenReceiverID))
	assert.Equal(t, owner, reg.Owner())
}

func TestPrivilegedOperationsAreGated(t *testing.T) {
	reg := testRegistry(t)
	tokenID := interfaces.NewTokenID(1)

	tests := []struct {
		name string
		op   func(caller interfaces.Address) error
	}{
		{name: "mint", op: func(c interfaces.Address) error { return reg.Mint(c, collector, tokenID) }},
		{name: "safe mint", op: func(c interfaces.Address) error { return reg.SafeMint(c, collector, tokenID, nil) }},
		{name: "burn", op: func(c interfaces.Address) error { return reg.Burn(c, tokenID) }},
		{name: "set default royalty", op: func(c interfaces.Address) error { return reg.SetDefaultRoyalty(c, defaultRoyalty()) }},
		{name: "set token royalty", op: func(c interfaces.Address) error { return reg.SetTokenRoyalty(c, tokenID, defaultRoyalty()) }},
		{name: "reset token royalty", op: func(c interfaces.Address) error { return reg.ResetTokenRoyalty(c, tokenID) }},
		{name: "register capability", op: func(c interfaces.Address) error { return reg.RegisterCapability(c, interfaces.TokenReceiverID) }},
		{name: "deregister capability", op: func(c interfaces.Address) error { return reg.DeregisterCapability(c, interfaces.TokenRegistryID) }},
		{name: "transfer ownership", op: func(c interfaces.Address) error { return reg.TransferOwnership(c, buyer) }},
		{name: "renounce ownership", op: func(c interfaces.Address) error { return reg.RenounceOwnership(c) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.op(collector), interfaces.ErrNotOwner)
			assert.ErrorIs(t, tt.op(interfaces.ZeroAddress), interfaces.ErrCallerIsZero)
		})
	}
}

func TestTokenLifecycle(t *testing.T) {
	reg := testRegistry(t)
	tokenID := interfaces.NewTokenID(7)

	require.NoError(t, reg.Mint(owner, collector, tokenID))

	holder, err := reg.OwnerOf(tokenID)
	require.NoError(t, err)
	assert.Equal(t, collector, holder)

	// Collector approves the buyer, who pulls the token.
	require.NoError(t, reg.Approve(collector, buyer, tokenID))
	require.NoError(t, reg.TransferFrom(buyer, collector, buyer, tokenID))

	holder, err = reg.OwnerOf(tokenID)
	require.NoError(t, err)
	assert.Equal(t, buyer, holder)

	bal, err := reg.BalanceOf(buyer)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bal.Uint64())

	require.NoError(t, reg.Burn(owner, tokenID))
	_, err = reg.OwnerOf(tokenID)
	assert.ErrorIs(t, err, interfaces.ErrInvalidTokenID)

	// Mint, approval x2, transfer, burn.
	assert.Equal(t, 4, len(reg.Events()))
}

func TestRoyaltyResolution(t *testing.T) {
	reg := testRegistry(t)
	tokenID := interfaces.NewTokenID(7)
	require.NoError(t, reg.Mint(owner, collector, tokenID))

	// Default: 250/10000 of 1_000_000 = 25_000.
	receiver, amount, err := reg.RoyaltyInfo(tokenID, uint256.NewInt(1_000_000))
	require.NoError(t, err)
	assert.Equal(t, treasury, receiver)
	assert.Equal(t, uint64(25_000), amount.Uint64())

	// Override: 10% to the collector.
	override := interfaces.RoyaltyConfig{
		Receiver:    collector,
		Numerator:   uint256.NewInt(10),
		Denominator: uint256.NewInt(100),
	}
	require.NoError(t, reg.SetTokenRoyalty(owner, tokenID, override))

	receiver, amount, err = reg.RoyaltyInfo(tokenID, uint256.NewInt(1_000_000))
	require.NoError(t, err)
	assert.Equal(t, collector, receiver)
	assert.Equal(t, uint64(100_000), amount.Uint64())

	// Reset falls back to the default.
	require.NoError(t, reg.ResetTokenRoyalty(owner, tokenID))
	receiver, _, err = reg.RoyaltyInfo(tokenID, uint256.NewInt(1_000_000))
	require.NoError(t, err)
	assert.Equal(t, treasury, receiver)
}

func TestOwnershipHandoff(t *testing.T) {
	reg := testRegistry(t)

	require.NoError(t, reg.TransferOwnership(owner, buyer))
	assert.Equal(t, buyer, reg.Owner())

	assert.ErrorIs(t, reg.Mint(owner, collector, interfaces.NewTokenID(1)), interfaces.ErrNotOwner)
	require.NoError(t, reg.Mint(buyer, collector, interfaces.NewTokenID(1)))

	require.NoError(t, reg.RenounceOwnership(buyer))
	assert.Equal(t, interfaces.ZeroAddress, reg.Owner())
	assert.ErrorIs(t, reg.Mint(buyer, collector, interfaces.NewTokenID(2)), interfaces.ErrNotOwner)
}

func TestSafeMintChecksReceiverCapabilities(t *testing.T) {
	resolver := capability.NewStaticResolver()

	// A contract account that has not declared the receiver capability.
	contractCaps := capability.NewRegistry(testLogger())
	contract := mustAddr("0x5000000000000000000000000000000000000005")
	resolver.Declare(contract, contractCaps)

	reg, err := New(Config{
		Owner:          owner,
		DefaultRoyalty: defaultRoyalty(),
		Resolver:       resolver,
		Log:            testLogger(),
	})
	require.NoError(t, err)

	tokenID := interfaces.NewTokenID(1)
	assert.ErrorIs(t, reg.SafeMint(owner, contract, tokenID, nil), interfaces.ErrSafeMintFailed)

	// Externally owned accounts always accept.
	require.NoError(t, reg.SafeMint(owner, collector, tokenID, nil))

	// Declaring the capability makes the contract acceptable.
	contractCaps.Register(interfaces.TokenReceiverID)
	require.NoError(t, reg.SafeMint(owner, contract, interfaces.NewTokenID(2), nil))
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	backend := storage.NewMemoryBackend(testLogger())
	ctx := context.Background()

	reg, err := New(Config{
		Owner:          owner,
		DefaultRoyalty: defaultRoyalty(),
		Storage:        backend,
		Log:            testLogger(),
	})
	require.NoError(t, err)

	tokenID := interfaces.NewTokenID(7)
	require.NoError(t, reg.Mint(owner, collector, tokenID))
	require.NoError(t, reg.Approve(collector, buyer, tokenID))
	require.NoError(t, reg.SetApprovalForAll(collector, buyer, true))
	require.NoError(t, reg.SetTokenRoyalty(owner, tokenID, interfaces.RoyaltyConfig{
		Receiver:    collector,
		Numerator:   uint256.NewInt(10),
		Denominator: uint256.NewInt(100),
	}))

	snapID, err := reg.Snapshot(ctx)
	require.NoError(t, err)

	// Mutate past the snapshot, then restore into a fresh instance.
	require.NoError(t, reg.Burn(owner, tokenID))

	restored, err := New(Config{
		Owner:          buyer,
		DefaultRoyalty: defaultRoyalty(),
		Storage:        backend,
		Log:            testLogger(),
	})
	require.NoError(t, err)
	require.NoError(t, restored.Restore(ctx, snapID))

	assert.Equal(t, owner, restored.Owner())

	holder, err := restored.OwnerOf(tokenID)
	require.NoError(t, err)
	assert.Equal(t, collector, holder)

	approved, err := restored.GetApproved(tokenID)
	require.NoError(t, err)
	assert.Equal(t, buyer, approved)
	assert.True(t, restored.IsApprovedForAll(collector, buyer))

	receiver, amount, err := restored.RoyaltyInfo(tokenID, uint256.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, collector, receiver)
	assert.Equal(t, uint64(100), amount.Uint64())

	bal, err := restored.BalanceOf(collector)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bal.Uint64())
}

func TestRestoreReplacesCapabilitySet(t *testing.T) {
	reg := testRegistry(t)
	ctx := context.Background()

	snapID, err := reg.Snapshot(ctx)
	require.NoError(t, err)

	// Capability changes made after the snapshot must not survive a
	// restore to it.
	require.NoError(t, reg.RegisterCapability(owner, interfaces.TokenReceiverID))
	require.NoError(t, reg.DeregisterCapability(owner, interfaces.TokenRegistryID))

	require.NoError(t, reg.Restore(ctx, snapID))

	assert.False(t, reg.Supports(interfaces.TokenReceiverID))
	assert.True(t, reg.Supports(interfaces.TokenRegistryID))
	assert.True(t, reg.Supports(interfaces.RoyaltyPolicyID))
}

func TestRestoreMissingSnapshotLeavesStateUntouched(t *testing.T) {
	reg := testRegistry(t)
	tokenID := interfaces.NewTokenID(1)
	require.NoError(t, reg.Mint(owner, collector, tokenID))

	err := reg.Restore(context.Background(), interfaces.ComputeID([]byte("absent")))
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)

	holder, err := reg.OwnerOf(tokenID)
	require.NoError(t, err)
	assert.Equal(t, collector, holder)
	assert.Equal(t, owner, reg.Owner())
}

func TestPersistenceRequiresStorage(t *testing.T) {
	reg, err := New(Config{Owner: owner, DefaultRoyalty: defaultRoyalty(), Log: testLogger()})
	require.NoError(t, err)

	_, err = reg.Snapshot(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrBackendUnavailable)

	err = reg.Restore(context.Background(), interfaces.ContentID{})
	assert.ErrorIs(t, err, interfaces.ErrBackendUnavailable)

	_, err = reg.FlushEvents(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrBackendUnavailable)
}

func TestFlushEvents(t *testing.T) {
	reg := testRegistry(t)
	require.NoError(t, reg.Mint(owner, collector, interfaces.NewTokenID(1)))

	id, err := reg.FlushEvents(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, interfaces.ContentID{}, id)
}

func TestCapabilityAdministration(t *testing.T) {
	reg := testRegistry(t)

	require.NoError(t, reg.RegisterCapability(owner, interfaces.TokenReceiverID))
	assert.True(t, reg.Supports(interfaces.TokenReceiverID))

	require.NoError(t, reg.DeregisterCapability(owner, interfaces.TokenReceiverID))
	assert.False(t, reg.Supports(interfaces.TokenReceiverID))

	assert.ErrorIs(t, reg.DeregisterCapability(owner, interfaces.CapabilityQueryID), interfaces.ErrSelfDeregister)
}
