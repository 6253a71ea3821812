// Package interfaces defines the core interfaces and types for the token
// registry system. It provides the contract between different components
// without implementation details.
package interfaces

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Address is a fixed-width account identifier. The all-zero value is a
// sentinel meaning "no account".
type Address [20]byte

// ZeroAddress is the "no account" sentinel.
var ZeroAddress = Address{}

// NewAddressFromBytes creates an address from a raw 20-byte slice.
func NewAddressFromBytes(addr []byte) (Address, error) {
	if len(addr) != 20 {
		return Address{}, errors.New("invalid address length: must be 20 bytes")
	}

	var res Address
	copy(res[:], addr)
	return res, nil
}

// NewAddressFromHex creates an address from a hex string, with or without
// the 0x prefix.
func NewAddressFromHex(addr string) (Address, error) {
	if !common.IsHexAddress(addr) {
		return Address{}, fmt.Errorf("invalid address %q", addr)
	}
	return Address(common.HexToAddress(addr)), nil
}

// String returns the 0x-prefixed hex representation of the address.
func (addr Address) String() string {
	return "0x" + hex.EncodeToString(addr[:])
}

// Bytes returns the raw 20-byte address.
func (addr Address) Bytes() []byte {
	return addr[:]
}

// Equal compares two addresses for equality.
func (addr Address) Equal(other Address) bool {
	return addr == other
}

// IsZero reports whether the address is the "no account" sentinel.
func (addr Address) IsZero() bool {
	return addr == ZeroAddress
}

// TokenID is an unsigned 256-bit token identifier, stored big-endian.
type TokenID [32]byte

// NewTokenID creates a token identifier from a uint64.
func NewTokenID(id uint64) TokenID {
	var res TokenID
	binary.BigEndian.PutUint64(res[24:], id)
	return res
}

// NewTokenIDFromUint256 creates a token identifier from a 256-bit integer.
func NewTokenIDFromUint256(id *uint256.Int) TokenID {
	return TokenID(id.Bytes32())
}

// NewTokenIDFromHex creates a token identifier from a hex string, with or
// without the 0x prefix. Short strings are left-padded with zeros.
func NewTokenIDFromHex(source string) (TokenID, error) {
	clean := strings.TrimPrefix(source, "0x")
	if len(clean) == 0 || len(clean) > 64 {
		return TokenID{}, errors.New("invalid token id length: hex string must be 1-64 characters")
	}
	if len(clean)%2 == 1 {
		clean = "0" + clean
	}

	idBytes, err := hex.DecodeString(clean)
	if err != nil {
		return TokenID{}, fmt.Errorf("invalid hex format: %w", err)
	}

	var res TokenID
	copy(res[32-len(idBytes):], idBytes)
	return res, nil
}

// String returns the 0x-prefixed hex representation of the token id.
func (id TokenID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// Bytes returns the raw 32-byte big-endian token id.
func (id TokenID) Bytes() []byte {
	return id[:]
}

// Uint256 returns the token id as a 256-bit integer.
func (id TokenID) Uint256() *uint256.Int {
	return new(uint256.Int).SetBytes(id[:])
}

// CapabilityID is a fixed 256-bit tag identifying a supported operation
// set, queryable by external callers through the capability registry.
type CapabilityID [32]byte

// NewCapabilityIDFromHex creates a capability id from a hex string.
func NewCapabilityIDFromHex(source string) (CapabilityID, error) {
	clean := strings.TrimPrefix(source, "0x")
	if len(clean) == 0 || len(clean) > 64 {
		return CapabilityID{}, errors.New("invalid capability id length: hex string must be 1-64 characters")
	}
	if len(clean)%2 == 1 {
		clean = "0" + clean
	}

	idBytes, err := hex.DecodeString(clean)
	if err != nil {
		return CapabilityID{}, fmt.Errorf("invalid hex format: %w", err)
	}

	var res CapabilityID
	copy(res[32-len(idBytes):], idBytes)
	return res, nil
}

func mustCapabilityID(source string) CapabilityID {
	id, err := NewCapabilityIDFromHex(source)
	if err != nil {
		panic(err)
	}
	return id
}

// Capability identifiers preserved bit-exact with the deployed contract
// ecosystem these registries interoperate with.
var (
	// CapabilityQueryID identifies the base "supports-capability-query"
	// interface. It can never be deregistered.
	CapabilityQueryID = mustCapabilityID("0x3f918d17e5ee77373b56385708f855659a07f75997f365cf87748628532a055")

	// TokenRegistryID identifies the token ownership/transfer/approval
	// operation set.
	TokenRegistryID = mustCapabilityID("0x33eb2f84c309543403fd69f0d0f363781ef06ef6faeb0131ff16ea3175bd943")

	// RoyaltyPolicyID identifies the royalty resolution operation set.
	RoyaltyPolicyID = mustCapabilityID("0x2d3414e45a8700c29f119a54b9f11dca0e29e06ddcb214018fc37340e165ed6")

	// TokenReceiverID is the capability a contract account must declare to
	// accept tokens through safe transfer and safe mint.
	TokenReceiverID = mustCapabilityID("0x3a0dff5f70d80458ad14ae37bb182a728e3c8cdda0402a5daa86620bdf910bc")
)

// String returns the 0x-prefixed hex representation of the capability id.
func (id CapabilityID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// RoyaltyConfig is a (receiver, rate) pair. The rate is the fraction
// Numerator/Denominator of a sale price. A zero receiver marks the config
// as absent.
type RoyaltyConfig struct {
	Receiver    Address
	Numerator   *uint256.Int
	Denominator *uint256.Int
}

// IsZero reports whether the config is the "no override" sentinel.
func (rc RoyaltyConfig) IsZero() bool {
	return rc.Receiver.IsZero()
}

// Validate checks the invariants every royalty config must hold:
// non-zero receiver, non-zero denominator and a rate of at most 100%.
func (rc RoyaltyConfig) Validate() error {
	if rc.Receiver.IsZero() {
		return ErrInvalidReceiver
	}
	if rc.Denominator == nil || rc.Denominator.IsZero() {
		return ErrInvalidFeeDenominator
	}
	if rc.Numerator == nil || rc.Numerator.Gt(rc.Denominator) {
		return ErrInvalidFeeRate
	}
	return nil
}
