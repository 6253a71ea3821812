package interfaces

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Storage errors.
var (
	// ErrContentNotFound is returned when a backend does not hold the
	// requested content.
	ErrContentNotFound = errors.New("content not found")

	// ErrInvalidLocationURI is returned for malformed backend URIs.
	ErrInvalidLocationURI = errors.New("invalid storage location URI")

	// ErrBackendUnavailable is returned when a backend cannot be reached.
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)

// ContentID is a 32-byte SHA-256 hash uniquely identifying stored content.
type ContentID [32]byte

// NewContentIDFromBytes creates a content ID from a raw 32-byte slice.
func NewContentIDFromBytes(source []byte) (ContentID, error) {
	if len(source) != 32 {
		return ContentID{}, errors.New("invalid content id length: must be 32 bytes")
	}

	var hash [32]byte
	copy(hash[:], source)
	return ContentID(hash), nil
}

// NewContentIDFromHex creates a content ID from a 64-character hex string.
func NewContentIDFromHex(source string) (ContentID, error) {
	clean := strings.TrimPrefix(source, "0x")
	if len(clean) != 64 {
		return ContentID{}, errors.New("invalid content id length: hex string must be 64 characters")
	}

	hashBytes, err := hex.DecodeString(clean)
	if err != nil {
		return ContentID{}, fmt.Errorf("invalid hex format: %w", err)
	}

	var hash [32]byte
	copy(hash[:], hashBytes)
	return ContentID(hash), nil
}

// ComputeID calculates the content ID of data.
func ComputeID(data []byte) ContentID {
	hash := sha256.Sum256(data)
	return ContentID(hash)
}

// String returns the hex representation.
func (id ContentID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the raw 32-byte hash.
func (id ContentID) Bytes() []byte {
	return id[:]
}

// ContentType indicates the storage namespace.
type ContentType int

const (
	// SnapshotType for serialized registry state snapshots.
	SnapshotType ContentType = iota
	// EventLogType for exported event logs.
	EventLogType
)

// String returns the type name.
func (ct ContentType) String() string {
	switch ct {
	case SnapshotType:
		return "snapshot"
	case EventLogType:
		return "eventlog"
	default:
		return fmt.Sprintf("unknown(%d)", int(ct))
	}
}

// StorageBackendLocation is a URI identifying a storage backend, for
// example file:///var/lib/registry or s3://bucket/prefix?region=us-east-1.
type StorageBackendLocation string

// StorageBackend stores and retrieves content-addressed data.
type StorageBackend interface {
	// Fetch retrieves data by content ID. Returns ErrContentNotFound if
	// the backend does not hold it.
	Fetch(ctx context.Context, id ContentID, contentType ContentType) ([]byte, error)

	// Store saves data and returns its content ID.
	Store(ctx context.Context, data []byte, contentType ContentType) (ContentID, error)

	// Available reports whether the backend is reachable.
	Available(ctx context.Context) bool

	// Name returns a unique identifier for this backend.
	Name() string

	// LocationURI returns the URI that identifies this backend.
	LocationURI() string
}

// StorageBackendFactory creates storage backends from location URIs.
type StorageBackendFactory interface {
	StorageBackendFor(locationURI StorageBackendLocation) (StorageBackend, error)
	CreateMultiBackend(locationURIs []StorageBackendLocation) (StorageBackend, error)
}
