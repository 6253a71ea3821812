package storage

import (
	"context"
	"log/slog"

	"github.com/razah7-lab/cairo-erc-2981/interfaces"
)

type memoryKey struct {
	id          interfaces.ContentID
	contentType interfaces.ContentType
}

// MemoryBackend implements a storage backend held entirely in memory.
// It is intended for tests and ephemeral registries; content does not
// survive a process restart.
type MemoryBackend struct {
	content map[memoryKey][]byte
	log     *slog.Logger
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend(log *slog.Logger) *MemoryBackend {
	return &MemoryBackend{
		content: make(map[memoryKey][]byte),
		log:     log,
	}
}

// Fetch retrieves data by content identifier and type. Returns
// ErrContentNotFound when the content was never stored.
func (b *MemoryBackend) Fetch(ctx context.Context, id interfaces.ContentID, contentType interfaces.ContentType) ([]byte, error) {
	data, ok := b.content[memoryKey{id: id, contentType: contentType}]
	if !ok {
		return nil, interfaces.ErrContentNotFound
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Store saves data and returns its content identifier.
func (b *MemoryBackend) Store(ctx context.Context, data []byte, contentType interfaces.ContentType) (interfaces.ContentID, error) {
	id := interfaces.ComputeID(data)

	stored := make([]byte, len(data))
	copy(stored, data)
	b.content[memoryKey{id: id, contentType: contentType}] = stored

	b.log.Debug("Stored content in memory",
		slog.String("contentID", id.String()),
		slog.String("contentType", contentType.String()))
	return id, nil
}

// Available always reports true.
func (b *MemoryBackend) Available(ctx context.Context) bool {
	return true
}

// Name returns a unique identifier for this storage backend.
func (b *MemoryBackend) Name() string {
	return "memory"
}

// LocationURI returns the URI that identifies this storage backend.
func (b *MemoryBackend) LocationURI() string {
	return "memory://"
}
