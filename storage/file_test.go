package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/razah7-lab/cairo-erc-2981/interfaces"
)

func TestFileBackendRoundTrip(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir(), testLogger())
	require.NoError(t, err)

	assert.True(t, backend.Available(context.Background()))

	data := []byte(`{"state":"snapshot"}`)
	id, err := backend.Store(context.Background(), data, interfaces.SnapshotType)
	require.NoError(t, err)
	assert.Equal(t, interfaces.ComputeID(data), id)

	fetched, err := backend.Fetch(context.Background(), id, interfaces.SnapshotType)
	require.NoError(t, err)
	assert.Equal(t, data, fetched)
}

func TestFileBackendNotFound(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir(), testLogger())
	require.NoError(t, err)

	_, err = backend.Fetch(context.Background(), interfaces.ComputeID([]byte("absent")), interfaces.SnapshotType)
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
}

// Content types are separate namespaces: the same ID under a different
// type is a different object.
func TestFileBackendContentTypeNamespaces(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir(), testLogger())
	require.NoError(t, err)

	data := []byte("shared-bytes")
	id, err := backend.Store(context.Background(), data, interfaces.EventLogType)
	require.NoError(t, err)

	_, err = backend.Fetch(context.Background(), id, interfaces.SnapshotType)
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
}

func TestMemoryBackendRoundTrip(t *testing.T) {
	backend := NewMemoryBackend(testLogger())

	data := []byte("eventlog-bytes")
	id, err := backend.Store(context.Background(), data, interfaces.EventLogType)
	require.NoError(t, err)

	fetched, err := backend.Fetch(context.Background(), id, interfaces.EventLogType)
	require.NoError(t, err)
	assert.Equal(t, data, fetched)

	_, err = backend.Fetch(context.Background(), interfaces.ComputeID([]byte("absent")), interfaces.EventLogType)
	assert.ErrorIs(t, err, interfaces.ErrContentNotFound)
}

func TestFactorySchemes(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())

	tests := []struct {
		name    string
		uri     interfaces.StorageBackendLocation
		wantErr bool
	}{
		{name: "file", uri: interfaces.StorageBackendLocation("file://" + t.TempDir())},
		{name: "memory", uri: "memory://"},
		{name: "s3", uri: "s3://bucket/prefix?region=us-east-1"},
		{name: "ipfs", uri: "ipfs://127.0.0.1:5001/"},
		{name: "s3 without region", uri: "s3://bucket/prefix", wantErr: true},
		{name: "unsupported scheme", uri: "ftp://host/path", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := factory.StorageBackendFor(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, backend.Name())
		})
	}
}

func TestFactoryCreateMultiBackend(t *testing.T) {
	factory := NewStorageBackendFactory(testLogger())

	// Invalid URIs are skipped as long as one backend can be created.
	backend, err := factory.CreateMultiBackend([]interfaces.StorageBackendLocation{
		"memory://",
		"ftp://unsupported/",
	})
	require.NoError(t, err)
	assert.True(t, backend.Available(context.Background()))

	_, err = factory.CreateMultiBackend([]interfaces.StorageBackendLocation{"ftp://unsupported/"})
	assert.Error(t, err)
}
