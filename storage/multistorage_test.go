package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/razah7-lab/cairo-erc-2981/interfaces"
)

// MockStorageBackend implements interfaces.StorageBackend for testing
type MockStorageBackend struct {
	mock.Mock
	name string
}

func (m *MockStorageBackend) Fetch(ctx context.Context, id interfaces.ContentID, contentType interfaces.ContentType) ([]byte, error) {
	args := m.Called(ctx, id, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorageBackend) Store(ctx context.Context, data []byte, contentType interfaces.ContentType) (interfaces.ContentID, error) {
	args := m.Called(ctx, data, contentType)
	return args.Get(0).(interfaces.ContentID), args.Error(1)
}

func (m *MockStorageBackend) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockStorageBackend) Name() string {
	return m.name
}

func (m *MockStorageBackend) LocationURI() string {
	return "mock:"
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMultiStorageBackend_Available(t *testing.T) {
	tests := []struct {
		name     string
		backends []bool
		expected bool
	}{
		{
			name:     "all backends available",
			backends: []bool{true, true, true},
			expected: true,
		},
		{
			name:     "some backends available",
			backends: []bool{false, true, false},
			expected: true,
		},
		{
			name:     "no backends available",
			backends: []bool{false, false, false},
			expected: false,
		},
		{
			name:     "no backends",
			backends: []bool{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var backends []interfaces.StorageBackend
			for i, available := range tt.backends {
				mockStorage := &MockStorageBackend{name: fmt.Sprintf("mock-%d", i)}
				mockStorage.On("Available", mock.Anything).Return(available).Maybe()
				backends = append(backends, mockStorage)
			}

			multi := NewMultiStorageBackend(backends, testLogger())
			assert.Equal(t, tt.expected, multi.Available(context.Background()))

			for _, backend := range backends {
				backend.(*MockStorageBackend).AssertExpectations(t)
			}
		})
	}
}

func TestMultiStorageBackend_FetchFallback(t *testing.T) {
	testID := interfaces.ComputeID([]byte("test data"))
	testData := []byte("test data")
	testErr := errors.New("fetch failed")

	failing := &MockStorageBackend{name: "mock-failing"}
	failing.On("Available", mock.Anything).Return(true)
	failing.On("Fetch", mock.Anything, testID, interfaces.SnapshotType).Return(nil, testErr)

	working := &MockStorageBackend{name: "mock-working"}
	working.On("Available", mock.Anything).Return(true)
	working.On("Fetch", mock.Anything, testID, interfaces.SnapshotType).Return(testData, nil)

	multi := NewMultiStorageBackend([]interfaces.StorageBackend{failing, working}, testLogger())

	data, err := multi.Fetch(context.Background(), testID, interfaces.SnapshotType)
	require.NoError(t, err)
	assert.Equal(t, testData, data)

	failing.AssertExpectations(t)
	working.AssertExpectations(t)
}

func TestMultiStorageBackend_FetchAllFail(t *testing.T) {
	testID := interfaces.ComputeID([]byte("missing"))

	backend := &MockStorageBackend{name: "mock-1"}
	backend.On("Available", mock.Anything).Return(true)
	backend.On("Fetch", mock.Anything, testID, interfaces.SnapshotType).Return(nil, interfaces.ErrContentNotFound)

	multi := NewMultiStorageBackend([]interfaces.StorageBackend{backend}, testLogger())

	_, err := multi.Fetch(context.Background(), testID, interfaces.SnapshotType)
	assert.Error(t, err)
}

func TestMultiStorageBackend_StoreToAll(t *testing.T) {
	testData := []byte("snapshot-bytes")
	testID := interfaces.ComputeID(testData)

	first := &MockStorageBackend{name: "mock-1"}
	first.On("Available", mock.Anything).Return(true)
	first.On("Store", mock.Anything, testData, interfaces.SnapshotType).Return(testID, nil)

	second := &MockStorageBackend{name: "mock-2"}
	second.On("Available", mock.Anything).Return(true)
	second.On("Store", mock.Anything, testData, interfaces.SnapshotType).Return(testID, nil)

	multi := NewMultiStorageBackend([]interfaces.StorageBackend{first, second}, testLogger())

	id, err := multi.Store(context.Background(), testData, interfaces.SnapshotType)
	require.NoError(t, err)
	assert.Equal(t, testID, id)

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestMultiStorageBackend_StorePartialFailure(t *testing.T) {
	testData := []byte("snapshot-bytes")
	testID := interfaces.ComputeID(testData)

	failing := &MockStorageBackend{name: "mock-failing"}
	failing.On("Available", mock.Anything).Return(true)
	failing.On("Store", mock.Anything, testData, interfaces.SnapshotType).Return(interfaces.ContentID{}, errors.New("store failed"))

	working := &MockStorageBackend{name: "mock-working"}
	working.On("Available", mock.Anything).Return(true)
	working.On("Store", mock.Anything, testData, interfaces.SnapshotType).Return(testID, nil)

	multi := NewMultiStorageBackend([]interfaces.StorageBackend{failing, working}, testLogger())

	id, err := multi.Store(context.Background(), testData, interfaces.SnapshotType)
	require.NoError(t, err)
	assert.Equal(t, testID, id)
}
