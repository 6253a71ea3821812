package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/razah7-lab/cairo-erc-2981/interfaces"
	"github.com/razah7-lab/cairo-erc-2981/registry"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	logger := testLogger()
	ownerAddr, err := interfaces.NewAddressFromHex(testOwner)
	require.NoError(t, err)
	treasuryAddr, err := interfaces.NewAddressFromHex(testTreasury)
	require.NoError(t, err)

	reg, err := registry.New(registry.Config{
		Owner: ownerAddr,
		DefaultRoyalty: interfaces.RoyaltyConfig{
			Receiver:    treasuryAddr,
			Numerator:   uint256.NewInt(250),
			Denominator: uint256.NewInt(10000),
		},
		Log: logger,
	})
	require.NoError(t, err)

	srv, err := New(&HTTPServerConfig{
		ListenAddr:    "127.0.0.1:0",
		Log:           logger,
		DrainDuration: 10 * time.Millisecond,
	}, NewHandler(reg, logger))
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestLiveness(t *testing.T) {
	router := testServer(t).getRouter()
	assert.Equal(t, http.StatusOK, get(t, router, "/livez").Code)
}

func TestReadinessAndDrain(t *testing.T) {
	srv := testServer(t)
	router := srv.getRouter()

	assert.Equal(t, http.StatusOK, get(t, router, "/readyz").Code)

	assert.Equal(t, http.StatusOK, get(t, router, "/drain").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, router, "/readyz").Code)

	// Draining twice reports already draining but stays drained.
	assert.Equal(t, http.StatusOK, get(t, router, "/drain").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, router, "/readyz").Code)

	assert.Equal(t, http.StatusOK, get(t, router, "/undrain").Code)
	assert.Equal(t, http.StatusOK, get(t, router, "/readyz").Code)
}

func TestPprofDisabledByDefault(t *testing.T) {
	router := testServer(t).getRouter()
	assert.Equal(t, http.StatusNotFound, get(t, router, "/debug/pprof/").Code)
}
