package eventlog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/razah7-lab/cairo-erc-2981/interfaces"
	"github.com/razah7-lab/cairo-erc-2981/storage"
)

func mustAddr(t *testing.T, s string) interfaces.Address {
	t.Helper()
	addr, err := interfaces.NewAddressFromHex(s)
	require.NoError(t, err)
	return addr
}

func TestEmitAssignsSequenceAndTopics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := New(logger)

	from := mustAddr(t, "0x00000000000000000000000000000000000000aa")
	to := mustAddr(t, "0x00000000000000000000000000000000000000bb")
	tokenID := interfaces.NewTokenID(1)

	l.Emit(interfaces.TransferEvent{From: from, To: to, TokenID: tokenID})
	l.Emit(interfaces.ApprovalEvent{Owner: to, Approved: from, TokenID: tokenID})
	l.Emit(interfaces.ApprovalForAllEvent{Owner: to, Operator: from, Approved: true})

	records := l.Records()
	require.Len(t, records, 3)

	assert.Equal(t, uint64(0), records[0].Sequence)
	assert.Equal(t, uint64(1), records[1].Sequence)
	assert.Equal(t, uint64(2), records[2].Sequence)

	assert.Equal(t, "Transfer", records[0].Name)
	// keccak256("Transfer(address,address,uint256)"), the topic every
	// indexer in the ecosystem matches on.
	assert.Equal(t, "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", records[0].Topic)
	assert.Equal(t, from.String(), records[0].Attributes["from"])
	assert.Equal(t, to.String(), records[0].Attributes["to"])

	assert.Equal(t, "Approval", records[1].Name)
	assert.Equal(t, "ApprovalForAll", records[2].Name)
	assert.Equal(t, "true", records[2].Attributes["approved"])
}

func TestExportRoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := New(logger)
	l.Emit(interfaces.TransferEvent{
		From:    interfaces.ZeroAddress,
		To:      mustAddr(t, "0x00000000000000000000000000000000000000aa"),
		TokenID: interfaces.NewTokenID(7),
	})

	data, err := l.Export()
	require.NoError(t, err)

	var records []Record
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Transfer", records[0].Name)
}

func TestFlushTo(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := New(logger)
	l.Emit(interfaces.TransferEvent{
		From:    interfaces.ZeroAddress,
		To:      mustAddr(t, "0x00000000000000000000000000000000000000aa"),
		TokenID: interfaces.NewTokenID(1),
	})

	backend := storage.NewMemoryBackend(logger)
	id, err := l.FlushTo(context.Background(), backend)
	require.NoError(t, err)

	stored, err := backend.Fetch(context.Background(), id, interfaces.EventLogType)
	require.NoError(t, err)

	exported, err := l.Export()
	require.NoError(t, err)
	assert.Equal(t, exported, stored)
}
