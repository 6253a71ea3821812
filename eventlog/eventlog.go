// Package eventlog collects the audit events emitted by the token ledger
// in an ordered, exportable log for indexing consumers.
package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/razah7-lab/cairo-erc-2981/interfaces"
)

// Canonical event signature topics, keccak-256 of the event signature, so
// off-the-shelf indexers recognize the records.
var (
	transferTopic       = topic("Transfer(address,address,uint256)")
	approvalTopic       = topic("Approval(address,address,uint256)")
	approvalForAllTopic = topic("ApprovalForAll(address,address,bool)")
)

func topic(signature string) string {
	return "0x" + fmt.Sprintf("%x", crypto.Keccak256([]byte(signature)))
}

// Record is one logged event. Sequence numbers are assigned in emission
// order, starting at 0.
type Record struct {
	Sequence   uint64            `json:"sequence"`
	Name       string            `json:"name"`
	Topic      string            `json:"topic"`
	Attributes map[string]string `json:"attributes"`
}

// Log is an append-only in-memory event log implementing
// interfaces.EventSink. Appends follow the single-operation-at-a-time
// execution model of the core and are not internally synchronized.
type Log struct {
	records []Record
	log     *slog.Logger
}

// New creates an empty event log.
func New(log *slog.Logger) *Log {
	return &Log{log: log}
}

// Emit appends an event to the log. Unknown event types are logged and
// dropped rather than aborting the operation that emitted them.
func (l *Log) Emit(event interfaces.Event) {
	record := Record{
		Sequence: uint64(len(l.records)),
		Name:     event.Name(),
	}

	switch ev := event.(type) {
	case interfaces.TransferEvent:
		record.Topic = transferTopic
		record.Attributes = map[string]string{
			"from":    ev.From.String(),
			"to":      ev.To.String(),
			"tokenId": ev.TokenID.String(),
		}
	case interfaces.ApprovalEvent:
		record.Topic = approvalTopic
		record.Attributes = map[string]string{
			"owner":    ev.Owner.String(),
			"approved": ev.Approved.String(),
			"tokenId":  ev.TokenID.String(),
		}
	case interfaces.ApprovalForAllEvent:
		record.Topic = approvalForAllTopic
		record.Attributes = map[string]string{
			"owner":    ev.Owner.String(),
			"operator": ev.Operator.String(),
			"approved": fmt.Sprintf("%t", ev.Approved),
		}
	default:
		l.log.Warn("dropping unknown event type", slog.String("name", event.Name()))
		return
	}

	l.records = append(l.records, record)
}

// Records returns a copy of the logged records in emission order.
func (l *Log) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of logged records.
func (l *Log) Len() int {
	return len(l.records)
}

// Export serializes the log as JSON.
func (l *Log) Export() ([]byte, error) {
	return json.Marshal(l.records)
}

// FlushTo exports the log and stores it in backend under the EventLogType
// namespace, returning the content ID of the stored export.
func (l *Log) FlushTo(ctx context.Context, backend interfaces.StorageBackend) (interfaces.ContentID, error) {
	data, err := l.Export()
	if err != nil {
		return interfaces.ContentID{}, fmt.Errorf("failed to export event log: %w", err)
	}

	id, err := backend.Store(ctx, data, interfaces.EventLogType)
	if err != nil {
		return interfaces.ContentID{}, fmt.Errorf("failed to store event log: %w", err)
	}

	l.log.Debug("event log flushed",
		slog.String("backend", backend.Name()),
		slog.String("contentID", id.String()),
		slog.Int("records", len(l.records)))
	return id, nil
}
