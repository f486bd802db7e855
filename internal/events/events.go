// Package events defines the registry's outbound domain events and the sink
// they are published through. Publication is fire-and-forget: the ledger
// never depends on a consumer acknowledging an event.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nftopia/asset-registry/internal/registry/domain"
)

// Type names a domain event.
type Type string

const (
	TypeMint                    Type = "MINT"
	TypeTransfer                Type = "TRANSFER"
	TypeBurn                    Type = "BURN"
	TypeApprovalChanged         Type = "APPROVAL_CHANGED"
	TypeOperatorApprovalChanged Type = "OPERATOR_APPROVAL_CHANGED"
	TypeTokenURIUpdated         Type = "TOKEN_URI_UPDATED"
	TypeBaseURIUpdated          Type = "BASE_URI_UPDATED"
	TypeMetadataFrozen          Type = "METADATA_FROZEN"
)

// Event is one structured notification of a state change.
type Event struct {
	ID        string
	Type      Type
	Actor     domain.Address
	From      domain.Address
	To        domain.Address
	TokenID   *uint64 // nil for collection-level events
	Approved  bool    // operator approval grants vs revocations
	Detail    string  // URI for metadata events, empty otherwise
	Timestamp time.Time
}

// Sink receives published events.
type Sink interface {
	Publish(ctx context.Context, evt Event) error
}

// Emitter publishes events to a sink, stamping id and timestamp.
type Emitter struct {
	sink  Sink
	clock func() time.Time
	newID func() string
}

// NewEmitter creates an emitter for the given sink. A nil sink yields a
// no-op emitter.
func NewEmitter(sink Sink) *Emitter {
	return &Emitter{
		sink:  sink,
		clock: time.Now,
		newID: uuid.NewString,
	}
}

// Emit publishes one event. It is a no-op when the sink is nil.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if e == nil || e.sink == nil {
		return nil
	}
	if evt.ID == "" {
		evt.ID = e.newID()
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.clock().UTC()
	}
	return e.sink.Publish(ctx, evt)
}

// TokenRef builds the optional token reference carried by per-token events.
func TokenRef(id uint64) *uint64 {
	return &id
}
