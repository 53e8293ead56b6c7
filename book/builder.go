package book

import (
	"time"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"
)

// OrderDelta is one order-level change inside a published level.
type OrderDelta struct {
	OrderID string          `json:"order_id"`
	Action  Action          `json:"action"`
	Size    decimal.Decimal `json:"size"`
}

// LevelEntry is one price level inside a published message. Price is rendered
// with the precision derived from the level's wire scale hint.
type LevelEntry struct {
	Side       Side         `json:"side"`
	Price      string       `json:"price"`
	Time       time.Time    `json:"time"`
	Action     Action       `json:"action"`
	NumEntries int          `json:"num_entries"`
	Entries    []OrderDelta `json:"entries,omitempty"`
}

// Message is the hierarchical output handed to the publish layer. Ownership
// transfers on handoff; the builder keeps only its own reusable buffers.
type Message struct {
	ID        string       `json:"id"`
	Symbol    string       `json:"symbol"`
	NumLevels int          `json:"num_levels"`
	Levels    []LevelEntry `json:"levels"`
	CreatedAt time.Time    `json:"created_at"`
}

// Builder walks a book's level maps and delta queues and assembles the output
// message for one publish tick.
type Builder struct {
	scratch []LevelEntry
}

// NewBuilder creates a builder. One builder serves one instrument's
// processing path; it is not safe for concurrent use.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build assembles the message for the current cycle: ask levels first, then
// bid levels, each side in its map's key order. Empty levels are emitted as
// deletes and marked flushed so EndUpdate may erase them; live levels drain
// their delta queues into per-order entries.
func (bld *Builder) Build(b *OrderBook) *Message {
	bld.scratch = bld.scratch[:0]

	emit := func(lvl *Level) {
		le := LevelEntry{
			Side:  lvl.side,
			Price: lvl.price.Render(),
			Time:  lvl.time,
		}

		if len(lvl.orders) == 0 {
			le.Action = ActionDelete
			le.NumEntries = 0
			lvl.deltas = lvl.deltas[:0]
			lvl.flushed = true
		} else {
			le.Action = lvl.action
			le.Entries = make([]OrderDelta, 0, len(lvl.deltas))
			for i := range lvl.deltas {
				d := &lvl.deltas[i]
				le.Entries = append(le.Entries, OrderDelta{
					OrderID: d.OrderID,
					Action:  d.Action,
					Size:    d.Size,
				})
			}
			le.NumEntries = len(le.Entries)
			lvl.deltas = lvl.deltas[:0]
		}

		bld.scratch = append(bld.scratch, le)
	}

	b.asks.each(emit)
	b.bids.each(emit)

	msg := &Message{
		ID:        xid.New().String(),
		Symbol:    b.symbol,
		NumLevels: len(bld.scratch),
		Levels:    make([]LevelEntry, len(bld.scratch)),
		CreatedAt: time.Now().UTC(),
	}
	copy(msg.Levels, bld.scratch)

	return msg
}
