package book

import (
	"errors"

	"github.com/feedmill/mdbridge/wire"
)

var (
	// ErrUnknownOrder marks an update or delete for an order id never seen.
	// This signals feed inconsistency, not a bridge defect; the operation is a
	// no-op and must never take the bridge down.
	ErrUnknownOrder = errors.New("order id is not in the order index")

	// ErrLevelNotFound marks a known order whose recorded level cannot be
	// resolved. Also feed inconsistency; also a no-op.
	ErrLevelNotFound = errors.New("recorded level not found for order")
)

// OrderBook is the per-instrument book state: the order index for O(1)
// update/delete lookup plus one level map per side. One OrderBook exists per
// subscribed instrument, created on the first subscription event and dropped
// on unsubscribe.
//
// The book performs no internal locking. It assumes at most one in-flight
// update cycle at a time, with the caller serializing
// StartUpdate -> {AddEntry|UpdateEntry|RemoveEntry}* -> Build -> EndUpdate
// per instrument per cycle. Deltas not flushed before the next StartUpdate
// are discarded: the book guarantees eventually consistent state, not delta
// delivery.
type OrderBook struct {
	symbol string
	orders map[string]*Entry
	bids   *levelMap
	asks   *levelMap
}

// NewOrderBook creates an empty book for one instrument.
func NewOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		symbol: symbol,
		orders: make(map[string]*Entry),
		bids:   newLevelMap(Bid),
		asks:   newLevelMap(Ask),
	}
}

// Symbol returns the instrument this book belongs to.
func (b *OrderBook) Symbol() string {
	return b.symbol
}

func (b *OrderBook) sideMap(side Side) *levelMap {
	if side == Bid {
		return b.bids
	}
	return b.asks
}

// Order returns the resting entry for an order id.
func (b *OrderBook) Order(orderID string) (*Entry, bool) {
	e, ok := b.orders[orderID]
	return e, ok
}

// Level returns the level at an exact price key on one side, or nil.
func (b *OrderBook) Level(side Side, price wire.Price) *Level {
	return b.sideMap(side).level(price)
}

// LevelCount returns the number of levels on one side.
func (b *OrderBook) LevelCount(side Side) int {
	return b.sideMap(side).len()
}

// AddEntry applies an entry to its side's level, creating the level if
// absent. Delete-action entries still land in the delta queue so the removal
// reaches downstream consumers, but they never create an order-index entry.
func (b *OrderBook) AddEntry(e *Entry) {
	lvl := b.sideMap(e.Side).getOrCreate(e.Price)

	if e.Action != ActionDelete {
		if _, known := b.orders[e.OrderID]; !known {
			b.orders[e.OrderID] = e
		}
	}

	lvl.apply(e)
}

// UpdateEntry applies an update for a known order. A price change is a
// synthetic delete at the old level followed by an add at the new one; a
// price-stable update only changes entry content, never book topology.
func (b *OrderBook) UpdateEntry(e *Entry) error {
	stored, ok := b.orders[e.OrderID]
	if !ok {
		logger.Warn("update for unknown order rejected", "symbol", b.symbol, "order_id", e.OrderID)
		return ErrUnknownOrder
	}

	if stored.Price != e.Price {
		del := *stored
		del.Action = ActionDelete
		del.Time = e.Time
		b.AddEntry(&del)

		add := *e
		add.Action = ActionAdd
		b.AddEntry(&add)

		b.orders[e.OrderID] = &add
		return nil
	}

	lvl := b.sideMap(stored.Side).level(stored.Price)
	if lvl == nil {
		logger.Warn("recorded level missing for order", "symbol", b.symbol,
			"order_id", e.OrderID, "price", stored.Price.Render())
		return ErrLevelNotFound
	}

	upd := *e
	upd.Action = ActionUpdate
	lvl.applyInPlace(&upd)
	b.orders[e.OrderID] = &upd
	return nil
}

// RemoveEntry deletes a known order. The level key comes from the stored
// entry, not the incoming message, because delete events may omit the price.
func (b *OrderBook) RemoveEntry(e *Entry) error {
	stored, ok := b.orders[e.OrderID]
	if !ok {
		logger.Warn("delete for unknown order rejected", "symbol", b.symbol, "order_id", e.OrderID)
		return ErrUnknownOrder
	}

	lvl := b.sideMap(stored.Side).level(stored.Price)
	if lvl == nil {
		logger.Warn("recorded level missing for order", "symbol", b.symbol,
			"order_id", stored.OrderID, "price", stored.Price.Render())
		return ErrLevelNotFound
	}

	delete(b.orders, e.OrderID)

	del := *stored
	del.Action = ActionDelete
	if !e.Time.IsZero() {
		del.Time = e.Time
	}
	lvl.apply(&del)
	return nil
}

// StartUpdate opens a processing cycle by clearing every level's delta queue
// on both sides. Deltas not flushed via Build before this call are discarded.
func (b *OrderBook) StartUpdate() {
	clear := func(lvl *Level) {
		lvl.deltas = lvl.deltas[:0]
		lvl.flushed = false
	}
	b.asks.each(clear)
	b.bids.each(clear)
}

// EndUpdate erases every level whose live-order set is empty, provided a
// built message already reflected that emptiness this cycle. Candidate keys
// are collected first and erased in a second pass, so no side map is mutated
// while being iterated.
func (b *OrderBook) EndUpdate() {
	for _, m := range [2]*levelMap{b.asks, b.bids} {
		var dead []wire.Price
		m.each(func(lvl *Level) {
			if len(lvl.orders) == 0 && lvl.flushed {
				dead = append(dead, lvl.price)
			}
		})
		for _, price := range dead {
			m.remove(price)
		}
	}
}
