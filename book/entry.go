// Package book reconstructs a per-instrument order-level view from an
// unordered stream of add/update/delete events and assembles the snapshot and
// delta messages consumed by the publish layer.
package book

import (
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feedmill/mdbridge/wire"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger allows setting a custom logger
func SetLogger(l *slog.Logger) {
	logger = l
}

type Side int8

const (
	Bid Side = 1
	Ask Side = 2
)

func (s Side) String() string {
	switch s {
	case Bid:
		return "bid"
	case Ask:
		return "ask"
	}
	return "unknown"
}

// Action is the change an event applies to the book.
type Action int8

const (
	ActionAdd Action = iota + 1
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// Entry is one order's resting state, created by the decoder per incoming
// event and owned by at most one level (via the order index) until deleted.
type Entry struct {
	OrderID     string
	Side        Side
	Price       wire.Price
	Size        decimal.Decimal
	Action      Action
	Time        time.Time
	Tone        string // optional order tone
	MarketMaker string // optional market-maker id
}

// Level aggregates the orders resting at one exact price on one side.
// One Level object is shared by every order enqueued at that price.
type Level struct {
	side   Side
	price  wire.Price
	time   time.Time
	action Action

	orders  map[string]struct{}
	deltas  []Entry
	flushed bool // emptiness has been reflected in a built message this cycle
}

func newLevel(side Side, price wire.Price) *Level {
	return &Level{
		side:   side,
		price:  price,
		orders: make(map[string]struct{}),
	}
}

// apply records an entry change at this level. Deletes remove the order id
// from the live set but are still appended to the delta queue, so downstream
// consumers see the removal.
func (l *Level) apply(e *Entry) {
	switch e.Action {
	case ActionDelete:
		delete(l.orders, e.OrderID)
	case ActionAdd:
		l.orders[e.OrderID] = struct{}{}
	}
	l.time = e.Time
	l.action = e.Action
	l.deltas = append(l.deltas, *e)
}

// applyInPlace records a price-stable update: entry content changes, book
// topology does not, and the live set is untouched.
func (l *Level) applyInPlace(e *Entry) {
	l.time = e.Time
	l.action = ActionUpdate
	l.deltas = append(l.deltas, *e)
}

// Price returns the level's wire-exact price key.
func (l *Level) Price() wire.Price {
	return l.price
}

// Side returns the level's side.
func (l *Level) Side() Side {
	return l.side
}

// OrderCount returns the number of orders currently resting at this level.
func (l *Level) OrderCount() int {
	return len(l.orders)
}

// Contains reports whether an order id rests at this level.
func (l *Level) Contains(orderID string) bool {
	_, ok := l.orders[orderID]
	return ok
}

// PendingDeltas returns the number of unflushed changes at this level.
func (l *Level) PendingDeltas() int {
	return len(l.deltas)
}
