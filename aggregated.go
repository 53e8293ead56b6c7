package bridge

import (
	"github.com/igrmk/treemap/v2"
	"github.com/shopspring/decimal"

	"github.com/feedmill/mdbridge/book"
)

// aggLevel tracks the per-order sizes behind one aggregated price so that
// update deltas can be folded in without replaying the whole book.
type aggLevel struct {
	orders map[string]decimal.Decimal
}

func (l *aggLevel) total() decimal.Decimal {
	sum := decimal.Zero
	for _, size := range l.orders {
		sum = sum.Add(size)
	}
	return sum
}

// AggregatedBook maintains the price-level-indexed view of an instrument,
// tracking only price levels and their aggregated sizes. It is designed for
// downstream consumers that rebuild depth from published delta messages
// rather than from raw order events.
type AggregatedBook struct {
	symbol string
	ask    *treemap.TreeMap[decimal.Decimal, *aggLevel]
	bid    *treemap.TreeMap[decimal.Decimal, *aggLevel]
}

// NewAggregatedBook creates an empty aggregated book with both sides.
func NewAggregatedBook(symbol string) *AggregatedBook {
	less := func(a, b decimal.Decimal) bool {
		return a.LessThan(b)
	}
	return &AggregatedBook{
		symbol: symbol,
		ask:    treemap.NewWithKeyCompare[decimal.Decimal, *aggLevel](less),
		bid:    treemap.NewWithKeyCompare[decimal.Decimal, *aggLevel](less),
	}
}

func (ab *AggregatedBook) side(s book.Side) *treemap.TreeMap[decimal.Decimal, *aggLevel] {
	if s == book.Bid {
		return ab.bid
	}
	return ab.ask
}

// Apply folds one published message into the aggregated state. Level deletes
// drop the whole price; order deltas adjust the per-order sizes beneath it.
func (ab *AggregatedBook) Apply(msg *book.Message) error {
	if msg == nil {
		return ErrInvalidParam
	}

	for i := range msg.Levels {
		le := &msg.Levels[i]
		price, err := decimal.NewFromString(le.Price)
		if err != nil {
			logger.Warn("aggregated book skipped level with bad price",
				"symbol", ab.symbol, "price", le.Price)
			continue
		}

		side := ab.side(le.Side)

		if le.Action == book.ActionDelete && le.NumEntries == 0 {
			side.Del(price)
			continue
		}

		lvl, ok := side.Get(price)
		if !ok {
			lvl = &aggLevel{orders: make(map[string]decimal.Decimal)}
			side.Set(price, lvl)
		}

		for _, d := range le.Entries {
			switch d.Action {
			case book.ActionDelete:
				delete(lvl.orders, d.OrderID)
			default:
				lvl.orders[d.OrderID] = d.Size
			}
		}

		if len(lvl.orders) == 0 {
			side.Del(price)
		}
	}

	return nil
}

// Depth returns the aggregated size at a specific price level for the given
// side. Returns zero if the price level does not exist.
func (ab *AggregatedBook) Depth(side book.Side, price decimal.Decimal) decimal.Decimal {
	lvl, ok := ab.side(side).Get(price)
	if !ok {
		return decimal.Zero
	}
	return lvl.total()
}

// DepthItem is one aggregated price level.
type DepthItem struct {
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`
}

// Snapshot returns up to limit levels per side. Asks come back in ascending
// price order, bids in descending.
func (ab *AggregatedBook) Snapshot(limit int) (asks []DepthItem, bids []DepthItem) {
	for it := ab.ask.Iterator(); it.Valid() && len(asks) < limit; it.Next() {
		asks = append(asks, DepthItem{Price: it.Key(), Size: it.Value().total()})
	}
	for it := ab.bid.Reverse(); it.Valid() && len(bids) < limit; it.Next() {
		bids = append(bids, DepthItem{Price: it.Key(), Size: it.Value().total()})
	}
	return asks, bids
}

// LevelCount returns the number of price levels on one side.
func (ab *AggregatedBook) LevelCount(side book.Side) int {
	return ab.side(side).Len()
}
