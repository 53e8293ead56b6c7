package book

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmill/mdbridge/wire"
)

func price(mantissa int64, hint wire.ScaleHint) wire.Price {
	return wire.Price{Mantissa: mantissa, Hint: hint}
}

func entry(orderID string, side Side, p wire.Price, size int64, action Action) *Entry {
	return &Entry{
		OrderID: orderID,
		Side:    side,
		Price:   p,
		Size:    decimal.NewFromInt(size),
		Action:  action,
		Time:    time.Now().UTC(),
	}
}

func TestOrderLifecycle(t *testing.T) {
	t.Run("add inserts into the order index", func(t *testing.T) {
		b := NewOrderBook("AAPL.O")
		b.StartUpdate()

		b.AddEntry(entry("A1", Bid, price(10000, wire.Hint2Dp), 10, ActionAdd))

		stored, ok := b.Order("A1")
		require.True(t, ok)
		assert.Equal(t, price(10000, wire.Hint2Dp), stored.Price)

		lvl := b.Level(Bid, price(10000, wire.Hint2Dp))
		require.NotNil(t, lvl)
		assert.True(t, lvl.Contains("A1"))
		assert.Equal(t, 1, lvl.OrderCount())
	})

	t.Run("add then remove leaves index empty and level removable", func(t *testing.T) {
		b := NewOrderBook("AAPL.O")
		b.StartUpdate()

		p := price(10000, wire.Hint2Dp)
		b.AddEntry(entry("A1", Bid, p, 10, ActionAdd))

		err := b.RemoveEntry(entry("A1", Bid, wire.Price{}, 0, ActionDelete))
		require.NoError(t, err)

		_, ok := b.Order("A1")
		assert.False(t, ok)

		lvl := b.Level(Bid, p)
		require.NotNil(t, lvl)
		assert.Equal(t, 0, lvl.OrderCount())
		// The delete still shows up in the delta stream.
		assert.Equal(t, 2, lvl.PendingDeltas())
	})

	t.Run("delete action entries never create index entries", func(t *testing.T) {
		b := NewOrderBook("AAPL.O")
		b.StartUpdate()

		b.AddEntry(entry("ghost", Bid, price(9900, wire.Hint2Dp), 5, ActionDelete))

		_, ok := b.Order("ghost")
		assert.False(t, ok)
	})
}

func TestUpdateEntry(t *testing.T) {
	t.Run("price move deletes at old level and adds at new", func(t *testing.T) {
		b := NewOrderBook("AAPL.O")
		b.StartUpdate()

		oldPrice := price(10000, wire.Hint2Dp)
		newPrice := price(10100, wire.Hint2Dp)

		b.AddEntry(entry("A1", Bid, oldPrice, 10, ActionAdd))
		err := b.UpdateEntry(entry("A1", Bid, newPrice, 10, ActionUpdate))
		require.NoError(t, err)

		oldLvl := b.Level(Bid, oldPrice)
		require.NotNil(t, oldLvl)
		assert.False(t, oldLvl.Contains("A1"))

		newLvl := b.Level(Bid, newPrice)
		require.NotNil(t, newLvl)
		assert.True(t, newLvl.Contains("A1"))

		stored, ok := b.Order("A1")
		require.True(t, ok)
		assert.Equal(t, newPrice, stored.Price)
	})

	t.Run("price-stable update leaves topology alone", func(t *testing.T) {
		b := NewOrderBook("AAPL.O")
		b.StartUpdate()

		p := price(10000, wire.Hint2Dp)
		b.AddEntry(entry("A1", Bid, p, 10, ActionAdd))

		err := b.UpdateEntry(entry("A1", Bid, p, 25, ActionUpdate))
		require.NoError(t, err)

		lvl := b.Level(Bid, p)
		require.NotNil(t, lvl)
		assert.True(t, lvl.Contains("A1"))
		assert.Equal(t, 1, b.LevelCount(Bid))

		stored, _ := b.Order("A1")
		assert.True(t, stored.Size.Equal(decimal.NewFromInt(25)))
	})

	t.Run("unknown order is rejected without mutation", func(t *testing.T) {
		b := NewOrderBook("AAPL.O")
		b.StartUpdate()

		err := b.UpdateEntry(entry("missing", Bid, price(10000, wire.Hint2Dp), 10, ActionUpdate))
		assert.ErrorIs(t, err, ErrUnknownOrder)
		assert.Equal(t, 0, b.LevelCount(Bid))
		assert.Equal(t, 0, b.LevelCount(Ask))

		err = b.RemoveEntry(entry("missing", Bid, wire.Price{}, 0, ActionDelete))
		assert.ErrorIs(t, err, ErrUnknownOrder)
	})
}

func TestRemoveEntry(t *testing.T) {
	t.Run("level key comes from the stored entry", func(t *testing.T) {
		b := NewOrderBook("AAPL.O")
		b.StartUpdate()

		p := price(10000, wire.Hint2Dp)
		b.AddEntry(entry("A1", Ask, p, 10, ActionAdd))

		// Delete events may omit price entirely.
		err := b.RemoveEntry(&Entry{OrderID: "A1", Action: ActionDelete})
		require.NoError(t, err)

		lvl := b.Level(Ask, p)
		require.NotNil(t, lvl)
		assert.Equal(t, 0, lvl.OrderCount())
	})
}

func TestPriceKeyStability(t *testing.T) {
	b := NewOrderBook("AAPL.O")
	b.StartUpdate()

	p := price(10000, wire.Hint2Dp)
	b.AddEntry(entry("A1", Bid, p, 10, ActionAdd))
	b.AddEntry(entry("A2", Bid, p, 20, ActionAdd))

	// Same (mantissa, hint) resolves to the same level object.
	assert.Equal(t, 1, b.LevelCount(Bid))
	lvl := b.Level(Bid, p)
	require.NotNil(t, lvl)
	assert.Equal(t, 2, lvl.OrderCount())

	// A price rendering to the same value under a different hint is a
	// distinct key. 100.00@2dp vs 1000.000@3dp-like mantissa collisions are
	// the caller's concern; the book never normalizes.
	other := price(100000, wire.Hint3Dp)
	b.AddEntry(entry("A3", Bid, other, 5, ActionAdd))
	assert.Equal(t, 2, b.LevelCount(Bid))
}

func TestUpdateCycle(t *testing.T) {
	t.Run("start update clears delta queues", func(t *testing.T) {
		b := NewOrderBook("AAPL.O")
		b.StartUpdate()

		p := price(10000, wire.Hint2Dp)
		b.AddEntry(entry("A1", Bid, p, 10, ActionAdd))
		assert.Equal(t, 1, b.Level(Bid, p).PendingDeltas())

		b.StartUpdate()
		assert.Equal(t, 0, b.Level(Bid, p).PendingDeltas())
		// State survives even though the delta was discarded.
		assert.True(t, b.Level(Bid, p).Contains("A1"))
	})

	t.Run("end update never removes live levels", func(t *testing.T) {
		b := NewOrderBook("AAPL.O")
		b.StartUpdate()

		p := price(10000, wire.Hint2Dp)
		b.AddEntry(entry("A1", Bid, p, 10, ActionAdd))

		NewBuilder().Build(b)
		b.EndUpdate()

		assert.NotNil(t, b.Level(Bid, p))
	})

	t.Run("end update removes empty levels only after a flush", func(t *testing.T) {
		b := NewOrderBook("AAPL.O")
		b.StartUpdate()

		p := price(10000, wire.Hint2Dp)
		b.AddEntry(entry("A1", Bid, p, 10, ActionAdd))
		require.NoError(t, b.RemoveEntry(entry("A1", Bid, p, 0, ActionDelete)))

		// No Build yet: emptiness has not been published, level must stay.
		b.EndUpdate()
		assert.NotNil(t, b.Level(Bid, p))

		NewBuilder().Build(b)
		b.EndUpdate()
		assert.Nil(t, b.Level(Bid, p))
		assert.Equal(t, 0, b.LevelCount(Bid))
	})
}
