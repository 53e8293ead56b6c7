package book

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/feedmill/mdbridge/wire"
)

func BenchmarkEventCycle(b *testing.B) {
	ob := NewOrderBook("BENCH.X")
	builder := NewBuilder()

	// Fixed seed for repeatability.
	rng := rand.New(rand.NewSource(42))
	midPrice := int64(10000)

	// Pre-build entries across 200 ticks around the mid so the hot loop does
	// no decimal parsing. Entries in the pool are reused round-robin; the
	// book copies what it keeps.
	const poolSize = 4096
	sizeOne := decimal.NewFromInt(1)
	pool := make([]Entry, poolSize)
	for i := range pool {
		tick := int64(rng.Intn(200)) - 100
		side := Bid
		if tick >= 0 {
			side = Ask
		}
		pool[i] = Entry{
			OrderID: strconv.Itoa(i),
			Side:    side,
			Price:   wire.Price{Mantissa: midPrice + tick, Hint: wire.Hint2Dp},
			Size:    sizeOne,
			Action:  ActionAdd,
		}
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		e := pool[i%poolSize]
		e.OrderID = strconv.Itoa(i)
		ob.AddEntry(&e)

		// Publish tick every 64 events, as a feed handler would.
		if i%64 == 63 {
			builder.Build(ob)
			ob.EndUpdate()
			ob.StartUpdate()
		}
	}
}
