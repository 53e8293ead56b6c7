package bridge

import (
	"sync"
	"sync/atomic"

	"github.com/feedmill/mdbridge/book"
	"github.com/feedmill/mdbridge/codec"
	"github.com/feedmill/mdbridge/dict"
	"github.com/feedmill/mdbridge/wire"
)

// subscription is one instrument's processing path: its book, its builder and
// whether the current cycle has seen any event.
type subscription struct {
	book    *book.OrderBook
	builder *book.Builder
}

// Bridge glues the codec and the book engine together for a subscription
// context: one shared read-only field dictionary, one decoder/encoder pair,
// and one OrderBook per subscribed instrument.
//
// The bridge adds no locking around a single instrument's cycle; the caller
// (one worker per market-data channel) serializes
// ProcessEvent* -> Flush per instrument. Distinct instruments are fully
// independent.
type Bridge struct {
	isShutdown atomic.Bool
	dictionary *dict.FieldDictionary
	decoder    *codec.Decoder
	encoder    *codec.Encoder
	books      sync.Map // symbol -> *subscription
	publisher  Publisher
}

// NewBridge creates a bridge over a built field dictionary.
func NewBridge(fd *dict.FieldDictionary, publisher Publisher) *Bridge {
	return &Bridge{
		dictionary: fd,
		decoder:    codec.NewDecoder(fd),
		encoder:    codec.NewEncoder(fd),
		publisher:  publisher,
	}
}

// Decoder exposes the bridge's decoder for general field translation.
func (b *Bridge) Decoder() *codec.Decoder {
	return b.decoder
}

// Encoder exposes the bridge's encoder for republication onto the wire.
func (b *Bridge) Encoder() *codec.Encoder {
	return b.encoder
}

func (b *Bridge) subscription(symbol string) *subscription {
	if sub, found := b.books.Load(symbol); found {
		s, _ := sub.(*subscription)
		return s
	}

	s := &subscription{
		book:    book.NewOrderBook(symbol),
		builder: book.NewBuilder(),
	}
	actual, _ := b.books.LoadOrStore(symbol, s)
	sub, _ := actual.(*subscription)
	return sub
}

// Book returns the order book for a subscribed instrument, or nil.
func (b *Bridge) Book(symbol string) *book.OrderBook {
	sub, found := b.books.Load(symbol)
	if !found {
		return nil
	}
	s, _ := sub.(*subscription)
	return s.book
}

// ProcessEvent decodes one framed order-book event and applies it to the
// instrument's book. The book is created on the first event for a symbol.
// Feed-inconsistency rejections are logged by the engine and surfaced as an
// error; they never mutate the book.
func (b *Bridge) ProcessEvent(symbol string, action book.Action, fields []wire.Field) error {
	if b.isShutdown.Load() {
		return ErrShutdown
	}
	if symbol == "" {
		return ErrInvalidParam
	}

	entry, ok := b.decoder.DecodeBookEntry(action, fields)
	if !ok {
		return ErrInvalidParam
	}

	sub := b.subscription(symbol)

	switch action {
	case book.ActionAdd:
		sub.book.AddEntry(entry)
		return nil
	case book.ActionUpdate:
		return sub.book.UpdateEntry(entry)
	case book.ActionDelete:
		return sub.book.RemoveEntry(entry)
	default:
		return ErrInvalidParam
	}
}

// EncodeFields translates normalized fields back into wire fields for
// republication. A structural encode failure of any field returns
// ErrEncodeFailed along with the fields that did encode; callers must not
// publish a partial frame.
func (b *Bridge) EncodeFields(fields []codec.NormField) ([]wire.Field, error) {
	out, ok := b.encoder.Encode(fields)
	if !ok {
		return out, ErrEncodeFailed
	}
	return out, nil
}

// Flush closes the instrument's current cycle: build the message, hand it to
// the publisher, erase flushed empty levels, and open the next cycle.
// Callers that skip Flush between cycles lose that cycle's deltas; book state
// itself stays consistent either way.
func (b *Bridge) Flush(symbol string) (*book.Message, error) {
	sub, found := b.books.Load(symbol)
	if !found {
		return nil, ErrNotFound
	}
	s, _ := sub.(*subscription)

	msg := s.builder.Build(s.book)
	b.publisher.Publish(msg)
	s.book.EndUpdate()
	s.book.StartUpdate()

	return msg, nil
}

// Unsubscribe drops an instrument's book. The book exists only in memory for
// the lifetime of the subscription.
func (b *Bridge) Unsubscribe(symbol string) {
	b.books.Delete(symbol)
}

// Shutdown stops accepting events. Existing books stay readable until their
// subscriptions are dropped.
func (b *Bridge) Shutdown() {
	b.isShutdown.Store(true)
}
