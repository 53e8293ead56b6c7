package book

import (
	"github.com/huandu/skiplist"

	"github.com/feedmill/mdbridge/wire"
)

// levelMap holds one side's levels: a skip list for ordered iteration plus a
// price-keyed index for O(1) lookup.
//
// Ordering is the raw key order of the wire-exact price (mantissa, then hint),
// NOT a value-normalized price order. A feed that mixes scale hints for one
// instrument could therefore publish levels out of price order; downstream
// consumers depend on the key order being stable, so this is preserved rather
// than "fixed".
type levelMap struct {
	side      Side
	levelList *skiplist.SkipList
	priceList map[wire.Price]*skiplist.Element
}

func newLevelMap(side Side) *levelMap {
	return &levelMap{
		side: side,
		levelList: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			p1, _ := lhs.(wire.Price)
			p2, _ := rhs.(wire.Price)

			if p1.Less(p2) {
				return -1
			} else if p2.Less(p1) {
				return 1
			}

			return 0
		})),
		priceList: make(map[wire.Price]*skiplist.Element),
	}
}

// level finds a level by its exact price key.
func (m *levelMap) level(price wire.Price) *Level {
	el, ok := m.priceList[price]
	if !ok {
		return nil
	}
	lvl, _ := el.Value.(*Level)
	return lvl
}

// getOrCreate resolves the level for a price key, creating it if absent.
// Repeated operations at the same (mantissa, hint) always resolve to the same
// Level object.
func (m *levelMap) getOrCreate(price wire.Price) *Level {
	if lvl := m.level(price); lvl != nil {
		return lvl
	}

	lvl := newLevel(m.side, price)
	el := m.levelList.Set(price, lvl)
	m.priceList[price] = el
	return lvl
}

// remove erases a level by price key.
func (m *levelMap) remove(price wire.Price) {
	el, ok := m.priceList[price]
	if !ok {
		return
	}
	m.levelList.RemoveElement(el)
	delete(m.priceList, price)
}

// len returns the number of levels on this side.
func (m *levelMap) len() int {
	return len(m.priceList)
}

// each calls fn for every level in key order.
func (m *levelMap) each(fn func(*Level)) {
	for el := m.levelList.Front(); el != nil; el = el.Next() {
		lvl, _ := el.Value.(*Level)
		fn(lvl)
	}
}
