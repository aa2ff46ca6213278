package abi

import (
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// signatureBits is the room kept in the first cell of an external body for the
// maybe-signature prefix.
const signatureBits = 1 + 512

// chain lays encoded values out over a list of cells. When a value does not fit
// into the current cell, a new cell is started and linked through the last ref.
type chain struct {
	cells   []*cell.Builder
	reserve uint
}

func newChain(reserve uint) *chain {
	return &chain{cells: []*cell.Builder{cell.BeginCell()}, reserve: reserve}
}

func (c *chain) push(item *cell.Builder) error {
	cur := c.cells[len(c.cells)-1]
	bitsLeft := cur.BitsLeft()
	if len(c.cells) == 1 {
		if bitsLeft < c.reserve {
			bitsLeft = 0
		} else {
			bitsLeft -= c.reserve
		}
	}
	// one ref is always kept free for the link to the next cell
	if item.BitsUsed() > bitsLeft || uint(item.RefsUsed())+1 > uint(cur.RefsLeft()) {
		cur = cell.BeginCell()
		c.cells = append(c.cells, cur)
	}
	return cur.StoreBuilder(item)
}

// build assembles the chain, optionally writing prefix at the start of the first cell.
func (c *chain) build(prefix *cell.Builder) (*cell.Cell, error) {
	var next *cell.Cell
	for i := len(c.cells) - 1; i >= 0; i-- {
		b := cell.BeginCell()
		if i == 0 && prefix != nil {
			if err := b.StoreBuilder(prefix); err != nil {
				return nil, err
			}
		}
		if err := b.StoreBuilder(c.cells[i]); err != nil {
			return nil, err
		}
		if next != nil {
			if err := b.StoreRef(next); err != nil {
				return nil, err
			}
		}
		next = b.EndCell()
	}
	return next, nil
}
