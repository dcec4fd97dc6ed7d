package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the side of a CEX trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ErrEmptyBook is returned when the traded side has no levels.
var ErrEmptyBook = errors.New("pricing: orderbook side is empty")

// OrderbookLevel is one price level; Amount is in base units of the symbol.
type OrderbookLevel struct {
	Price  decimal.Decimal
	Amount decimal.Decimal
}

// Orderbook is a CEX depth snapshot quoted in USD. Bids descend, asks ascend.
type Orderbook struct {
	Symbol    string
	Bids      []OrderbookLevel
	Asks      []OrderbookLevel
	Timestamp time.Time
}

// BestBid returns the highest bid level.
func (o *Orderbook) BestBid() *OrderbookLevel {
	if o == nil || len(o.Bids) == 0 {
		return nil
	}
	return &o.Bids[0]
}

// BestAsk returns the lowest ask level.
func (o *Orderbook) BestAsk() *OrderbookLevel {
	if o == nil || len(o.Asks) == 0 {
		return nil
	}
	return &o.Asks[0]
}

// Validate checks prices are positive and each side is ordered.
func (o *Orderbook) Validate() error {
	check := func(levels []OrderbookLevel, ascending bool) error {
		for i, l := range levels {
			if !l.Price.IsPositive() || l.Amount.IsNegative() {
				return errors.New("pricing: non-positive level in " + o.Symbol)
			}
			if i == 0 {
				continue
			}
			prev := levels[i-1].Price
			if (ascending && l.Price.LessThan(prev)) || (!ascending && l.Price.GreaterThan(prev)) {
				return errors.New("pricing: unordered levels in " + o.Symbol)
			}
		}
		return nil
	}
	if err := check(o.Bids, false); err != nil {
		return err
	}
	return check(o.Asks, true)
}

func (o *Orderbook) levels(side Side) []OrderbookLevel {
	if o == nil {
		return nil
	}
	if side == SideBuy {
		return o.Asks
	}
	return o.Bids
}

// Depth is the USD notional available on the levels a trade of side consumes.
func (o *Orderbook) Depth(side Side) decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.levels(side) {
		total = total.Add(l.Price.Mul(l.Amount))
	}
	return total
}

// Fill is the result of walking the book for a USD notional.
type Fill struct {
	Notional decimal.Decimal // USD actually filled
	Quantity decimal.Decimal // base units filled
	AvgPrice decimal.Decimal // VWAP
	Complete bool
}

// FillNotional walks the book until notional USD is filled or levels run out.
func (o *Orderbook) FillNotional(side Side, notional decimal.Decimal) (Fill, error) {
	levels := o.levels(side)
	if len(levels) == 0 {
		return Fill{}, ErrEmptyBook
	}

	remaining := notional
	filled, qty := decimal.Zero, decimal.Zero
	for _, l := range levels {
		if !remaining.IsPositive() {
			break
		}
		levelNotional := l.Price.Mul(l.Amount)
		take := decimal.Min(remaining, levelNotional)
		filled = filled.Add(take)
		qty = qty.Add(take.Div(l.Price))
		remaining = remaining.Sub(take)
	}

	f := Fill{Notional: filled, Quantity: qty, Complete: !remaining.IsPositive()}
	if qty.IsPositive() {
		f.AvgPrice = filled.Div(qty)
	}
	return f, nil
}
