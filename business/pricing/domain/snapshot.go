package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/arbscan/internal/numeric"
)

// CexPriceSnapshot holds the CEX side of a route in USD. Zero means unavailable;
// negative or non-finite values are read as zero.
type CexPriceSnapshot struct {
	BuyTokenPrice  float64 // ask
	SellTokenPrice float64 // bid
	BuyPairPrice   float64
	SellPairPrice  float64
	WithdrawFee    float64 // USD fee for moving the purchased asset off the CEX
	BaseAssetUSD   float64 // USD price of the chain's native coin
	Timestamp      time.Time
}

// Prices is the validated decimal view of a snapshot.
type Prices struct {
	BuyToken  decimal.Decimal
	SellToken decimal.Decimal
	BuyPair   decimal.Decimal
	SellPair  decimal.Decimal
	BaseUSD   decimal.Decimal
}

// Decimals converts the snapshot, collapsing invalid prices to zero.
func (s CexPriceSnapshot) Decimals() Prices {
	return Prices{
		BuyToken:  numeric.OrZero(s.BuyTokenPrice),
		SellToken: numeric.OrZero(s.SellTokenPrice),
		BuyPair:   numeric.OrZero(s.BuyPairPrice),
		SellPair:  numeric.OrZero(s.SellPairPrice),
		BaseUSD:   numeric.OrZero(s.BaseAssetUSD),
	}
}

// Liquidity describes how much of the modal the CEX side can absorb.
type Liquidity struct {
	Volume      decimal.Decimal // USD depth on the side the route trades against
	ActualModal decimal.Decimal // USD notional fillable up to the modal
	Measured    bool            // ActualModal comes from an order book walk
}
