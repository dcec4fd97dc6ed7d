package domain

import "time"

// WalletStatus mirrors the CEX deposit/withdraw availability for the route's assets.
type WalletStatus struct {
	DepositToken  bool
	WithdrawToken bool
	DepositPair   bool
	WithdrawPair  bool
}

// Books holds optional CEX depth for the token and pair markets.
type Books struct {
	Token *Orderbook
	Pair  *Orderbook
}

// Tick is one scan observation: a DEX route quote plus the CEX state around it.
type Tick struct {
	ID         string
	CEX        string
	DEX        string
	Route      RouteQuote
	Prices     CexPriceSnapshot
	Books      Books
	Modal      float64 // USD capital committed to the route
	Volume     float64 // feed-reported CEX volume in USD, 0 when unknown
	Wallet     WalletStatus
	ReceivedAt time.Time
}

// Prepared is a tick with the CEX snapshot completed and liquidity measured.
type Prepared struct {
	Tick      Tick
	Prices    CexPriceSnapshot
	Liquidity Liquidity
}
