package core

import (
	"time"

	"github.com/cockroachdb/apd/v3"
)

// OrderSide represents the direction of an order (buy or sell).
type OrderSide int

// Order side constants define the direction of a trade.
const (
	// SideBuy indicates an order to purchase the trade asset.
	SideBuy OrderSide = iota
	// SideSell indicates an order to sell the trade asset.
	SideSell
)

// String returns the string representation of the order side ("BUY" or "SELL").
func (s OrderSide) String() string {
	return [...]string{"BUY", "SELL"}[s]
}

// MarshalJSON implements json.Marshaler for OrderSide.
func (s OrderSide) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for OrderSide.
// It accepts both uppercase and lowercase formats.
func (s *OrderSide) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"BUY"`, `"buy"`:
		*s = SideBuy
	case `"SELL"`, `"sell"`:
		*s = SideSell
	}
	return nil
}

// OrderType represents the type of order to place.
type OrderType int

// Order type constants define how an order is executed. The v3 API supports
// market and limit orders only.
const (
	// TypeMarket executes immediately at the best available price.
	TypeMarket OrderType = iota
	// TypeLimit executes at a specified rate or better.
	TypeLimit
)

// String returns the string representation of the order type.
func (t OrderType) String() string {
	return [...]string{"MARKET", "LIMIT"}[t]
}

// MarshalJSON implements json.Marshaler for OrderType.
func (t OrderType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for OrderType.
// It accepts both uppercase and lowercase formats.
func (t *OrderType) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"MARKET"`, `"market"`:
		*t = TypeMarket
	case `"LIMIT"`, `"limit"`:
		*t = TypeLimit
	}
	return nil
}

// OrderStatus represents the current state of an order.
type OrderStatus int

// Order status constants define the lifecycle state of an order.
const (
	// StatusNew indicates the order has been accepted by the exchange.
	StatusNew OrderStatus = iota
	// StatusPartiallyFilled indicates the order has been partially filled.
	StatusPartiallyFilled
	// StatusFilled indicates the order has been completely filled.
	StatusFilled
	// StatusCanceled indicates the order has been canceled.
	StatusCanceled
	// StatusRejected indicates the order was rejected by the exchange.
	StatusRejected
)

// String returns the string representation of the order status.
func (s OrderStatus) String() string {
	return [...]string{"NEW", "PARTIALLY_FILLED", "FILLED", "CANCELED", "REJECTED"}[s]
}

// IsTerminal returns true if the order is in a terminal state.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusFilled || s == StatusCanceled || s == StatusRejected
}

// MarshalJSON implements json.Marshaler for OrderStatus.
func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for OrderStatus.
// It accepts both uppercase and lowercase formats.
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"NEW"`, `"new"`:
		*s = StatusNew
	case `"PARTIALLY_FILLED"`, `"partially_filled"`:
		*s = StatusPartiallyFilled
	case `"FILLED"`, `"filled"`:
		*s = StatusFilled
	case `"CANCELED"`, `"canceled"`:
		*s = StatusCanceled
	case `"REJECTED"`, `"rejected"`:
		*s = StatusRejected
	}
	return nil
}

// Market describes one tradable pair on the exchange.
type Market struct {
	// Pair is the market identifier (e.g., "BTC-EUR").
	Pair string `json:"pair"`
	// Trade is the base asset of the pair.
	Trade string `json:"trade"`
	// Market is the quote asset of the pair.
	Market string `json:"market"`
	// MinVolume is the minimum order volume accepted for the pair.
	MinVolume apd.Decimal `json:"min_volume"`
	// Enabled reports whether the pair is currently open for trading.
	Enabled bool `json:"enabled"`
}

// Ticker represents current market data for a trading pair.
type Ticker struct {
	// Pair is the trading pair identifier (e.g., "BTC-EUR").
	Pair string `json:"pair"`
	// Bid is the highest price a buyer is willing to pay.
	Bid apd.Decimal `json:"bid"`
	// Ask is the lowest price a seller is willing to accept.
	Ask apd.Decimal `json:"ask"`
	// Last is the price of the most recent trade.
	Last apd.Decimal `json:"last"`
	// High is the highest price in the last 24 hours.
	High apd.Decimal `json:"high"`
	// Low is the lowest price in the last 24 hours.
	Low apd.Decimal `json:"low"`
	// Volume is the total trading volume in the last 24 hours.
	Volume apd.Decimal `json:"volume"`
	// Timestamp is when this ticker data was generated.
	Timestamp time.Time `json:"timestamp"`
}

// Trade represents a single executed trade on a market.
type Trade struct {
	// ID is the exchange-assigned trade identifier.
	ID int64 `json:"id"`
	// Pair is the trading pair for this trade.
	Pair string `json:"pair"`
	// Side indicates whether the taker bought or sold.
	Side OrderSide `json:"side"`
	// Price is the execution price of this trade.
	Price apd.Decimal `json:"price"`
	// Volume is the amount executed in this trade.
	Volume apd.Decimal `json:"volume"`
	// Timestamp is when the trade was executed.
	Timestamp time.Time `json:"timestamp"`
}

// Balance represents the wallet balance for a single asset.
type Balance struct {
	// Asset is the currency symbol (e.g., "BTC", "EUR").
	Asset string `json:"asset"`
	// Available is the balance free for trading.
	Available apd.Decimal `json:"available"`
	// InOrders is the balance locked in open orders.
	InOrders apd.Decimal `json:"in_orders"`
}

// Order represents an exchange order with all its details.
type Order struct {
	// ID is the exchange-assigned order identifier.
	ID int64 `json:"id"`
	// Pair is the trading pair for this order.
	Pair string `json:"pair"`
	// Side indicates whether this is a buy or sell order.
	Side OrderSide `json:"side"`
	// Type defines how the order executes (market or limit).
	Type OrderType `json:"type"`
	// Rate is the limit price for limit orders.
	Rate apd.Decimal `json:"rate"`
	// Volume is the total order volume.
	Volume apd.Decimal `json:"volume"`
	// FilledVolume is the amount that has been executed.
	FilledVolume apd.Decimal `json:"filled_volume"`
	// Status is the current state of the order.
	Status OrderStatus `json:"status"`
	// CreatedAt is when the order was submitted.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the order was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderBookLevel represents a single price level in the order book.
type OrderBookLevel struct {
	// Price is the limit price for this level.
	Price apd.Decimal `json:"price"`
	// Volume is the total volume available at this price.
	Volume apd.Decimal `json:"volume"`
}

// OrderBook represents the current order book depth for a trading pair.
type OrderBook struct {
	// Pair is the trading pair for this order book.
	Pair string `json:"pair"`
	// Bids are buy orders sorted by price descending.
	Bids []OrderBookLevel `json:"bids"`
	// Asks are sell orders sorted by price ascending.
	Asks []OrderBookLevel `json:"asks"`
	// Timestamp is when this snapshot was taken.
	Timestamp time.Time `json:"timestamp"`
}
