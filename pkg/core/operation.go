package core

// Operation represents a type of action that can be performed against the
// exchange API.
type Operation int

// Operation constants define all supported API operations.
const (
	// OpGetMarkets retrieves the list of tradable markets.
	OpGetMarkets Operation = iota
	// OpGetTicker retrieves current ticker data for a pair.
	OpGetTicker
	// OpGetTrades retrieves recent trades for a pair.
	OpGetTrades
	// OpGetOrderBook retrieves order book depth for a pair.
	OpGetOrderBook
	// OpGetBalances retrieves wallet balances.
	OpGetBalances
	// OpGetOpenOrders retrieves open orders for a pair.
	OpGetOpenOrders
	// OpPlaceOrder submits a new order.
	OpPlaceOrder
	// OpGetOrder retrieves an order by its identifier.
	OpGetOrder
	// OpCancelOrder cancels an existing order.
	OpCancelOrder
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	return [...]string{
		"GET_MARKETS",
		"GET_TICKER",
		"GET_TRADES",
		"GET_ORDER_BOOK",
		"GET_BALANCES",
		"GET_OPEN_ORDERS",
		"PLACE_ORDER",
		"GET_ORDER",
		"CANCEL_ORDER",
	}[o]
}

// RequiresAuth reports whether the operation needs a signed request.
func (o Operation) RequiresAuth() bool {
	switch o {
	case OpGetBalances, OpGetOpenOrders, OpPlaceOrder, OpGetOrder, OpCancelOrder:
		return true
	default:
		return false
	}
}
