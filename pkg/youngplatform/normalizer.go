package youngplatform

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"

	"ypclient/pkg/core"
)

// ypMarket represents a raw market entry from the v3 API.
type ypMarket struct {
	Pair      string      `json:"pair"`
	Trade     string      `json:"trade"`
	Market    string      `json:"market"`
	MinVolume json.Number `json:"minVolume"`
	Enabled   bool        `json:"enabled"`
}

// ypTicker represents a raw ticker response from the v3 API.
type ypTicker struct {
	Pair      string      `json:"pair"`
	Bid       json.Number `json:"bid"`
	Ask       json.Number `json:"ask"`
	Last      json.Number `json:"last"`
	High      json.Number `json:"high"`
	Low       json.Number `json:"low"`
	Volume    json.Number `json:"volume"`
	Timestamp int64       `json:"timestamp"`
}

// ypTrade represents a raw public trade from the v3 API.
type ypTrade struct {
	ID     int64       `json:"id"`
	Side   string      `json:"side"`
	Price  json.Number `json:"price"`
	Volume json.Number `json:"volume"`
	Date   int64       `json:"date"`
}

// ypBookLevel is a single raw order book level.
type ypBookLevel struct {
	Price  json.Number `json:"price"`
	Volume json.Number `json:"volume"`
}

// ypOrderBook represents the raw order book response from the v3 API.
type ypOrderBook struct {
	Pair      string        `json:"pair"`
	Bids      []ypBookLevel `json:"bids"`
	Asks      []ypBookLevel `json:"asks"`
	Timestamp int64         `json:"timestamp"`
}

// ypBalance represents a raw wallet balance entry from the v3 API.
type ypBalance struct {
	Currency  string      `json:"currency"`
	Available json.Number `json:"available"`
	InOrders  json.Number `json:"inOrders"`
}

// ypOrder represents a raw order from the v3 API.
type ypOrder struct {
	OrderID      int64       `json:"orderId"`
	Pair         string      `json:"pair"`
	Side         string      `json:"side"`
	Type         string      `json:"type"`
	Volume       json.Number `json:"volume"`
	Rate         json.Number `json:"rate"`
	FilledVolume json.Number `json:"filledVolume"`
	Status       string      `json:"status"`
	Date         int64       `json:"date"`
	LastUpdate   int64       `json:"lastUpdate"`
}

// Normalizer converts raw v3 API payloads to canonical core types.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer instance.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeMarket converts a raw market entry to a canonical Market.
func (n *Normalizer) NormalizeMarket(data *ypMarket) *core.Market {
	market := &core.Market{
		Pair:    data.Pair,
		Trade:   data.Trade,
		Market:  data.Market,
		Enabled: data.Enabled,
	}

	parseDecimal(&market.MinVolume, data.MinVolume.String())

	return market
}

// NormalizeMarkets converts multiple raw market entries.
func (n *Normalizer) NormalizeMarkets(data []ypMarket) []core.Market {
	markets := make([]core.Market, 0, len(data))
	for i := range data {
		markets = append(markets, *n.NormalizeMarket(&data[i]))
	}
	return markets
}

// NormalizeTicker converts a raw ticker to a canonical Ticker.
func (n *Normalizer) NormalizeTicker(data *ypTicker) *core.Ticker {
	ticker := &core.Ticker{
		Pair:      data.Pair,
		Timestamp: parseUnixTime(data.Timestamp),
	}

	parseDecimal(&ticker.Bid, data.Bid.String())
	parseDecimal(&ticker.Ask, data.Ask.String())
	parseDecimal(&ticker.Last, data.Last.String())
	parseDecimal(&ticker.High, data.High.String())
	parseDecimal(&ticker.Low, data.Low.String())
	parseDecimal(&ticker.Volume, data.Volume.String())

	return ticker
}

// NormalizeTrade converts a raw trade to a canonical Trade.
func (n *Normalizer) NormalizeTrade(data *ypTrade) *core.Trade {
	trade := &core.Trade{
		ID:        data.ID,
		Side:      parseSide(data.Side),
		Timestamp: parseUnixTime(data.Date),
	}

	parseDecimal(&trade.Price, data.Price.String())
	parseDecimal(&trade.Volume, data.Volume.String())

	return trade
}

// NormalizeTrades converts multiple raw trades, stamping the pair on each.
func (n *Normalizer) NormalizeTrades(data []ypTrade, pair string) []core.Trade {
	trades := make([]core.Trade, 0, len(data))
	for i := range data {
		trade := n.NormalizeTrade(&data[i])
		trade.Pair = pair
		trades = append(trades, *trade)
	}
	return trades
}

// NormalizeOrderBook converts a raw order book to a canonical OrderBook.
func (n *Normalizer) NormalizeOrderBook(data *ypOrderBook, pair string) (*core.OrderBook, error) {
	if pair == "" {
		pair = data.Pair
	}

	book := &core.OrderBook{
		Pair:      pair,
		Timestamp: parseUnixTime(data.Timestamp),
	}

	bids, err := n.normalizeBookLevels(data.Bids)
	if err != nil {
		return nil, fmt.Errorf("normalize bids: %w", err)
	}
	book.Bids = bids

	asks, err := n.normalizeBookLevels(data.Asks)
	if err != nil {
		return nil, fmt.Errorf("normalize asks: %w", err)
	}
	book.Asks = asks

	return book, nil
}

func (n *Normalizer) normalizeBookLevels(levels []ypBookLevel) ([]core.OrderBookLevel, error) {
	result := make([]core.OrderBookLevel, 0, len(levels))

	for i := range levels {
		var obl core.OrderBookLevel
		if err := parseDecimal(&obl.Price, levels[i].Price.String()); err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		if err := parseDecimal(&obl.Volume, levels[i].Volume.String()); err != nil {
			return nil, fmt.Errorf("parse volume: %w", err)
		}
		result = append(result, obl)
	}

	return result, nil
}

// NormalizeBalance converts a raw balance entry to a canonical Balance.
func (n *Normalizer) NormalizeBalance(data *ypBalance) *core.Balance {
	balance := &core.Balance{
		Asset: data.Currency,
	}

	parseDecimal(&balance.Available, data.Available.String())
	parseDecimal(&balance.InOrders, data.InOrders.String())

	return balance
}

// NormalizeBalances converts multiple raw balance entries.
func (n *Normalizer) NormalizeBalances(data []ypBalance) []core.Balance {
	balances := make([]core.Balance, 0, len(data))
	for i := range data {
		balances = append(balances, *n.NormalizeBalance(&data[i]))
	}
	return balances
}

// NormalizeOrder converts a raw order to a canonical Order.
func (n *Normalizer) NormalizeOrder(data *ypOrder) (*core.Order, error) {
	order := &core.Order{
		ID:        data.OrderID,
		Pair:      data.Pair,
		Side:      parseSide(data.Side),
		Type:      parseOrderType(data.Type),
		Status:    parseOrderStatus(data.Status),
		CreatedAt: parseUnixTime(data.Date),
		UpdatedAt: parseUnixTime(data.LastUpdate),
	}

	if err := parseDecimal(&order.Volume, data.Volume.String()); err != nil {
		return nil, fmt.Errorf("parse volume: %w", err)
	}

	parseDecimal(&order.Rate, data.Rate.String())
	parseDecimal(&order.FilledVolume, data.FilledVolume.String())

	return order, nil
}

// NormalizeOrders converts multiple raw orders.
func (n *Normalizer) NormalizeOrders(data []ypOrder) ([]core.Order, error) {
	orders := make([]core.Order, 0, len(data))
	for i := range data {
		order, err := n.NormalizeOrder(&data[i])
		if err != nil {
			return nil, fmt.Errorf("normalize order: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func parseDecimal(dest *apd.Decimal, s string) error {
	if s == "" {
		*dest = apd.Decimal{}
		return nil
	}

	_, _, err := apd.BaseContext.SetString(dest, s)
	if err != nil {
		return fmt.Errorf("set decimal from string: %w", err)
	}

	return nil
}

// parseUnixTime interprets a v3 timestamp, which is unix seconds like the
// signature timestamp. Zero stays the zero time.
func parseUnixTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

func parseSide(s string) core.OrderSide {
	switch strings.ToUpper(s) {
	case "SELL":
		return core.SideSell
	default:
		return core.SideBuy
	}
}

func parseOrderType(s string) core.OrderType {
	switch strings.ToUpper(s) {
	case "LIMIT":
		return core.TypeLimit
	default:
		return core.TypeMarket
	}
}

func parseOrderStatus(s string) core.OrderStatus {
	switch strings.ToUpper(s) {
	case "PARTIALLY_FILLED", "PARTIAL":
		return core.StatusPartiallyFilled
	case "FILLED", "COMPLETED":
		return core.StatusFilled
	case "CANCELED", "CANCELLED":
		return core.StatusCanceled
	case "REJECTED":
		return core.StatusRejected
	default:
		return core.StatusNew
	}
}
