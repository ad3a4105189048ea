package youngplatform

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"resty.dev/v3"

	"ypclient/pkg/core"
)

// defaultDepth is the order book depth requested when the caller does not
// specify one.
const defaultDepth = 10

// Protocol builds Young Platform requests and parses responses into
// canonical types.
type Protocol struct {
	normalizer *Normalizer
}

// NewProtocol creates a new Protocol instance.
func NewProtocol() *Protocol {
	return &Protocol{normalizer: NewNormalizer()}
}

// SupportedOperations returns the list of operations supported by the v3 API.
func (p *Protocol) SupportedOperations() []core.Operation {
	return []core.Operation{
		core.OpGetMarkets,
		core.OpGetTicker,
		core.OpGetTrades,
		core.OpGetOrderBook,
		core.OpGetBalances,
		core.OpGetOpenOrders,
		core.OpPlaceOrder,
		core.OpGetOrder,
		core.OpCancelOrder,
	}
}

// BuildRequest constructs the HTTP request for the given operation.
// It validates required parameters and sets path, query, body and the auth
// marker.
func (p *Protocol) BuildRequest(op core.Operation, params core.Params) (*core.Request, error) {
	switch op {
	case core.OpGetMarkets:
		return core.NewRequest(http.MethodGet, "/markets"), nil
	case core.OpGetTicker:
		return p.buildGetTickerRequest(params)
	case core.OpGetTrades:
		return p.buildGetTradesRequest(params)
	case core.OpGetOrderBook:
		return p.buildGetOrderBookRequest(params)
	case core.OpGetBalances:
		return core.NewRequest(http.MethodPost, "/balances").SetRequireAuth(true), nil
	case core.OpGetOpenOrders:
		return p.buildGetOpenOrdersRequest(params)
	case core.OpPlaceOrder:
		return p.buildPlaceOrderRequest(params)
	case core.OpGetOrder:
		return p.buildGetOrderRequest(params)
	case core.OpCancelOrder:
		return p.buildCancelOrderRequest(params)
	default:
		return nil, fmt.Errorf("unsupported operation: %s", op)
	}
}

// DecodeResponse converts a raw HTTP response into JSON bytes or an error.
//
// A body that is valid JSON is returned as data regardless of the HTTP
// status, error statuses included. A body that is not valid JSON surfaces a
// status-based server error when the status indicates failure, and a
// protocol error otherwise.
func (p *Protocol) DecodeResponse(resp *resty.Response) ([]byte, error) {
	if resp == nil {
		return nil, core.NewExchangeError(core.ErrorTypeUnknown, 0, "nil response")
	}

	body := resp.Bytes()
	var probe any
	if err := sonic.Unmarshal(body, &probe); err == nil {
		return body, nil
	}

	if resp.IsError() {
		return nil, core.NewExchangeError(
			core.ErrorTypeServerError,
			resp.StatusCode(),
			fmt.Sprintf("HTTP error: %s", resp.Status()),
		).WithCode(core.ErrCodeServerError)
	}

	return nil, core.NewExchangeError(
		core.ErrorTypeProtocol,
		resp.StatusCode(),
		"response body is not valid JSON",
	).WithCode(core.ErrCodeProtocol)
}

// ParseResponse decodes raw JSON bytes for the given operation and
// normalizes them to canonical types.
func (p *Protocol) ParseResponse(op core.Operation, raw []byte) (any, error) {
	switch op {
	case core.OpGetMarkets:
		var data []ypMarket
		if err := sonic.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal markets: %w", err)
		}
		return p.normalizer.NormalizeMarkets(data), nil

	case core.OpGetTicker:
		var data ypTicker
		if err := sonic.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal ticker: %w", err)
		}
		return p.normalizer.NormalizeTicker(&data), nil

	case core.OpGetTrades:
		var data []ypTrade
		if err := sonic.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal trades: %w", err)
		}
		return p.normalizer.NormalizeTrades(data, ""), nil

	case core.OpGetOrderBook:
		var data ypOrderBook
		if err := sonic.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal order book: %w", err)
		}
		return p.normalizer.NormalizeOrderBook(&data, "")

	case core.OpGetBalances:
		var data []ypBalance
		if err := sonic.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal balances: %w", err)
		}
		return p.normalizer.NormalizeBalances(data), nil

	case core.OpGetOpenOrders:
		var data []ypOrder
		if err := sonic.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal orders: %w", err)
		}
		return p.normalizer.NormalizeOrders(data)

	case core.OpPlaceOrder, core.OpGetOrder, core.OpCancelOrder:
		var data ypOrder
		if err := sonic.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		return p.normalizer.NormalizeOrder(&data)

	default:
		var result any
		if err := sonic.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		return result, nil
	}
}

func (p *Protocol) buildGetTickerRequest(params core.Params) (*core.Request, error) {
	pair, err := getRequiredStringParam(params, "pair")
	if err != nil {
		return nil, err
	}

	req := core.NewRequest(http.MethodGet, "/ticker")
	req.SetQuery("pair", pair)

	return req, nil
}

func (p *Protocol) buildGetTradesRequest(params core.Params) (*core.Request, error) {
	pair, err := getRequiredStringParam(params, "pair")
	if err != nil {
		return nil, err
	}

	req := core.NewRequest(http.MethodGet, "/trades")
	req.SetQuery("pair", pair)

	return req, nil
}

func (p *Protocol) buildGetOrderBookRequest(params core.Params) (*core.Request, error) {
	pair, err := getRequiredStringParam(params, "pair")
	if err != nil {
		return nil, err
	}

	depth := getIntParamWithDefault(params, "depth", defaultDepth)

	req := core.NewRequest(http.MethodGet, "/orderbook")
	req.SetQuery("pair", pair)
	req.SetQuery("depth", strconv.Itoa(depth))

	return req, nil
}

func (p *Protocol) buildGetOpenOrdersRequest(params core.Params) (*core.Request, error) {
	pair, err := getRequiredStringParam(params, "pair")
	if err != nil {
		return nil, err
	}

	req := core.NewRequest(http.MethodPost, "/openorders")
	req.SetQuery("pair", pair)
	req.SetRequireAuth(true)

	return req, nil
}

func (p *Protocol) buildPlaceOrderRequest(params core.Params) (*core.Request, error) {
	trade, err := getRequiredStringParam(params, "trade")
	if err != nil {
		return nil, err
	}

	market, err := getRequiredStringParam(params, "market")
	if err != nil {
		return nil, err
	}

	side, err := getRequiredStringParam(params, "side")
	if err != nil {
		return nil, err
	}

	orderType, err := getRequiredStringParam(params, "type")
	if err != nil {
		return nil, err
	}

	volume, ok := params["volume"]
	if !ok {
		return nil, fmt.Errorf("missing required parameter: volume")
	}

	body := core.Params{
		"trade":  trade,
		"market": market,
		"side":   side,
		"type":   orderType,
		"volume": volume,
	}

	// Limit orders carry a rate; market orders must not.
	if orderType == core.TypeLimit.String() {
		rate, ok := params["rate"]
		if !ok {
			return nil, fmt.Errorf("missing required parameter: rate")
		}
		body["rate"] = rate
	}

	req := core.NewRequest(http.MethodPost, "/placeOrder")
	req.SetBody(body)
	req.SetRequireAuth(true)

	return req, nil
}

func (p *Protocol) buildGetOrderRequest(params core.Params) (*core.Request, error) {
	orderID, err := getRequiredInt64Param(params, "orderId")
	if err != nil {
		return nil, err
	}

	req := core.NewRequest(http.MethodPost, "/orderbyid")
	req.SetQuery("orderId", strconv.FormatInt(orderID, 10))
	req.SetRequireAuth(true)

	return req, nil
}

func (p *Protocol) buildCancelOrderRequest(params core.Params) (*core.Request, error) {
	side, err := getRequiredStringParam(params, "side")
	if err != nil {
		return nil, err
	}

	orderID, err := getRequiredInt64Param(params, "orderId")
	if err != nil {
		return nil, err
	}

	req := core.NewRequest(http.MethodPost, "/cancelOrder")
	req.SetBody(core.Params{
		"side":    side,
		"orderId": orderID,
	})
	req.SetRequireAuth(true)

	return req, nil
}

func getRequiredStringParam(params core.Params, key string) (string, error) {
	val, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing required parameter: %s", key)
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("parameter %s must be a string", key)
	}

	if str == "" {
		return "", fmt.Errorf("parameter %s cannot be empty", key)
	}

	return str, nil
}

func getRequiredInt64Param(params core.Params, key string) (int64, error) {
	val, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("missing required parameter: %s", key)
	}

	switch v := val.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("parameter %s must be an integer", key)
	}
}

func getIntParamWithDefault(params core.Params, key string, def int) int {
	if val, ok := params[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		case string:
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
	}
	return def
}
