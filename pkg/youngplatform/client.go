package youngplatform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/cockroachdb/apd/v3"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"ypclient/internal/ratelimit"
	"ypclient/internal/transport"
	"ypclient/pkg/core"
)

// Client is a Young Platform v3 REST API client.
//
// Public market-data methods work without credentials. Authenticated methods
// require an API key and secret; calling one without a key fails with
// core.ErrAuthRequired before any network I/O.
type Client struct {
	config     *core.Config
	httpClient *transport.Client
	limiter    *ratelimit.Limiter
	logger     zerolog.Logger
	signer     *Signer
	protocol   *Protocol
}

// Option is a functional option for configuring the Client.
type Option func(*Options)

// Options holds construction options for the Client.
type Options struct {
	Logger zerolog.Logger
}

// WithLogger returns an option that sets the logger for the client.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// New creates a new Client with the given configuration and options.
func New(config *core.Config, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, core.NewExchangeError(core.ErrorTypeUnknown, 0,
			fmt.Sprintf("invalid configuration: %v", err)).
			WithCode(core.ErrCodeInvalidConfig).
			WithCause(err)
	}

	options := &Options{
		Logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(options)
	}

	httpClient, err := transport.NewClient(&transport.Config{
		BaseURL:      config.BaseURL,
		Timeout:      config.Timeout,
		MaxRetries:   config.MaxRetries,
		RetryWaitMin: config.RetryWaitMin,
		RetryWaitMax: config.RetryWaitMax,
	}, options.Logger)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	var limiter *ratelimit.Limiter
	if config.RateLimitRequests > 0 {
		limiter = ratelimit.New(config.RateLimitRequests, config.RateLimitPeriod)
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     options.Logger,
		signer:     NewSigner(),
		protocol:   NewProtocol(),
	}, nil
}

// Name returns the exchange identifier "youngplatform".
func (c *Client) Name() string {
	return "youngplatform"
}

// Version returns the API version.
func (c *Client) Version() string {
	return "3"
}

// Close releases resources held by the client, including the HTTP client.
func (c *Client) Close() error {
	if c.httpClient != nil {
		return c.httpClient.Close()
	}
	return nil
}

// GetMarkets retrieves the list of tradable markets.
func (c *Client) GetMarkets(ctx context.Context) ([]core.Market, error) {
	req, err := c.protocol.BuildRequest(core.OpGetMarkets, core.Params{})
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	raw, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := c.protocol.ParseResponse(core.OpGetMarkets, raw)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	markets, ok := result.([]core.Market)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	return markets, nil
}

// GetTicker retrieves the current ticker for the specified pair.
func (c *Client) GetTicker(ctx context.Context, pair string) (*core.Ticker, error) {
	req, err := c.protocol.BuildRequest(core.OpGetTicker, core.Params{"pair": pair})
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	raw, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := c.protocol.ParseResponse(core.OpGetTicker, raw)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	ticker, ok := result.(*core.Ticker)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	if ticker.Pair == "" {
		ticker.Pair = pair
	}
	return ticker, nil
}

// GetTrades retrieves recent trades for the specified pair.
func (c *Client) GetTrades(ctx context.Context, pair string) ([]core.Trade, error) {
	req, err := c.protocol.BuildRequest(core.OpGetTrades, core.Params{"pair": pair})
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	raw, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := c.protocol.ParseResponse(core.OpGetTrades, raw)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	trades, ok := result.([]core.Trade)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	for i := range trades {
		trades[i].Pair = pair
	}
	return trades, nil
}

// GetOrderBook retrieves order book depth for the specified pair.
// Depth defaults to 10; override with WithDepth.
func (c *Client) GetOrderBook(ctx context.Context, pair string, opts ...CallOption) (*core.OrderBook, error) {
	options := applyCallOptions(opts...)

	req, err := c.protocol.BuildRequest(core.OpGetOrderBook, core.Params{
		"pair":  pair,
		"depth": options.depth,
	})
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	raw, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := c.protocol.ParseResponse(core.OpGetOrderBook, raw)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	book, ok := result.(*core.OrderBook)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	if book.Pair == "" {
		book.Pair = pair
	}
	return book, nil
}

// GetBalances retrieves wallet balances for all assets.
func (c *Client) GetBalances(ctx context.Context) ([]core.Balance, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	req, err := c.protocol.BuildRequest(core.OpGetBalances, core.Params{})
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	raw, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := c.protocol.ParseResponse(core.OpGetBalances, raw)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	balances, ok := result.([]core.Balance)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	return balances, nil
}

// GetOpenOrders retrieves open orders for the specified pair.
func (c *Client) GetOpenOrders(ctx context.Context, pair string) ([]core.Order, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	req, err := c.protocol.BuildRequest(core.OpGetOpenOrders, core.Params{"pair": pair})
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	raw, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := c.protocol.ParseResponse(core.OpGetOpenOrders, raw)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	orders, ok := result.([]core.Order)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	return orders, nil
}

// PlaceMarketOrder submits a market order. Trade is the base asset of the
// pair and market the quote asset (a BTC-EUR buy has trade "BTC" and market
// "EUR").
func (c *Client) PlaceMarketOrder(ctx context.Context, trade, market string, side core.OrderSide, volume *apd.Decimal) (*core.Order, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	return c.placeOrder(ctx, core.Params{
		"trade":  trade,
		"market": market,
		"side":   side.String(),
		"type":   core.TypeMarket.String(),
		"volume": json.Number(volume.String()),
	})
}

// PlaceLimitOrder submits a limit order at the given rate.
func (c *Client) PlaceLimitOrder(ctx context.Context, trade, market string, side core.OrderSide, volume, rate *apd.Decimal) (*core.Order, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	return c.placeOrder(ctx, core.Params{
		"trade":  trade,
		"market": market,
		"side":   side.String(),
		"type":   core.TypeLimit.String(),
		"volume": json.Number(volume.String()),
		"rate":   json.Number(rate.String()),
	})
}

func (c *Client) placeOrder(ctx context.Context, params core.Params) (*core.Order, error) {
	req, err := c.protocol.BuildRequest(core.OpPlaceOrder, params)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	raw, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := c.protocol.ParseResponse(core.OpPlaceOrder, raw)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	order, ok := result.(*core.Order)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	return order, nil
}

// GetOrder retrieves the current status of an order by its identifier.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*core.Order, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	req, err := c.protocol.BuildRequest(core.OpGetOrder, core.Params{"orderId": orderID})
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	raw, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := c.protocol.ParseResponse(core.OpGetOrder, raw)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	order, ok := result.(*core.Order)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	return order, nil
}

// CancelOrder cancels an existing order. The exchange requires the order's
// side alongside its identifier.
func (c *Client) CancelOrder(ctx context.Context, side core.OrderSide, orderID int64) (*core.Order, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	req, err := c.protocol.BuildRequest(core.OpCancelOrder, core.Params{
		"side":    side.String(),
		"orderId": orderID,
	})
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	raw, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := c.protocol.ParseResponse(core.OpCancelOrder, raw)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	order, ok := result.(*core.Order)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}

	return order, nil
}

// Do builds and dispatches one request, returning the response body as raw
// JSON bytes. A body that is valid JSON is returned as data regardless of
// the HTTP status; see Protocol.DecodeResponse for the error taxonomy. The
// request is signed when an API key is configured.
func (c *Client) Do(ctx context.Context, method, path string, body core.Params) ([]byte, error) {
	req := core.NewRequest(method, path)
	if body != nil {
		req.SetBody(body)
	}
	return c.send(ctx, req)
}

func (c *Client) send(ctx context.Context, req *core.Request) ([]byte, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.protocol.DecodeResponse(resp)
}

// do dispatches exactly one HTTP request. Signing happens whenever an API
// key is configured, mirroring the wire protocol: public endpoints ignore
// the extra headers.
func (c *Client) do(ctx context.Context, req *core.Request) (*resty.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	if c.config.HasCredentials() {
		if err := c.signer.Sign(req, *c.config.Credentials); err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
	}

	opts := make([]transport.RequestOption, 0, 2+len(req.Query))
	if len(req.Headers) > 0 {
		opts = append(opts, transport.WithHeaders(req.Headers))
	}
	for k, v := range req.Query {
		opts = append(opts, transport.WithQueryParam(k, stringify(v)))
	}
	// Signed GET/DELETE requests carry the payload as a body too.
	if req.Body != nil {
		opts = append(opts, transport.WithBody(req.Body))
	}

	var resp *resty.Response
	var err error

	switch req.Method {
	case http.MethodGet:
		resp, err = c.httpClient.Get(ctx, req.Path, opts...)
	case http.MethodPost:
		resp, err = c.httpClient.Post(ctx, req.Path, nil, opts...)
	case http.MethodDelete:
		resp, err = c.httpClient.Delete(ctx, req.Path, opts...)
	default:
		return nil, fmt.Errorf("unsupported method: %s", req.Method)
	}

	if err != nil {
		c.logger.Error().Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Msg("http request failed")
		return nil, classifyTransportError(err)
	}

	return resp, nil
}

// classifyTransportError maps a transport failure onto the error taxonomy:
// closed client, deadline/timeout, or plain network failure.
func classifyTransportError(err error) error {
	if errors.Is(err, core.ErrClientClosed) {
		return core.NewExchangeError(core.ErrorTypeUnknown, 0, "client is closed").
			WithCode(core.ErrCodeClientClosed).
			WithCause(core.ErrClientClosed)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return core.NewExchangeError(core.ErrorTypeTimeout, 0, err.Error()).
			WithCode(core.ErrCodeTimeout).
			WithCause(err)
	}

	return core.NewExchangeError(core.ErrorTypeNetwork, 0, err.Error()).
		WithCode(core.ErrCodeNetwork).
		WithCause(err)
}

// requireAuth is the guard at the top of every authenticated method. It
// fails before any network I/O when no API key is configured.
func (c *Client) requireAuth() error {
	if !c.config.HasCredentials() {
		return core.NewExchangeError(core.ErrorTypeAuthentication, 0,
			"authenticated endpoint called without an API key").
			WithCode(core.ErrCodeNoCredentials).
			WithCause(core.ErrAuthRequired)
	}
	return nil
}

// RateLimitStats returns throttle statistics, or zeroes when throttling is
// disabled.
func (c *Client) RateLimitStats() ratelimit.MetricsSnapshot {
	if c.limiter == nil {
		return ratelimit.MetricsSnapshot{}
	}
	return c.limiter.Snapshot()
}
