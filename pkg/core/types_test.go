package core

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderSide_Strings(t *testing.T) {
	assert.Equal(t, "BUY", SideBuy.String())
	assert.Equal(t, "SELL", SideSell.String())
}

func TestOrderSide_JSONRoundTrip(t *testing.T) {
	data, err := sonic.Marshal(SideSell)
	require.NoError(t, err)
	assert.Equal(t, `"SELL"`, string(data))

	var side OrderSide
	require.NoError(t, sonic.Unmarshal([]byte(`"buy"`), &side))
	assert.Equal(t, SideBuy, side)
}

func TestOrderType_Strings(t *testing.T) {
	assert.Equal(t, "MARKET", TypeMarket.String())
	assert.Equal(t, "LIMIT", TypeLimit.String())

	var typ OrderType
	require.NoError(t, sonic.Unmarshal([]byte(`"limit"`), &typ))
	assert.Equal(t, TypeLimit, typ)
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusNew.IsTerminal())
	assert.False(t, StatusPartiallyFilled.IsTerminal())
	assert.True(t, StatusFilled.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "GET_MARKETS", OpGetMarkets.String())
	assert.Equal(t, "PLACE_ORDER", OpPlaceOrder.String())
	assert.Equal(t, "CANCEL_ORDER", OpCancelOrder.String())
}

func TestOperation_RequiresAuth(t *testing.T) {
	public := []Operation{OpGetMarkets, OpGetTicker, OpGetTrades, OpGetOrderBook}
	for _, op := range public {
		assert.False(t, op.RequiresAuth(), op.String())
	}

	private := []Operation{OpGetBalances, OpGetOpenOrders, OpPlaceOrder, OpGetOrder, OpCancelOrder}
	for _, op := range private {
		assert.True(t, op.RequiresAuth(), op.String())
	}
}
