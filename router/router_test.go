package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZenHive/ccxt-client-sub002/market"
	"github.com/ZenHive/ccxt-client-sub002/venueconf"
)

func topicDataVenue() (*venueconf.Envelope, *venueconf.Routing) {
	env := &venueconf.Envelope{
		Pattern:            "topic_data",
		DiscriminatorField: "topic",
		DataField:          "data",
	}
	routing := &venueconf.Routing{
		Mode: "contains",
		Entries: []*venueconf.RouteEntry{
			{Channel: "pong", System: true},
			{Channel: "orderbook", Family: "order_book"},
			{Channel: "publicTrade", Family: "trades"},
		},
	}
	return env, routing
}

func TestRouteTopicData(t *testing.T) {
	env, routing := topicDataVenue()
	frame := map[string]any{
		"topic": "orderbook.50.BTCUSDT",
		"type":  "delta",
		"data": map[string]any{
			"b": []any{},
			"a": []any{},
		},
	}

	res := Route(frame, env, routing)
	assert.Equal(t, KindRouted, res.Kind)
	assert.Equal(t, market.FamilyOrderBook, res.Family)
	assert.Equal(t, frame["data"], res.Payload)
	assert.Equal(t, frame, res.Frame)
}

func TestRouteSystemEntry(t *testing.T) {
	env, routing := topicDataVenue()
	res := Route(map[string]any{"topic": "pong"}, env, routing)
	assert.Equal(t, KindSystem, res.Kind)
}

func TestRouteAckFrame(t *testing.T) {
	// 订阅回执 {id, result} 没有判别字段, 认定为系统帧
	env, routing := topicDataVenue()
	res := Route(map[string]any{"id": float64(1), "result": nil}, env, routing)
	assert.Equal(t, KindSystem, res.Kind)
}

func TestRouteUnknownChannel(t *testing.T) {
	env, routing := topicDataVenue()
	res := Route(map[string]any{"topic": "greeks.BTCUSDT"}, env, routing)
	assert.Equal(t, KindUnknown, res.Kind)
}

func TestRouteNoEnvelope(t *testing.T) {
	res := Route(map[string]any{"e": "trade"}, nil, nil)
	assert.Equal(t, KindUnknown, res.Kind)

	res = Route(map[string]any{"id": float64(7), "result": map[string]any{}}, nil, nil)
	assert.Equal(t, KindSystem, res.Kind)
}

func TestRouteMissingDataFieldFallsBackToFrame(t *testing.T) {
	env, routing := topicDataVenue()
	frame := map[string]any{"topic": "publicTrade.BTCUSDT", "p": "1"}
	res := Route(frame, env, routing)
	assert.Equal(t, KindRouted, res.Kind)
	assert.Equal(t, frame, res.Payload)
}

func TestRouteUnwrapList(t *testing.T) {
	env := &venueconf.Envelope{
		Pattern:            "arg_data",
		DiscriminatorField: "arg.channel",
		DataField:          "data",
		UnwrapList:         true,
	}
	routing := &venueconf.Routing{
		Entries: []*venueconf.RouteEntry{
			{Channel: "tickers", Family: "ticker"},
		},
	}
	inner := map[string]any{"last": "42000"}
	frame := map[string]any{
		"arg":  map[string]any{"channel": "tickers", "instId": "BTC-USDT"},
		"data": []any{inner},
	}

	res := Route(frame, env, routing)
	assert.Equal(t, KindRouted, res.Kind)
	// 单元素列表拆包
	assert.Equal(t, inner, res.Payload)

	// 多元素列表保持列表
	frame["data"] = []any{inner, inner}
	res = Route(frame, env, routing)
	assert.Equal(t, []any{inner, inner}, res.Payload)
}

func TestRouteMatchModes(t *testing.T) {
	assert.True(t, matches("", "", "trade", "trade"))
	assert.False(t, matches("", "", "trade.BTCUSDT", "trade"))

	assert.True(t, matches("prefix", "", "trade.BTCUSDT", "trade"))
	assert.True(t, matches("contains", "", "market.btcusdt.trade.detail", "trade"))

	assert.True(t, matches("split_any", ".", "trades.BTC-PERPETUAL.raw", "trades"))
	assert.False(t, matches("split_any", ".", "tradesall.BTC", "trades"))
	assert.True(t, matches("split_any", "", "a.b.trades", "trades"))
}

func TestRoutePure(t *testing.T) {
	// 纯函数: 相同输入多次调用结果一致
	env, routing := topicDataVenue()
	frame := map[string]any{"topic": "publicTrade.BTCUSDT", "data": []any{}}
	first := Route(frame, env, routing)
	second := Route(frame, env, routing)
	assert.Equal(t, first, second)
}

func TestLookup(t *testing.T) {
	frame := map[string]any{
		"arg": map[string]any{"channel": "books"},
	}
	assert.Equal(t, "books", Lookup(frame, "arg.channel"))
	assert.Nil(t, Lookup(frame, "arg.missing"))
	assert.Nil(t, Lookup(frame, "arg.channel.deeper"))
	assert.Equal(t, frame, Lookup(frame, ""))
	assert.Equal(t, frame, Lookup(frame, "."))
}
