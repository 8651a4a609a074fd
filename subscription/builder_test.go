package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZenHive/ccxt-client-sub002/market"
	"github.com/ZenHive/ccxt-client-sub002/venueconf"
)

func testVenue() *venueconf.Venue {
	return &venueconf.Venue{
		Name:                "binance",
		SubscriptionPattern: PatternMethodParams,
		SymbolContext: map[string]*venueconf.SymbolFormat{
			"spot": {Case: "lower"},
		},
		Channels: map[string]*venueconf.Template{
			"trades": {
				Name:           "trade",
				Separator:      "@",
				MarketIDFormat: "spot",
			},
			"ohlcv": {
				Name:           "kline",
				Separator:      "@",
				MarketIDFormat: "spot",
				Params: []*venueconf.TemplateParam{
					{Name: "interval", Default: "1m"},
				},
			},
			"order_book": {
				Name:           "depth",
				Separator:      "@",
				MarketIDFormat: "spot",
				Params: []*venueconf.TemplateParam{
					{Name: "levels", Default: "20"},
					{Name: "speed", Default: "100ms"},
				},
			},
			"orders": {
				Name: "executionReport",
			},
		},
	}
}

func TestBuildSingleSymbol(t *testing.T) {
	sub, err := Build(testVenue(), &Request{Family: market.FamilyTrades, Symbol: "BTC/USDT"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"trade@btcusdt"}, sub.Channels)
	assert.Equal(t, market.FamilyTrades, sub.Family)
	assert.False(t, sub.AuthRequired)
	assert.Equal(t, []string{"BTC/USDT"}, sub.Symbols)

	msg, ok := sub.Message.(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "SUBSCRIBE", msg["method"])
	assert.Equal(t, []string{"trade@btcusdt"}, msg["params"])
}

func TestBuildMultiSymbol(t *testing.T) {
	sub, err := Build(testVenue(), &Request{
		Family:  market.FamilyTrades,
		Symbols: []string{"BTC/USDT", "ETH/USDT"},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"trade@btcusdt", "trade@ethusdt"}, sub.Channels)
}

func TestBuildParamDefaultsAndOverrides(t *testing.T) {
	venue := testVenue()

	sub, err := Build(venue, &Request{Family: market.FamilyOHLCV, Symbol: "BTC/USDT"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"kline@btcusdt@1m"}, sub.Channels)

	sub, err = Build(venue, &Request{
		Family: market.FamilyOHLCV,
		Symbol: "BTC/USDT",
		Params: map[string]any{"interval": "5m"},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"kline@btcusdt@5m"}, sub.Channels)
}

func TestBuildFalsyOverride(t *testing.T) {
	// 0/false 这类零值覆盖以键存在判定, 必须生效
	sub, err := Build(testVenue(), &Request{
		Family: market.FamilyOrderBook,
		Symbol: "BTC/USDT",
		Params: map[string]any{"levels": 0, "speed": false},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"depth@btcusdt@0@false"}, sub.Channels)
}

func TestBuildNoSymbols(t *testing.T) {
	// 私有家族通常不带符号, 频道就是模板名
	sub, err := Build(testVenue(), &Request{Family: market.FamilyOrders})
	assert.NoError(t, err)
	assert.Equal(t, []string{"executionReport"}, sub.Channels)
	// orders 家族默认要求鉴权
	assert.True(t, sub.AuthRequired)
}

func TestBuildUnknownFamily(t *testing.T) {
	_, err := Build(testVenue(), &Request{Family: market.Family("candlesticks")})
	assert.ErrorIs(t, err, ErrUnknownFamily)
}

func TestBuildNoTemplate(t *testing.T) {
	_, err := Build(testVenue(), &Request{Family: market.FamilyTicker})
	assert.ErrorIs(t, err, ErrNoTemplate)
}

func TestBuildAuthRequiredVenueOverride(t *testing.T) {
	venue := testVenue()
	venue.AuthRequired = map[string]bool{"trades": true}
	sub, err := Build(venue, &Request{Family: market.FamilyTrades, Symbol: "BTC/USDT"})
	assert.NoError(t, err)
	assert.True(t, sub.AuthRequired)
}

func TestUnsubscribeMessage(t *testing.T) {
	venue := testVenue()
	sub, err := Build(venue, &Request{Family: market.FamilyTrades, Symbol: "BTC/USDT"})
	assert.NoError(t, err)

	msg, ok := UnsubscribeMessage(venue, sub).(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "UNSUBSCRIBE", msg["method"])
	assert.Equal(t, []string{"trade@btcusdt"}, msg["params"])
}

func TestCombinedMessageDeduplicates(t *testing.T) {
	venue := testVenue()
	first, err := Build(venue, &Request{Family: market.FamilyTrades, Symbols: []string{"BTC/USDT", "ETH/USDT"}})
	assert.NoError(t, err)
	second, err := Build(venue, &Request{Family: market.FamilyTrades, Symbol: "BTC/USDT"})
	assert.NoError(t, err)

	msg, ok := CombinedMessage(venue, []*Subscription{first, second}).(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, []string{"trade@btcusdt", "trade@ethusdt"}, msg["params"])
}

func TestCombinedMessageEmpty(t *testing.T) {
	assert.Nil(t, CombinedMessage(testVenue(), nil))
}
