package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessageOpArgs(t *testing.T) {
	msg, ok := BuildMessage(PatternOpArgs, OpSubscribe, []Part{
		{Channel: "tickers.BTC-USDT", Base: "tickers", Symbol: "BTC-USDT"},
	}).(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "subscribe", msg["op"])
	assert.Equal(t, []string{"tickers.BTC-USDT"}, msg["args"])
}

func TestBuildMessageMethodParamsID(t *testing.T) {
	first, _ := BuildMessage(PatternMethodParams, OpSubscribe, []Part{{Channel: "btcusdt@trade"}}).(map[string]any)
	second, _ := BuildMessage(PatternMethodParams, OpSubscribe, []Part{{Channel: "btcusdt@trade"}}).(map[string]any)
	assert.Equal(t, "SUBSCRIBE", first["method"])
	// 报文编号自增, 同进程内不重复
	assert.NotEqual(t, first["id"], second["id"])
}

func TestBuildMessageJSONRPC(t *testing.T) {
	msg, _ := BuildMessage(PatternJSONRPC, OpSubscribe, []Part{{Channel: "trades.BTC-PERPETUAL.raw"}}).(map[string]any)
	assert.Equal(t, "2.0", msg["jsonrpc"])
	assert.Equal(t, "public/subscribe", msg["method"])
	params, _ := msg["params"].(map[string]any)
	assert.Equal(t, []string{"trades.BTC-PERPETUAL.raw"}, params["channels"])
}

func TestBuildMessageArgObjects(t *testing.T) {
	msg, _ := BuildMessage(PatternArgObjects, OpSubscribe, []Part{
		{Channel: "books.BTC-USDT", Base: "books", Symbol: "BTC-USDT"},
		{Channel: "tickers", Base: "tickers"},
	}).(map[string]any)
	args, _ := msg["args"].([]map[string]any)
	assert.Len(t, args, 2)
	assert.Equal(t, "books", args[0]["channel"])
	assert.Equal(t, "BTC-USDT", args[0]["instId"])
	// 无符号的对象不能带空的 instId
	_, hasInst := args[1]["instId"]
	assert.False(t, hasInst)
}

func TestBuildMessageSubString(t *testing.T) {
	msg, _ := BuildMessage(PatternSubString, OpSubscribe, []Part{{Channel: "market.btcusdt.trade.detail"}}).(map[string]any)
	assert.Equal(t, "market.btcusdt.trade.detail", msg["sub"])
	assert.NotEmpty(t, msg["id"])

	msg, _ = BuildMessage(PatternSubString, OpUnsubscribe, []Part{{Channel: "market.btcusdt.trade.detail"}}).(map[string]any)
	assert.Equal(t, "market.btcusdt.trade.detail", msg["unsub"])
}

func TestBuildMessageEventChannel(t *testing.T) {
	msg, _ := BuildMessage(PatternEventChannel, OpSubscribe, []Part{
		{Channel: "trades_BTC_USDT", Base: "trades", Symbol: "BTC_USDT"},
	}).(map[string]any)
	assert.Equal(t, "subscribe", msg["event"])
	assert.Equal(t, "trades", msg["channel"])
	assert.Equal(t, "BTC_USDT", msg["symbol"])

	// 空 parts 不崩
	msg, _ = BuildMessage(PatternEventChannel, OpSubscribe, nil).(map[string]any)
	assert.Equal(t, "subscribe", msg["event"])
}

func TestBuildMessageTopicOp(t *testing.T) {
	msg, _ := BuildMessage(PatternTopicOp, OpUnsubscribe, []Part{
		{Channel: "orderbook.50.BTCUSDT"},
		{Channel: "publicTrade.BTCUSDT"},
	}).(map[string]any)
	assert.Equal(t, "unsubscribe", msg["op"])
	assert.Equal(t, "orderbook.50.BTCUSDT,publicTrade.BTCUSDT", msg["topic"])
}

func TestBuildMessageUnknownPatternFallback(t *testing.T) {
	// 未录入的形状退化为通用报文, 永不报错
	msg, _ := BuildMessage("something_new", OpSubscribe, []Part{{Channel: "trades"}}).(map[string]any)
	assert.Equal(t, true, msg["subscribe"])
	assert.Equal(t, []string{"trades"}, msg["channels"])

	msg, _ = BuildMessage("something_new", OpUnsubscribe, []Part{{Channel: "trades"}}).(map[string]any)
	assert.Equal(t, false, msg["subscribe"])
}
