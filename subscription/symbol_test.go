package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZenHive/ccxt-client-sub002/venueconf"
)

func TestFormatSymbol(t *testing.T) {
	// 无规则: 去斜杠保持大小写
	assert.Equal(t, "BTCUSDT", FormatSymbol("BTC/USDT", nil))

	// binance 现货: 小写无分隔
	assert.Equal(t, "btcusdt", FormatSymbol("BTC/USDT", &venueconf.SymbolFormat{Case: "lower"}))

	// okx: 保留连字符大写
	assert.Equal(t, "BTC-USDT", FormatSymbol("BTC/USDT", &venueconf.SymbolFormat{Case: "upper", KeepDash: true}))

	// 下划线分隔
	assert.Equal(t, "BTC_USDT", FormatSymbol("BTC/USDT", &venueconf.SymbolFormat{Separator: "_", Case: "upper"}))

	// 非统一格式的输入原样处理大小写
	assert.Equal(t, "btcusdt", FormatSymbol("BTCUSDT", &venueconf.SymbolFormat{Case: "lower"}))
}
