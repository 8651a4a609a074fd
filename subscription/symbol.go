package subscription

import (
	"strings"

	"github.com/ZenHive/ccxt-client-sub002/venueconf"
)

// FormatSymbol 把统一符号 "BTC/USDT" 转成场馆格式
// 没有格式规则时默认去掉斜杠保持大小写
func FormatSymbol(unified string, f *venueconf.SymbolFormat) string {
	base, quote, found := strings.Cut(unified, "/")
	if !found {
		return applyCase(unified, f)
	}

	sep := ""
	if f != nil {
		if f.KeepDash {
			sep = "-"
		} else {
			sep = f.Separator
		}
	}
	return applyCase(base+sep+quote, f)
}

func applyCase(s string, f *venueconf.SymbolFormat) string {
	if f == nil {
		return s
	}
	switch f.Case {
	case "upper":
		return strings.ToUpper(s)
	case "lower":
		return strings.ToLower(s)
	default:
		return s
	}
}

// symbolFormatFor 按模板的市场类型键查符号规则
func symbolFormatFor(venue *venueconf.Venue, tmpl *venueconf.Template) *venueconf.SymbolFormat {
	if venue == nil || venue.SymbolContext == nil || tmpl == nil {
		return nil
	}
	return venue.SymbolContext[tmpl.MarketIDFormat]
}
