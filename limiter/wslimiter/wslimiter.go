package wslimiter

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/ZenHive/ccxt-client-sub002/limiter"
)

var _ limiter.Limiter = (*WsLimiter)(nil)

// NewWsLimiter 创建连接限流器
// 默认 5 分钟 300 次, binance 的建连上限
func NewWsLimiter(opts ...Option) *WsLimiter {
	o := &options{
		period: 5 * time.Minute,
		times:  300,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &WsLimiter{
		limiter: rate.NewLimiter(rate.Every(o.period/time.Duration(o.times)), o.times),
	}
}

type WsLimiter struct {
	limiter *rate.Limiter
}

func (w *WsLimiter) WsAllow() bool {
	return w.limiter.Allow()
}
