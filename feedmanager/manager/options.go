package manager

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/ZenHive/ccxt-client-sub002/adapter"
	"github.com/ZenHive/ccxt-client-sub002/limiter"
)

type Option func(*options)

type options struct {
	logger      *log.Helper
	maxConn     int
	connLimiter limiter.Limiter
	// adapterOpts 传给每条新连接的公共选项
	adapterOpts []adapter.Option
}

func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = log.NewHelper(logger)
	}
}

// WithMaxConn 最大连接数
func WithMaxConn(maxConn int) Option {
	return func(o *options) {
		o.maxConn = maxConn
	}
}

// WithConnLimiter 连接频率限流器, 同时透传给每条连接
func WithConnLimiter(connLimiter limiter.Limiter) Option {
	return func(o *options) {
		o.connLimiter = connLimiter
	}
}

// WithAdapterOptions 每条新连接都会带上的公共选项, 比如预鉴权来源和消息队列扇出
func WithAdapterOptions(opts ...adapter.Option) Option {
	return func(o *options) {
		o.adapterOpts = append(o.adapterOpts, opts...)
	}
}
