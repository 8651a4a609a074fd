package adapter

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/ZenHive/ccxt-client-sub002/broker"
	"github.com/ZenHive/ccxt-client-sub002/limiter"
	"github.com/ZenHive/ccxt-client-sub002/preauth"
	"github.com/ZenHive/ccxt-client-sub002/websocket"
)

type Option func(*options)

// WebsocketFactory 每次连接尝试创建一个全新的 websocket 实例
type WebsocketFactory func(conf *websocket.Config) websocket.Websocket

type options struct {
	logger *log.Helper

	// normalize 默认开, validate 默认关(只告警不拦截)
	normalize bool
	validate  bool

	maxReconnectAttempts int
	maxAuthAttempts      int
	backoffBase          time.Duration
	backoffCap           time.Duration
	connectTimeout       time.Duration
	mailboxSize          int

	wsFactory     WebsocketFactory
	wsConfig      *websocket.Config
	preauthSource preauth.Source
	limiter       limiter.Limiter
	sink          broker.Publisher
	creds         preauth.Credentials
}

func WithLogger(logger *log.Helper) Option {
	return func(o *options) { o.logger = logger }
}

// WithNormalize 是否归一化, 关掉后投递 (家族, 原始载荷)
func WithNormalize(normalize bool) Option {
	return func(o *options) { o.normalize = normalize }
}

// WithValidate 是否做契约校验, 违规只记日志不拦截投递
func WithValidate(validate bool) Option {
	return func(o *options) { o.validate = validate }
}

func WithMaxReconnectAttempts(n int) Option {
	return func(o *options) { o.maxReconnectAttempts = n }
}

func WithMaxAuthAttempts(n int) Option {
	return func(o *options) { o.maxAuthAttempts = n }
}

// WithBackoff 指数退避的起步和上限
func WithBackoff(base, cap time.Duration) Option {
	return func(o *options) {
		o.backoffBase = base
		o.backoffCap = cap
	}
}

func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) { o.connectTimeout = d }
}

// WithWebsocketFactory 替换底层 websocket 实现, 测试用
func WithWebsocketFactory(f WebsocketFactory) Option {
	return func(o *options) { o.wsFactory = f }
}

func WithWebsocketConfig(conf *websocket.Config) Option {
	return func(o *options) { o.wsConfig = conf }
}

// WithPreAuthSource listen-key 式场馆的 token 来源
func WithPreAuthSource(src preauth.Source) Option {
	return func(o *options) { o.preauthSource = src }
}

func WithLimiter(l limiter.Limiter) Option {
	return func(o *options) { o.limiter = l }
}

// WithSink 归一化事件同时扇出到消息队列
func WithSink(sink broker.Publisher) Option {
	return func(o *options) { o.sink = sink }
}

func WithCredentials(creds preauth.Credentials) Option {
	return func(o *options) { o.creds = creds }
}
