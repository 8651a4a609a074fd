// Package adapter 实现单条连接的状态机:
// 独占一个socket, 负责连接/退避重连/鉴权生命周期/断线后恢复订阅,
// 并把每一帧送过 路由->归一化->契约校验 流水线后交给调用方
//
// 一条连接一个协程, 全部状态归循环协程私有, 外部调用经邮箱串行化,
// 连接之间没有任何共享可变状态
package adapter

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/ZenHive/ccxt-client-sub002/fieldmap"
	"github.com/ZenHive/ccxt-client-sub002/market"
	"github.com/ZenHive/ccxt-client-sub002/subscription"
	"github.com/ZenHive/ccxt-client-sub002/venueconf"
	"github.com/ZenHive/ccxt-client-sub002/websocket"
)

var (
	// ErrUnknownURLPath 场馆配置里没有这个 url path
	ErrUnknownURLPath = errors.New("adapter: unknown url path")
	// ErrAlreadyStarted Start 只能调一次
	ErrAlreadyStarted = errors.New("adapter: already started")
	// ErrNotStarted 还没 Start 就发起调用
	ErrNotStarted = errors.New("adapter: not started")
	// ErrStopped 连接已终止
	ErrStopped = errors.New("adapter: stopped")
	// ErrMaxReconnectReached 重连次数耗尽, 连接致命终止
	ErrMaxReconnectReached = errors.New("adapter: max reconnect attempts reached")
	// ErrMaxAuthReached 重新鉴权次数耗尽, 连接致命终止
	ErrMaxAuthReached = errors.New("adapter: max auth attempts reached")
	// ErrNoAuthConfig 场馆没有配独立鉴权报文
	ErrNoAuthConfig = errors.New("adapter: venue has no authenticate config")
)

// ConnState 连接状态, 由 (socket, 在途连接令牌) 推导
type ConnState string

const (
	StateDisconnected ConnState = "disconnected"
	StateConnecting   ConnState = "connecting"
	StateConnected    ConnState = "connected"
)

// AuthState 鉴权子状态, 独立于连接状态跟踪, 断线时重置
type AuthState string

const (
	AuthUnauthenticated AuthState = "unauthenticated"
	AuthAuthenticating  AuthState = "authenticating"
	AuthAuthenticated   AuthState = "authenticated"
	AuthExpired         AuthState = "expired"
)

// Event 投递给调用方的一条数据
type Event struct {
	Venue string
	// Family 命中的家族, 原始投递时为空
	Family market.Family
	// Value 归一化结果, 或关闭归一化/归一化失败时的原始载荷
	Value any
	// IsRaw 原始投递(无封皮配置或未知帧)
	IsRaw bool
}

// Handler 数据回调, 在连接自己的协程里按帧序调用
type Handler func(evt *Event)

// New 创建一条连接的 Adapter, 创建即编译好全部字段映射指令
func New(venue *venueconf.Venue, opts ...Option) *Adapter {
	o := &options{
		logger:               log.NewHelper(log.DefaultLogger),
		normalize:            true,
		validate:             false,
		maxReconnectAttempts: 5,
		maxAuthAttempts:      3,
		backoffBase:          500 * time.Millisecond,
		backoffCap:           30 * time.Second,
		connectTimeout:       15 * time.Second,
		mailboxSize:          1024,
	}
	for _, opt := range opts {
		opt(o)
	}

	instrs := make(map[market.Family][]fieldmap.Instruction)
	for _, f := range market.Families() {
		// 解析方法与家族同名, nil 表示走结构默认
		instrs[f] = fieldmap.Compile(venue, string(f))
	}

	return &Adapter{
		id:      uuid.New().String(),
		venue:   venue,
		opts:    o,
		instrs:  instrs,
		mailbox: make(chan any, o.mailboxSize),
		done:    make(chan struct{}),
	}
}

// Adapter 一条连接的状态机
type Adapter struct {
	id      string
	venue   *venueconf.Venue
	opts    *options
	handler Handler
	url     string

	mailbox chan any
	done    chan struct{}
	fatal   error

	// 以下状态只归循环协程
	ws                websocket.Websocket // 非空即已连接
	connectToken      string              // 非空即连接中, 与 ws 互斥
	reconnectAttempts int
	authState         AuthState
	wasAuthenticated  bool // 断线后仍然保留, 驱动重连后的自动再鉴权
	authAttempts      int
	authGen           int64 // 鉴权过期定时器的代
	subs []*subscription.Subscription

	started atomic.Bool

	instrs map[market.Family][]fieldmap.Instruction
}

// Start 启动连接: 解析URL, 起循环协程, 发起首次连接
func (a *Adapter) Start(handler Handler, urlPath string) error {
	url, ok := a.venue.URLs[urlPath]
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrUnknownURLPath, a.venue.Name, urlPath)
	}
	if a.started.Swap(true) {
		return ErrAlreadyStarted
	}
	a.handler = handler
	a.url = url
	a.authState = AuthUnauthenticated
	go a.run()
	return nil
}

// Subscribe 订阅; 未连接时也接受, 连接建立后随恢复流程发出
func (a *Adapter) Subscribe(req *subscription.Request) error {
	reply := make(chan error, 1)
	if err := a.post(&cmdSubscribe{req: req, reply: reply}); err != nil {
		return err
	}
	return a.wait(reply)
}

// Unsubscribe 退订某家族(可选限定符号)
func (a *Adapter) Unsubscribe(req *subscription.Request) error {
	reply := make(chan error, 1)
	if err := a.post(&cmdUnsubscribe{req: req, reply: reply}); err != nil {
		return err
	}
	return a.wait(reply)
}

// Authenticate 发起独立鉴权; 已鉴权时是幂等成功
func (a *Adapter) Authenticate() error {
	reply := make(chan error, 1)
	if err := a.post(&cmdAuthenticate{reply: reply}); err != nil {
		return err
	}
	return a.wait(reply)
}

// MarkAuthenticated 调用方走了带外鉴权流程后手动标记
func (a *Adapter) MarkAuthenticated() error {
	reply := make(chan error, 1)
	if err := a.post(&cmdMarkAuthenticated{reply: reply}); err != nil {
		return err
	}
	return a.wait(reply)
}

// stateSnapshot 状态快照
type stateSnapshot struct {
	conn ConnState
	auth AuthState
}

// State 当前连接状态与鉴权状态的一致快照
func (a *Adapter) State() (ConnState, AuthState) {
	s := a.snapshot()
	return s.conn, s.auth
}

// ConnectionState 当前连接状态
func (a *Adapter) ConnectionState() ConnState {
	return a.snapshot().conn
}

// AuthState 当前鉴权状态
func (a *Adapter) AuthState() AuthState {
	return a.snapshot().auth
}

// IsConnected 是否已连接
func (a *Adapter) IsConnected() bool {
	return a.snapshot().conn == StateConnected
}

func (a *Adapter) snapshot() stateSnapshot {
	reply := make(chan stateSnapshot, 1)
	if err := a.post(&cmdState{reply: reply}); err != nil {
		return stateSnapshot{conn: StateDisconnected, auth: AuthUnauthenticated}
	}
	select {
	case s := <-reply:
		return s
	case <-a.done:
		return stateSnapshot{conn: StateDisconnected, auth: AuthUnauthenticated}
	}
}

// Stop 主动终止连接
func (a *Adapter) Stop() error {
	if err := a.post(&cmdStop{}); err != nil {
		return nil // 已经停了
	}
	<-a.done
	return nil
}

// Done 连接终止信号
func (a *Adapter) Done() <-chan struct{} {
	return a.done
}

// Err 终止原因, 主动 Stop 为 nil; 资源耗尽类致命错误在这里露出
func (a *Adapter) Err() error {
	select {
	case <-a.done:
		return a.fatal
	default:
		return nil
	}
}

func (a *Adapter) post(msg any) error {
	// Start 之前邮箱没人消费, 投进去只会永远挂起
	if !a.started.Load() {
		return ErrNotStarted
	}
	select {
	case a.mailbox <- msg:
		return nil
	case <-a.done:
		return ErrStopped
	}
}

func (a *Adapter) wait(reply chan error) error {
	select {
	case err := <-reply:
		return err
	case <-a.done:
		return ErrStopped
	}
}
