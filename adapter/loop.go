package adapter

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ZenHive/ccxt-client-sub002/accountrouter"
	"github.com/ZenHive/ccxt-client-sub002/kitutils"
	"github.com/ZenHive/ccxt-client-sub002/preauth"
	"github.com/ZenHive/ccxt-client-sub002/subscription"
	"github.com/ZenHive/ccxt-client-sub002/websocket"
	"github.com/ZenHive/ccxt-client-sub002/websocket/gorilla"
)

// 外部命令
type cmdSubscribe struct {
	req   *subscription.Request
	reply chan error
}

type cmdUnsubscribe struct {
	req   *subscription.Request
	reply chan error
}

type cmdAuthenticate struct {
	reply chan error
}

type cmdMarkAuthenticated struct {
	reply chan error
}

type cmdState struct {
	reply chan stateSnapshot
}

type cmdStop struct{}

// 内部事件
type evtConnectResult struct {
	token  string
	ws     websocket.Websocket
	preTok *preauth.Token
	err    error
}

type evtConnectTimeout struct {
	token string
}

// 帧和掉线事件带上产生它们的 socket,
// 旧 socket 的残留事件在处理时按来源丢弃, 与连接令牌的陈旧结果丢弃同理
type evtFrame struct {
	ws   websocket.Websocket
	data []byte
}

type evtDown struct {
	ws  websocket.Websocket
	err error
}

type evtReconnectTimer struct{}

type evtAuthExpired struct {
	gen int64
}

type evtReauthTimer struct {
	gen int64
}

type evtRestoreSubs struct{}

type evtReauthenticate struct{}

// run 循环协程, 邮箱串行处理, 退出即连接终止
func (a *Adapter) run() {
	a.dispatchConnect()
	for {
		select {
		case <-a.done:
			return
		case msg := <-a.mailbox:
			a.handle(msg)
		}
	}
}

func (a *Adapter) handle(msg any) {
	switch m := msg.(type) {
	case *cmdSubscribe:
		m.reply <- a.onSubscribe(m.req)
	case *cmdUnsubscribe:
		m.reply <- a.onUnsubscribe(m.req)
	case *cmdAuthenticate:
		if a.authState == AuthAuthenticated {
			// 幂等成功
			m.reply <- nil
			return
		}
		m.reply <- a.doAuthenticate()
	case *cmdMarkAuthenticated:
		ttl := time.Duration(0)
		if a.venue.Authenticate != nil && a.venue.Authenticate.TTLSeconds > 0 {
			ttl = time.Duration(a.venue.Authenticate.TTLSeconds) * time.Second
		}
		a.setAuthenticated(ttl)
		m.reply <- nil
	case *cmdState:
		m.reply <- stateSnapshot{conn: a.connState(), auth: a.authState}
	case *cmdStop:
		a.terminate(nil)
	case *evtConnectResult:
		a.onConnectResult(m)
	case *evtConnectTimeout:
		// 连接尝试没了下文, 从 connecting 退化回 disconnected
		if m.token != a.connectToken {
			return
		}
		a.connectToken = ""
		a.opts.logger.Warnf("adapter %s: connect attempt timed out", a.venue.Name)
		a.scheduleReconnect()
	case *evtFrame:
		// 旧 socket 的残留帧, 比如重建连接前在途的鉴权回执
		if m.ws != a.ws {
			return
		}
		a.handleFrame(m.data)
	case *evtDown:
		a.onDown(m)
	case *evtReconnectTimer:
		// 期间已经连上或正在连, 定时器作废
		if a.ws != nil || a.connectToken != "" {
			return
		}
		a.dispatchConnect()
	case *evtAuthExpired:
		// 代不匹配说明定时器已被新的鉴权成功取代, 点火也无害
		if m.gen != a.authGen {
			return
		}
		a.opts.logger.Infof("adapter %s: auth token expired", a.venue.Name)
		a.authState = AuthExpired
		a.authGen++
		a.scheduleReauth()
	case *evtReauthTimer:
		a.onReauthTimer(m)
	case *evtRestoreSubs:
		a.restoreSubscriptions()
	case *evtReauthenticate:
		if err := a.doAuthenticate(); err != nil {
			a.opts.logger.Errorf("adapter %s: re-authenticate failed: %v", a.venue.Name, err)
			a.scheduleReauth()
		}
	}
}

func (a *Adapter) connState() ConnState {
	// 状态由 (socket, 在途令牌) 推导, 两者互斥
	switch {
	case a.ws != nil:
		return StateConnected
	case a.connectToken != "":
		return StateConnecting
	default:
		return StateDisconnected
	}
}

// dispatchConnect 发起一次异步连接尝试
// 连接和换token都在工作协程做, 控制路径保持响应
func (a *Adapter) dispatchConnect() {
	if a.opts.limiter != nil && !a.opts.limiter.WsAllow() {
		a.opts.logger.Warnf("adapter %s: ws connect rate limited", a.venue.Name)
		a.scheduleReconnect()
		return
	}

	token := uuid.New().String()
	a.connectToken = token
	go a.connectWorker(token)

	timeout := a.opts.connectTimeout
	time.AfterFunc(timeout, func() {
		a.postSelf(&evtConnectTimeout{token: token})
	})
}

func (a *Adapter) connectWorker(token string) {
	endpoint := a.url
	var preTok *preauth.Token

	if a.venue.PreAuth != nil && a.opts.preauthSource != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.opts.connectTimeout)
		tok, err := a.opts.preauthSource.Fetch(ctx, a.venue, a.opts.creds)
		cancel()
		if err != nil {
			a.postSelf(&evtConnectResult{token: token, err: err})
			return
		}
		preTok = tok
		endpoint = preauth.ConnectURL(a.url, tok)
	}

	ws := a.newWebsocket()
	err := ws.Connect(&websocket.Request{
		ID:       a.id,
		Endpoint: endpoint,
		MessageHandler: func(message []byte) {
			a.postSelf(&evtFrame{ws: ws, data: message})
		},
		DownHandler: func(id string, err error) {
			a.postSelf(&evtDown{ws: ws, err: err})
		},
	})
	if err != nil {
		a.postSelf(&evtConnectResult{token: token, err: err})
		return
	}
	a.postSelf(&evtConnectResult{token: token, ws: ws, preTok: preTok})
}

func (a *Adapter) newWebsocket() websocket.Websocket {
	if a.opts.wsFactory != nil {
		return a.opts.wsFactory(a.opts.wsConfig)
	}
	return gorilla.NewWebsocket(gorilla.NewConn(), a.opts.wsConfig)
}

func (a *Adapter) onConnectResult(m *evtConnectResult) {
	if m.token != a.connectToken {
		// 迟到或重复的陈旧结果, 丢弃; 迟到的成功连接要关掉
		if m.ws != nil {
			go m.ws.Disconnect()
		}
		return
	}
	a.connectToken = ""

	if m.err != nil {
		a.opts.logger.Errorf("adapter %s: connect failed: %v", a.venue.Name, m.err)
		a.scheduleReconnect()
		return
	}

	a.ws = m.ws
	a.reconnectAttempts = 0
	a.opts.logger.Infof("adapter %s: connected", a.venue.Name)

	if m.preTok != nil {
		// listen-key 已经在URL里, 无需独立鉴权步骤
		a.setAuthenticated(m.preTok.TTL)
	} else if a.wasAuthenticated {
		// 断线前是鉴权态, 重连后自动补鉴权
		a.postSelf(&evtReauthenticate{})
	}

	if len(a.subs) > 0 {
		// 恢复订阅走后续消息, 不在连接回调里内联做
		a.postSelf(&evtRestoreSubs{})
	}
}

func (a *Adapter) onDown(m *evtDown) {
	if a.ws == nil || m.ws != a.ws {
		// 已经主动换掉的 socket 临死前还能报一次掉线, 不能误伤新连接
		return
	}
	a.opts.logger.Warnf("adapter %s: connection down: %v", a.venue.Name, m.err)
	a.ws = nil
	// 鉴权态清掉, wasAuthenticated 留着驱动重连后的补鉴权
	a.authState = AuthUnauthenticated
	a.authGen++
	a.scheduleReconnect()
}

func (a *Adapter) scheduleReconnect() {
	a.reconnectAttempts++
	if a.reconnectAttempts > a.opts.maxReconnectAttempts {
		a.terminate(ErrMaxReconnectReached)
		return
	}
	delay := a.backoff(a.reconnectAttempts)
	a.opts.logger.Infof("adapter %s: reconnect %d/%d in %s",
		a.venue.Name, a.reconnectAttempts, a.opts.maxReconnectAttempts, delay)
	time.AfterFunc(delay, func() {
		a.postSelf(&evtReconnectTimer{})
	})
}

func (a *Adapter) scheduleReauth() {
	a.authAttempts++
	if a.authAttempts > a.opts.maxAuthAttempts {
		a.terminate(ErrMaxAuthReached)
		return
	}
	delay := a.backoff(a.authAttempts)
	gen := a.authGen
	time.AfterFunc(delay, func() {
		a.postSelf(&evtReauthTimer{gen: gen})
	})
}

func (a *Adapter) onReauthTimer(m *evtReauthTimer) {
	if m.gen != a.authGen {
		return
	}
	if a.ws == nil {
		// 已经断线, 补鉴权归重连路径管
		return
	}
	if a.venue.PreAuth != nil {
		// listen-key 场馆换token只能重建连接
		a.dropConnection()
		return
	}
	if err := a.doAuthenticate(); err != nil {
		a.opts.logger.Errorf("adapter %s: re-auth failed: %v", a.venue.Name, err)
		a.scheduleReauth()
	}
}

// dropConnection 主动重建连接(token 到期), 不走退避
func (a *Adapter) dropConnection() {
	if a.ws == nil {
		return
	}
	ws := a.ws
	a.ws = nil
	go ws.Disconnect()
	a.authState = AuthUnauthenticated
	a.authGen++
	a.dispatchConnect()
}

// setAuthenticated 鉴权成功: 重置重试计数, 换代取消旧过期定时器,
// 有TTL时在其三分之二处安排过期, 给重新鉴权留余量
func (a *Adapter) setAuthenticated(ttl time.Duration) {
	a.authState = AuthAuthenticated
	a.wasAuthenticated = true
	a.authAttempts = 0
	a.authGen++
	if ttl > 0 {
		gen := a.authGen
		time.AfterFunc(ttl*2/3, func() {
			a.postSelf(&evtAuthExpired{gen: gen})
		})
	}
}

func (a *Adapter) doAuthenticate() error {
	if a.authState == AuthAuthenticated {
		return nil
	}
	if a.ws == nil {
		return ErrStopped
	}
	cfg := a.venue.Authenticate
	if cfg == nil {
		return ErrNoAuthConfig
	}

	a.authState = AuthAuthenticating

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	sign := kitutils.HmacSHA256Base64(a.opts.creds.SecretKey, cfg.Payload+ts)

	op := cfg.Op
	if op == "" {
		op = "login"
	}
	msg := map[string]any{
		"op": op,
		"args": []any{map[string]any{
			"apiKey":    a.opts.creds.APIKey,
			"timestamp": ts,
			"sign":      sign,
		}},
	}
	return a.send(msg)
}

func (a *Adapter) onSubscribe(req *subscription.Request) error {
	sub, err := a.buildSubscription(req)
	if err != nil {
		return err
	}
	a.subs = append(a.subs, sub)
	if a.ws == nil {
		// 还没连上, 连接建立后随恢复流程发出
		return nil
	}
	return a.sendSubscribe(sub.Message, sub.AuthRequired)
}

func (a *Adapter) onUnsubscribe(req *subscription.Request) error {
	for i, sub := range a.subs {
		if sub.Family != req.Family {
			continue
		}
		if len(req.Symbols) > 0 && !sameSymbols(sub.Symbols, req.Symbols) {
			continue
		}
		if req.Symbol != "" && !sameSymbols(sub.Symbols, []string{req.Symbol}) {
			continue
		}
		a.subs = append(a.subs[:i], a.subs[i+1:]...)
		if a.ws == nil {
			return nil
		}
		return a.sendSubscribe(subscription.UnsubscribeMessage(a.venue, sub), sub.AuthRequired)
	}
	return nil
}

func sameSymbols(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// buildSubscription 构造订阅, 私有家族在配了URL规则的场馆上
// 用账户类型路由出来的主题替换模板频道
func (a *Adapter) buildSubscription(req *subscription.Request) (*subscription.Subscription, error) {
	sub, err := subscription.Build(a.venue, req)
	if err != nil {
		return nil, err
	}

	if sub.AuthRequired && len(a.venue.AccountTypeRules) > 0 {
		famTopics, ok := a.venue.PrivateTopics[string(req.Family)]
		if ok {
			topics, err := accountrouter.ResolveTopic(a.url, a.venue.AccountTypeRules, famTopics)
			if err != nil {
				return nil, err
			}
			parts := make([]subscription.Part, 0, len(topics))
			for _, t := range topics {
				parts = append(parts, subscription.Part{Channel: t, Base: t})
			}
			sub.Channels = topics
			sub.Parts = parts
			sub.Message = subscription.BuildMessage(a.venue.SubscriptionPattern, subscription.OpSubscribe, parts)
		}
	}
	return sub, nil
}

// restoreSubscriptions 重连后把去重频道集合成一条订阅报文发一次
func (a *Adapter) restoreSubscriptions() {
	if a.ws == nil || len(a.subs) == 0 {
		return
	}
	msg := subscription.CombinedMessage(a.venue, a.subs)
	if msg == nil {
		return
	}
	authRequired := false
	for _, sub := range a.subs {
		if sub.AuthRequired {
			authRequired = true
			break
		}
	}
	if err := a.sendSubscribe(msg, authRequired); err != nil {
		a.opts.logger.Errorf("adapter %s: restore subscriptions failed: %v", a.venue.Name, err)
	}
}

// sendSubscribe 内嵌鉴权场馆在报文出门前补上鉴权参数
// 这一步必须发生在报文触达传输层之前
func (a *Adapter) sendSubscribe(msg any, authRequired bool) error {
	if authRequired && a.venue.InlineAuth != nil {
		msg = a.enrichInline(msg)
	}
	return a.send(msg)
}

func (a *Adapter) enrichInline(msg any) any {
	m, ok := msg.(map[string]any)
	if !ok {
		return msg
	}
	ia := a.venue.InlineAuth

	keyField := ia.KeyField
	if keyField == "" {
		keyField = "apiKey"
	}
	signField := ia.SignField
	if signField == "" {
		signField = "sign"
	}
	tsField := ia.TimestampField
	if tsField == "" {
		tsField = "timestamp"
	}

	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	m[keyField] = a.opts.creds.APIKey
	m[tsField] = ts
	m[signField] = kitutils.HmacSHA256Base64(a.opts.creds.SecretKey, ia.Payload+ts)
	return m
}

// backoff 指数退避, 封顶
func (a *Adapter) backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := a.opts.backoffBase << uint(attempt-1)
	if d <= 0 || d > a.opts.backoffCap {
		return a.opts.backoffCap
	}
	return d
}

// terminate 连接终止, 显式可观察: 原因存入 fatal, done 关闭
func (a *Adapter) terminate(err error) {
	select {
	case <-a.done:
		return
	default:
	}
	a.fatal = err
	if a.ws != nil {
		ws := a.ws
		a.ws = nil
		go ws.Disconnect()
	}
	a.connectToken = ""
	a.authGen++
	if err != nil {
		a.opts.logger.Errorf("adapter %s: terminated: %v", a.venue.Name, err)
	}
	close(a.done)
}

func (a *Adapter) postSelf(msg any) {
	select {
	case a.mailbox <- msg:
	case <-a.done:
	}
}
