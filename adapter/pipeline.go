package adapter

import (
	"context"
	"time"

	simplejson "github.com/bitly/go-simplejson"
	gwebsocket "github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/ZenHive/ccxt-client-sub002/broker"
	"github.com/ZenHive/ccxt-client-sub002/contract"
	"github.com/ZenHive/ccxt-client-sub002/normalizer"
	"github.com/ZenHive/ccxt-client-sub002/router"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// handleFrame 一帧的完整流水线: 解码 -> 路由 -> 归一化 -> 契约校验 -> 投递
// 任何一步失败都不会让连接掉线, 最坏情况是降级成原始投递或丢帧
func (a *Adapter) handleFrame(data []byte) {
	var frame any
	if err := json.Unmarshal(data, &frame); err != nil {
		// 解码失败是传输层故障, 记日志丢帧
		a.opts.logger.Errorf("adapter %s: drop undecodable frame: %v", a.venue.Name, err)
		return
	}

	obj, ok := frame.(map[string]any)
	if a.venue.Envelope == nil || !ok {
		a.deliver(&Event{Venue: a.venue.Name, Value: frame, IsRaw: true})
		return
	}

	res := router.Route(obj, a.venue.Envelope, a.venue.Routing)
	switch res.Kind {
	case router.KindSystem:
		a.handleSystemFrame(data)
	case router.KindRouted:
		a.deliverRouted(res)
	default:
		a.deliver(&Event{Venue: a.venue.Name, Value: frame, IsRaw: true})
	}
}

func (a *Adapter) deliverRouted(res router.Result) {
	if !a.opts.normalize {
		a.deliver(&Event{Venue: a.venue.Name, Family: res.Family, Value: res.Payload})
		return
	}

	value, err := normalizer.Normalize(res.Family, res.Payload, a.instrs[res.Family])
	if err != nil {
		// 归一化失败降级: 家族照给, 载荷给原始的
		a.opts.logger.Warnf("adapter %s: normalize %s failed: %v", a.venue.Name, res.Family, err)
		a.deliver(&Event{Venue: a.venue.Name, Family: res.Family, Value: res.Payload})
		return
	}

	if a.opts.validate {
		for _, v := range contract.Validate(res.Family, value) {
			// 违规只告警, 不拦投递
			a.opts.logger.Warnf("adapter %s: contract violation on %s: %s field=%s index=%d",
				a.venue.Name, res.Family, v.Kind, v.Field, v.Index)
		}
	}

	a.deliver(&Event{Venue: a.venue.Name, Family: res.Family, Value: value})

	if a.opts.sink != nil {
		evt := &broker.MarketEvent{
			Venue:     a.venue.Name,
			Family:    res.Family,
			Timestamp: time.Now().UnixMilli(),
			Value:     value,
		}
		if err := a.opts.sink.Publish(context.Background(), evt); err != nil {
			a.opts.logger.Errorf("adapter %s: publish %s failed: %v", a.venue.Name, res.Family, err)
		}
	}
}

// handleSystemFrame 系统帧默认吞掉; 鉴权进行中时探测是不是鉴权回执
func (a *Adapter) handleSystemFrame(data []byte) {
	if a.authState != AuthAuthenticating {
		return
	}

	j, err := simplejson.NewJson(data)
	if err != nil {
		return
	}

	event, _ := j.Get("event").String()
	op, _ := j.Get("op").String()
	code, _ := j.Get("code").String()
	success, _ := j.Get("success").Bool()

	switch {
	case event == "error" || (code != "" && code != "0"):
		msg, _ := j.Get("msg").String()
		a.opts.logger.Errorf("adapter %s: auth rejected: code=%s msg=%s", a.venue.Name, code, msg)
		a.authState = AuthExpired
		a.scheduleReauth()
	case event == "login" || op == "login" || op == "auth" || success:
		ttl := time.Duration(0)
		if a.venue.Authenticate != nil && a.venue.Authenticate.TTLSeconds > 0 {
			ttl = time.Duration(a.venue.Authenticate.TTLSeconds) * time.Second
		}
		a.opts.logger.Infof("adapter %s: authenticated", a.venue.Name)
		a.setAuthenticated(ttl)
	}
}

func (a *Adapter) deliver(evt *Event) {
	if a.handler == nil {
		return
	}
	a.handler(evt)
}

// send 出站报文统一走这里
func (a *Adapter) send(msg any) error {
	if a.ws == nil {
		return ErrStopped
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return a.ws.WriteMessage(gwebsocket.TextMessage, data)
}
