// Package router 按场馆封皮描述对原始帧分类:
// 路由到家族、系统帧、或未知帧
package router

import (
	"strings"

	"github.com/ZenHive/ccxt-client-sub002/market"
	"github.com/ZenHive/ccxt-client-sub002/venueconf"
)

// Kind 分类结果
type Kind string

const (
	// KindRouted 命中家族, Payload 可交给归一化
	KindRouted Kind = "routed"
	// KindSystem 心跳/回执类帧, 吞掉不投递
	KindSystem Kind = "system"
	// KindUnknown 无法归类, 原样投递
	KindUnknown Kind = "unknown"
)

// Result 分类结果
// Route 是纯函数: 相同输入永远得到相同分类, 与连接状态无关
type Result struct {
	Kind    Kind
	Family  market.Family
	Payload any
	Frame   map[string]any
}

// Route 对一帧分类
func Route(frame map[string]any, env *venueconf.Envelope, routing *venueconf.Routing) Result {
	if env == nil {
		return classifyBare(frame)
	}

	disc, ok := Lookup(frame, env.DiscriminatorField).(string)
	if !ok || disc == "" {
		// 判别值解析不出来, 再看是不是请求回执
		return classifyBare(frame)
	}

	payload := Lookup(frame, env.DataField)
	if payload == nil {
		payload = frame
	}
	if env.UnwrapList {
		if list, ok := payload.([]any); ok && len(list) == 1 {
			payload = list[0]
		}
	}

	if routing == nil {
		return Result{Kind: KindUnknown, Frame: frame}
	}

	for _, entry := range routing.Entries {
		if !matches(routing.Mode, routing.Separator, disc, entry.Channel) {
			continue
		}
		if entry.System {
			return Result{Kind: KindSystem, Frame: frame}
		}
		return Result{
			Kind:    KindRouted,
			Family:  market.Family(entry.Family),
			Payload: payload,
			Frame:   frame,
		}
	}

	return Result{Kind: KindUnknown, Frame: frame}
}

// classifyBare 无封皮或判别值为空的帧: id/result 成对出现认定为请求回执
func classifyBare(frame map[string]any) Result {
	_, hasID := frame["id"]
	_, hasResult := frame["result"]
	if hasID && hasResult {
		return Result{Kind: KindSystem, Frame: frame}
	}
	return Result{Kind: KindUnknown, Frame: frame}
}

// matches 四种匹配方式, 场馆配置选其一
func matches(mode, separator, disc, channel string) bool {
	switch mode {
	case "prefix":
		return strings.HasPrefix(disc, channel)
	case "contains":
		return strings.Contains(disc, channel)
	case "split_any":
		sep := separator
		if sep == "" {
			sep = "."
		}
		for _, token := range strings.Split(disc, sep) {
			if token == channel {
				return true
			}
		}
		return false
	default:
		return disc == channel
	}
}

// Lookup 点路径取值, "." 或空路径表示整帧
func Lookup(frame map[string]any, path string) any {
	if path == "" || path == "." {
		return frame
	}
	var current any = frame
	for _, seg := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[seg]
		if !ok {
			return nil
		}
	}
	return current
}
