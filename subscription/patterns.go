package subscription

import (
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Op 订阅或退订
type Op string

const (
	OpSubscribe   Op = "subscribe"
	OpUnsubscribe Op = "unsubscribe"
)

// 订阅形状名, 场馆配置 subscription_pattern 的合法取值
const (
	PatternOpArgs        = "op_args"        // {op: subscribe, args: [...]}
	PatternMethodParams  = "method_params"  // {method: SUBSCRIBE, params: [...], id: n}
	PatternJSONRPC       = "jsonrpc"        // {jsonrpc: 2.0, method: public/subscribe, params: {channels: [...]}, id: n}
	PatternArgObjects    = "arg_objects"    // {op: subscribe, args: [{channel, instId}...]}
	PatternSubString     = "sub_string"     // {sub: "...", id: uuid}
	PatternTypeChannels  = "type_channels"  // {type: subscribe, channels: [...]}
	PatternEventChannel  = "event_channel"  // {event: subscribe, channel, symbol}
	PatternCommandArgs   = "command_args"   // {command: subscribe, args: [...]}
	PatternActionStreams = "action_streams" // {action: subscribe, streams: [...]}
	PatternTopicOp       = "topic_op"       // {op: subscribe, topic: "..."}
)

// requestID method_params/jsonrpc 形状的自增报文编号
var requestID int64

func nextRequestID() int64 {
	return atomic.AddInt64(&requestID, 1)
}

// BuildMessage 按形状名构造线缆报文
// 未知形状永不报错, 退化为通用形状
func BuildMessage(pattern string, op Op, parts []Part) any {
	channels := make([]string, 0, len(parts))
	for _, p := range parts {
		channels = append(channels, p.Channel)
	}

	switch pattern {
	case PatternOpArgs:
		return map[string]any{
			"op":   string(op),
			"args": channels,
		}
	case PatternMethodParams:
		return map[string]any{
			"method": strings.ToUpper(string(op)),
			"params": channels,
			"id":     nextRequestID(),
		}
	case PatternJSONRPC:
		return map[string]any{
			"jsonrpc": "2.0",
			"method":  "public/" + string(op),
			"params": map[string]any{
				"channels": channels,
			},
			"id": nextRequestID(),
		}
	case PatternArgObjects:
		args := make([]map[string]any, 0, len(parts))
		for _, p := range parts {
			arg := map[string]any{"channel": p.Base}
			if p.Symbol != "" {
				arg["instId"] = p.Symbol
			}
			args = append(args, arg)
		}
		return map[string]any{
			"op":   string(op),
			"args": args,
		}
	case PatternSubString:
		field := "sub"
		if op == OpUnsubscribe {
			field = "unsub"
		}
		return map[string]any{
			field: strings.Join(channels, ","),
			"id":  uuid.New().String(),
		}
	case PatternTypeChannels:
		return map[string]any{
			"type":     string(op),
			"channels": channels,
		}
	case PatternEventChannel:
		msg := map[string]any{"event": string(op)}
		if len(parts) == 0 {
			return msg
		}
		msg["channel"] = parts[0].Base
		if parts[0].Symbol != "" {
			msg["symbol"] = parts[0].Symbol
		}
		return msg
	case PatternCommandArgs:
		return map[string]any{
			"command": string(op),
			"args":    channels,
		}
	case PatternActionStreams:
		return map[string]any{
			"action":  string(op),
			"streams": channels,
		}
	case PatternTopicOp:
		return map[string]any{
			"op":    string(op),
			"topic": strings.Join(channels, ","),
		}
	default:
		// 兜底形状, 新场馆没录入形状时至少能发出可读报文
		return map[string]any{
			"subscribe": op == OpSubscribe,
			"channels":  channels,
		}
	}
}
