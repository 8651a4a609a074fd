package subscription

import (
	"github.com/ZenHive/ccxt-client-sub002/market"
)

// Part 一个频道的组成部分, arg_objects 这类按对象订阅的形状需要拆开用
type Part struct {
	// Channel 完整频道名
	Channel string
	// Base 模板基础名
	Base string
	// Symbol 场馆格式的符号, 无符号订阅为空
	Symbol string
}

// Subscription 一次订阅, 由连接持有以便断线后重放
type Subscription struct {
	// Channels 规范频道名, 多符号订阅会有多条
	Channels []string
	// Parts 与 Channels 一一对应
	Parts []Part
	// Message 订阅的完整线缆报文
	Message any
	// Family 目标家族
	Family market.Family
	// AuthRequired 该订阅是否要求鉴权
	AuthRequired bool
	// Symbols 统一符号
	Symbols []string
}

// Request 调用方的订阅请求
type Request struct {
	Family market.Family
	// Symbol 单符号, 与 Symbols 二选一
	Symbol string
	// Symbols 多符号
	Symbols []string
	// Params 模板参数覆盖, 以键存在与否判断, "0"/false 也是有效覆盖
	Params map[string]any
}

func (r *Request) symbols() []string {
	if len(r.Symbols) > 0 {
		return r.Symbols
	}
	if r.Symbol != "" {
		return []string{r.Symbol}
	}
	return nil
}
