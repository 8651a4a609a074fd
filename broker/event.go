package broker

import (
	"context"

	"github.com/ZenHive/ccxt-client-sub002/market"
)

const (
	// MarketDataTopicPrefix 行情事件主题前缀, 后接家族名
	MarketDataTopicPrefix string = "MARKET."
)

// MarketEvent 对外扇出的归一化行情事件
type MarketEvent struct {
	Venue     string        `json:"venue"`
	Family    market.Family `json:"family"`
	Timestamp int64         `json:"timestamp"`
	// Value 归一化结果: *market.Record, []*market.Record 或 []*market.Bar
	Value any `json:"value"`
}

// Topic 事件的目标主题
func (e *MarketEvent) Topic() string {
	return MarketDataTopicPrefix + string(e.Family)
}

// Publisher 行情事件发布端
type Publisher interface {
	Publish(ctx context.Context, evt *MarketEvent) error
	Close() error
}
