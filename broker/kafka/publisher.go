package kafka

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	jsoniter "github.com/json-iterator/go"
	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/ZenHive/ccxt-client-sub002/broker"
)

var _ broker.Publisher = (*Publisher)(nil)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewPublisher 创建 kafka 行情发布端
func NewPublisher(addrs []string, opts ...Option) *Publisher {
	o := &options{
		logger:       log.NewHelper(log.DefaultLogger),
		batchTimeout: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(o)
	}

	w := &kafkaGo.Writer{
		Addr:         kafkaGo.TCP(addrs...),
		Balancer:     &kafkaGo.Hash{},
		BatchTimeout: o.batchTimeout,
		Logger:       &Logger{logger: o.logger},
		ErrorLogger:  &ErrorLogger{logger: o.logger},
		// 异步写, 发布端不阻塞行情路径, 写失败走 ErrorLogger
		Async: true,
		// 主题按事件逐条指定
		AllowAutoTopicCreation: true,
	}

	return &Publisher{writer: w, opts: o}
}

type Publisher struct {
	writer *kafkaGo.Writer
	opts   *options
}

func (p *Publisher) Publish(ctx context.Context, evt *broker.MarketEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafkaGo.Message{
		Topic: evt.Topic(),
		Key:   []byte(evt.Venue),
		Value: value,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
