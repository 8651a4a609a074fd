package kafka

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

type Option func(*options)

type options struct {
	logger       *log.Helper
	batchTimeout time.Duration
}

func WithLogger(logger *log.Helper) Option {
	return func(o *options) { o.logger = logger }
}

// WithBatchTimeout 写端攒批的最长等待
func WithBatchTimeout(d time.Duration) Option {
	return func(o *options) { o.batchTimeout = d }
}
