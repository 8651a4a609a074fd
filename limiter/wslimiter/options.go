package wslimiter

import "time"

type Option func(*options)

type options struct {
	period time.Duration
	times  int
}

// WithPeriod 限流窗口
func WithPeriod(period time.Duration) Option {
	return func(o *options) { o.period = period }
}

// WithTimes 窗口内允许的建连次数
func WithTimes(times int) Option {
	return func(o *options) { o.times = times }
}
