package preauth

import (
	"net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

type Option func(o *options)

type options struct {
	httpClient *http.Client
	logger     *log.Helper
	defaultTTL time.Duration
}

func HttpClient(h *http.Client) Option {
	return func(o *options) { o.httpClient = h }
}

func WithLogger(logger *log.Helper) Option {
	return func(o *options) { o.logger = logger }
}

// WithDefaultTTL 场馆不披露 token 有效期时的兜底值
func WithDefaultTTL(ttl time.Duration) Option {
	return func(o *options) { o.defaultTTL = ttl }
}
