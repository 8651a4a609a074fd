// Package preauth 实现 listen-key 式预鉴权:
// 一次HTTP调用换取 token, token 拼进连接URL后直接获得私有权限,
// 不需要再发独立的 authenticate 报文
package preauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ZenHive/ccxt-client-sub002/venueconf"
)

var (
	// ErrNoPreAuth 场馆没有配置预鉴权
	ErrNoPreAuth = errors.New("preauth: venue has no pre_auth config")
)

// Credentials 场馆API凭据
type Credentials struct {
	AccountID string
	APIKey    string
	SecretKey string
}

// Token 换回来的 token 与有效期
type Token struct {
	Key string
	// TTL 为 0 表示场馆不披露有效期
	TTL time.Duration
}

// Source token 来源
type Source interface {
	// Fetch 为账户换取 token
	Fetch(ctx context.Context, venue *venueconf.Venue, creds Credentials) (*Token, error)
}

// NewHTTPSource 基于签名HTTP客户端的 token 来源
func NewHTTPSource(cli *Client, opts ...Option) *HTTPSource {
	o := &options{
		httpClient: http.DefaultClient,
		logger:     log.NewHelper(log.DefaultLogger),
		defaultTTL: 30 * time.Minute,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &HTTPSource{cli: cli, opts: o}
}

type HTTPSource struct {
	cli  *Client
	opts *options
}

func (s *HTTPSource) Fetch(ctx context.Context, venue *venueconf.Venue, creds Credentials) (*Token, error) {
	pa := venue.PreAuth
	if pa == nil {
		return nil, ErrNoPreAuth
	}

	r := &Request{
		APIKey:    creds.APIKey,
		SecretKey: creds.SecretKey,
		Method:    http.MethodPost,
		BaseURL:   pa.BaseURL,
		Endpoint:  pa.Endpoint,
		SecType:   SecTypeAPIKey,
	}

	data, err := s.cli.CallAPI(ctx, r)
	if err != nil {
		return nil, err
	}

	j, err := NewJSON(data)
	if err != nil {
		return nil, err
	}
	key := j.Get("listenKey").MustString()
	if key == "" {
		key = j.Get("token").MustString()
	}
	if key == "" {
		return nil, fmt.Errorf("preauth: %s returned no token", venue.Name)
	}

	ttl := s.opts.defaultTTL
	if pa.TTLSeconds > 0 {
		ttl = time.Duration(pa.TTLSeconds) * time.Second
	}
	return &Token{Key: key, TTL: ttl}, nil
}

// ConnectURL 把 token 拼到场馆声明的基地址后面
func ConnectURL(base string, t *Token) string {
	return fmt.Sprintf("%s/%s", base, t.Key)
}

const redisKeyPrefix = "preauth_token:"

// NewRedisCache 包一层 redis 缓存
// 同一账户的多条连接共享一个在世 token, 避免重复换取把旧 token 挤失效
func NewRedisCache(rdb *redis.Client, next Source, opts ...Option) *RedisCache {
	o := &options{
		logger: log.NewHelper(log.DefaultLogger),
	}
	for _, opt := range opts {
		opt(o)
	}
	return &RedisCache{rdb: rdb, next: next, opts: o}
}

type RedisCache struct {
	rdb  *redis.Client
	next Source
	opts *options
}

func (c *RedisCache) Fetch(ctx context.Context, venue *venueconf.Venue, creds Credentials) (*Token, error) {
	key := redisKeyPrefix + venue.Name + ":" + creds.AccountID

	cached, err := c.rdb.Get(ctx, key).Result()
	if err == nil && cached != "" {
		ttl, terr := c.rdb.TTL(ctx, key).Result()
		if terr != nil {
			ttl = 0
		}
		return &Token{Key: cached, TTL: ttl}, nil
	}
	if err != nil && err != redis.Nil {
		c.opts.logger.Error("preauth: redis get failed", err)
	}

	t, err := c.next.Fetch(ctx, venue, creds)
	if err != nil {
		return nil, err
	}

	if t.TTL > 0 {
		if err := c.rdb.Set(ctx, key, t.Key, t.TTL).Err(); err != nil {
			c.opts.logger.Error("preauth: redis set failed", err)
		}
	}
	return t, nil
}
