package manager

import (
	"errors"
	"sync"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/ZenHive/ccxt-client-sub002/adapter"
	"github.com/ZenHive/ccxt-client-sub002/feedmanager"
	"github.com/ZenHive/ccxt-client-sub002/subscription"
	"github.com/ZenHive/ccxt-client-sub002/venueconf"
)

var (
	ErrMaxConnReached = errors.New("max connection reached")
	ErrFeedNotFound   = errors.New("feed not found")
	ErrLimitExceed    = errors.New("ws connect too frequent, please try again later")
)

var _ feedmanager.FeedManager = (*Manager)(nil)

type Manager struct {
	opts  *options
	mux   sync.Mutex
	feeds map[string]*adapter.Adapter
}

func NewManager(opts ...Option) *Manager {
	o := &options{
		logger:  log.NewHelper(log.DefaultLogger),
		maxConn: 100,
	}
	for _, opt := range opts {
		opt(o)
	}

	m := &Manager{
		opts:  o,
		feeds: make(map[string]*adapter.Adapter),
	}
	return m
}

func (m *Manager) AddFeed(venue *venueconf.Venue, urlPath string, handler adapter.Handler, opts ...adapter.Option) (string, error) {
	m.mux.Lock()
	defer m.mux.Unlock()

	// 最大连接数限制
	if len(m.feeds) >= m.opts.maxConn {
		return "", ErrMaxConnReached
	}

	// websocket 连接频率限制
	if m.opts.connLimiter != nil && !m.opts.connLimiter.WsAllow() {
		return "", ErrLimitExceed
	}

	all := make([]adapter.Option, 0, len(m.opts.adapterOpts)+len(opts))
	all = append(all, m.opts.adapterOpts...)
	all = append(all, opts...)

	a := adapter.New(venue, all...)
	if err := a.Start(handler, urlPath); err != nil {
		return "", err
	}

	uniq := venue.Name + "." + uuid.New().String()
	m.feeds[uniq] = a

	// 连接致命终止后自动摘除
	go func() {
		<-a.Done()
		if err := a.Err(); err != nil {
			m.opts.logger.Errorf("feed %s terminated: %v", uniq, err)
		}
		m.mux.Lock()
		delete(m.feeds, uniq)
		m.mux.Unlock()
	}()

	return uniq, nil
}

func (m *Manager) Subscribe(uniq string, req *subscription.Request) error {
	a := m.GetFeed(uniq)
	if a == nil {
		return ErrFeedNotFound
	}
	return a.Subscribe(req)
}

func (m *Manager) Unsubscribe(uniq string, req *subscription.Request) error {
	a := m.GetFeed(uniq)
	if a == nil {
		return ErrFeedNotFound
	}
	return a.Unsubscribe(req)
}

func (m *Manager) CloseFeed(uniq string) error {
	m.mux.Lock()
	a := m.feeds[uniq]
	delete(m.feeds, uniq)
	m.mux.Unlock()

	if a == nil {
		return ErrFeedNotFound
	}
	return a.Stop()
}

func (m *Manager) GetFeed(uniq string) *adapter.Adapter {
	m.mux.Lock()
	defer m.mux.Unlock()
	return m.feeds[uniq]
}

func (m *Manager) IsConnected(uniq string) bool {
	a := m.GetFeed(uniq)
	if a == nil {
		return false
	}
	return a.IsConnected()
}

func (m *Manager) Shutdown() error {
	m.mux.Lock()
	feeds := make([]*adapter.Adapter, 0, len(m.feeds))
	for _, a := range m.feeds {
		feeds = append(feeds, a)
	}
	m.feeds = make(map[string]*adapter.Adapter)
	m.mux.Unlock()

	for _, a := range feeds {
		a.Stop()
	}
	return nil
}
