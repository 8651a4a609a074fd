package feedmanager

import (
	"github.com/ZenHive/ccxt-client-sub002/adapter"
	"github.com/ZenHive/ccxt-client-sub002/subscription"
	"github.com/ZenHive/ccxt-client-sub002/venueconf"
)

// FeedManager 管理多条行情连接, 每条连接一个独立的 adapter
type FeedManager interface {
	// AddFeed 创建并启动一条连接, 返回连接的唯一标识
	AddFeed(venue *venueconf.Venue, urlPath string, handler adapter.Handler, opts ...adapter.Option) (string, error)
	// Subscribe 在指定连接上订阅
	Subscribe(uniq string, req *subscription.Request) error
	// Unsubscribe 在指定连接上退订
	Unsubscribe(uniq string, req *subscription.Request) error
	// CloseFeed 终止一条连接
	CloseFeed(uniq string) error
	// GetFeed 取一条连接, 不存在时返回 nil
	GetFeed(uniq string) *adapter.Adapter
	// IsConnected 某条连接是否处于已连接态
	IsConnected(uniq string) bool
	// Shutdown 终止全部连接
	Shutdown() error
}
