package gorilla

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZenHive/ccxt-client-sub002/websocket"
)

func NewWebsocket(conn websocket.Conn, config *websocket.Config) *Websocket {
	return &Websocket{
		conn:    conn,
		config:  config,
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Websocket 是 websocket.Websocket 接口的 gorilla 实现
type Websocket struct {
	messageCount uint64
	isConnected  bool
	conn         websocket.Conn
	config       *websocket.Config
	req          *websocket.Request
	closeCh      chan struct{}
	doneCh       chan struct{}
	closeOnce    sync.Once
	doneOnce     sync.Once
	connectTime  time.Time
}

func (w *Websocket) Connect(req *websocket.Request) error {
	if err := w.conn.Dial(req.Endpoint, nil); err != nil {
		close(w.doneCh)
		return err
	}
	w.configure()
	w.req = req
	w.isConnected = true
	w.connectTime = time.Now()
	w.messageCount = 0
	go w.readMessages(req)
	return nil
}

func (w *Websocket) configure() {
	if w.config == nil {
		return
	}
	if w.config.PingHandler != nil {
		w.conn.SetPingHandler(w.config.PingHandler)
	}
	if w.config.PongHandler != nil {
		w.conn.SetPongHandler(w.config.PongHandler)
	}
}

func (w *Websocket) readMessages(req *websocket.Request) {
	// 确保此方法退出时标记doneCh为已完成
	defer w.doneOnce.Do(func() {
		close(w.doneCh)
	})
	for {
		select {
		case <-w.closeCh: // 收到关闭信号, 立即退出循环
			return
		default:
			_, message, err := w.conn.ReadMessage()
			if err != nil {
				// 先区分是不是主动关闭
				select {
				case <-w.closeCh: // 主动关闭, 不当成断线信号
				default:
					w.isConnected = false
					if req != nil && req.DownHandler != nil {
						req.DownHandler(req.ID, err)
					}
				}
				return
			}
			if req.MessageHandler != nil {
				req.MessageHandler(message)
			}
			atomic.AddUint64(&w.messageCount, 1)
		}
	}
}

func (w *Websocket) ID() string {
	return w.req.ID
}

func (w *Websocket) Disconnect() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh) // 通知读协程退出
		if w.conn != nil {
			err = w.conn.Close()
		}
	})
	w.isConnected = false
	<-w.doneCh // 确保读协程已经结束
	return err
}

func (w *Websocket) IsConnected() bool {
	return w.isConnected
}

func (w *Websocket) WriteMessage(messageType int, data []byte) error {
	return w.conn.WriteMessage(messageType, data)
}

func (w *Websocket) ConnectionDuration() time.Duration {
	return time.Since(w.connectTime)
}
