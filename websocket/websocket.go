package websocket

import (
	"net/http"
	"time"
)

//go:generate mockgen -destination=mocks/websocket.go -package=mocks . Conn

// Conn 底层socket原语: 连接/收发/关闭
type Conn interface {
	Dial(endpoint string, requestHeader http.Header) error
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetPingHandler(h func(appData string) error)
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Config 结构体定义了WebSocket实例的配置选项
type Config struct {
	PingHandler func(appData string) error
	PongHandler func(appData string) error
}

type Request struct {
	// Endpoint 是Websocket服务器的地址
	Endpoint string

	// ID 是Websocket连接的唯一标识符
	ID string

	// MessageHandler 收到一帧原始字节时回调
	MessageHandler func(message []byte)

	// DownHandler 连接断开信号, 读循环因错误退出时回调一次
	DownHandler func(id string, err error)
}

// Websocket 接口定义了基本的连接管理操作
type Websocket interface {
	// Connect 建立连接并启动读循环
	Connect(req *Request) error

	// Disconnect 关闭连接, 返回时读循环已退出
	Disconnect() error

	// IsConnected 连接是否活跃
	IsConnected() bool

	// WriteMessage 发送一帧
	WriteMessage(messageType int, data []byte) error

	// ConnectionDuration 当前连接的持续时间
	ConnectionDuration() time.Duration
}
