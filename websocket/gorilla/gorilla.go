package gorilla

import (
	"net/http"
	"time"

	gwebsocket "github.com/gorilla/websocket"
)

func NewConn() *GorillaConn {
	return &GorillaConn{}
}

// GorillaConn 是 websocket.Conn 的 gorilla 实现
type GorillaConn struct {
	conn *gwebsocket.Conn
}

func (g *GorillaConn) Dial(endpoint string, requestHeader http.Header) error {
	dialer := gwebsocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.Dial(endpoint, requestHeader)
	if err != nil {
		return err
	}
	conn.SetReadLimit(655350)
	g.conn = conn
	return nil
}

func (g *GorillaConn) ReadMessage() (int, []byte, error) {
	return g.conn.ReadMessage()
}

func (g *GorillaConn) WriteMessage(messageType int, data []byte) error {
	return g.conn.WriteMessage(messageType, data)
}

func (g *GorillaConn) SetPingHandler(h func(appData string) error) {
	g.conn.SetPingHandler(h)
}

func (g *GorillaConn) SetPongHandler(h func(appData string) error) {
	g.conn.SetPongHandler(h)
}

func (g *GorillaConn) Close() error {
	return g.conn.Close()
}
