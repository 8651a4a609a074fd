package limiter

//go:generate mockgen -destination=mocks/limiter.go -package=mocks . Limiter

// Limiter websocket 连接频率限制
// 各场馆对单IP的建连频率有硬性限制, 超了会被封禁
type Limiter interface {
	WsAllow() bool
}
