package center

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// logRetention 集中日志在 redis 里的保留时长
const logRetention = 10 * 24 * time.Hour

type LogEntry struct {
	Service   string `json:"service"`
	Level     string `json:"level"`
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
}

// RedisHandler 把日志写进 Redis 做集中检索, 按服务名区分
type RedisHandler struct {
	client      *redis.Client
	serviceName string
}

type MultiLogger struct {
	loggers []log.Logger
}

func newMultiLogger(loggers ...log.Logger) *MultiLogger {
	return &MultiLogger{
		loggers: loggers,
	}
}

func (m *MultiLogger) Log(level log.Level, keyvals ...interface{}) error {
	for _, logger := range m.loggers {
		if err := logger.Log(level, keyvals...); err != nil {
			return err
		}
	}
	return nil
}

// Log 实现 log.Logger 接口
func (h *RedisHandler) Log(level log.Level, keyvals ...interface{}) error {
	logStr := ""
	for i := 0; i < len(keyvals); i += 2 {
		if i+1 < len(keyvals) {
			logStr += fmt.Sprintf("%s=%v ", keyvals[i], keyvals[i+1])
		} else {
			logStr += fmt.Sprintf("%s=MISSING_VALUE ", keyvals[i])
		}
	}
	nano := time.Now().UnixNano()
	key := fmt.Sprintf("log:%s:%d", h.serviceName, nano)
	entry := &LogEntry{
		Service:   h.serviceName,
		Level:     levelToString(level),
		Timestamp: nano,
		Message:   logStr,
	}
	jsonData, _ := json.Marshal(entry)

	ctx := context.Background()
	if err := h.client.Set(ctx, key, string(jsonData), logRetention).Err(); err != nil {
		log.Error(err)
	}
	return nil
}

func newStdoutHandler() log.Logger {
	return log.NewStdLogger(os.Stdout)
}

func newRedisHandler(client *redis.Client, name string) *RedisHandler {
	return &RedisHandler{
		client:      client,
		serviceName: name,
	}
}

func newRedisClient(addr, passwd string, db int32) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: passwd,
		DB:       int(db),
	})
}

// NewLogger 行情服务的日志器: 生产环境 stdout + redis 双写, 其余只走 stdout
func NewLogger(env, svcName, addr, passwd string, db int32) *MultiLogger {
	stdout := newStdoutHandler()
	if env == "PRD" {
		handler := newRedisHandler(newRedisClient(addr, passwd, db), svcName)
		return newMultiLogger(stdout, handler)
	}
	return newMultiLogger(stdout)
}

// levelToString 日志级别转字符串
func levelToString(level log.Level) string {
	switch level {
	case log.LevelDebug:
		return "DEBUG"
	case log.LevelInfo:
		return "INFO"
	case log.LevelWarn:
		return "WARN"
	case log.LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
