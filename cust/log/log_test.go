package center

import (
	"bytes"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
)

func TestMultiLoggerFanOut(t *testing.T) {
	var first, second bytes.Buffer
	multi := newMultiLogger(log.NewStdLogger(&first), log.NewStdLogger(&second))

	helper := log.NewHelper(multi)
	helper.Infow("msg", "feed connected")

	assert.Contains(t, first.String(), "feed connected")
	assert.Contains(t, second.String(), "feed connected")
}

func TestNewLoggerNonProd(t *testing.T) {
	// 非生产环境只挂 stdout, 不碰 redis
	multi := NewLogger("DEV", "feed", "localhost:6379", "", 0)
	assert.Len(t, multi.loggers, 1)
}

func TestLevelToString(t *testing.T) {
	assert.Equal(t, "INFO", levelToString(log.LevelInfo))
	assert.Equal(t, "ERROR", levelToString(log.LevelError))
	assert.Equal(t, "UNKNOWN", levelToString(log.Level(99)))
}
