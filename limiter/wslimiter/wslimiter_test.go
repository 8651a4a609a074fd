package wslimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWsAllow(t *testing.T) {
	l := NewWsLimiter(WithPeriod(time.Hour), WithTimes(2))

	assert.True(t, l.WsAllow())
	assert.True(t, l.WsAllow())
	// 突发额度用完后拒绝
	assert.False(t, l.WsAllow())
}
