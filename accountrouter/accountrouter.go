// Package accountrouter 解决私有主题名依赖连接URL的场馆:
// 先由URL匹配出账户类型, 再按账户类型查私有主题
package accountrouter

import (
	"errors"
	"strings"

	"github.com/ZenHive/ccxt-client-sub002/venueconf"
)

var (
	// ErrNoMatchingURL URL 没有命中任何规则(含兜底项), 属于路由缺陷
	ErrNoMatchingURL = errors.New("accountrouter: no matching url rule")
	// ErrNoTopicForAccountType URL 解析成功, 但场馆在该账户类型下不提供此主题
	// 与 ErrNoMatchingURL 刻意区分, 调用方据此分辨配置缺口和路由错误
	ErrNoTopicForAccountType = errors.New("accountrouter: no topic for account type")
)

// Resolve 按声明序匹配规则, pattern 为空的兜底项匹配一切
func Resolve(url string, rules []*venueconf.AccountTypeRule) (string, error) {
	for _, r := range rules {
		if r.Pattern == "" || strings.Contains(url, r.Pattern) {
			return r.AccountType, nil
		}
	}
	return "", ErrNoMatchingURL
}

// Topic 按账户类型查主题
func Topic(accountType string, topics map[string]venueconf.StringList) ([]string, error) {
	t, ok := topics[accountType]
	if !ok || len(t) == 0 {
		return nil, ErrNoTopicForAccountType
	}
	return []string(t), nil
}

// ResolveTopic 一步到位: URL -> 账户类型 -> 主题
func ResolveTopic(url string, rules []*venueconf.AccountTypeRule, topics map[string]venueconf.StringList) ([]string, error) {
	accountType, err := Resolve(url, rules)
	if err != nil {
		return nil, err
	}
	return Topic(accountType, topics)
}
