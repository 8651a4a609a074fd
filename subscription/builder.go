package subscription

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZenHive/ccxt-client-sub002/market"
	"github.com/ZenHive/ccxt-client-sub002/venueconf"
)

var (
	// ErrUnknownFamily 请求了家族表之外的家族
	ErrUnknownFamily = errors.New("subscription: unknown family")
	// ErrNoTemplate 场馆没有给该家族配频道模板
	ErrNoTemplate = errors.New("subscription: no channel template for family")
)

// Build 根据场馆配置和请求构造订阅
// 未知订阅形状不报错, 退化为通用 {subscribe: true, channels: [...]} 报文
func Build(venue *venueconf.Venue, req *Request) (*Subscription, error) {
	spec := market.SpecOf(req.Family)
	if spec == nil {
		return nil, ErrUnknownFamily
	}
	tmpl := venue.Template(string(req.Family))
	if tmpl == nil {
		return nil, ErrNoTemplate
	}

	symbols := req.symbols()
	parts := buildParts(venue, tmpl, symbols, req.Params)

	channels := make([]string, 0, len(parts))
	for _, p := range parts {
		channels = append(channels, p.Channel)
	}

	return &Subscription{
		Channels:     channels,
		Parts:        parts,
		Message:      BuildMessage(venue.SubscriptionPattern, OpSubscribe, parts),
		Family:       req.Family,
		AuthRequired: venue.FamilyAuthRequired(string(req.Family), spec.AuthRequired),
		Symbols:      symbols,
	}, nil
}

// UnsubscribeMessage 为已有订阅构造退订报文
func UnsubscribeMessage(venue *venueconf.Venue, sub *Subscription) any {
	return BuildMessage(venue.SubscriptionPattern, OpUnsubscribe, sub.Parts)
}

// CombinedMessage 把多个订阅的去重频道合成一条订阅报文, 重连恢复用
func CombinedMessage(venue *venueconf.Venue, subs []*Subscription) any {
	seen := make(map[string]struct{})
	parts := make([]Part, 0)
	for _, s := range subs {
		for _, p := range s.Parts {
			if _, ok := seen[p.Channel]; ok {
				continue
			}
			seen[p.Channel] = struct{}{}
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return BuildMessage(venue.SubscriptionPattern, OpSubscribe, parts)
}

// buildParts 组装频道名: 模板名 + 符号 + 静态参数
// 无符号时只有模板名一条; 多符号时每个符号一条
func buildParts(venue *venueconf.Venue, tmpl *venueconf.Template, symbols []string, overrides map[string]any) []Part {
	format := symbolFormatFor(venue, tmpl)

	if len(symbols) == 0 {
		return []Part{{
			Channel: joinSegments(tmpl, "", overrides),
			Base:    tmpl.Name,
		}}
	}

	parts := make([]Part, 0, len(symbols))
	for _, sym := range symbols {
		marketID := FormatSymbol(sym, format)
		parts = append(parts, Part{
			Channel: joinSegments(tmpl, marketID, overrides),
			Base:    tmpl.Name,
			Symbol:  marketID,
		})
	}
	return parts
}

func joinSegments(tmpl *venueconf.Template, marketID string, overrides map[string]any) string {
	segments := []string{tmpl.Name}
	if marketID != "" {
		segments = append(segments, marketID)
	}

	// 静态参数按声明序追加, 位置参数(符号/周期/数量)已嵌入频道逻辑, 跳过
	for _, p := range tmpl.Params {
		if p.Positional {
			continue
		}
		value := p.Default
		if ov, ok := overrides[p.Name]; ok {
			// 覆盖以键存在判定, 0/false 这类零值照样生效
			value = fmt.Sprint(ov)
		}
		segments = append(segments, value)
	}

	return strings.Join(segments, tmpl.Separator)
}
