package venueconf

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyName 配置缺少场馆名
	ErrEmptyName = errors.New("venue config: empty name")
)

// Venue 一个交易场馆的声明式描述, 由场馆规格提取工具产出
// 加载后只读, 可被任意多个连接共享
type Venue struct {
	// Name 场馆标识, 如 "binance"
	Name string `yaml:"name"`

	// URLs url path -> 连接地址, 如 public -> wss://...
	URLs map[string]string `yaml:"urls"`

	// Envelope 帧封皮描述, 为空表示该场馆走原始帧直通
	Envelope *Envelope `yaml:"envelope"`

	// SubscriptionPattern 订阅报文形状名
	SubscriptionPattern string `yaml:"subscription_pattern"`

	// SymbolContext 市场类型 -> 符号格式化规则
	SymbolContext map[string]*SymbolFormat `yaml:"symbol_context"`

	// Channels 家族名 -> 频道模板
	Channels map[string]*Template `yaml:"channels"`

	// Routing 频道名 -> 家族 的路由表
	Routing *Routing `yaml:"routing"`

	// Mappings 解析方法名 -> 统一字段名 -> 映射描述
	Mappings map[string]map[string]*FieldDescriptor `yaml:"mappings"`

	// AccountTypeRules 按URL解析账户类型的有序规则, pattern 为空是兜底项
	AccountTypeRules []*AccountTypeRule `yaml:"account_type_rules"`

	// PrivateTopics 家族名 -> 账户类型 -> 私有主题
	PrivateTopics map[string]map[string]StringList `yaml:"private_topics"`

	// AuthRequired 家族名 -> 该场馆是否要求鉴权(覆盖家族默认)
	AuthRequired map[string]bool `yaml:"auth_required"`

	// PreAuth listen-key 式预鉴权, 为空表示场馆不用这套
	PreAuth *PreAuth `yaml:"pre_auth"`

	// InlineAuth 订阅报文内嵌鉴权, 为空表示走独立 authenticate
	InlineAuth *InlineAuth `yaml:"inline_auth"`

	// Authenticate 独立鉴权报文的构造参数
	Authenticate *Authenticate `yaml:"authenticate"`
}

// Envelope 帧封皮: 从原始帧里剥出频道判别值与载荷
type Envelope struct {
	// Pattern flat, topic_data, jsonrpc_subscription, arg_data, channel_result
	Pattern string `yaml:"pattern"`
	// DiscriminatorField 判别字段的点路径, 如 "arg.channel"
	DiscriminatorField string `yaml:"discriminator_field"`
	// DataField 载荷点路径, "." 表示整帧就是载荷
	DataField string `yaml:"data_field"`
	// UnwrapList 载荷为单元素列表时解开取元素
	UnwrapList bool `yaml:"unwrap_list"`
}

// SymbolFormat 符号格式化规则
type SymbolFormat struct {
	// Case "upper", "lower", "" 保持原样
	Case string `yaml:"case"`
	// Separator 替换 "/" 的分隔串, 默认直接去掉
	Separator string `yaml:"separator"`
	// KeepDash BTC/USDT -> BTC-USDT 场馆用
	KeepDash bool `yaml:"keep_dash"`
}

// Template 频道模板
type Template struct {
	// Name 频道基础名, 如 "orderbook.50"
	Name string `yaml:"name"`
	// Separator 频道段分隔串, 如 "." 或 "@"
	Separator string `yaml:"separator"`
	// MarketIDFormat 市场类型键, 用于查 SymbolContext
	MarketIDFormat string `yaml:"market_id_format"`
	// Params 模板静态参数, 按声明序追加
	Params []*TemplateParam `yaml:"params"`
}

// TemplateParam 模板参数
type TemplateParam struct {
	Name string `yaml:"name"`
	// Default 默认值, 调用方覆盖项优先
	Default string `yaml:"default"`
	// Positional 符号/周期/数量这类已经嵌在频道逻辑里的参数, 不自动追加
	Positional bool `yaml:"positional"`
}

// Routing 频道判别值 -> 家族 的匹配表
type Routing struct {
	// Mode exact, prefix, contains, split_any
	Mode string `yaml:"mode"`
	// Separator split_any 模式的切分串
	Separator string `yaml:"separator"`
	// Entries 按声明序匹配, 先命中先赢
	Entries []*RouteEntry `yaml:"entries"`
}

// RouteEntry 单条路由规则
type RouteEntry struct {
	Channel string `yaml:"channel"`
	// Family 目标家族名, System 为真时忽略
	Family string `yaml:"family"`
	// System 心跳/回执这类系统帧处理器, 不投递给调用方
	System bool `yaml:"system"`
}

// FieldDescriptor 单个统一字段的映射描述
type FieldDescriptor struct {
	// Category safe_accessor, boolean_derivation, computed, iso8601, undefined
	Category string `yaml:"category"`
	// TypeSignature 提取工具给出的类型签名, 决定转换方式
	TypeSignature string `yaml:"type_signature"`
	// Keys 候选源键, 按序探测
	Keys []string `yaml:"keys"`
	// TrueValue/FalseValue boolean_derivation 的两个取值
	TrueValue  string `yaml:"true_value"`
	FalseValue string `yaml:"false_value"`
	// SafeFn 显式转换覆盖: number, integer, string, boolean
	SafeFn string `yaml:"safe_fn"`
}

// AccountTypeRule URL -> 账户类型
type AccountTypeRule struct {
	// Pattern URL 子串, 为空表示兜底项(必须放最后)
	Pattern     string `yaml:"pattern"`
	AccountType string `yaml:"account_type"`
}

// PreAuth listen-key 式预鉴权配置
type PreAuth struct {
	// Endpoint 换取 token 的 HTTP 端点路径
	Endpoint string `yaml:"endpoint"`
	// BaseURL HTTP 基地址
	BaseURL string `yaml:"base_url"`
	// TTLSeconds token 有效期, 0 表示场馆不披露
	TTLSeconds int64 `yaml:"ttl_seconds"`
}

// InlineAuth 订阅报文内嵌鉴权配置
type InlineAuth struct {
	KeyField       string `yaml:"key_field"`
	SignField      string `yaml:"sign_field"`
	TimestampField string `yaml:"timestamp_field"`
	// Payload 参与签名的串模板前缀, 时间戳会拼在后面
	Payload string `yaml:"payload"`
}

// Authenticate 独立鉴权报文构造参数
type Authenticate struct {
	// Op 鉴权操作名, 如 "login", "auth"
	Op string `yaml:"op"`
	// Payload 参与签名的串前缀
	Payload string `yaml:"payload"`
	// TTLSeconds 鉴权响应未携带有效期时的兜底值
	TTLSeconds int64 `yaml:"ttl_seconds"`
}

func (v *Venue) validate() error {
	if v.Name == "" {
		return ErrEmptyName
	}
	if v.Routing != nil {
		switch v.Routing.Mode {
		case "", "exact", "prefix", "contains", "split_any":
		default:
			return fmt.Errorf("venue %s: unknown routing mode %q", v.Name, v.Routing.Mode)
		}
	}
	return nil
}

// Mapping 返回某解析方法的字段映射表, 未知方法返回 nil
func (v *Venue) Mapping(parseMethod string) map[string]*FieldDescriptor {
	if v == nil {
		return nil
	}
	return v.Mappings[parseMethod]
}

// Template 返回家族对应的频道模板, 没有则返回 nil
func (v *Venue) Template(family string) *Template {
	if v == nil {
		return nil
	}
	return v.Channels[family]
}

// FamilyAuthRequired 家族在该场馆是否要求鉴权
func (v *Venue) FamilyAuthRequired(family string, fallback bool) bool {
	if v == nil || v.AuthRequired == nil {
		return fallback
	}
	if req, ok := v.AuthRequired[family]; ok {
		return req
	}
	return fallback
}
