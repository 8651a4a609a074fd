package market

import (
	"github.com/shopspring/decimal"
)

// Record 归一化后的统一记录
// Fields 只会出现白名单内的字段, Raw 永远保留原始报文
type Record struct {
	Family Family
	Fields map[Field]any
	Raw    any
}

// NewRecord 创建指定家族的空记录
func NewRecord(f Family, raw any) *Record {
	return &Record{
		Family: f,
		Fields: make(map[Field]any),
		Raw:    raw,
	}
}

// Get 读取字段值, 缺失返回 nil
func (r *Record) Get(f Field) any {
	if r == nil || r.Fields == nil {
		return nil
	}
	return r.Fields[f]
}

// Set 写入字段值, nil 值不写入
func (r *Record) Set(f Field, v any) {
	if v == nil {
		return
	}
	r.Fields[f] = v
}

// Bar 一根K线, 时间戳毫秒
type Bar struct {
	Timestamp int64
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

// BookLevel 订单簿单档 [价格, 数量]
type BookLevel [2]decimal.Decimal

// Price 档位价格
func (l BookLevel) Price() decimal.Decimal { return l[0] }

// Amount 档位数量
func (l BookLevel) Amount() decimal.Decimal { return l[1] }
