// Package normalizer 把路由后的 (家族, 原始载荷) 转成统一记录
package normalizer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ZenHive/ccxt-client-sub002/fieldmap"
	"github.com/ZenHive/ccxt-client-sub002/market"
)

var (
	// ErrUnknownFamily 家族表之外的家族
	ErrUnknownFamily = errors.New("normalizer: unknown family")
)

// ShapeError 载荷顶层形态不对
type ShapeError struct {
	// Want "map" 或 "list"
	Want    string
	Payload any
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("normalizer: expected %s, got %T", e.Want, e.Payload)
}

// ListElementError 列表元素形态不对
type ListElementError struct {
	Index int
	Value any
}

func (e *ListElementError) Error() string {
	return fmt.Sprintf("normalizer: invalid list element at %d: %v", e.Index, e.Value)
}

// Normalize 归一化一个载荷
// 单条家族返回 *market.Record, 列表家族返回 []*market.Record,
// OHLCV 返回按时间升序的 []*market.Bar
// instrs 为 nil 时走结构默认: 直接探测与统一字段同名的键
func Normalize(family market.Family, payload any, instrs []fieldmap.Instruction) (any, error) {
	spec := market.SpecOf(family)
	if spec == nil {
		return nil, ErrUnknownFamily
	}

	if family == market.FamilyOHLCV {
		return normalizeOHLCV(payload)
	}

	if spec.Shape == market.ShapeSingle {
		m, ok := payload.(map[string]any)
		if !ok {
			return nil, &ShapeError{Want: "map", Payload: payload}
		}
		return normalizeRecord(spec, m, payload, instrs), nil
	}

	// 列表家族: 单条记录包成单元素列表
	var elems []any
	switch p := payload.(type) {
	case map[string]any:
		elems = []any{p}
	case []any:
		elems = p
	default:
		return nil, &ShapeError{Want: "list", Payload: payload}
	}

	records := make([]*market.Record, 0, len(elems))
	for i, e := range elems {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, &ListElementError{Index: i, Value: e}
		}
		records = append(records, normalizeRecord(spec, m, e, instrs))
	}
	return records, nil
}

// normalizeRecord 指令优先, 未覆盖的字段走结构默认
// Raw 永远是未转换的原始载荷, 哪怕单个字段填不上
func normalizeRecord(spec *market.Spec, m map[string]any, raw any, instrs []fieldmap.Instruction) *market.Record {
	rec := market.NewRecord(spec.Family, raw)

	mapped := make(map[market.Field]struct{}, len(instrs))
	for _, instr := range instrs {
		mapped[instr.Field] = struct{}{}
		if v, ok := applyInstruction(instr, m); ok {
			rec.Set(instr.Field, v)
		}
	}

	// 结构默认: 没有映射指令的目标字段直接探测同名键,
	// 没有映射表的场馆靠这条路径填充恰好同名的字段
	for _, f := range spec.Fields() {
		if _, ok := mapped[f]; ok {
			continue
		}
		if v, ok := m[string(f)]; ok && v != nil {
			rec.Set(f, v)
		}
	}

	if spec.Family == market.FamilyOrderBook {
		coerceBookSides(rec, m)
	}

	return rec
}

// applyInstruction 按序探测候选键, 第一个在场的键做转换
func applyInstruction(instr fieldmap.Instruction, m map[string]any) (any, bool) {
	if instr.Kind == fieldmap.KindBoolEnum {
		return applyBoolEnum(instr, m)
	}

	for _, key := range instr.Keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		return coerce(instr.Kind, v)
	}
	return nil, false
}

// applyBoolEnum 第一个键是布尔旗标, 按取值选 true_value/false_value;
// 旗标不在场时退回直接探测其余候选键
func applyBoolEnum(instr fieldmap.Instruction, m map[string]any) (any, bool) {
	if flag, ok := m[instr.Keys[0]]; ok && flag != nil {
		if truthy(flag) {
			return instr.TrueValue, true
		}
		return instr.FalseValue, true
	}
	for _, key := range instr.Keys[1:] {
		if v, ok := m[key]; ok && v != nil {
			if s, err := toString(v); err == nil {
				return s, true
			}
		}
	}
	return nil, false
}

func coerce(kind fieldmap.Kind, v any) (any, bool) {
	switch kind {
	case fieldmap.KindNumeric:
		d, err := toDecimal(v)
		if err != nil {
			return nil, false
		}
		return d, true
	case fieldmap.KindInteger:
		n, err := toInt64(v)
		if err != nil {
			return nil, false
		}
		return n, true
	case fieldmap.KindString:
		s, err := toString(v)
		if err != nil {
			return nil, false
		}
		return s, true
	case fieldmap.KindBoolean:
		b, err := toBool(v)
		if err != nil {
			return nil, false
		}
		return b, true
	default:
		return v, true
	}
}

// coerceBookSides 订单簿档位 [价格, 数量] 逐元素转数字
// 空数组(无变化的增量)正常归一化为空列表
func coerceBookSides(rec *market.Record, m map[string]any) {
	for _, f := range []market.Field{market.FieldBids, market.FieldAsks} {
		v, ok := m[string(f)]
		if !ok {
			if rec.Get(f) == nil {
				rec.Fields[f] = []market.BookLevel{}
			}
			continue
		}
		levels, err := coerceLevels(v)
		if err != nil {
			// 档位坏了也不丢整条记录, 原始数据还在 Raw 里
			continue
		}
		rec.Fields[f] = levels
	}
}

func coerceLevels(v any) ([]market.BookLevel, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, &ShapeError{Want: "list", Payload: v}
	}
	levels := make([]market.BookLevel, 0, len(list))
	for i, e := range list {
		pair, ok := e.([]any)
		if !ok || len(pair) < 2 {
			return nil, &ListElementError{Index: i, Value: e}
		}
		price, err := toDecimal(pair[0])
		if err != nil {
			return nil, &ListElementError{Index: i, Value: e}
		}
		amount, err := toDecimal(pair[1])
		if err != nil {
			return nil, &ListElementError{Index: i, Value: e}
		}
		levels = append(levels, market.BookLevel{price, amount})
	}
	return levels, nil
}

// normalizeOHLCV 定长位置数组 [ts, o, h, l, c, v] -> Bar, 按时间升序
func normalizeOHLCV(payload any) ([]*market.Bar, error) {
	list, ok := payload.([]any)
	if !ok {
		return nil, &ShapeError{Want: "list", Payload: payload}
	}

	// 单根K线 [ts,o,h,l,c,v] 也接受, 包成单元素列表
	if len(list) > 0 {
		if _, ok := list[0].([]any); !ok {
			list = []any{payload}
		}
	}

	bars := make([]*market.Bar, 0, len(list))
	for i, e := range list {
		arr, ok := e.([]any)
		if !ok || len(arr) < 6 {
			return nil, &ListElementError{Index: i, Value: e}
		}
		bar, err := toBar(arr)
		if err != nil {
			return nil, &ListElementError{Index: i, Value: e}
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Timestamp < bars[j].Timestamp
	})
	return bars, nil
}

func toBar(arr []any) (*market.Bar, error) {
	ts, err := toInt64(arr[0])
	if err != nil {
		return nil, err
	}
	bar := &market.Bar{Timestamp: ts}
	if bar.Open, err = toDecimal(arr[1]); err != nil {
		return nil, err
	}
	if bar.High, err = toDecimal(arr[2]); err != nil {
		return nil, err
	}
	if bar.Low, err = toDecimal(arr[3]); err != nil {
		return nil, err
	}
	if bar.Close, err = toDecimal(arr[4]); err != nil {
		return nil, err
	}
	if bar.Volume, err = toDecimal(arr[5]); err != nil {
		return nil, err
	}
	return bar, nil
}
