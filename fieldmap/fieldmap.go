// Package fieldmap 把场馆的声明式字段映射表编译成有序提取指令
// 编译每个 (场馆, 解析方法) 只做一次, 结果只读
package fieldmap

import (
	"sort"
	"strings"

	"github.com/ZenHive/ccxt-client-sub002/market"
	"github.com/ZenHive/ccxt-client-sub002/venueconf"
)

// Kind 转换方式
type Kind string

const (
	KindNumeric  Kind = "numeric"
	KindInteger  Kind = "integer"
	KindString   Kind = "string"
	KindBoolean  Kind = "boolean"
	KindBoolEnum Kind = "bool_enum"
	// KindOpaque 列表/结构/联合类型原样透传
	KindOpaque Kind = "opaque"
)

// Instruction 一条提取指令: 按序探测候选源键, 取第一个命中的做转换
type Instruction struct {
	Field market.Field
	Kind  Kind
	// Keys 候选源键, 声明序
	Keys []string
	// TrueValue/FalseValue 仅 KindBoolEnum 使用
	TrueValue  string
	FalseValue string
}

// Compile 编译某解析方法的映射表
// 场馆或解析方法未知、或编译结果为空时返回 nil,
// 调用方把 nil 当"无映射可用, 走结构默认", 不是错误
func Compile(venue *venueconf.Venue, parseMethod string) []Instruction {
	descriptors := venue.Mapping(parseMethod)
	if len(descriptors) == 0 {
		return nil
	}

	instrs := make([]Instruction, 0, len(descriptors))
	for name, d := range descriptors {
		// 白名单之外的统一字段名直接丢弃, 绝不从配置数据造新标识
		field, ok := market.KnownField(name)
		if !ok {
			continue
		}
		if d == nil {
			continue
		}

		var instr Instruction
		switch d.Category {
		case "computed", "iso8601", "undefined":
			// 这些类别需要本编译器表达不了的逻辑, 跳过
			continue
		case "boolean_derivation":
			if len(d.Keys) == 0 {
				// 无源键的布尔派生静默跳过, 字段在输出里缺席
				continue
			}
			instr = Instruction{
				Field:      field,
				Kind:       KindBoolEnum,
				Keys:       d.Keys,
				TrueValue:  d.TrueValue,
				FalseValue: d.FalseValue,
			}
		default:
			keys := d.Keys
			if len(keys) == 0 {
				keys = []string{name}
			}
			instr = Instruction{
				Field: field,
				Kind:  kindFromSignature(d.TypeSignature),
				Keys:  keys,
			}
		}

		// 显式 safe_fn 覆盖, 优先于类型签名推导
		if d.SafeFn != "" {
			if k, ok := kindFromName(d.SafeFn); ok {
				instr.Kind = k
			}
		}

		instrs = append(instrs, instr)
	}

	if len(instrs) == 0 {
		return nil
	}

	// 映射表是无序的, 按字段名排序保证指令序稳定
	sort.Slice(instrs, func(i, j int) bool {
		return instrs[i].Field < instrs[j].Field
	})
	return instrs
}

// kindFromSignature 类型签名 -> 转换方式
// 列表/结构/联合这类签名一律透传
func kindFromSignature(sig string) Kind {
	lower := strings.ToLower(sig)
	switch {
	case strings.Contains(lower, "number"):
		return KindNumeric
	case strings.Contains(lower, "integer"):
		return KindInteger
	case strings.Contains(lower, "string"):
		return KindString
	case strings.Contains(lower, "boolean"):
		return KindBoolean
	default:
		return KindOpaque
	}
}

func kindFromName(name string) (Kind, bool) {
	switch name {
	case "number", "numeric":
		return KindNumeric, true
	case "integer":
		return KindInteger, true
	case "string":
		return KindString, true
	case "boolean":
		return KindBoolean, true
	case "opaque":
		return KindOpaque, true
	default:
		return "", false
	}
}
