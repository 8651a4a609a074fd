// Package contract 校验归一化结果是否符合家族契约
// 只产出违规列表, 从不改输入也从不 panic;
// 拦不拦截由调用方决定, 默认只告警不阻断
package contract

import (
	"fmt"

	"github.com/ZenHive/ccxt-client-sub002/market"
)

// ViolationKind 违规种类
type ViolationKind string

const (
	WrongType        ViolationKind = "wrong_type"
	WrongShape       ViolationKind = "wrong_shape"
	WrongElementType ViolationKind = "wrong_element_type"
	MissingField     ViolationKind = "missing_field"
)

// Violation 一条违规
type Violation struct {
	Kind  ViolationKind
	Field market.Field
	// Index 列表家族中违规元素的下标, 单条家族为 -1
	Index int
}

func (v Violation) String() string {
	if v.Index >= 0 {
		return fmt.Sprintf("%s field=%s index=%d", v.Kind, v.Field, v.Index)
	}
	return fmt.Sprintf("%s field=%s", v.Kind, v.Field)
}

// Validate 校验归一化值, 返回空列表表示通过
func Validate(family market.Family, value any) []Violation {
	spec := market.SpecOf(family)
	if spec == nil {
		return []Violation{{Kind: WrongType, Index: -1}}
	}

	if family == market.FamilyOHLCV {
		return validateBars(value)
	}

	if spec.Shape == market.ShapeSingle {
		rec, ok := value.(*market.Record)
		if !ok || rec == nil || rec.Family != family {
			return []Violation{{Kind: WrongType, Index: -1}}
		}
		return requiredFields(spec, rec, -1, nil)
	}

	records, ok := value.([]*market.Record)
	if !ok {
		return []Violation{{Kind: WrongShape, Index: -1}}
	}

	// 空列表永远通过
	var violations []Violation
	for i, rec := range records {
		if rec == nil || rec.Family != family {
			violations = append(violations, Violation{Kind: WrongElementType, Index: i})
			continue
		}
		violations = requiredFields(spec, rec, i, violations)
	}
	return violations
}

func requiredFields(spec *market.Spec, rec *market.Record, index int, acc []Violation) []Violation {
	for _, f := range spec.RequiredFields {
		if rec.Get(f) == nil {
			acc = append(acc, Violation{Kind: MissingField, Field: f, Index: index})
		}
	}
	return acc
}

func validateBars(value any) []Violation {
	bars, ok := value.([]*market.Bar)
	if !ok {
		return []Violation{{Kind: WrongShape, Index: -1}}
	}
	var violations []Violation
	for i, b := range bars {
		if b == nil {
			violations = append(violations, Violation{Kind: WrongElementType, Index: i})
		}
	}
	return violations
}
