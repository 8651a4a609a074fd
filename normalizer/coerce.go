package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

var errNotCoercible = errors.New("normalizer: value not coercible")

// toDecimal 字符串或数字 -> decimal, 场馆经常把数字编码成字符串
func toDecimal(v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, nil
	case string:
		return decimal.NewFromString(val)
	case json.Number:
		return decimal.NewFromString(val.String())
	case float64:
		return decimal.NewFromFloat(val), nil
	case float32:
		return decimal.NewFromFloat32(val), nil
	case int:
		return decimal.NewFromInt(int64(val)), nil
	case int64:
		return decimal.NewFromInt(val), nil
	default:
		return decimal.Zero, errNotCoercible
	}
}

func toInt64(v any) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case json.Number:
		return val.Int64()
	case string:
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	default:
		return 0, errNotCoercible
	}
}

func toString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case float64, int, int64, bool:
		return fmt.Sprint(val), nil
	default:
		return "", errNotCoercible
	}
}

func toBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		return strconv.ParseBool(val)
	case float64:
		return val != 0, nil
	case int:
		return val != 0, nil
	default:
		return false, errNotCoercible
	}
}

// truthy 布尔派生的旗标判断, 解析不了按 false 处理
func truthy(v any) bool {
	b, err := toBool(v)
	if err != nil {
		return false
	}
	return b
}
