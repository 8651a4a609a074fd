package market

// Family 统一行情数据种类, 固定7种, 运行时不增不减
type Family string

// Shape 归一化结果形态: 单条记录或记录列表
type Shape string

// Update 更新语义
type Update string

// Coercion 家族级别的转换策略标签
type Coercion string

const (
	FamilyTicker    Family = "ticker"
	FamilyTrades    Family = "trades"
	FamilyOrderBook Family = "order_book"
	FamilyOHLCV     Family = "ohlcv"
	FamilyOrders    Family = "orders"
	FamilyBalance   Family = "balance"
	FamilyPositions Family = "positions"

	ShapeSingle Shape = "single"
	ShapeList   Shape = "list"

	UpdateSnapshot         Update = "snapshot"
	UpdateAppend           Update = "append"
	UpdateSnapshotAndDelta Update = "snapshot_and_delta"
	UpdateInPlace          Update = "update_in_place"
	UpdateUpdate           Update = "update"
	UpdatePartialOrFull    Update = "partial_or_full"

	// CoercionFields 按字段映射指令逐个转换
	CoercionFields Coercion = "fields"
	// CoercionBars OHLCV 定长数组专用
	CoercionBars Coercion = "bars"
	// CoercionBook 订单簿档位数组专用
	CoercionBook Coercion = "book"
)

// Spec 描述一个家族的目标形态与字段契约
type Spec struct {
	Family         Family
	Shape          Shape
	Update         Update
	Coercion       Coercion
	AuthRequired   bool
	RequiredFields []Field
	OptionalFields []Field
}

// specs 家族查找表, 进程级只读
var specs = map[Family]*Spec{
	FamilyTicker: {
		Family:         FamilyTicker,
		Shape:          ShapeSingle,
		Update:         UpdateSnapshot,
		Coercion:       CoercionFields,
		RequiredFields: []Field{FieldSymbol, FieldTimestamp, FieldLast},
		OptionalFields: []Field{FieldBid, FieldAsk, FieldHigh, FieldLow, FieldOpen, FieldClose, FieldVolume, FieldVWAP, FieldChange, FieldPercentage},
	},
	FamilyTrades: {
		Family:         FamilyTrades,
		Shape:          ShapeList,
		Update:         UpdateAppend,
		Coercion:       CoercionFields,
		RequiredFields: []Field{FieldSymbol, FieldPrice, FieldAmount, FieldTimestamp},
		OptionalFields: []Field{FieldID, FieldSide, FieldCost, FieldTakerOrMaker},
	},
	FamilyOrderBook: {
		Family:         FamilyOrderBook,
		Shape:          ShapeSingle,
		Update:         UpdateSnapshotAndDelta,
		Coercion:       CoercionBook,
		RequiredFields: []Field{FieldBids, FieldAsks},
		OptionalFields: []Field{FieldSymbol, FieldTimestamp, FieldNonce},
	},
	FamilyOHLCV: {
		Family:         FamilyOHLCV,
		Shape:          ShapeList,
		Update:         UpdateAppend,
		Coercion:       CoercionBars,
		RequiredFields: []Field{FieldTimestamp, FieldOpen, FieldHigh, FieldLow, FieldClose, FieldVolume},
	},
	FamilyOrders: {
		Family:         FamilyOrders,
		Shape:          ShapeList,
		Update:         UpdateUpdate,
		Coercion:       CoercionFields,
		AuthRequired:   true,
		RequiredFields: []Field{FieldID, FieldSymbol, FieldStatus},
		OptionalFields: []Field{FieldClientOrderID, FieldSide, FieldType, FieldPrice, FieldAmount, FieldFilled, FieldRemaining, FieldTimestamp, FieldFeeCost, FieldFeeCurrency, FieldReduceOnly, FieldPostOnly},
	},
	FamilyBalance: {
		Family:         FamilyBalance,
		Shape:          ShapeSingle,
		Update:         UpdateInPlace,
		Coercion:       CoercionFields,
		AuthRequired:   true,
		RequiredFields: []Field{FieldCurrency, FieldFree, FieldTotal},
		OptionalFields: []Field{FieldUsed, FieldTimestamp},
	},
	FamilyPositions: {
		Family:         FamilyPositions,
		Shape:          ShapeList,
		Update:         UpdatePartialOrFull,
		Coercion:       CoercionFields,
		AuthRequired:   true,
		RequiredFields: []Field{FieldSymbol, FieldSide, FieldContracts},
		OptionalFields: []Field{FieldEntryPrice, FieldMarkPrice, FieldUnrealizedPnl, FieldLeverage, FieldLiquidationPrice, FieldMarginMode, FieldTimestamp},
	},
}

// SpecOf 返回家族描述, 未知家族返回 nil
func SpecOf(f Family) *Spec {
	return specs[f]
}

// Families 返回全部家族, 顺序固定
func Families() []Family {
	return []Family{
		FamilyTicker,
		FamilyTrades,
		FamilyOrderBook,
		FamilyOHLCV,
		FamilyOrders,
		FamilyBalance,
		FamilyPositions,
	}
}

// Fields 返回家族的全部字段(必填在前)
func (s *Spec) Fields() []Field {
	out := make([]Field, 0, len(s.RequiredFields)+len(s.OptionalFields))
	out = append(out, s.RequiredFields...)
	out = append(out, s.OptionalFields...)
	return out
}

// HasField 判断字段是否属于该家族
func (s *Spec) HasField(f Field) bool {
	for _, rf := range s.RequiredFields {
		if rf == f {
			return true
		}
	}
	for _, of := range s.OptionalFields {
		if of == f {
			return true
		}
	}
	return false
}
