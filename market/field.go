package market

// Field 统一字段名, 闭合白名单
// 配置驱动的映射只能落在这张表里, 不允许凭配置内容造新字段
type Field string

const (
	FieldID               Field = "id"
	FieldClientOrderID    Field = "client_order_id"
	FieldSymbol           Field = "symbol"
	FieldTimestamp        Field = "timestamp"
	FieldNonce            Field = "nonce"
	FieldLast             Field = "last"
	FieldBid              Field = "bid"
	FieldAsk              Field = "ask"
	FieldOpen             Field = "open"
	FieldHigh             Field = "high"
	FieldLow              Field = "low"
	FieldClose            Field = "close"
	FieldVolume           Field = "volume"
	FieldVWAP             Field = "vwap"
	FieldChange           Field = "change"
	FieldPercentage       Field = "percentage"
	FieldPrice            Field = "price"
	FieldAmount           Field = "amount"
	FieldCost             Field = "cost"
	FieldSide             Field = "side"
	FieldType             Field = "type"
	FieldTakerOrMaker     Field = "taker_or_maker"
	FieldBids             Field = "bids"
	FieldAsks             Field = "asks"
	FieldStatus           Field = "status"
	FieldFilled           Field = "filled"
	FieldRemaining        Field = "remaining"
	FieldFeeCost          Field = "fee_cost"
	FieldFeeCurrency      Field = "fee_currency"
	FieldReduceOnly       Field = "reduce_only"
	FieldPostOnly         Field = "post_only"
	FieldCurrency         Field = "currency"
	FieldFree             Field = "free"
	FieldUsed             Field = "used"
	FieldTotal            Field = "total"
	FieldContracts        Field = "contracts"
	FieldEntryPrice       Field = "entry_price"
	FieldMarkPrice        Field = "mark_price"
	FieldUnrealizedPnl    Field = "unrealized_pnl"
	FieldLeverage         Field = "leverage"
	FieldLiquidationPrice Field = "liquidation_price"
	FieldMarginMode       Field = "margin_mode"
)

var knownFields = map[Field]struct{}{
	FieldID: {}, FieldClientOrderID: {}, FieldSymbol: {}, FieldTimestamp: {},
	FieldNonce: {}, FieldLast: {}, FieldBid: {}, FieldAsk: {}, FieldOpen: {},
	FieldHigh: {}, FieldLow: {}, FieldClose: {}, FieldVolume: {}, FieldVWAP: {},
	FieldChange: {}, FieldPercentage: {}, FieldPrice: {}, FieldAmount: {},
	FieldCost: {}, FieldSide: {}, FieldType: {}, FieldTakerOrMaker: {},
	FieldBids: {}, FieldAsks: {}, FieldStatus: {}, FieldFilled: {},
	FieldRemaining: {}, FieldFeeCost: {}, FieldFeeCurrency: {},
	FieldReduceOnly: {}, FieldPostOnly: {}, FieldCurrency: {}, FieldFree: {},
	FieldUsed: {}, FieldTotal: {}, FieldContracts: {}, FieldEntryPrice: {},
	FieldMarkPrice: {}, FieldUnrealizedPnl: {}, FieldLeverage: {},
	FieldLiquidationPrice: {}, FieldMarginMode: {},
}

// KnownField 校验名字是否在白名单内, 不在则返回 false
// 所有来自外部配置的字段名必须先过这道关
func KnownField(name string) (Field, bool) {
	f := Field(name)
	_, ok := knownFields[f]
	return f, ok
}
