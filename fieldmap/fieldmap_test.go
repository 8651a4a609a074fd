package fieldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZenHive/ccxt-client-sub002/market"
	"github.com/ZenHive/ccxt-client-sub002/venueconf"
)

func mappingVenue() *venueconf.Venue {
	return &venueconf.Venue{
		Name: "okx",
		Mappings: map[string]map[string]*venueconf.FieldDescriptor{
			"trades": {
				"price":     {Category: "safe_accessor", TypeSignature: "Num = number", Keys: []string{"px"}},
				"amount":    {Category: "safe_accessor", TypeSignature: "Num = number", Keys: []string{"sz"}},
				"timestamp": {Category: "safe_accessor", TypeSignature: "Int = integer", Keys: []string{"ts"}},
				"side":      {Category: "safe_accessor", TypeSignature: "Str = string", Keys: []string{"side"}},
				"id":        {Category: "safe_accessor", TypeSignature: "Str = string", Keys: []string{"tradeId", "trade_id"}},
			},
			"orders": {
				"taker_or_maker": {
					Category:   "boolean_derivation",
					Keys:       []string{"isMaker", "execType"},
					TrueValue:  "maker",
					FalseValue: "taker",
				},
				"post_only": {Category: "boolean_derivation"},
				"datetime":  {Category: "iso8601", Keys: []string{"cTime"}},
				"info":      {Category: "undefined"},
				"status":    {Category: "computed", Keys: []string{"state"}},
				"leverage":  {Category: "safe_accessor", TypeSignature: "Num = number", Keys: []string{"lever"}, SafeFn: "string"},
				"whatever":  {Category: "safe_accessor", TypeSignature: "Str = string"},
			},
		},
	}
}

func TestCompileOrderedInstructions(t *testing.T) {
	instrs := Compile(mappingVenue(), "trades")
	assert.Len(t, instrs, 5)

	// 指令按字段名稳定排序
	fields := make([]market.Field, 0, len(instrs))
	for _, in := range instrs {
		fields = append(fields, in.Field)
	}
	assert.Equal(t, []market.Field{
		market.FieldAmount,
		market.FieldID,
		market.FieldPrice,
		market.FieldSide,
		market.FieldTimestamp,
	}, fields)
}

func TestCompileKinds(t *testing.T) {
	instrs := Compile(mappingVenue(), "trades")
	byField := make(map[market.Field]Instruction)
	for _, in := range instrs {
		byField[in.Field] = in
	}
	assert.Equal(t, KindNumeric, byField[market.FieldPrice].Kind)
	assert.Equal(t, KindInteger, byField[market.FieldTimestamp].Kind)
	assert.Equal(t, KindString, byField[market.FieldSide].Kind)
	assert.Equal(t, []string{"tradeId", "trade_id"}, byField[market.FieldID].Keys)
}

func TestCompileSkipsUnsupportedCategories(t *testing.T) {
	instrs := Compile(mappingVenue(), "orders")
	byField := make(map[market.Field]Instruction)
	for _, in := range instrs {
		byField[in.Field] = in
	}

	// computed/iso8601/undefined 跳过
	_, ok := byField[market.FieldStatus]
	assert.False(t, ok)

	// 无源键的布尔派生静默跳过
	_, ok = byField[market.FieldPostOnly]
	assert.False(t, ok)

	// 白名单之外的字段名丢弃
	for f := range byField {
		_, known := market.KnownField(string(f))
		assert.True(t, known)
	}

	// 布尔派生携带两极值
	tm := byField[market.FieldTakerOrMaker]
	assert.Equal(t, KindBoolEnum, tm.Kind)
	assert.Equal(t, "maker", tm.TrueValue)
	assert.Equal(t, "taker", tm.FalseValue)
}

func TestCompileSafeFnOverride(t *testing.T) {
	instrs := Compile(mappingVenue(), "orders")
	for _, in := range instrs {
		if in.Field == market.FieldLeverage {
			// safe_fn 显式覆盖类型签名推导
			assert.Equal(t, KindString, in.Kind)
			return
		}
	}
	t.Fatal("leverage instruction missing")
}

func TestCompileDefaultKeys(t *testing.T) {
	// 没写源键时用字段名本身当源键
	venue := &venueconf.Venue{
		Name: "x",
		Mappings: map[string]map[string]*venueconf.FieldDescriptor{
			"ticker": {
				"last": {Category: "safe_accessor", TypeSignature: "Num = number"},
			},
		},
	}
	instrs := Compile(venue, "ticker")
	assert.Len(t, instrs, 1)
	assert.Equal(t, []string{"last"}, instrs[0].Keys)
}

func TestCompileNilWhenNothingUsable(t *testing.T) {
	assert.Nil(t, Compile(mappingVenue(), "balance"))

	venue := &venueconf.Venue{
		Name: "x",
		Mappings: map[string]map[string]*venueconf.FieldDescriptor{
			"ticker": {
				"datetime": {Category: "iso8601"},
			},
		},
	}
	assert.Nil(t, Compile(venue, "ticker"))
}
