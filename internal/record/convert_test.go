package record

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novarecord/internal/schema"
)

func makeAllTypesSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New(
		schema.Required(1, "flag", schema.BooleanType),
		schema.Required(2, "i32", schema.IntType),
		schema.Required(3, "i64", schema.LongType),
		schema.Optional(4, "f32", schema.FloatType),
		schema.Optional(5, "f64", schema.DoubleType),
		schema.Optional(6, "day", schema.DateType),
		schema.Optional(7, "at", schema.TimeType),
		schema.Optional(8, "ts", schema.TimestampType),
		schema.Optional(9, "name", schema.StringType),
		schema.Optional(10, "uid", schema.UUIDType),
		schema.Optional(11, "blob", schema.BinaryType),
		schema.Optional(12, "price", schema.DecimalType{Precision: 9, Scale: 2}),
		schema.Optional(13, "tags", &schema.ListType{ElementID: 14, Element: schema.StringType}),
		schema.Optional(15, "counts", &schema.MapType{KeyID: 16, Key: schema.LongType, ValueID: 17, Value: schema.IntType}),
		schema.Optional(18, "owner", schema.MustStruct(
			schema.Required(19, "login", schema.StringType),
		)),
	)
	require.NoError(t, err)
	return s
}

func TestFromMap_AllTypes(t *testing.T) {
	s := makeAllTypesSchema(t)
	id := uuid.New()

	r, err := FromMap(s.AsStruct(), map[string]any{
		"flag":   true,
		"i32":    7,
		"i64":    float64(1 << 40),
		"f32":    1.5,
		"f64":    2,
		"day":    "2024-02-29",
		"at":     "10:30:00",
		"ts":     "2024-02-29T10:30:00Z",
		"name":   "nova",
		"uid":    id.String(),
		"blob":   "AQID",
		"price":  "19.99",
		"tags":   []any{"a", nil, "b"},
		"counts": map[string]any{"1": 10, "2": 20},
		"owner":  map[string]any{"login": "tuan"},
	})
	require.NoError(t, err)

	want := map[int]Kind{
		0: KindBool, 1: KindInt, 2: KindLong, 3: KindFloat, 4: KindDouble,
		5: KindTimestamp, 6: KindTime, 7: KindTimestamp, 8: KindString,
		9: KindUUID, 10: KindBinary, 11: KindDecimal, 12: KindList,
		13: KindMap, 14: KindStruct,
	}
	for pos, k := range want {
		_, err := r.Get(pos, k)
		require.NoError(t, err, "field %d", pos)
		require.Equal(t, k, KindFor(r.Fields()[pos].Type))
	}

	at, _ := As[time.Duration](r, 6)
	require.Equal(t, 10*time.Hour+30*time.Minute, at)
	blob, _ := As[[]byte](r, 10)
	require.Equal(t, []byte{1, 2, 3}, blob)
	price, _ := As[decimal.Decimal](r, 11)
	require.True(t, price.Equal(decimal.RequireFromString("19.99")))
	counts, _ := As[map[any]any](r, 13)
	require.Equal(t, map[any]any{int64(1): int32(10), int64(2): int32(20)}, counts)
	uid, _ := As[uuid.UUID](r, 9)
	require.Equal(t, id, uid)
}

func TestFromMap_Errors(t *testing.T) {
	s := makeAllTypesSchema(t)

	t.Run("unknown field", func(t *testing.T) {
		_, err := FromMap(s.AsStruct(), map[string]any{"nope": 1})
		require.ErrorIs(t, err, ErrNoSuchField)
	})

	t.Run("int overflow", func(t *testing.T) {
		_, err := FromMap(s.AsStruct(), map[string]any{"i32": int64(1) << 40})
		require.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("bad nested element", func(t *testing.T) {
		_, err := FromMap(s.AsStruct(), map[string]any{"tags": []any{"a", 3}})
		require.ErrorIs(t, err, ErrTypeMismatch)
		require.Contains(t, err.Error(), `field "tags": element 1`)
	})

	t.Run("bad uuid", func(t *testing.T) {
		_, err := FromMap(s.AsStruct(), map[string]any{"uid": "xyz"})
		require.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("nested record of another struct", func(t *testing.T) {
		other, err := CreateStruct(schema.MustStruct(schema.Optional(99, "zzz", schema.IntType)))
		require.NoError(t, err)
		_, err = FromMap(s.AsStruct(), map[string]any{"owner": other})
		require.ErrorIs(t, err, ErrTypeMismatch)
		require.Contains(t, err.Error(), `field "owner"`)
	})

	t.Run("nested unknown field", func(t *testing.T) {
		_, err := FromMap(s.AsStruct(), map[string]any{"owner": map[string]any{"x": 1}})
		require.ErrorIs(t, err, ErrNoSuchField)
	})
}

func TestFromMap_NestedRecord(t *testing.T) {
	s := makeAllTypesSchema(t)
	ownerType, err := s.FindType("owner")
	require.NoError(t, err)
	owner, err := CreateStruct(ownerType.(*schema.StructType))
	require.NoError(t, err)
	require.NoError(t, owner.SetField("login", "tuan"))

	r, err := FromMap(s.AsStruct(), map[string]any{"owner": owner})
	require.NoError(t, err)
	got, err := r.GetField("owner")
	require.NoError(t, err)
	require.Same(t, owner, got)

	var none *Record
	r, err = FromMap(s.AsStruct(), map[string]any{"owner": none})
	require.NoError(t, err)
	pos, _ := s.AsStruct().Position("owner")
	require.True(t, r.IsNull(pos))
}

func TestToMap_RoundTrip(t *testing.T) {
	s := makeAllTypesSchema(t)
	in := map[string]any{
		"flag":   false,
		"i32":    1,
		"i64":    2,
		"ts":     "2024-01-02T03:04:05Z",
		"at":     "01:02:03",
		"blob":   "AAEC",
		"price":  "1.50",
		"uid":    "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"tags":   []any{"x"},
		"counts": map[string]any{"3": 4},
		"owner":  map[string]any{"login": "a"},
	}
	r, err := FromMap(s.AsStruct(), in)
	require.NoError(t, err)

	out := r.ToMap()
	require.Equal(t, "AAEC", out["blob"])
	require.Equal(t, "2024-01-02T03:04:05Z", out["ts"])
	require.Equal(t, map[string]any{"3": int32(4)}, out["counts"])
	require.Equal(t, map[string]any{"login": "a"}, out["owner"])
	require.Nil(t, out["name"])

	back, err := FromMap(s.AsStruct(), out)
	require.NoError(t, err)
	require.True(t, back.Equal(r))
}

func TestKindOf(t *testing.T) {
	var nilRec *Record
	require.Equal(t, KindNull, KindOf(nil))
	require.Equal(t, KindNull, KindOf(nilRec))
	require.Equal(t, KindUnknown, KindOf(uint8(1)))
	require.Equal(t, KindUnknown, KindOf([]string{"a"}))
	require.Equal(t, "int64", KindOf(int64(1)).String())
	require.Equal(t, "*record.Record", KindStruct.String())
	require.Equal(t, "unknown", Kind(200).String())
}
