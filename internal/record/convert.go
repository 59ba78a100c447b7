package record

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuannm99/novarecord/internal/schema"
)

// FromMap builds a record of type st from loosely typed data such as decoded
// YAML or JSON. Values are coerced to the representation of each declared
// type; keys that are not fields of st are rejected.
func FromMap(st *schema.StructType, m map[string]any) (*Record, error) {
	r, err := CreateStruct(st)
	if err != nil {
		return nil, err
	}
	for name, raw := range m {
		pos, ok := st.Position(name)
		if !ok {
			return nil, errNoField(name)
		}
		v, err := coerce(st.FieldAt(pos).Type, raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		r.values[pos] = v
	}
	return r, nil
}

// ToMap is the inverse of FromMap. Binary values become base64 strings and
// decimals, times and UUIDs their text form, so the result marshals cleanly
// to YAML or JSON.
func (r *Record) ToMap() map[string]any {
	out := make(map[string]any, len(r.values))
	for i, f := range r.st.Fields() {
		out[f.Name] = exportValue(r.values[i])
	}
	return out
}

func mismatch(t schema.Type, v any) error {
	return &TypeMismatchError{Want: KindFor(t).String(), Value: v}
}

func coerce(t schema.Type, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t.TypeID() {
	case schema.TypeBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case schema.TypeInt:
		if n, ok := toInt64(v); ok && n >= math.MinInt32 && n <= math.MaxInt32 {
			return int32(n), nil
		}
	case schema.TypeLong:
		if n, ok := toInt64(v); ok {
			return n, nil
		}
	case schema.TypeFloat:
		if f, ok := toFloat64(v); ok {
			return float32(f), nil
		}
	case schema.TypeDouble:
		if f, ok := toFloat64(v); ok {
			return f, nil
		}
	case schema.TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case schema.TypeBinary:
		switch x := v.(type) {
		case []byte:
			return x, nil
		case string:
			b, err := base64.StdEncoding.DecodeString(x)
			if err == nil {
				return b, nil
			}
		}
	case schema.TypeDecimal:
		switch x := v.(type) {
		case decimal.Decimal:
			return x, nil
		case string:
			d, err := decimal.NewFromString(x)
			if err == nil {
				return d, nil
			}
		case float64:
			return decimal.NewFromFloat(x), nil
		case int:
			return decimal.NewFromInt(int64(x)), nil
		case int64:
			return decimal.NewFromInt(x), nil
		}
	case schema.TypeDate, schema.TypeTimestamp:
		switch x := v.(type) {
		case time.Time:
			return x, nil
		case string:
			for _, layout := range []string{time.RFC3339Nano, time.DateOnly, time.DateTime} {
				if ts, err := time.Parse(layout, x); err == nil {
					return ts, nil
				}
			}
		}
	case schema.TypeTime:
		switch x := v.(type) {
		case time.Duration:
			return x, nil
		case string:
			if clock, err := time.Parse("15:04:05.999999999", x); err == nil {
				h, m, s := clock.Clock()
				return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
					time.Duration(s)*time.Second + time.Duration(clock.Nanosecond()), nil
			}
			if d, err := time.ParseDuration(x); err == nil {
				return d, nil
			}
		}
	case schema.TypeUUID:
		switch x := v.(type) {
		case uuid.UUID:
			return x, nil
		case string:
			if u, err := uuid.Parse(x); err == nil {
				return u, nil
			}
		}
	case schema.TypeStruct:
		st, _ := schema.AsStruct(t)
		switch x := v.(type) {
		case *Record:
			if x == nil {
				return nil, nil
			}
			if !schema.Equal(x.Struct(), st) {
				return nil, mismatch(t, v)
			}
			return x, nil
		case map[string]any:
			return FromMap(st, x)
		}
	case schema.TypeList:
		lt := t.(*schema.ListType)
		if xs, ok := v.([]any); ok {
			out := make([]any, len(xs))
			for i, e := range xs {
				ce, err := coerce(lt.Element, e)
				if err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				out[i] = ce
			}
			return out, nil
		}
	case schema.TypeMap:
		mt := t.(*schema.MapType)
		out := make(map[any]any)
		put := func(k, e any) error {
			ck, err := coerce(mt.Key, k)
			if err != nil {
				return fmt.Errorf("key %v: %w", k, err)
			}
			if KindOf(ck) == KindBinary {
				return fmt.Errorf("key %v: %w", k, mismatch(mt.Key, k))
			}
			ce, err := coerce(mt.Value, e)
			if err != nil {
				return fmt.Errorf("value for %v: %w", k, err)
			}
			out[ck] = ce
			return nil
		}
		switch x := v.(type) {
		case map[string]any:
			for k, e := range x {
				if err := put(k, e); err != nil {
					return nil, err
				}
			}
			return out, nil
		case map[any]any:
			for k, e := range x {
				if err := put(k, e); err != nil {
					return nil, err
				}
			}
			return out, nil
		}
	}
	return nil, mismatch(t, v)
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x), true
		}
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
			return int64(x), true
		}
	case string:
		// JSON object keys are always strings
		n, err := strconv.ParseInt(x, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

func exportValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return base64.StdEncoding.EncodeToString(x)
	case decimal.Decimal:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case time.Duration:
		return x.String()
	case uuid.UUID:
		return x.String()
	case *Record:
		if x == nil {
			return nil
		}
		return x.ToMap()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = exportValue(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			key, ok := exportValue(k).(string)
			if !ok {
				key = fmt.Sprint(k)
			}
			out[key] = exportValue(e)
		}
		return out
	default:
		return v
	}
}
