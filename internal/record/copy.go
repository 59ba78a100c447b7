package record

import (
	"bytes"
	"reflect"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuannm99/novarecord/internal/schema"
)

// Copy returns a deep copy bound to the same struct type. Byte slices, nested
// records, lists and maps are duplicated, so the copy shares no mutable
// storage with r.
func (r *Record) Copy() *Record {
	out := &Record{
		st:     r.st,
		values: make([]any, len(r.values)),
	}
	for i, v := range r.values {
		out.values[i] = copyValue(v)
	}
	return out
}

// CopyWith returns a deep copy with the named fields replaced. All names are
// resolved before anything is written.
func (r *Record) CopyWith(overrides map[string]any) (*Record, error) {
	positions := make(map[int]any, len(overrides))
	for name, v := range overrides {
		pos, ok := r.st.Position(name)
		if !ok {
			return nil, errNoField(name)
		}
		positions[pos] = v
	}
	out := r.Copy()
	for pos, v := range positions {
		out.values[pos] = normalize(v)
	}
	return out, nil
}

func copyValue(v any) any {
	switch x := v.(type) {
	case []byte:
		if x == nil {
			return []byte(nil)
		}
		return bytes.Clone(x)
	case *Record:
		if x == nil {
			return x
		}
		return x.Copy()
	case []any:
		if x == nil {
			return []any(nil)
		}
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = copyValue(e)
		}
		return out
	case map[any]any:
		if x == nil {
			return map[any]any(nil)
		}
		out := make(map[any]any, len(x))
		for k, e := range x {
			out[k] = copyValue(e)
		}
		return out
	default:
		// remaining kinds are immutable values
		return v
	}
}

// Equal reports structural equality: the same struct type and pairwise equal
// slot values.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if !schema.Equal(r.st, o.st) {
		return false
	}
	if len(r.values) != len(o.values) {
		return false
	}
	for i := range r.values {
		if !valuesEqual(r.values[i], o.values[i]) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	switch x := a.(type) {
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case decimal.Decimal:
		y, ok := b.(decimal.Decimal)
		return ok && x.Equal(y)
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case *Record:
		y, ok := b.(*Record)
		return ok && x.Equal(y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !valuesEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[any]any:
		y, ok := b.(map[any]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, e := range x {
			f, found := y[k]
			if !found || !valuesEqual(e, f) {
				return false
			}
		}
		return true
	default:
		if KindOf(a) == KindUnknown {
			// unchecked writes may hold any Go value
			return reflect.DeepEqual(a, b)
		}
		return a == b
	}
}
