package storage

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuannm99/novarecord/internal/alias/bx"
	"github.com/tuannm99/novarecord/internal/record"
	"github.com/tuannm99/novarecord/internal/schema"
)

// ---- Errors ----
var (
	ErrSchemaMismatch  = errors.New("rowcodec: schema/values mismatch")
	ErrNullNotAllowed  = errors.New("rowcodec: null in required field")
	ErrBadBuffer       = errors.New("rowcodec: buffer underflow/overflow")
	ErrUnsupportedType = errors.New("rowcodec: unsupported type")
	ErrVarTooLong      = errors.New("rowcodec: variable-length value too long")
)

// maxVarLen is the largest payload a u32 length prefix can describe.
var maxVarLen uint64 = math.MaxUint32

// ---- EncodeRecord(r) -> []byte ----
// Format of a struct:
// [nullmap: ceil(N/8) bytes, bit=1 => NULL]  |  [field0 data?] [field1 data?] ...
// Fixed widths are little-endian. Dates and timestamps are i64 Unix seconds
// + u32 nanoseconds. Varlen types (string, binary, decimal text) are u32
// length + data. Nested structs use the same layout recursively.
// Lists: u32 count, then per element a null flag byte and the element.
// Maps: u32 count, then per entry the key, a null flag byte and the value,
// ordered by encoded key so equal maps encode identically.
func EncodeRecord(r *record.Record) ([]byte, error) {
	return appendStruct(nil, r.Struct(), r)
}

func appendStruct(out []byte, st *schema.StructType, r *record.Record) ([]byte, error) {
	nc := st.NumFields()
	if r.Size() != nc {
		return nil, ErrSchemaMismatch
	}

	// null bitmap
	nb := len(out)
	out = append(out, make([]byte, (nc+7)/8)...)

	for i := 0; i < nc; i++ {
		col := st.FieldAt(i)
		v, err := r.At(i)
		if err != nil {
			return nil, err
		}
		if v == nil {
			if col.Required {
				return nil, fmt.Errorf("%w: %q", ErrNullNotAllowed, col.Name)
			}
			out[nb+i/8] |= 1 << (uint(i) & 7) // bit=1 => NULL
			continue
		}
		out, err = appendValue(out, col.Type, v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", col.Name, err)
		}
	}
	return out, nil
}

func appendValue(out []byte, t schema.Type, v any) ([]byte, error) {
	switch t.TypeID() {
	case schema.TypeBoolean:
		x, ok := v.(bool)
		if !ok {
			return nil, mismatch(t, v)
		}
		if x {
			return append(out, 1), nil
		}
		return append(out, 0), nil

	case schema.TypeInt:
		x, ok := asInt32(v)
		if !ok {
			return nil, mismatch(t, v)
		}
		return bx.AppendU32(out, uint32(x)), nil

	case schema.TypeLong:
		x, ok := asInt64(v)
		if !ok {
			return nil, mismatch(t, v)
		}
		return bx.AppendU64(out, uint64(x)), nil

	case schema.TypeFloat:
		x, ok := v.(float32)
		if !ok {
			return nil, mismatch(t, v)
		}
		return bx.AppendU32(out, math.Float32bits(x)), nil

	case schema.TypeDouble:
		x, ok := asFloat64(v)
		if !ok {
			return nil, mismatch(t, v)
		}
		return bx.AppendU64(out, math.Float64bits(x)), nil

	case schema.TypeDate, schema.TypeTimestamp:
		x, ok := v.(time.Time)
		if !ok {
			return nil, mismatch(t, v)
		}
		out = bx.AppendU64(out, uint64(x.Unix()))
		return bx.AppendU32(out, uint32(x.Nanosecond())), nil

	case schema.TypeTime:
		x, ok := v.(time.Duration)
		if !ok {
			return nil, mismatch(t, v)
		}
		return bx.AppendU64(out, uint64(x)), nil

	case schema.TypeString:
		// expect string -> UTF-8 bytes
		str, ok := v.(string)
		if !ok {
			return nil, mismatch(t, v)
		}
		return appendVar(out, []byte(str))

	case schema.TypeBinary:
		bs, ok := v.([]byte)
		if !ok {
			return nil, mismatch(t, v)
		}
		return appendVar(out, bs)

	case schema.TypeDecimal:
		d, ok := v.(decimal.Decimal)
		if !ok {
			return nil, mismatch(t, v)
		}
		return appendVar(out, []byte(d.String()))

	case schema.TypeUUID:
		u, ok := v.(uuid.UUID)
		if !ok {
			return nil, mismatch(t, v)
		}
		return append(out, u[:]...), nil

	case schema.TypeStruct:
		nested, ok := v.(*record.Record)
		if !ok || nested == nil {
			return nil, mismatch(t, v)
		}
		st, _ := schema.AsStruct(t)
		if !schema.Equal(st, nested.Struct()) {
			return nil, fmt.Errorf("%w: nested record is %s, want %s", ErrSchemaMismatch, nested.Struct(), st)
		}
		return appendStruct(out, st, nested)

	case schema.TypeList:
		lt := t.(*schema.ListType)
		xs, ok := v.([]any)
		if !ok {
			return nil, mismatch(t, v)
		}
		if uint64(len(xs)) > maxVarLen {
			return nil, fmt.Errorf("%w: %d list elements", ErrVarTooLong, len(xs))
		}
		out = bx.AppendU32(out, uint32(len(xs)))
		for i, e := range xs {
			var err error
			out, err = appendOptional(out, lt.Element, lt.ElementRequired, e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
		}
		return out, nil

	case schema.TypeMap:
		mt := t.(*schema.MapType)
		m, ok := v.(map[any]any)
		if !ok {
			return nil, mismatch(t, v)
		}
		entries := make([][]byte, 0, len(m))
		for k, e := range m {
			if k == nil {
				return nil, fmt.Errorf("%w: null map key", ErrNullNotAllowed)
			}
			ent, err := appendValue(nil, mt.Key, k)
			if err != nil {
				return nil, fmt.Errorf("key %v: %w", k, err)
			}
			ent, err = appendOptional(ent, mt.Value, mt.ValueRequired, e)
			if err != nil {
				return nil, fmt.Errorf("value for %v: %w", k, err)
			}
			entries = append(entries, ent)
		}
		if uint64(len(entries)) > maxVarLen {
			return nil, fmt.Errorf("%w: %d map entries", ErrVarTooLong, len(entries))
		}
		slices.SortFunc(entries, bytes.Compare)
		out = bx.AppendU32(out, uint32(len(entries)))
		for _, ent := range entries {
			out = append(out, ent...)
		}
		return out, nil

	default:
		return nil, ErrUnsupportedType
	}
}

func appendOptional(out []byte, t schema.Type, required bool, v any) ([]byte, error) {
	if v == nil {
		if required {
			return nil, ErrNullNotAllowed
		}
		return append(out, 1), nil
	}
	return appendValue(append(out, 0), t, v)
}

func appendVar(out, p []byte) ([]byte, error) {
	if uint64(len(p)) > maxVarLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrVarTooLong, len(p))
	}
	return bx.AppendBytes(out, p), nil
}

func mismatch(t schema.Type, v any) error {
	return fmt.Errorf("%w: %T is not %s", ErrSchemaMismatch, v, t)
}

// ---- DecodeRecord(st, buf) -> *record.Record ----
// The decoded record owns all of its buffers; nothing aliases buf.
func DecodeRecord(st *schema.StructType, buf []byte) (*record.Record, error) {
	rd := bx.NewReader(buf)
	r, err := readStruct(rd, st)
	if err != nil {
		if errors.Is(err, bx.ErrShortBuffer) {
			return nil, fmt.Errorf("%w: %v", ErrBadBuffer, err)
		}
		return nil, err
	}
	// trailing bytes are left for future extensions
	return r, nil
}

func readStruct(rd *bx.Reader, st *schema.StructType) (*record.Record, error) {
	nc := st.NumFields()
	nullmap, err := rd.Next((nc + 7) / 8)
	if err != nil {
		return nil, err
	}

	out, err := record.CreateStruct(st)
	if err != nil {
		return nil, err
	}
	for colIdx := 0; colIdx < nc; colIdx++ {
		isNull := (nullmap[colIdx/8]>>(uint(colIdx)&7))&1 == 1
		if isNull {
			continue
		}
		v, err := readValue(rd, st.FieldAt(colIdx).Type)
		if err != nil {
			return nil, err
		}
		if err := out.Set(colIdx, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readValue(rd *bx.Reader, t schema.Type) (any, error) {
	switch t.TypeID() {
	case schema.TypeBoolean:
		b, err := rd.U8()
		return b != 0, err

	case schema.TypeInt:
		x, err := rd.U32()
		return int32(x), err

	case schema.TypeLong:
		x, err := rd.U64()
		return int64(x), err

	case schema.TypeFloat:
		x, err := rd.U32()
		return math.Float32frombits(x), err

	case schema.TypeDouble:
		x, err := rd.U64()
		return math.Float64frombits(x), err

	case schema.TypeDate, schema.TypeTimestamp:
		sec, err := rd.U64()
		if err != nil {
			return nil, err
		}
		nsec, err := rd.U32()
		if err != nil {
			return nil, err
		}
		if nsec >= 1e9 {
			return nil, fmt.Errorf("%w: nanoseconds %d out of range", ErrBadBuffer, nsec)
		}
		return time.Unix(int64(sec), int64(nsec)).UTC(), nil

	case schema.TypeTime:
		x, err := rd.U64()
		return time.Duration(x), err

	case schema.TypeString:
		bs, err := rd.Bytes()
		if err != nil {
			return nil, err
		}
		return string(bs), nil // UTF-8

	case schema.TypeBinary:
		return rd.Bytes()

	case schema.TypeDecimal:
		bs, err := rd.Bytes()
		if err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(string(bs))
		if err != nil {
			return nil, fmt.Errorf("%w: decimal %q", ErrBadBuffer, bs)
		}
		return d, nil

	case schema.TypeUUID:
		p, err := rd.Next(16)
		if err != nil {
			return nil, err
		}
		var u uuid.UUID
		copy(u[:], p)
		return u, nil

	case schema.TypeStruct:
		st, _ := schema.AsStruct(t)
		return readStruct(rd, st)

	case schema.TypeList:
		lt := t.(*schema.ListType)
		n, err := readCount(rd)
		if err != nil {
			return nil, err
		}
		xs := make([]any, n)
		for i := range xs {
			if xs[i], err = readOptional(rd, lt.Element); err != nil {
				return nil, err
			}
		}
		return xs, nil

	case schema.TypeMap:
		mt := t.(*schema.MapType)
		n, err := readCount(rd)
		if err != nil {
			return nil, err
		}
		m := make(map[any]any, n)
		for i := 0; i < n; i++ {
			k, err := readValue(rd, mt.Key)
			if err != nil {
				return nil, err
			}
			if record.KindOf(k) == record.KindBinary || record.KindOf(k) == record.KindStruct {
				return nil, fmt.Errorf("%w: map key of type %s", ErrUnsupportedType, mt.Key)
			}
			v, err := readOptional(rd, mt.Value)
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
		return m, nil

	default:
		return nil, ErrUnsupportedType
	}
}

func readOptional(rd *bx.Reader, t schema.Type) (any, error) {
	flag, err := rd.U8()
	if err != nil {
		return nil, err
	}
	if flag == 1 {
		return nil, nil
	}
	return readValue(rd, t)
}

// readCount bounds a collection length by the bytes left, so a corrupt
// count cannot trigger a huge allocation.
func readCount(rd *bx.Reader) (int, error) {
	n, err := rd.U32()
	if err != nil {
		return 0, err
	}
	if int(n) > rd.Remaining() {
		return 0, bx.ErrShortBuffer
	}
	return int(n), nil
}

// ---- small helpers to accept multiple numeric types on encode ----
func asInt32(v any) (int32, bool) {
	switch x := v.(type) {
	case int32:
		return x, true
	case int:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return int32(x), true
		}
	case int64:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return int32(x), true
		}
	}
	return 0, false
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	return 0, false
}
