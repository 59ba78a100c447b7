package record

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/tuannm99/novarecord/internal/schema"
)

// Record is one row of data shaped by a struct type. Slot i holds the value
// of field i, or nil when the field is unset.
//
// Reads through Get and As are checked against the caller's expected type;
// writes through Set are not checked against the declared type. A Record is
// not safe for concurrent use; hand a Copy to another goroutine instead.
type Record struct {
	st     *schema.StructType
	values []any
}

// Create returns an empty record for the top-level struct of s.
func Create(s *schema.Schema) (*Record, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	return CreateStruct(s.AsStruct())
}

// CreateStruct returns an empty record for st. Records for struct-typed
// fields are created this way.
func CreateStruct(st *schema.StructType) (*Record, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: nil struct type", ErrInvalidSchema)
	}
	return &Record{
		st:     st,
		values: make([]any, st.NumFields()),
	}, nil
}

func (r *Record) Struct() *schema.StructType { return r.st }

func (r *Record) Size() int { return len(r.values) }

// Fields lists the bound struct's fields in slot order.
func (r *Record) Fields() []schema.NestedField { return r.st.Fields() }

func (r *Record) checkPos(pos int) error {
	if pos < 0 || pos >= len(r.values) {
		return errIndex(pos, len(r.values))
	}
	return nil
}

// At returns the raw value at pos without a type assertion.
func (r *Record) At(pos int) (any, error) {
	if err := r.checkPos(pos); err != nil {
		return nil, err
	}
	return r.values[pos], nil
}

// Get returns the value at pos, asserting that it is of kind want. Unset
// slots return nil for any want.
func (r *Record) Get(pos int, want Kind) (any, error) {
	v, err := r.At(pos)
	if err != nil || isNull(v) {
		return nil, err
	}
	if KindOf(v) != want {
		return nil, &TypeMismatchError{Want: want.String(), Value: v}
	}
	return v, nil
}

// As is the generic form of Get. T may be an interface, in which case any
// implementing value passes. Unset slots return the zero T.
func As[T any](r *Record, pos int) (T, error) {
	var zero T
	v, err := r.At(pos)
	if err != nil || isNull(v) {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, &TypeMismatchError{Want: reflect.TypeFor[T]().String(), Value: v}
	}
	return t, nil
}

// Set stores v at pos. The value is not checked against the field type.
// A nil *Record is stored as an unset slot.
func (r *Record) Set(pos int, v any) error {
	if err := r.checkPos(pos); err != nil {
		return err
	}
	r.values[pos] = normalize(v)
	return nil
}

func (r *Record) IsNull(pos int) bool {
	return pos >= 0 && pos < len(r.values) && isNull(r.values[pos])
}

func isNull(v any) bool { return KindOf(v) == KindNull }

func normalize(v any) any {
	if isNull(v) {
		return nil
	}
	return v
}

func (r *Record) GetField(name string) (any, error) {
	pos, ok := r.st.Position(name)
	if !ok {
		return nil, errNoField(name)
	}
	return r.values[pos], nil
}

func (r *Record) SetField(name string, v any) error {
	pos, ok := r.st.Position(name)
	if !ok {
		return errNoField(name)
	}
	r.values[pos] = normalize(v)
	return nil
}

func (r *Record) String() string {
	parts := make([]string, len(r.values))
	for i, v := range r.values {
		parts[i] = formatValue(v)
	}
	return "Record(" + strings.Join(parts, ", ") + ")"
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case []byte:
		return fmt.Sprintf("0x%X", x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case *Record:
		if x == nil {
			return "null"
		}
		return x.String()
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[any]any:
		parts := make([]string, 0, len(x))
		for k, e := range x {
			parts = append(parts, formatValue(k)+"="+formatValue(e))
		}
		sort.Strings(parts)
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}
