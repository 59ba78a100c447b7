package schema

import (
	"fmt"
	"strings"
)

type TypeID uint8

const (
	TypeBoolean TypeID = iota + 1
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeDate
	TypeTime
	TypeTimestamp
	TypeString
	TypeUUID
	TypeBinary
	TypeDecimal
	TypeStruct
	TypeList
	TypeMap
)

var typeIDNames = map[TypeID]string{
	TypeBoolean:   "boolean",
	TypeInt:       "int",
	TypeLong:      "long",
	TypeFloat:     "float",
	TypeDouble:    "double",
	TypeDate:      "date",
	TypeTime:      "time",
	TypeTimestamp: "timestamp",
	TypeString:    "string",
	TypeUUID:      "uuid",
	TypeBinary:    "binary",
	TypeDecimal:   "decimal",
	TypeStruct:    "struct",
	TypeList:      "list",
	TypeMap:       "map",
}

func (id TypeID) String() string {
	if s, ok := typeIDNames[id]; ok {
		return s
	}
	return fmt.Sprintf("TypeID(%d)", uint8(id))
}

// Type describes the declared type of a field. Implementations are immutable
// and may be shared between schemas.
type Type interface {
	TypeID() TypeID
	IsPrimitive() bool
	IsStruct() bool
	String() string
}

// PrimitiveType covers every primitive without parameters.
type PrimitiveType struct {
	id TypeID
}

func (p PrimitiveType) TypeID() TypeID    { return p.id }
func (p PrimitiveType) IsPrimitive() bool { return true }
func (p PrimitiveType) IsStruct() bool    { return false }
func (p PrimitiveType) String() string    { return p.id.String() }

var (
	BooleanType   Type = PrimitiveType{id: TypeBoolean}
	IntType       Type = PrimitiveType{id: TypeInt}
	LongType      Type = PrimitiveType{id: TypeLong}
	FloatType     Type = PrimitiveType{id: TypeFloat}
	DoubleType    Type = PrimitiveType{id: TypeDouble}
	DateType      Type = PrimitiveType{id: TypeDate}
	TimeType      Type = PrimitiveType{id: TypeTime}
	TimestampType Type = PrimitiveType{id: TypeTimestamp}
	StringType    Type = PrimitiveType{id: TypeString}
	UUIDType      Type = PrimitiveType{id: TypeUUID}
	BinaryType    Type = PrimitiveType{id: TypeBinary}
)

var primitivesByName = map[string]Type{
	"boolean":   BooleanType,
	"int":       IntType,
	"long":      LongType,
	"float":     FloatType,
	"double":    DoubleType,
	"date":      DateType,
	"time":      TimeType,
	"timestamp": TimestampType,
	"string":    StringType,
	"uuid":      UUIDType,
	"binary":    BinaryType,
}

// DecimalType is a fixed-point decimal with the given precision and scale.
type DecimalType struct {
	Precision int
	Scale     int
}

func (d DecimalType) TypeID() TypeID    { return TypeDecimal }
func (d DecimalType) IsPrimitive() bool { return true }
func (d DecimalType) IsStruct() bool    { return false }
func (d DecimalType) String() string {
	return fmt.Sprintf("decimal(%d, %d)", d.Precision, d.Scale)
}

// ListType holds elements of a single type. The element has its own field ID.
type ListType struct {
	ElementID       int
	Element         Type
	ElementRequired bool
}

func (l *ListType) TypeID() TypeID    { return TypeList }
func (l *ListType) IsPrimitive() bool { return false }
func (l *ListType) IsStruct() bool    { return false }
func (l *ListType) String() string    { return "list<" + l.Element.String() + ">" }

// MapType maps keys to values; keys are always required.
type MapType struct {
	KeyID         int
	Key           Type
	ValueID       int
	Value         Type
	ValueRequired bool
}

func (m *MapType) TypeID() TypeID    { return TypeMap }
func (m *MapType) IsPrimitive() bool { return false }
func (m *MapType) IsStruct() bool    { return false }
func (m *MapType) String() string {
	return "map<" + m.Key.String() + ", " + m.Value.String() + ">"
}

// NestedField is one field descriptor of a struct.
type NestedField struct {
	ID       int
	Name     string
	Type     Type
	Required bool
	Doc      string
}

func Optional(id int, name string, t Type) NestedField {
	return NestedField{ID: id, Name: name, Type: t}
}

func Required(id int, name string, t Type) NestedField {
	return NestedField{ID: id, Name: name, Type: t, Required: true}
}

func (f NestedField) String() string {
	req := "optional"
	if f.Required {
		req = "required"
	}
	return fmt.Sprintf("%d: %s: %s %s", f.ID, f.Name, req, f.Type)
}

// StructType is an ordered list of fields. The name index is built once at
// construction, so every record bound to the same struct resolves names to
// the same position.
type StructType struct {
	fields []NestedField
	byName map[string]int
}

// NewStructType builds a struct from fields. Names must be unique within
// this level.
func NewStructType(fields ...NestedField) (*StructType, error) {
	st := &StructType{
		fields: make([]NestedField, len(fields)),
		byName: make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Type == nil {
			return nil, fmt.Errorf("%w: field %q has no type", ErrInvalidType, f.Name)
		}
		if _, dup := st.byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, f.Name)
		}
		st.fields[i] = f
		st.byName[f.Name] = i
	}
	return st, nil
}

// MustStruct is NewStructType for literals; it panics on invalid input.
func MustStruct(fields ...NestedField) *StructType {
	st, err := NewStructType(fields...)
	if err != nil {
		panic(err)
	}
	return st
}

func (s *StructType) TypeID() TypeID    { return TypeStruct }
func (s *StructType) IsPrimitive() bool { return false }
func (s *StructType) IsStruct() bool    { return true }

func (s *StructType) String() string {
	parts := make([]string, len(s.fields))
	for i, f := range s.fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return "struct<" + strings.Join(parts, ", ") + ">"
}

func (s *StructType) NumFields() int { return len(s.fields) }

// Fields returns a copy of the field list.
func (s *StructType) Fields() []NestedField {
	out := make([]NestedField, len(s.fields))
	copy(out, s.fields)
	return out
}

func (s *StructType) FieldAt(pos int) NestedField { return s.fields[pos] }

func (s *StructType) Position(name string) (int, bool) {
	pos, ok := s.byName[name]
	return pos, ok
}

func (s *StructType) Field(name string) (NestedField, bool) {
	pos, ok := s.byName[name]
	if !ok {
		return NestedField{}, false
	}
	return s.fields[pos], true
}

// AsStruct returns t as a struct type when it is one.
func AsStruct(t Type) (*StructType, bool) {
	st, ok := t.(*StructType)
	return st, ok
}

// Equal reports whether a and b describe the same type, including field ids,
// names and requiredness of nested fields.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.TypeID() != b.TypeID() {
		return false
	}
	switch x := a.(type) {
	case *StructType:
		y := b.(*StructType)
		if x == y {
			return true
		}
		if len(x.fields) != len(y.fields) {
			return false
		}
		for i := range x.fields {
			fa, fb := x.fields[i], y.fields[i]
			if fa.ID != fb.ID || fa.Name != fb.Name || fa.Required != fb.Required {
				return false
			}
			if !Equal(fa.Type, fb.Type) {
				return false
			}
		}
		return true
	case *ListType:
		y := b.(*ListType)
		return x.ElementID == y.ElementID &&
			x.ElementRequired == y.ElementRequired &&
			Equal(x.Element, y.Element)
	case *MapType:
		y := b.(*MapType)
		return x.KeyID == y.KeyID && x.ValueID == y.ValueID &&
			x.ValueRequired == y.ValueRequired &&
			Equal(x.Key, y.Key) && Equal(x.Value, y.Value)
	case DecimalType:
		return x == b.(DecimalType)
	default:
		return true
	}
}
