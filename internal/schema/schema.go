package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateField   = errors.New("schema: duplicate field name")
	ErrDuplicateFieldID = errors.New("schema: duplicate field id")
	ErrInvalidType      = errors.New("schema: invalid type")
	ErrFieldNotFound    = errors.New("schema: field not found")
)

// Schema is the top-level struct of a table row plus lookup indexes over the
// whole field tree. A Schema is never mutated after New returns.
type Schema struct {
	id   int
	root *StructType
	byID map[int]NestedField
}

func New(fields ...NestedField) (*Schema, error) {
	return NewWithID(0, fields...)
}

// NewWithID builds a schema and checks that field ids are unique across all
// nesting levels, including list elements and map keys/values.
func NewWithID(id int, fields ...NestedField) (*Schema, error) {
	root, err := NewStructType(fields...)
	if err != nil {
		return nil, err
	}
	s := &Schema{id: id, root: root, byID: make(map[int]NestedField)}
	if err := s.indexStruct(root); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Schema) indexStruct(st *StructType) error {
	for _, f := range st.fields {
		if err := s.addID(f); err != nil {
			return err
		}
		if err := s.indexType(f.Type); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) indexType(t Type) error {
	switch x := t.(type) {
	case *StructType:
		return s.indexStruct(x)
	case *ListType:
		if err := s.addID(NestedField{ID: x.ElementID, Name: "element", Type: x.Element, Required: x.ElementRequired}); err != nil {
			return err
		}
		return s.indexType(x.Element)
	case *MapType:
		if err := s.addID(NestedField{ID: x.KeyID, Name: "key", Type: x.Key, Required: true}); err != nil {
			return err
		}
		if err := s.addID(NestedField{ID: x.ValueID, Name: "value", Type: x.Value, Required: x.ValueRequired}); err != nil {
			return err
		}
		if err := s.indexType(x.Key); err != nil {
			return err
		}
		return s.indexType(x.Value)
	}
	return nil
}

func (s *Schema) addID(f NestedField) error {
	if prev, dup := s.byID[f.ID]; dup {
		return fmt.Errorf("%w: %d used by %q and %q", ErrDuplicateFieldID, f.ID, prev.Name, f.Name)
	}
	s.byID[f.ID] = f
	return nil
}

func (s *Schema) ID() int { return s.id }

func (s *Schema) AsStruct() *StructType { return s.root }

func (s *Schema) Columns() []NestedField { return s.root.Fields() }

// FindField resolves a dotted path such as "address.city" through nested
// structs.
func (s *Schema) FindField(path string) (NestedField, error) {
	st := s.root
	parts := strings.Split(path, ".")
	for i, name := range parts {
		f, ok := st.Field(name)
		if !ok {
			return NestedField{}, fmt.Errorf("%w: %q", ErrFieldNotFound, path)
		}
		if i == len(parts)-1 {
			return f, nil
		}
		next, ok := AsStruct(f.Type)
		if !ok {
			return NestedField{}, fmt.Errorf("%w: %q (%s is not a struct)", ErrFieldNotFound, path, name)
		}
		st = next
	}
	return NestedField{}, fmt.Errorf("%w: %q", ErrFieldNotFound, path)
}

func (s *Schema) FindType(path string) (Type, error) {
	f, err := s.FindField(path)
	if err != nil {
		return nil, err
	}
	return f.Type, nil
}

func (s *Schema) FindFieldByID(id int) (NestedField, bool) {
	f, ok := s.byID[id]
	return f, ok
}

func (s *Schema) String() string {
	var b strings.Builder
	b.WriteString("table {\n")
	for _, f := range s.root.fields {
		b.WriteString("  ")
		b.WriteString(f.String())
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}
