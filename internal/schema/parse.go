package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Schema documents use the Iceberg table-schema layout:
//
//	type: struct
//	schema-id: 0
//	fields:
//	  - {id: 1, name: id, required: true, type: long}
//	  - id: 2
//	    name: tags
//	    required: false
//	    type: {type: list, element-id: 3, element: string, element-required: false}
//
// JSON is valid YAML, so the same parser reads both.

type structDoc struct {
	Type     string     `mapstructure:"type"`
	SchemaID int        `mapstructure:"schema-id"`
	Fields   []fieldDoc `mapstructure:"fields"`

	// accepted for compatibility with Iceberg metadata, not used
	IdentifierFieldIDs []int `mapstructure:"identifier-field-ids"`
}

type fieldDoc struct {
	ID       int    `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Required bool   `mapstructure:"required"`
	Type     any    `mapstructure:"type"`
	Doc      string `mapstructure:"doc"`
}

type listDoc struct {
	Type            string `mapstructure:"type"`
	ElementID       int    `mapstructure:"element-id"`
	Element         any    `mapstructure:"element"`
	ElementRequired bool   `mapstructure:"element-required"`
}

type mapDoc struct {
	Type          string `mapstructure:"type"`
	KeyID         int    `mapstructure:"key-id"`
	Key           any    `mapstructure:"key"`
	ValueID       int    `mapstructure:"value-id"`
	Value         any    `mapstructure:"value"`
	ValueRequired bool   `mapstructure:"value-required"`
}

var decimalRe = regexp.MustCompile(`^decimal\(\s*(\d+)\s*,\s*(\d+)\s*\)$`)

// Parse reads a YAML or JSON schema document.
func Parse(data []byte) (*Schema, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty schema document", ErrInvalidType)
	}

	var doc structDoc
	if err := decode(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Type != "" && doc.Type != "struct" {
		return nil, fmt.Errorf("%w: schema root must be a struct, got %q", ErrInvalidType, doc.Type)
	}
	fields, err := parseFields(doc.Fields)
	if err != nil {
		return nil, err
	}
	return NewWithID(doc.SchemaID, fields...)
}

// LoadFile reads and parses a schema document from disk.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Parse(data)
}

func decode(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidType, err)
	}
	return nil
}

func parseFields(docs []fieldDoc) ([]NestedField, error) {
	fields := make([]NestedField, 0, len(docs))
	for _, fd := range docs {
		if fd.Name == "" {
			return nil, fmt.Errorf("%w: field %d has no name", ErrInvalidType, fd.ID)
		}
		t, err := parseType(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fd.Name, err)
		}
		fields = append(fields, NestedField{
			ID:       fd.ID,
			Name:     fd.Name,
			Type:     t,
			Required: fd.Required,
			Doc:      fd.Doc,
		})
	}
	return fields, nil
}

func parseType(v any) (Type, error) {
	switch x := v.(type) {
	case string:
		return parsePrimitive(x)
	case map[string]any:
		kind, _ := x["type"].(string)
		switch kind {
		case "struct":
			var doc structDoc
			if err := decode(x, &doc); err != nil {
				return nil, err
			}
			fields, err := parseFields(doc.Fields)
			if err != nil {
				return nil, err
			}
			return NewStructType(fields...)
		case "list":
			var doc listDoc
			if err := decode(x, &doc); err != nil {
				return nil, err
			}
			elem, err := parseType(doc.Element)
			if err != nil {
				return nil, err
			}
			return &ListType{ElementID: doc.ElementID, Element: elem, ElementRequired: doc.ElementRequired}, nil
		case "map":
			var doc mapDoc
			if err := decode(x, &doc); err != nil {
				return nil, err
			}
			key, err := parseType(doc.Key)
			if err != nil {
				return nil, err
			}
			val, err := parseType(doc.Value)
			if err != nil {
				return nil, err
			}
			return &MapType{
				KeyID:         doc.KeyID,
				Key:           key,
				ValueID:       doc.ValueID,
				Value:         val,
				ValueRequired: doc.ValueRequired,
			}, nil
		default:
			return nil, fmt.Errorf("%w: unknown nested type %q", ErrInvalidType, kind)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidType, v)
	}
}

func parsePrimitive(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if t, ok := primitivesByName[name]; ok {
		return t, nil
	}
	if m := decimalRe.FindStringSubmatch(name); m != nil {
		p, _ := strconv.Atoi(m[1])
		sc, _ := strconv.Atoi(m[2])
		if sc > p {
			return nil, fmt.Errorf("%w: decimal scale %d exceeds precision %d", ErrInvalidType, sc, p)
		}
		return DecimalType{Precision: p, Scale: sc}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// ---- JSON output ----

type structJSON struct {
	Type     string      `json:"type"`
	SchemaID *int        `json:"schema-id,omitempty"`
	Fields   []fieldJSON `json:"fields"`
}

type fieldJSON struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Type     any    `json:"type"`
	Doc      string `json:"doc,omitempty"`
}

type listJSON struct {
	Type            string `json:"type"`
	ElementID       int    `json:"element-id"`
	Element         any    `json:"element"`
	ElementRequired bool   `json:"element-required"`
}

type mapJSON struct {
	Type          string `json:"type"`
	KeyID         int    `json:"key-id"`
	Key           any    `json:"key"`
	ValueID       int    `json:"value-id"`
	Value         any    `json:"value"`
	ValueRequired bool   `json:"value-required"`
}

// Marshal renders s as an indented JSON schema document that Parse accepts.
func Marshal(s *Schema) ([]byte, error) {
	id := s.id
	root := structToJSON(s.root)
	root.SchemaID = &id
	return json.MarshalIndent(root, "", "  ")
}

func structToJSON(st *StructType) structJSON {
	out := structJSON{Type: "struct", Fields: make([]fieldJSON, len(st.fields))}
	for i, f := range st.fields {
		out.Fields[i] = fieldJSON{
			ID:       f.ID,
			Name:     f.Name,
			Required: f.Required,
			Type:     typeToJSON(f.Type),
			Doc:      f.Doc,
		}
	}
	return out
}

func typeToJSON(t Type) any {
	switch x := t.(type) {
	case *StructType:
		return structToJSON(x)
	case *ListType:
		return listJSON{
			Type:            "list",
			ElementID:       x.ElementID,
			Element:         typeToJSON(x.Element),
			ElementRequired: x.ElementRequired,
		}
	case *MapType:
		return mapJSON{
			Type:          "map",
			KeyID:         x.KeyID,
			Key:           typeToJSON(x.Key),
			ValueID:       x.ValueID,
			Value:         typeToJSON(x.Value),
			ValueRequired: x.ValueRequired,
		}
	case DecimalType:
		return fmt.Sprintf("decimal(%d,%d)", x.Precision, x.Scale)
	default:
		return t.String()
	}
}
