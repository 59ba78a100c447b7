package record

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuannm99/novarecord/internal/schema"
)

// Kind tags the host representation of a slot value. The set is closed:
// KindOf returns KindUnknown for anything else.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNull
	KindBool
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
	KindBinary
	KindDecimal
	KindTimestamp
	KindTime
	KindUUID
	KindStruct
	KindList
	KindMap
)

// Names are the Go types carried by each kind.
var kindNames = [...]string{
	KindUnknown:   "unknown",
	KindNull:      "nil",
	KindBool:      "bool",
	KindInt:       "int32",
	KindLong:      "int64",
	KindFloat:     "float32",
	KindDouble:    "float64",
	KindString:    "string",
	KindBinary:    "[]byte",
	KindDecimal:   "decimal.Decimal",
	KindTimestamp: "time.Time",
	KindTime:      "time.Duration",
	KindUUID:      "uuid.UUID",
	KindStruct:    "*record.Record",
	KindList:      "[]any",
	KindMap:       "map[any]any",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// KindOf classifies v by its dynamic type.
func KindOf(v any) Kind {
	switch x := v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int32:
		return KindInt
	case int64:
		return KindLong
	case float32:
		return KindFloat
	case float64:
		return KindDouble
	case string:
		return KindString
	case []byte:
		return KindBinary
	case decimal.Decimal:
		return KindDecimal
	case time.Time:
		return KindTimestamp
	case time.Duration:
		return KindTime
	case uuid.UUID:
		return KindUUID
	case *Record:
		if x == nil {
			return KindNull
		}
		return KindStruct
	case []any:
		return KindList
	case map[any]any:
		return KindMap
	default:
		return KindUnknown
	}
}

// KindFor returns the representation used for values of a declared type.
func KindFor(t schema.Type) Kind {
	switch t.TypeID() {
	case schema.TypeBoolean:
		return KindBool
	case schema.TypeInt:
		return KindInt
	case schema.TypeLong:
		return KindLong
	case schema.TypeFloat:
		return KindFloat
	case schema.TypeDouble:
		return KindDouble
	case schema.TypeString:
		return KindString
	case schema.TypeBinary:
		return KindBinary
	case schema.TypeDecimal:
		return KindDecimal
	case schema.TypeDate, schema.TypeTimestamp:
		return KindTimestamp
	case schema.TypeTime:
		return KindTime
	case schema.TypeUUID:
		return KindUUID
	case schema.TypeStruct:
		return KindStruct
	case schema.TypeList:
		return KindList
	case schema.TypeMap:
		return KindMap
	default:
		return KindUnknown
	}
}
