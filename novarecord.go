// Package novarecord is the public facade over the record and schema packages.
package novarecord

import (
	"github.com/tuannm99/novarecord/internal/record"
	"github.com/tuannm99/novarecord/internal/schema"
)

type (
	Record      = record.Record
	Kind        = record.Kind
	Schema      = schema.Schema
	StructType  = schema.StructType
	NestedField = schema.NestedField
	Type        = schema.Type
)

var (
	ErrInvalidSchema   = record.ErrInvalidSchema
	ErrIndexOutOfRange = record.ErrIndexOutOfRange
	ErrNoSuchField     = record.ErrNoSuchField
	ErrTypeMismatch    = record.ErrTypeMismatch
)

const (
	KindNull      = record.KindNull
	KindBool      = record.KindBool
	KindInt       = record.KindInt
	KindLong      = record.KindLong
	KindFloat     = record.KindFloat
	KindDouble    = record.KindDouble
	KindString    = record.KindString
	KindBinary    = record.KindBinary
	KindDecimal   = record.KindDecimal
	KindTimestamp = record.KindTimestamp
	KindTime      = record.KindTime
	KindUUID      = record.KindUUID
	KindStruct    = record.KindStruct
	KindList      = record.KindList
	KindMap       = record.KindMap
)

func Create(s *Schema) (*Record, error) { return record.Create(s) }

func CreateStruct(st *StructType) (*Record, error) { return record.CreateStruct(st) }

func ParseSchema(data []byte) (*Schema, error) { return schema.Parse(data) }

// As is the generic checked read, see record.As.
func As[T any](r *Record, pos int) (T, error) { return record.As[T](r, pos) }
