/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package primitives

import "fmt"

// BuiltinType identifies the wire type carried by a Variant, per the
// low 6 bits of its OPC UA encoding mask.
type BuiltinType byte

// Builtin scalar types this facade supports. OPC UA defines more
// (arrays, structures, extension objects); the codec's test suite and
// the DataSetMessage field encodings only exercise scalars, so array
// and extension-object support is left for a future revision rather
// than half-built here.
const (
	TypeBoolean    BuiltinType = 1
	TypeSByte      BuiltinType = 2
	TypeByte       BuiltinType = 3
	TypeInt16      BuiltinType = 4
	TypeUInt16     BuiltinType = 5
	TypeInt32      BuiltinType = 6
	TypeUInt32     BuiltinType = 7
	TypeInt64      BuiltinType = 8
	TypeUInt64     BuiltinType = 9
	TypeFloat      BuiltinType = 10
	TypeDouble     BuiltinType = 11
	TypeString     BuiltinType = 12
	TypeDateTime   BuiltinType = 13
	TypeGUID       BuiltinType = 14
	TypeByteString BuiltinType = 15
)

const (
	variantArrayMask     = 0x80
	variantDimensionMask = 0x40
	variantTypeMask      = 0x3F
)

// Variant is a tagged scalar value, as carried by DataSetMessage
// fields encoded with FieldEncodingVariant or nested inside a
// DataValue.
type Variant struct {
	Type  BuiltinType
	Value any
}

// EncodeVariant writes the Variant's encoding-mask byte followed by
// its scalar body.
func EncodeVariant(buf []byte, pos int, v Variant) (int, error) {
	pos, err := EncodeByte(buf, pos, byte(v.Type))
	if err != nil {
		return pos, err
	}
	return encodeScalar(buf, pos, v.Type, v.Value)
}

// SizeVariant returns the encoded byte size of a Variant.
func SizeVariant(v Variant) (int, error) {
	n, err := sizeScalar(v.Type, v.Value)
	if err != nil {
		return 0, err
	}
	return 1 + n, nil
}

// DecodeVariant reads a Variant's encoding-mask byte and scalar body.
// Array-valued and multi-dimensional-array Variants are rejected:
// this facade only supports the scalar subset the codec's field
// encodings need.
func DecodeVariant(src []byte, pos int) (Variant, int, error) {
	mask, pos, err := DecodeByte(src, pos)
	if err != nil {
		return Variant{}, pos, err
	}
	if mask&variantArrayMask != 0 || mask&variantDimensionMask != 0 {
		return Variant{}, pos, fmt.Errorf("array-valued Variant is not supported")
	}
	typ := BuiltinType(mask & variantTypeMask)
	val, pos, err := decodeScalar(src, pos, typ)
	if err != nil {
		return Variant{}, pos, err
	}
	return Variant{Type: typ, Value: val}, pos, nil
}

func encodeScalar(buf []byte, pos int, typ BuiltinType, v any) (int, error) {
	switch typ {
	case TypeBoolean:
		return EncodeBool(buf, pos, v.(bool))
	case TypeSByte:
		return EncodeByte(buf, pos, byte(v.(int8)))
	case TypeByte:
		return EncodeByte(buf, pos, v.(byte))
	case TypeInt16:
		return EncodeInt16(buf, pos, v.(int16))
	case TypeUInt16:
		return EncodeUint16(buf, pos, v.(uint16))
	case TypeInt32:
		return EncodeInt32(buf, pos, v.(int32))
	case TypeUInt32:
		return EncodeUint32(buf, pos, v.(uint32))
	case TypeInt64:
		return EncodeInt64(buf, pos, v.(int64))
	case TypeUInt64:
		return EncodeUint64(buf, pos, v.(uint64))
	case TypeFloat:
		return EncodeFloat32(buf, pos, v.(float32))
	case TypeDouble:
		return EncodeFloat64(buf, pos, v.(float64))
	case TypeString:
		s := v.(*string)
		return EncodeString(buf, pos, s)
	case TypeDateTime:
		return EncodeDateTime(buf, pos, v.(DateTime))
	case TypeGUID:
		return EncodeGUID(buf, pos, v.(GUID))
	case TypeByteString:
		return EncodeByteString(buf, pos, v.([]byte))
	default:
		return pos, fmt.Errorf("unsupported builtin type %d", typ)
	}
}

func decodeScalar(src []byte, pos int, typ BuiltinType) (any, int, error) {
	switch typ {
	case TypeBoolean:
		return DecodeBool(src, pos)
	case TypeSByte:
		b, pos, err := DecodeByte(src, pos)
		return int8(b), pos, err
	case TypeByte:
		return DecodeByte(src, pos)
	case TypeInt16:
		return DecodeInt16(src, pos)
	case TypeUInt16:
		return DecodeUint16(src, pos)
	case TypeInt32:
		return DecodeInt32(src, pos)
	case TypeUInt32:
		return DecodeUint32(src, pos)
	case TypeInt64:
		return DecodeInt64(src, pos)
	case TypeUInt64:
		return DecodeUint64(src, pos)
	case TypeFloat:
		return DecodeFloat32(src, pos)
	case TypeDouble:
		return DecodeFloat64(src, pos)
	case TypeString:
		return DecodeString(src, pos)
	case TypeDateTime:
		return DecodeDateTime(src, pos)
	case TypeGUID:
		return DecodeGUID(src, pos)
	case TypeByteString:
		return DecodeByteString(src, pos)
	default:
		return nil, pos, fmt.Errorf("unsupported builtin type %d", typ)
	}
}

func sizeScalar(typ BuiltinType, v any) (int, error) {
	switch typ {
	case TypeBoolean, TypeSByte, TypeByte:
		return 1, nil
	case TypeInt16, TypeUInt16:
		return 2, nil
	case TypeInt32, TypeUInt32, TypeFloat:
		return 4, nil
	case TypeInt64, TypeUInt64, TypeDouble, TypeDateTime:
		return 8, nil
	case TypeString:
		return SizeString(v.(*string)), nil
	case TypeGUID:
		return guidSize, nil
	case TypeByteString:
		return SizeByteString(v.([]byte)), nil
	default:
		return 0, fmt.Errorf("unsupported builtin type %d", typ)
	}
}
