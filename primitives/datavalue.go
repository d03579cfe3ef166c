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

// DataValue wraps a Variant with optional status and timestamp
// metadata, per the OPC UA DataValue encoding. Each optional field's
// presence is signaled by a bit in the leading encoding-mask byte.
type DataValue struct {
	Value             *Variant
	Status            *uint32
	SourceTimestamp   *DateTime
	ServerTimestamp   *DateTime
	SourcePicoseconds *uint16
	ServerPicoseconds *uint16
}

const (
	dvHasValue             = 1 << 0
	dvHasStatus            = 1 << 1
	dvHasSourceTimestamp   = 1 << 2
	dvHasServerTimestamp   = 1 << 3
	dvHasSourcePicoseconds = 1 << 4
	dvHasServerPicoseconds = 1 << 5
)

func (d DataValue) mask() byte {
	var m byte
	if d.Value != nil {
		m |= dvHasValue
	}
	if d.Status != nil {
		m |= dvHasStatus
	}
	if d.SourceTimestamp != nil {
		m |= dvHasSourceTimestamp
	}
	if d.ServerTimestamp != nil {
		m |= dvHasServerTimestamp
	}
	if d.SourcePicoseconds != nil {
		m |= dvHasSourcePicoseconds
	}
	if d.ServerPicoseconds != nil {
		m |= dvHasServerPicoseconds
	}
	return m
}

// EncodeDataValue writes the DataValue's encoding mask followed by
// each present field, in the fixed wire order: Value, Status,
// SourceTimestamp, SourcePicoseconds, ServerTimestamp,
// ServerPicoseconds.
func EncodeDataValue(buf []byte, pos int, d DataValue) (int, error) {
	pos, err := EncodeByte(buf, pos, d.mask())
	if err != nil {
		return pos, err
	}
	if d.Value != nil {
		if pos, err = EncodeVariant(buf, pos, *d.Value); err != nil {
			return pos, err
		}
	}
	if d.Status != nil {
		if pos, err = EncodeUint32(buf, pos, *d.Status); err != nil {
			return pos, err
		}
	}
	if d.SourceTimestamp != nil {
		if pos, err = EncodeDateTime(buf, pos, *d.SourceTimestamp); err != nil {
			return pos, err
		}
	}
	if d.SourcePicoseconds != nil {
		if pos, err = EncodeUint16(buf, pos, *d.SourcePicoseconds); err != nil {
			return pos, err
		}
	}
	if d.ServerTimestamp != nil {
		if pos, err = EncodeDateTime(buf, pos, *d.ServerTimestamp); err != nil {
			return pos, err
		}
	}
	if d.ServerPicoseconds != nil {
		if pos, err = EncodeUint16(buf, pos, *d.ServerPicoseconds); err != nil {
			return pos, err
		}
	}
	return pos, nil
}

// SizeDataValue returns the encoded byte size of a DataValue.
func SizeDataValue(d DataValue) (int, error) {
	size := 1
	if d.Value != nil {
		n, err := SizeVariant(*d.Value)
		if err != nil {
			return 0, err
		}
		size += n
	}
	if d.Status != nil {
		size += 4
	}
	if d.SourceTimestamp != nil {
		size += 8
	}
	if d.SourcePicoseconds != nil {
		size += 2
	}
	if d.ServerTimestamp != nil {
		size += 8
	}
	if d.ServerPicoseconds != nil {
		size += 2
	}
	return size, nil
}

// DecodeDataValue reads a DataValue's encoding mask and its present fields.
func DecodeDataValue(src []byte, pos int) (DataValue, int, error) {
	mask, pos, err := DecodeByte(src, pos)
	if err != nil {
		return DataValue{}, pos, err
	}
	var d DataValue
	if mask&dvHasValue != 0 {
		var v Variant
		v, pos, err = DecodeVariant(src, pos)
		if err != nil {
			return DataValue{}, pos, err
		}
		d.Value = &v
	}
	if mask&dvHasStatus != 0 {
		var s uint32
		s, pos, err = DecodeUint32(src, pos)
		if err != nil {
			return DataValue{}, pos, err
		}
		d.Status = &s
	}
	if mask&dvHasSourceTimestamp != 0 {
		var t DateTime
		t, pos, err = DecodeDateTime(src, pos)
		if err != nil {
			return DataValue{}, pos, err
		}
		d.SourceTimestamp = &t
	}
	if mask&dvHasSourcePicoseconds != 0 {
		var p uint16
		p, pos, err = DecodeUint16(src, pos)
		if err != nil {
			return DataValue{}, pos, err
		}
		d.SourcePicoseconds = &p
	}
	if mask&dvHasServerTimestamp != 0 {
		var t DateTime
		t, pos, err = DecodeDateTime(src, pos)
		if err != nil {
			return DataValue{}, pos, err
		}
		d.ServerTimestamp = &t
	}
	if mask&dvHasServerPicoseconds != 0 {
		var p uint16
		p, pos, err = DecodeUint16(src, pos)
		if err != nil {
			return DataValue{}, pos, err
		}
		d.ServerPicoseconds = &p
	}
	return d, pos, nil
}
