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

// Package primitives implements the binary encoding of the OPC UA
// built-in scalar types that the UADP codec is layered on: byte/uint/
// string/GUID/DateTime primitives plus the tagged Variant and
// DataValue wire formats.
//
// All OPC UA binary encoding is little-endian, unlike most wire
// protocols in this codebase's lineage (PTP is big-endian). Every
// encoder here takes a destination slice and a cursor position and
// returns the position after the write; every decoder takes a source
// slice and a cursor position and returns the decoded value plus the
// position after the read. Overrunning either end of the slice is
// reported as an error rather than panicking.
package primitives

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ErrShortBuffer is returned when an encode target has too little
// remaining space.
var ErrShortBuffer = fmt.Errorf("not enough space in destination buffer")

// ErrShortSource is returned when a decode source has too little
// remaining data.
var ErrShortSource = fmt.Errorf("not enough data in source buffer")

func need(buf []byte, pos, n int) error {
	if pos < 0 || n < 0 || pos+n > len(buf) {
		return ErrShortBuffer
	}
	return nil
}

func have(src []byte, pos, n int) error {
	if pos < 0 || n < 0 || pos+n > len(src) {
		return ErrShortSource
	}
	return nil
}

// EncodeByte writes a single byte at pos.
func EncodeByte(buf []byte, pos int, v byte) (int, error) {
	if err := need(buf, pos, 1); err != nil {
		return pos, err
	}
	buf[pos] = v
	return pos + 1, nil
}

// DecodeByte reads a single byte at pos.
func DecodeByte(src []byte, pos int) (byte, int, error) {
	if err := have(src, pos, 1); err != nil {
		return 0, pos, err
	}
	return src[pos], pos + 1, nil
}

// EncodeBool writes a Boolean as a single byte, 0 or 1.
func EncodeBool(buf []byte, pos int, v bool) (int, error) {
	var b byte
	if v {
		b = 1
	}
	return EncodeByte(buf, pos, b)
}

// DecodeBool reads a Boolean from a single byte; any non-zero byte is true.
func DecodeBool(src []byte, pos int) (bool, int, error) {
	b, pos, err := DecodeByte(src, pos)
	return b != 0, pos, err
}

// EncodeUint16 writes a little-endian uint16 at pos.
func EncodeUint16(buf []byte, pos int, v uint16) (int, error) {
	if err := need(buf, pos, 2); err != nil {
		return pos, err
	}
	binary.LittleEndian.PutUint16(buf[pos:], v)
	return pos + 2, nil
}

// DecodeUint16 reads a little-endian uint16 at pos.
func DecodeUint16(src []byte, pos int) (uint16, int, error) {
	if err := have(src, pos, 2); err != nil {
		return 0, pos, err
	}
	return binary.LittleEndian.Uint16(src[pos:]), pos + 2, nil
}

// EncodeInt16 writes a little-endian int16 at pos.
func EncodeInt16(buf []byte, pos int, v int16) (int, error) {
	return EncodeUint16(buf, pos, uint16(v))
}

// DecodeInt16 reads a little-endian int16 at pos.
func DecodeInt16(src []byte, pos int) (int16, int, error) {
	v, pos, err := DecodeUint16(src, pos)
	return int16(v), pos, err
}

// EncodeUint32 writes a little-endian uint32 at pos.
func EncodeUint32(buf []byte, pos int, v uint32) (int, error) {
	if err := need(buf, pos, 4); err != nil {
		return pos, err
	}
	binary.LittleEndian.PutUint32(buf[pos:], v)
	return pos + 4, nil
}

// DecodeUint32 reads a little-endian uint32 at pos.
func DecodeUint32(src []byte, pos int) (uint32, int, error) {
	if err := have(src, pos, 4); err != nil {
		return 0, pos, err
	}
	return binary.LittleEndian.Uint32(src[pos:]), pos + 4, nil
}

// EncodeInt32 writes a little-endian int32 at pos.
func EncodeInt32(buf []byte, pos int, v int32) (int, error) {
	return EncodeUint32(buf, pos, uint32(v))
}

// DecodeInt32 reads a little-endian int32 at pos.
func DecodeInt32(src []byte, pos int) (int32, int, error) {
	v, pos, err := DecodeUint32(src, pos)
	return int32(v), pos, err
}

// EncodeUint64 writes a little-endian uint64 at pos.
func EncodeUint64(buf []byte, pos int, v uint64) (int, error) {
	if err := need(buf, pos, 8); err != nil {
		return pos, err
	}
	binary.LittleEndian.PutUint64(buf[pos:], v)
	return pos + 8, nil
}

// DecodeUint64 reads a little-endian uint64 at pos.
func DecodeUint64(src []byte, pos int) (uint64, int, error) {
	if err := have(src, pos, 8); err != nil {
		return 0, pos, err
	}
	return binary.LittleEndian.Uint64(src[pos:]), pos + 8, nil
}

// EncodeInt64 writes a little-endian int64 at pos.
func EncodeInt64(buf []byte, pos int, v int64) (int, error) {
	return EncodeUint64(buf, pos, uint64(v))
}

// DecodeInt64 reads a little-endian int64 at pos.
func DecodeInt64(src []byte, pos int) (int64, int, error) {
	v, pos, err := DecodeUint64(src, pos)
	return int64(v), pos, err
}

// EncodeFloat32 writes a little-endian IEEE-754 float32 at pos.
func EncodeFloat32(buf []byte, pos int, v float32) (int, error) {
	return EncodeUint32(buf, pos, math.Float32bits(v))
}

// DecodeFloat32 reads a little-endian IEEE-754 float32 at pos.
func DecodeFloat32(src []byte, pos int) (float32, int, error) {
	bits, pos, err := DecodeUint32(src, pos)
	return math.Float32frombits(bits), pos, err
}

// EncodeFloat64 writes a little-endian IEEE-754 float64 at pos.
func EncodeFloat64(buf []byte, pos int, v float64) (int, error) {
	return EncodeUint64(buf, pos, math.Float64bits(v))
}

// DecodeFloat64 reads a little-endian IEEE-754 float64 at pos.
func DecodeFloat64(src []byte, pos int) (float64, int, error) {
	bits, pos, err := DecodeUint64(src, pos)
	return math.Float64frombits(bits), pos, err
}

// EncodeBytes copies v verbatim at pos, with no length prefix.
func EncodeBytes(buf []byte, pos int, v []byte) (int, error) {
	if err := need(buf, pos, len(v)); err != nil {
		return pos, err
	}
	copy(buf[pos:], v)
	return pos + len(v), nil
}

// DecodeBytes copies n bytes starting at pos into a new slice.
func DecodeBytes(src []byte, pos, n int) ([]byte, int, error) {
	if err := have(src, pos, n); err != nil {
		return nil, pos, err
	}
	out := make([]byte, n)
	copy(out, src[pos:pos+n])
	return out, pos + n, nil
}
