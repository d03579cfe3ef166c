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

// String and ByteString both use OPC UA's length-prefixed layout: a
// little-endian int32 length followed by that many bytes, with -1
// reserved for "null" (as distinct from a present-but-empty value).
// Modeled on the cursor-based length-prefix idiom the teacher uses
// for PTPText, but widened to OPC UA's int32 length and nullability.

const nullLength int32 = -1

// EncodeString writes a UTF-8 String. A nil *string encodes as null.
func EncodeString(buf []byte, pos int, v *string) (int, error) {
	if v == nil {
		return EncodeInt32(buf, pos, nullLength)
	}
	return encodeLengthPrefixed(buf, pos, []byte(*v))
}

// DecodeString reads a UTF-8 String. A null on the wire decodes to nil.
func DecodeString(src []byte, pos int) (*string, int, error) {
	b, pos, err := decodeLengthPrefixed(src, pos)
	if err != nil {
		return nil, pos, err
	}
	if b == nil {
		return nil, pos, nil
	}
	s := string(b)
	return &s, pos, nil
}

// EncodeByteString writes a ByteString. A nil slice encodes as null,
// distinct from a present-but-empty ByteString.
func EncodeByteString(buf []byte, pos int, v []byte) (int, error) {
	if v == nil {
		return EncodeInt32(buf, pos, nullLength)
	}
	return encodeLengthPrefixed(buf, pos, v)
}

// DecodeByteString reads a ByteString. A null on the wire decodes to nil.
func DecodeByteString(src []byte, pos int) ([]byte, int, error) {
	return decodeLengthPrefixed(src, pos)
}

func encodeLengthPrefixed(buf []byte, pos int, v []byte) (int, error) {
	pos, err := EncodeInt32(buf, pos, int32(len(v)))
	if err != nil {
		return pos, err
	}
	return EncodeBytes(buf, pos, v)
}

func decodeLengthPrefixed(src []byte, pos int) ([]byte, int, error) {
	length, pos, err := DecodeInt32(src, pos)
	if err != nil {
		return nil, pos, err
	}
	if length < 0 {
		return nil, pos, nil
	}
	if length == 0 {
		return []byte{}, pos, nil
	}
	return DecodeBytes(src, pos, int(length))
}

// SizeString returns the encoded byte size of a String (4 + len, or 4 for null).
func SizeString(v *string) int {
	if v == nil {
		return 4
	}
	return 4 + len(*v)
}

// SizeByteString returns the encoded byte size of a ByteString.
func SizeByteString(v []byte) int {
	if v == nil {
		return 4
	}
	return 4 + len(v)
}
