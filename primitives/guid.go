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

import (
	"fmt"

	"github.com/google/uuid"
)

// GUID is an OPC UA 128-bit GUID. It wraps google/uuid.UUID for
// string formatting and comparison, but its wire layout is not plain
// RFC 4122 bytes: the first three fields (Data1 uint32, Data2 uint16,
// Data3 uint16) are little-endian on the wire while Data4 (the
// trailing 8 bytes) is copied verbatim, per the OPC UA binary
// encoding rules for the Guid built-in type.
type GUID struct {
	id uuid.UUID
}

// NewGUID wraps an existing uuid.UUID as a GUID.
func NewGUID(id uuid.UUID) GUID {
	return GUID{id: id}
}

// String formats the GUID in standard hyphenated form.
func (g GUID) String() string {
	return g.id.String()
}

// Equal reports whether two GUIDs carry the same value.
func (g GUID) Equal(o GUID) bool {
	return g.id == o.id
}

// IsZero reports whether the GUID is the all-zero nil GUID.
func (g GUID) IsZero() bool {
	return g.id == uuid.Nil
}

// guidSize is the wire size of a GUID: always 16 bytes.
const guidSize = 16

// EncodeGUID writes the 16-byte OPC UA GUID wire form at pos.
func EncodeGUID(buf []byte, pos int, g GUID) (int, error) {
	if err := need(buf, pos, guidSize); err != nil {
		return pos, err
	}
	b := g.id // [16]byte, RFC 4122 big-endian field layout
	buf[pos+0] = b[3]
	buf[pos+1] = b[2]
	buf[pos+2] = b[1]
	buf[pos+3] = b[0]
	buf[pos+4] = b[5]
	buf[pos+5] = b[4]
	buf[pos+6] = b[7]
	buf[pos+7] = b[6]
	copy(buf[pos+8:pos+16], b[8:16])
	return pos + guidSize, nil
}

// DecodeGUID reads a 16-byte OPC UA GUID wire form at pos.
func DecodeGUID(src []byte, pos int) (GUID, int, error) {
	if err := have(src, pos, guidSize); err != nil {
		return GUID{}, pos, err
	}
	var b [16]byte
	b[3] = src[pos+0]
	b[2] = src[pos+1]
	b[1] = src[pos+2]
	b[0] = src[pos+3]
	b[5] = src[pos+4]
	b[4] = src[pos+5]
	b[7] = src[pos+6]
	b[6] = src[pos+7]
	copy(b[8:16], src[pos+8:pos+16])
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		return GUID{}, pos, fmt.Errorf("decoding GUID: %w", err)
	}
	return GUID{id: id}, pos + guidSize, nil
}
