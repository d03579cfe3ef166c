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

import "time"

// epochOffset is the number of 100ns intervals between the OPC UA
// DateTime epoch (1601-01-01T00:00:00Z) and the Unix epoch.
const epochOffset = 116444736000000000

// ticksPerSecond is the number of 100ns intervals in one second.
const ticksPerSecond = 10000000

// DateTime encodes/decodes an OPC UA DateTime: an int64 count of
// 100ns intervals since 1601-01-01, little-endian on the wire.
// Modeled on the teacher's Timestamp/NewTimestamp conversion pair,
// but carried as a single int64 tick count rather than a
// seconds+nanoseconds struct, since OPC UA's DateTime is one field.
type DateTime int64

// NewDateTime converts a time.Time to a DateTime.
func NewDateTime(t time.Time) DateTime {
	if t.IsZero() {
		return 0
	}
	unixTicks := t.Unix()*ticksPerSecond + int64(t.Nanosecond())/100
	return DateTime(unixTicks + epochOffset)
}

// Time converts a DateTime back to a time.Time in UTC.
func (d DateTime) Time() time.Time {
	if d == 0 {
		return time.Time{}
	}
	unixTicks := int64(d) - epochOffset
	sec := unixTicks / ticksPerSecond
	nsec := (unixTicks % ticksPerSecond) * 100
	return time.Unix(sec, nsec).UTC()
}

// EncodeDateTime writes a little-endian DateTime at pos.
func EncodeDateTime(buf []byte, pos int, v DateTime) (int, error) {
	return EncodeInt64(buf, pos, int64(v))
}

// DecodeDateTime reads a little-endian DateTime at pos.
func DecodeDateTime(src []byte, pos int) (DateTime, int, error) {
	v, pos, err := DecodeInt64(src, pos)
	return DateTime(v), pos, err
}
