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

package uadp

import "github.com/opcfoundation-pubsub/uadp-codec/primitives"

// OffsetKind names the semantic role of a byte position recorded by
// CalcSizeBinaryOffsets into an OffsetBuffer, per spec.md §3.
type OffsetKind byte

// OffsetKind values.
const (
	OffsetFieldEncoding OffsetKind = iota
	OffsetPublisherID
	OffsetWriterGroupID
	OffsetDataSetWriterID
	OffsetNetworkMessageSequenceNumber
	OffsetDataSetMessageSequenceNumber
	OffsetTimestamp
	OffsetTimestampPicoseconds
	OffsetPayloadDataValue
	OffsetPayloadVariant
	OffsetPayloadRaw
)

func (k OffsetKind) String() string {
	switch k {
	case OffsetFieldEncoding:
		return "FieldEncoding"
	case OffsetPublisherID:
		return "PublisherId"
	case OffsetWriterGroupID:
		return "WriterGroupId"
	case OffsetDataSetWriterID:
		return "DataSetWriterId"
	case OffsetNetworkMessageSequenceNumber:
		return "NetworkMessage_SequenceNumber"
	case OffsetDataSetMessageSequenceNumber:
		return "DataSetMessage_SequenceNumber"
	case OffsetTimestamp:
		return "Timestamp"
	case OffsetTimestampPicoseconds:
		return "Timestamp_Picoseconds"
	case OffsetPayloadDataValue:
		return "Payload_DataValue"
	case OffsetPayloadVariant:
		return "Payload_Variant"
	case OffsetPayloadRaw:
		return "Payload_Raw"
	default:
		return "Unknown"
	}
}

// OffsetContent is the cached value carried by a NetworkMessageOffset,
// a union keyed by the owning entry's OffsetKind: sequence-number
// entries cache a counter, payload entries cache a DataValue (a bare
// Variant is wrapped as DataValue{Value: &v} to share one field).
// Raw entries additionally carry a byte length, since a Raw field's
// "value" is an opaque slice rather than a typed scalar.
type OffsetContent struct {
	SequenceNumber uint16
	Value          primitives.DataValue
	RawValue       []byte
	// Borrowed marks content that aliases caller- or frame-owned
	// memory (e.g. a raw field sliced from an inbound decode buffer)
	// rather than memory the offset entry owns, mirroring the
	// no-delete marker described in spec.md §9. Clear does not read
	// it: it drops every cached value alike and never writes through
	// a borrowed slice.
	Borrowed bool
}

// NetworkMessageOffset records one mutable field's byte position and
// semantic role within an encoded frame.
type NetworkMessageOffset struct {
	Offset      int
	ContentType OffsetKind
	Content     OffsetContent
}

// NetworkMessageOffsetBuffer retains an encoded frame alongside the
// offsets needed to patch it in place for realtime publish, or to
// patch a pre-shaped NetworkMessage in place for realtime subscribe.
type NetworkMessageOffsetBuffer struct {
	Buffer []byte
	Offsets []NetworkMessageOffset

	// NM is the pre-shaped NetworkMessage subscribe-side patching
	// writes into; nil when the buffer is publish-only.
	NM *NetworkMessage

	// RawMessageLength is the total byte length spanned by Raw
	// payload offset entries. UpdateBufferedNwMessage uses it as the
	// length of the RawFields slice it takes from the source frame,
	// without decoding each field individually.
	RawMessageLength int

	// EncryptBuffer is an optional scratch buffer the security layer
	// may populate; owned by the OffsetBuffer like everything else.
	EncryptBuffer []byte
}

// Clear releases the offset buffer's owned memory: the backing
// buffer, the offsets array, the encrypt buffer, and any non-borrowed
// cached payload values, then zeroes the struct (spec.md §4.5).
func (b *NetworkMessageOffsetBuffer) Clear() {
	if b.NM != nil {
		b.NM.Clear()
	}
	*b = NetworkMessageOffsetBuffer{}
}
