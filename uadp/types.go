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

// PublisherIDType names which wire representation carries the
// NetworkMessage's PublisherId.
type PublisherIDType byte

// PublisherIDType values, packed into the low 3 bits of ExtendedFlags1.
const (
	PublisherIDByte PublisherIDType = iota
	PublisherIDUInt16
	PublisherIDUInt32
	PublisherIDUInt64
	PublisherIDString
)

// PublisherID is a tagged union over the publisher id representations
// named by PublisherIDType. Only one of the fields is meaningful at a
// time, selected by the enclosing NetworkMessage's PublisherIDType;
// the codec does not read Type.
type PublisherID struct {
	Type   PublisherIDType
	Byte   byte
	UInt16 uint16
	UInt32 uint32
	UInt64 uint64
	String string
}

// NetworkMessageType names the PubSub message kind carried in
// ExtendedFlags2. Only DataSet is implemented end-to-end; the others
// parse far enough to keep the header cascade correct and then fail
// with BadNotImplemented on payload codec.
type NetworkMessageType byte

// NetworkMessageType values.
const (
	NetworkMessageDataSet NetworkMessageType = iota
	NetworkMessageEvent
	NetworkMessageDiscoveryRequest
	NetworkMessageDiscoveryResponse
)

// GroupHeader carries the independently-enabled writer-group routing
// fields of a UADP NetworkMessage.
type GroupHeader struct {
	WriterGroupIDEnabled        bool
	WriterGroupID               uint16
	GroupVersionEnabled         bool
	GroupVersion                uint32
	NetworkMessageNumberEnabled bool
	NetworkMessageNumber        uint16
	SequenceNumberEnabled       bool
	SequenceNumber              uint16
}

// DataSetPayloadHeader names which DataSetWriters contribute
// DataSetMessages to this NetworkMessage's payload, in wire order.
type DataSetPayloadHeader struct {
	DataSetWriterIDs []uint16
}

// SecurityHeader is the PubSub authentication/confidentiality
// envelope around the payload and footer.
type SecurityHeader struct {
	Signed            bool
	Encrypted         bool
	FooterEnabled     bool
	ForceKeyReset     bool
	SecurityTokenID   uint32
	MessageNonce      []byte
	SecurityFooterSize uint16
}

// MaxNonceLength bounds SecurityHeader.MessageNonce; exceeding it on
// decode is BadSecurityChecksFailed (spec.md §4.1, §7).
const MaxNonceLength = 16

// DataSetPayload is the NetworkMessage's payload: a parallel array of
// per-message encoded sizes (nil when the payload header isn't
// present, or when there is a single inline message) and the decoded
// DataSetMessages themselves.
type DataSetPayload struct {
	Sizes           []uint16
	DataSetMessages []*DataSetMessage
}

// NetworkMessage is the root object of the UADP wire format: the
// full in-memory representation of one PubSub NetworkMessage.
type NetworkMessage struct {
	Version uint8

	PublisherIDEnabled     bool
	GroupHeaderEnabled     bool
	PayloadHeaderEnabled   bool
	DataSetClassIDEnabled  bool
	SecurityEnabled        bool
	TimestampEnabled       bool
	PicosecondsEnabled     bool
	ChunkMessage           bool
	PromotedFieldsEnabled  bool

	PublisherIDType PublisherIDType
	PublisherID     PublisherID

	DataSetClassID primitives.GUID

	NetworkMessageType NetworkMessageType

	GroupHeader          GroupHeader
	DataSetPayloadHeader DataSetPayloadHeader

	Timestamp      primitives.DateTime
	Picoseconds    uint16
	PromotedFields []primitives.Variant

	SecurityHeader SecurityHeader
	SecurityFooter []byte

	Payload DataSetPayload
}

// FieldEncoding names the wire representation of a DataSetMessage's
// field values.
type FieldEncoding byte

// FieldEncoding values.
const (
	FieldEncodingVariant FieldEncoding = iota
	FieldEncodingRawData
	FieldEncodingDataValue
)

// DataSetMessageType names which of the four DataSetMessage flavors
// (spec.md §3, §9) a message carries.
type DataSetMessageType byte

// DataSetMessageType values.
const (
	DataSetMessageKeyFrame DataSetMessageType = iota
	DataSetMessageDeltaFrame
	DataSetMessageEvent
	DataSetMessageKeepAlive
)

// DataSetMessageHeader carries the per-message flags and optional
// metadata fields that precede the payload.
type DataSetMessageHeader struct {
	FieldEncoding       FieldEncoding
	DataSetMessageType  DataSetMessageType
	Valid               bool

	SequenceNumberEnabled bool
	SequenceNumber        uint16

	TimestampEnabled bool
	Timestamp        primitives.DateTime

	PicosecondsEnabled bool
	Picoseconds        uint16

	StatusEnabled bool
	Status        uint16

	ConfigVersionMajorEnabled bool
	ConfigVersionMajor        uint32
	ConfigVersionMinorEnabled bool
	ConfigVersionMinor        uint32
}

// DeltaFrameField is one (index, value) pair of a DeltaFrame payload.
type DeltaFrameField struct {
	FieldIndex uint16
	FieldValue primitives.DataValue
}

// DataSetMessage is a single dataset frame: a header plus a payload
// whose shape depends on (DataSetMessageType, FieldEncoding).
type DataSetMessage struct {
	Header DataSetMessageHeader

	// KeyFrame / DeltaFrame field count. A KeyFrame with FieldCount
	// == 0 is a Heartbeat (spec.md §3, §9).
	FieldCount uint16

	// KeyFrame, FieldEncodingVariant: field values as Variants.
	VariantFields []primitives.Variant
	// KeyFrame, FieldEncodingDataValue: field values as DataValues.
	DataValueFields []primitives.DataValue
	// KeyFrame, FieldEncodingRawData: the raw encoded field bytes,
	// sliced (not copied) from the decode source when decoded.
	RawFields []byte

	// DeltaFrame, Variant/DataValue only (Raw is BadNotImplemented).
	DeltaFrameFields []DeltaFrameField
}
