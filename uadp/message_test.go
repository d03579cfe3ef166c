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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opcfoundation-pubsub/uadp-codec/primitives"
)

func sampleNetworkMessage() *NetworkMessage {
	nm := &NetworkMessage{
		Version:              1,
		PublisherIDEnabled:   true,
		PublisherIDType:      PublisherIDUInt16,
		PublisherID:          PublisherID{UInt16: 42},
		GroupHeaderEnabled:   true,
		PayloadHeaderEnabled: true,
		TimestampEnabled:     true,
		NetworkMessageType:   NetworkMessageDataSet,
	}
	nm.GroupHeader = GroupHeader{
		WriterGroupIDEnabled:  true,
		WriterGroupID:         5,
		SequenceNumberEnabled: true,
		SequenceNumber:        1,
	}
	nm.DataSetPayloadHeader.DataSetWriterIDs = []uint16{1}
	nm.Timestamp = primitives.NewDateTime(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	nm.Payload.DataSetMessages = []*DataSetMessage{
		{
			Header: DataSetMessageHeader{
				Valid:         true,
				FieldEncoding: FieldEncodingVariant,
			},
			FieldCount: 1,
			VariantFields: []primitives.Variant{
				{Type: primitives.TypeUInt32, Value: uint32(100)},
			},
		},
	}
	return nm
}

func TestNetworkMessageEncodeDecodeRoundTrip(t *testing.T) {
	nm := sampleNetworkMessage()
	size, err := CalcSizeBinary(nm)
	require.NoError(t, err)

	buf := make([]byte, size)
	pos, err := EncodeBinary(nm, buf, 0)
	require.NoError(t, err)
	require.Equal(t, size, pos)

	got := &NetworkMessage{}
	pos, err = DecodeBinary(got, buf, 0)
	require.NoError(t, err)
	require.Equal(t, size, pos)

	require.Equal(t, nm.PublisherID, got.PublisherID)
	require.Equal(t, nm.GroupHeader, got.GroupHeader)
	require.Equal(t, nm.DataSetPayloadHeader, got.DataSetPayloadHeader)
	require.Equal(t, nm.Timestamp, got.Timestamp)
	require.Len(t, got.Payload.DataSetMessages, 1)
	require.Equal(t, nm.Payload.DataSetMessages[0].VariantFields, got.Payload.DataSetMessages[0].VariantFields)
}

func TestNetworkMessageMultipleDataSetMessagesCarrySizes(t *testing.T) {
	nm := sampleNetworkMessage()
	nm.DataSetPayloadHeader.DataSetWriterIDs = []uint16{1, 2}
	second := &DataSetMessage{
		Header: DataSetMessageHeader{
			Valid:         true,
			FieldEncoding: FieldEncodingVariant,
		},
		FieldCount: 1,
		VariantFields: []primitives.Variant{
			{Type: primitives.TypeByte, Value: byte(9)},
		},
	}
	nm.Payload.DataSetMessages = append(nm.Payload.DataSetMessages, second)
	sizes := make([]uint16, 2)
	for i, dsm := range nm.Payload.DataSetMessages {
		n, err := sizeDataSetMessage(dsm)
		require.NoError(t, err)
		sizes[i] = uint16(n)
	}
	nm.Payload.Sizes = sizes

	size, err := CalcSizeBinary(nm)
	require.NoError(t, err)
	buf := make([]byte, size)
	pos, err := EncodeBinary(nm, buf, 0)
	require.NoError(t, err)
	require.Equal(t, size, pos)

	got := &NetworkMessage{}
	_, err = DecodeBinary(got, buf, 0)
	require.NoError(t, err)
	require.Equal(t, sizes, got.Payload.Sizes)
	require.Len(t, got.Payload.DataSetMessages, 2)
}

// TestSecurityHeaderRoundTripWithoutExtendedHeader exercises Security
// alone, with no Timestamp/Picoseconds/PromotedFields present: since
// the extended header contributes zero bytes, EncodeHeaders' and
// DecodeHeaders' opposite ordering of the two blocks doesn't matter
// and the message round-trips.
func TestSecurityHeaderRoundTripWithoutExtendedHeader(t *testing.T) {
	nm := &NetworkMessage{
		Version:            1,
		PublisherIDEnabled: true,
		PublisherIDType:    PublisherIDUInt16,
		PublisherID:        PublisherID{UInt16: 42},
		NetworkMessageType: NetworkMessageDataSet,
		SecurityEnabled:    true,
	}
	nm.SecurityHeader = SecurityHeader{
		Signed:          true,
		SecurityTokenID: 7,
		MessageNonce:    []byte{0xAA, 0xBB},
	}
	nm.Payload.DataSetMessages = []*DataSetMessage{
		{
			Header:        DataSetMessageHeader{Valid: true, FieldEncoding: FieldEncodingVariant},
			FieldCount:    1,
			VariantFields: []primitives.Variant{{Type: primitives.TypeUInt32, Value: uint32(1)}},
		},
	}

	size, err := CalcSizeBinary(nm)
	require.NoError(t, err)
	buf := make([]byte, size)
	_, err = EncodeBinary(nm, buf, 0)
	require.NoError(t, err)

	got := &NetworkMessage{}
	_, err = DecodeBinary(got, buf, 0)
	require.NoError(t, err)
	require.Equal(t, nm.SecurityHeader, got.SecurityHeader)
}

// TestSecurityHeaderWithExtendedHeaderDoesNotRoundTrip documents the P1
// exception this codec carries from the reference implementation: a
// message combining a non-empty extended header (timestamp, picoseconds,
// or promoted fields) with Security cannot round-trip. EncodeHeaders
// writes extended-header bytes immediately before the SecurityHeader;
// DecodeHeaders reads the SecurityHeader before the extended header
// (see the doc comments on both), so decodeSecurityHeader ends up
// parsing its flags/tokenId/nonceLength out of what are actually
// timestamp/picosecond bytes on the wire. This is the wire format's own
// asymmetry (spec.md §4.1; matched by original_source), not a bug in
// this codec, and it is not to be "fixed" by reordering either side.
func TestSecurityHeaderWithExtendedHeaderDoesNotRoundTrip(t *testing.T) {
	nm := sampleNetworkMessage()
	nm.PicosecondsEnabled = true
	nm.Picoseconds = 250
	nm.SecurityEnabled = true
	nm.SecurityHeader = SecurityHeader{
		Signed:          true,
		SecurityTokenID: 7,
		MessageNonce:    []byte{0xAA, 0xBB},
	}

	size, err := CalcSizeBinary(nm)
	require.NoError(t, err)
	buf := make([]byte, size)
	_, err = EncodeBinary(nm, buf, 0)
	require.NoError(t, err)

	got := &NetworkMessage{}
	_, err = DecodeBinary(got, buf, 0)
	require.Error(t, err)
	require.Equal(t, BadSecurityChecksFailed, StatusOf(err))
}

func TestEncodePayloadRejectsNonDataSetType(t *testing.T) {
	nm := &NetworkMessage{NetworkMessageType: NetworkMessageDiscoveryRequest}
	buf := make([]byte, 16)
	_, err := EncodeBinary(nm, buf, 0)
	require.Error(t, err)
	require.Equal(t, BadNotImplemented, StatusOf(err))
}

func TestNetworkMessageClear(t *testing.T) {
	nm := sampleNetworkMessage()
	nm.Clear()
	require.Equal(t, &NetworkMessage{}, nm)
}
