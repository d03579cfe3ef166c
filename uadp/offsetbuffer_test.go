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

	"github.com/stretchr/testify/require"

	"github.com/opcfoundation-pubsub/uadp-codec/primitives"
)

func realtimeNetworkMessage() *NetworkMessage {
	nm := &NetworkMessage{
		Version:            1,
		PublisherIDEnabled: true,
		PublisherIDType:    PublisherIDUInt16,
		PublisherID:        PublisherID{UInt16: 11},
		GroupHeaderEnabled: true,
		NetworkMessageType: NetworkMessageDataSet,
	}
	nm.GroupHeader = GroupHeader{
		SequenceNumberEnabled: true,
		SequenceNumber:        1,
	}
	nm.Payload.DataSetMessages = []*DataSetMessage{
		{
			Header: DataSetMessageHeader{
				Valid:                 true,
				FieldEncoding:         FieldEncodingDataValue,
				SequenceNumberEnabled: true,
				SequenceNumber:        10,
			},
			FieldCount: 1,
			DataValueFields: []primitives.DataValue{
				{Value: &primitives.Variant{Type: primitives.TypeUInt32, Value: uint32(1)}},
			},
		},
	}
	return nm
}

// TestCalcSizeBinaryOffsetsMatchesCalcSizeBinary asserts the offset-
// recording size walk agrees with the plain one on total length, so
// callers can allocate a single buffer for both paths.
func TestCalcSizeBinaryOffsetsMatchesCalcSizeBinary(t *testing.T) {
	nm := realtimeNetworkMessage()
	plain, err := CalcSizeBinary(nm)
	require.NoError(t, err)

	ob := &NetworkMessageOffsetBuffer{}
	withOffsets, err := CalcSizeBinaryOffsets(nm, ob)
	require.NoError(t, err)
	require.Equal(t, plain, withOffsets)
	require.NotEmpty(t, ob.Offsets)
}

// TestCalcSizeBinaryOffsetsPublisherIDWithDataSetClassID guards the
// offset-computation bug where DataSetClassId's 16 bytes were folded
// into the PublisherId offset: the recorded PublisherId offset must
// always point at the PublisherId bytes themselves, with or without
// a DataSetClassId enabled alongside it.
func TestCalcSizeBinaryOffsetsPublisherIDWithDataSetClassID(t *testing.T) {
	nm := &NetworkMessage{
		Version:               1,
		PublisherIDEnabled:    true,
		PublisherIDType:       PublisherIDUInt32,
		PublisherID:           PublisherID{UInt32: 0x11223344},
		DataSetClassIDEnabled: true,
		NetworkMessageType:    NetworkMessageDataSet,
	}
	size, err := CalcSizeBinary(nm)
	require.NoError(t, err)
	buf := make([]byte, size)
	_, err = EncodeBinary(nm, buf, 0)
	require.NoError(t, err)

	ob := &NetworkMessageOffsetBuffer{}
	_, err = CalcSizeBinaryOffsets(nm, ob)
	require.NoError(t, err)

	var pubOffset = -1
	for _, o := range ob.Offsets {
		if o.ContentType == OffsetPublisherID {
			pubOffset = o.Offset
		}
	}
	require.NotEqual(t, -1, pubOffset)

	got, _, err := primitives.DecodeUint32(buf, pubOffset)
	require.NoError(t, err)
	require.Equal(t, uint32(0x11223344), got)
}

func TestUpdateBufferedMessageAdvancesSequenceNumbers(t *testing.T) {
	nm := realtimeNetworkMessage()
	size, err := CalcSizeBinary(nm)
	require.NoError(t, err)

	ob := &NetworkMessageOffsetBuffer{Buffer: make([]byte, size)}
	sizeWithOffsets, err := CalcSizeBinaryOffsets(nm, ob)
	require.NoError(t, err)
	require.Equal(t, size, sizeWithOffsets)
	_, err = EncodeBinary(nm, ob.Buffer, 0)
	require.NoError(t, err)

	// UpdateBufferedMessage writes the cached value, then increments it
	// for the next publication: after two calls the wire holds
	// initial+1, not initial+2.
	require.NoError(t, UpdateBufferedMessage(ob))
	require.NoError(t, UpdateBufferedMessage(ob))

	decoded := &NetworkMessage{}
	_, err = DecodeBinary(decoded, ob.Buffer, 0)
	require.NoError(t, err)
	require.Equal(t, uint16(2), decoded.GroupHeader.SequenceNumber)
	require.Equal(t, uint16(11), decoded.Payload.DataSetMessages[0].Header.SequenceNumber)
}

func TestUpdateBufferedNwMessagePatchesPreShapedMessage(t *testing.T) {
	nm := realtimeNetworkMessage()
	size, err := CalcSizeBinary(nm)
	require.NoError(t, err)
	buf := make([]byte, size)
	_, err = EncodeBinary(nm, buf, 0)
	require.NoError(t, err)

	// mutate the wire bytes directly, as a publisher republishing with
	// a new sequence number would
	newSeq := uint16(99)
	ob := &NetworkMessageOffsetBuffer{}
	_, err = CalcSizeBinaryOffsets(nm, ob)
	require.NoError(t, err)
	for _, o := range ob.Offsets {
		if o.ContentType == OffsetNetworkMessageSequenceNumber {
			_, err = primitives.EncodeUint16(buf, o.Offset, newSeq)
			require.NoError(t, err)
		}
	}

	shaped := realtimeNetworkMessage()
	ob.NM = shaped
	ob.Buffer = make([]byte, size)
	copy(ob.Buffer, buf)

	require.NoError(t, UpdateBufferedNwMessage(ob, buf, 0))
	require.Equal(t, newSeq, shaped.GroupHeader.SequenceNumber)
}

func TestDecodeRealtimePublisherIDRejectsString(t *testing.T) {
	nm := &NetworkMessage{PublisherIDType: PublisherIDString}
	err := decodeRealtimePublisherID(nm, []byte{0, 0}, 0)
	require.Error(t, err)
	require.Equal(t, BadNotSupported, StatusOf(err))
}

func TestOffsetBufferClearAlsoClearsNestedNetworkMessage(t *testing.T) {
	ob := &NetworkMessageOffsetBuffer{
		Buffer:  []byte{1, 2, 3},
		Offsets: []NetworkMessageOffset{{Offset: 1}},
		NM:      realtimeNetworkMessage(),
	}
	ob.Clear()
	require.Equal(t, &NetworkMessageOffsetBuffer{}, ob)
}
