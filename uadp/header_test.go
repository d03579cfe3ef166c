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

func TestBaseHeaderRoundTripMinimal(t *testing.T) {
	nm := &NetworkMessage{Version: 1}
	size, err := sizeBaseHeader(nm)
	require.NoError(t, err)
	require.Equal(t, 1, size)

	buf := make([]byte, size)
	pos, err := encodeBaseHeader(nm, buf, 0)
	require.NoError(t, err)
	require.Equal(t, size, pos)

	got := &NetworkMessage{}
	pos, err = decodeBaseHeader(got, buf, 0)
	require.NoError(t, err)
	require.Equal(t, size, pos)
	require.Equal(t, nm.Version, got.Version)
	require.Equal(t, PublisherIDByte, got.PublisherIDType)
	require.False(t, got.SecurityEnabled)
}

func TestBaseHeaderRoundTripFullFlags(t *testing.T) {
	nm := &NetworkMessage{
		Version:               1,
		PublisherIDEnabled:     true,
		PublisherIDType:        PublisherIDUInt32,
		PublisherID:            PublisherID{UInt32: 0xCAFEBABE},
		DataSetClassIDEnabled:  true,
		SecurityEnabled:        true,
		TimestampEnabled:       true,
		PicosecondsEnabled:     true,
		ChunkMessage:           true,
		PromotedFieldsEnabled:  true,
		NetworkMessageType:     NetworkMessageDataSet,
	}
	size, err := sizeBaseHeader(nm)
	require.NoError(t, err)

	buf := make([]byte, size)
	pos, err := encodeBaseHeader(nm, buf, 0)
	require.NoError(t, err)
	require.Equal(t, size, pos)

	got := &NetworkMessage{}
	pos, err = decodeBaseHeader(got, buf, 0)
	require.NoError(t, err)
	require.Equal(t, size, pos)
	require.Equal(t, nm.PublisherIDType, got.PublisherIDType)
	require.Equal(t, nm.PublisherID.UInt32, got.PublisherID.UInt32)
	require.True(t, got.DataSetClassIDEnabled)
	require.True(t, got.SecurityEnabled)
	require.True(t, got.TimestampEnabled)
	require.True(t, got.PicosecondsEnabled)
	require.True(t, got.ChunkMessage)
	require.True(t, got.PromotedFieldsEnabled)
}

func TestBaseHeaderStringPublisherID(t *testing.T) {
	nm := &NetworkMessage{
		PublisherIDEnabled: true,
		PublisherIDType:    PublisherIDString,
		PublisherID:        PublisherID{String: "publisher-1"},
	}
	size, err := sizeBaseHeader(nm)
	require.NoError(t, err)
	buf := make([]byte, size)
	_, err = encodeBaseHeader(nm, buf, 0)
	require.NoError(t, err)

	got := &NetworkMessage{}
	_, err = decodeBaseHeader(got, buf, 0)
	require.NoError(t, err)
	require.Equal(t, "publisher-1", got.PublisherID.String)
}

func TestGroupHeaderRoundTrip(t *testing.T) {
	nm := &NetworkMessage{GroupHeaderEnabled: true}
	nm.GroupHeader = GroupHeader{
		WriterGroupIDEnabled:        true,
		WriterGroupID:               7,
		GroupVersionEnabled:         true,
		GroupVersion:                42,
		NetworkMessageNumberEnabled: true,
		NetworkMessageNumber:        3,
		SequenceNumberEnabled:       true,
		SequenceNumber:              99,
	}
	size := sizeGroupHeader(nm)
	buf := make([]byte, size)
	pos, err := encodeGroupHeader(nm, buf, 0)
	require.NoError(t, err)
	require.Equal(t, size, pos)

	got := &NetworkMessage{GroupHeaderEnabled: true}
	pos, err = decodeGroupHeader(got, buf, 0)
	require.NoError(t, err)
	require.Equal(t, size, pos)
	require.Equal(t, nm.GroupHeader, got.GroupHeader)
}

func TestPayloadHeaderRoundTrip(t *testing.T) {
	nm := &NetworkMessage{
		PayloadHeaderEnabled: true,
		NetworkMessageType:   NetworkMessageDataSet,
	}
	nm.DataSetPayloadHeader.DataSetWriterIDs = []uint16{1, 2, 3}
	size := sizePayloadHeader(nm)
	buf := make([]byte, size)
	_, err := encodePayloadHeader(nm, buf, 0)
	require.NoError(t, err)

	got := &NetworkMessage{PayloadHeaderEnabled: true, NetworkMessageType: NetworkMessageDataSet}
	_, err = decodePayloadHeader(got, buf, 0)
	require.NoError(t, err)
	require.Equal(t, nm.DataSetPayloadHeader.DataSetWriterIDs, got.DataSetPayloadHeader.DataSetWriterIDs)
}

func TestPayloadHeaderRejectsNonDataSet(t *testing.T) {
	nm := &NetworkMessage{PayloadHeaderEnabled: true, NetworkMessageType: NetworkMessageEvent}
	buf := make([]byte, 8)
	_, err := encodePayloadHeader(nm, buf, 0)
	require.Error(t, err)
	require.Equal(t, BadNotImplemented, StatusOf(err))
}

func TestSecurityHeaderRoundTrip(t *testing.T) {
	nm := &NetworkMessage{SecurityEnabled: true}
	nm.SecurityHeader = SecurityHeader{
		Signed:             true,
		Encrypted:          true,
		FooterEnabled:      true,
		SecurityTokenID:    123,
		MessageNonce:       []byte{1, 2, 3, 4},
		SecurityFooterSize: 16,
	}
	size := sizeSecurityHeader(nm)
	buf := make([]byte, size)
	pos, err := encodeSecurityHeader(nm, buf, 0)
	require.NoError(t, err)
	require.Equal(t, size, pos)

	got := &NetworkMessage{SecurityEnabled: true}
	pos, err = decodeSecurityHeader(got, buf, 0)
	require.NoError(t, err)
	require.Equal(t, size, pos)
	require.Equal(t, nm.SecurityHeader, got.SecurityHeader)
}

func TestSecurityHeaderRejectsOversizedNonce(t *testing.T) {
	nm := &NetworkMessage{SecurityEnabled: true}
	nm.SecurityHeader.MessageNonce = make([]byte, MaxNonceLength+1)
	buf := make([]byte, 64)
	_, err := encodeSecurityHeader(nm, buf, 0)
	require.Error(t, err)
	require.Equal(t, BadSecurityChecksFailed, StatusOf(err))
}

func TestExtendedHeaderPromotedFieldsRoundTrip(t *testing.T) {
	nm := &NetworkMessage{
		PromotedFieldsEnabled: true,
	}
	nm.PromotedFields = []primitives.Variant{{Type: primitives.TypeUInt32, Value: uint32(7)}}
	size, err := sizeExtendedHeader(nm)
	require.NoError(t, err)
	buf := make([]byte, size)
	pos, err := encodeExtendedHeader(nm, buf, 0)
	require.NoError(t, err)
	require.Equal(t, size, pos)

	got := &NetworkMessage{PromotedFieldsEnabled: true}
	pos, err = decodeExtendedHeader(got, buf, 0)
	require.NoError(t, err)
	require.Equal(t, size, pos)
	require.Equal(t, nm.PromotedFields, got.PromotedFields)
}
