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

// encodeBaseHeader writes byte0, and conditionally ExtendedFlags1 and
// ExtendedFlags2, PublisherId, and DataSetClassId — the cascade
// described in spec.md §4.1.
func encodeBaseHeader(nm *NetworkMessage, buf []byte, pos int) (int, error) {
	b0 := nm.Version & nmVersionMask
	if nm.PublisherIDEnabled {
		b0 |= nmPublisherIDEnabledMask
	}
	if nm.GroupHeaderEnabled {
		b0 |= nmGroupHeaderEnabledMask
	}
	if nm.PayloadHeaderEnabled {
		b0 |= nmPayloadHeaderEnabledMask
	}
	ef1 := extendedFlags1Required(nm)
	if ef1 {
		b0 |= nmExtendedFlags1Mask
	}
	pos, err := primitives.EncodeByte(buf, pos, b0)
	if err != nil {
		return pos, wrapEncode(err, "NetworkMessage byte0")
	}

	if ef1 {
		b1 := byte(nm.PublisherIDType) & nmPublisherIDTypeMask
		if nm.DataSetClassIDEnabled {
			b1 |= nmDataSetClassIDMask
		}
		if nm.SecurityEnabled {
			b1 |= nmSecurityEnabledMask
		}
		if nm.TimestampEnabled {
			b1 |= nmTimestampEnabledMask
		}
		if nm.PicosecondsEnabled {
			b1 |= nmPicosecondsEnabledMask
		}
		ef2 := extendedFlags2Required(nm)
		if ef2 {
			b1 |= nmExtendedFlags2Mask
		}
		pos, err = primitives.EncodeByte(buf, pos, b1)
		if err != nil {
			return pos, wrapEncode(err, "NetworkMessage ExtendedFlags1")
		}

		if ef2 {
			b2 := byte(0)
			if nm.ChunkMessage {
				b2 |= nmChunkMessageMask
			}
			if nm.PromotedFieldsEnabled {
				b2 |= nmPromotedFieldsMask
			}
			b2 |= byte(nm.NetworkMessageType) << nmNetworkMessageTypeShift
			pos, err = primitives.EncodeByte(buf, pos, b2)
			if err != nil {
				return pos, wrapEncode(err, "NetworkMessage ExtendedFlags2")
			}
		}
	}

	if nm.PublisherIDEnabled {
		pos, err = encodePublisherID(nm, buf, pos)
		if err != nil {
			return pos, err
		}
	}

	if nm.DataSetClassIDEnabled {
		pos, err = primitives.EncodeGUID(buf, pos, nm.DataSetClassID)
		if err != nil {
			return pos, wrapEncode(err, "DataSetClassId")
		}
	}

	return pos, nil
}

func encodePublisherID(nm *NetworkMessage, buf []byte, pos int) (int, error) {
	var err error
	switch nm.PublisherIDType {
	case PublisherIDByte:
		pos, err = primitives.EncodeByte(buf, pos, nm.PublisherID.Byte)
	case PublisherIDUInt16:
		pos, err = primitives.EncodeUint16(buf, pos, nm.PublisherID.UInt16)
	case PublisherIDUInt32:
		pos, err = primitives.EncodeUint32(buf, pos, nm.PublisherID.UInt32)
	case PublisherIDUInt64:
		pos, err = primitives.EncodeUint64(buf, pos, nm.PublisherID.UInt64)
	case PublisherIDString:
		s := nm.PublisherID.String
		pos, err = primitives.EncodeString(buf, pos, &s)
	default:
		return pos, newErr(BadInternalError, "unknown publisherIdType %d", nm.PublisherIDType)
	}
	if err != nil {
		return pos, wrapEncode(err, "PublisherId")
	}
	return pos, nil
}

func sizePublisherID(nm *NetworkMessage) (int, error) {
	switch nm.PublisherIDType {
	case PublisherIDByte:
		return 1, nil
	case PublisherIDUInt16:
		return 2, nil
	case PublisherIDUInt32:
		return 4, nil
	case PublisherIDUInt64:
		return 8, nil
	case PublisherIDString:
		return primitives.SizeString(&nm.PublisherID.String), nil
	default:
		return 0, newErr(BadInternalError, "unknown publisherIdType %d", nm.PublisherIDType)
	}
}

func sizeBaseHeader(nm *NetworkMessage) (int, error) {
	size := 1
	if extendedFlags1Required(nm) {
		size++
		if extendedFlags2Required(nm) {
			size++
		}
	}
	if nm.PublisherIDEnabled {
		n, err := sizePublisherID(nm)
		if err != nil {
			return 0, err
		}
		size += n
	}
	if nm.DataSetClassIDEnabled {
		size += 16
	}
	return size, nil
}

// decodeBaseHeader mirrors encodeBaseHeader, applying the documented
// defaults when ExtendedFlags1/2 are absent from the wire.
func decodeBaseHeader(nm *NetworkMessage, src []byte, pos int) (int, error) {
	b0, pos, err := primitives.DecodeByte(src, pos)
	if err != nil {
		return pos, wrapDecode(err, "NetworkMessage byte0")
	}
	nm.Version = b0 & nmVersionMask
	nm.PublisherIDEnabled = b0&nmPublisherIDEnabledMask != 0
	nm.GroupHeaderEnabled = b0&nmGroupHeaderEnabledMask != 0
	nm.PayloadHeaderEnabled = b0&nmPayloadHeaderEnabledMask != 0
	ef1 := b0&nmExtendedFlags1Mask != 0

	if ef1 {
		var b1 byte
		b1, pos, err = primitives.DecodeByte(src, pos)
		if err != nil {
			return pos, wrapDecode(err, "NetworkMessage ExtendedFlags1")
		}
		nm.PublisherIDType = PublisherIDType(b1 & nmPublisherIDTypeMask)
		nm.DataSetClassIDEnabled = b1&nmDataSetClassIDMask != 0
		nm.SecurityEnabled = b1&nmSecurityEnabledMask != 0
		nm.TimestampEnabled = b1&nmTimestampEnabledMask != 0
		nm.PicosecondsEnabled = b1&nmPicosecondsEnabledMask != 0
		ef2 := b1&nmExtendedFlags2Mask != 0

		if ef2 {
			var b2 byte
			b2, pos, err = primitives.DecodeByte(src, pos)
			if err != nil {
				return pos, wrapDecode(err, "NetworkMessage ExtendedFlags2")
			}
			nm.ChunkMessage = b2&nmChunkMessageMask != 0
			nm.PromotedFieldsEnabled = b2&nmPromotedFieldsMask != 0
			nm.NetworkMessageType = NetworkMessageType((b2 & nmNetworkMessageTypeMask) >> nmNetworkMessageTypeShift)
		} else {
			nm.ChunkMessage = false
			nm.PromotedFieldsEnabled = false
			nm.NetworkMessageType = NetworkMessageDataSet
		}
	} else {
		nm.PublisherIDType = PublisherIDByte
		nm.DataSetClassIDEnabled = false
		nm.SecurityEnabled = false
		nm.TimestampEnabled = false
		nm.PicosecondsEnabled = false
		nm.ChunkMessage = false
		nm.PromotedFieldsEnabled = false
		nm.NetworkMessageType = NetworkMessageDataSet
	}

	if nm.PublisherIDEnabled {
		pos, err = decodePublisherID(nm, src, pos)
		if err != nil {
			return pos, err
		}
	}

	if nm.DataSetClassIDEnabled {
		nm.DataSetClassID, pos, err = primitives.DecodeGUID(src, pos)
		if err != nil {
			return pos, wrapDecode(err, "DataSetClassId")
		}
	}

	return pos, nil
}

func decodePublisherID(nm *NetworkMessage, src []byte, pos int) (int, error) {
	var err error
	switch nm.PublisherIDType {
	case PublisherIDByte:
		nm.PublisherID.Byte, pos, err = primitives.DecodeByte(src, pos)
	case PublisherIDUInt16:
		nm.PublisherID.UInt16, pos, err = primitives.DecodeUint16(src, pos)
	case PublisherIDUInt32:
		nm.PublisherID.UInt32, pos, err = primitives.DecodeUint32(src, pos)
	case PublisherIDUInt64:
		nm.PublisherID.UInt64, pos, err = primitives.DecodeUint64(src, pos)
	case PublisherIDString:
		var s *string
		s, pos, err = primitives.DecodeString(src, pos)
		if err == nil && s != nil {
			nm.PublisherID.String = *s
		}
	default:
		return pos, newErr(BadInternalError, "unknown publisherIdType %d", nm.PublisherIDType)
	}
	if err != nil {
		return pos, wrapDecode(err, "PublisherId")
	}
	return pos, nil
}

// encodeGroupHeader writes the group header flag byte and its
// enabled fields, in the order writerGroupId, groupVersion,
// networkMessageNumber, sequenceNumber.
func encodeGroupHeader(nm *NetworkMessage, buf []byte, pos int) (int, error) {
	if !nm.GroupHeaderEnabled {
		return pos, nil
	}
	gh := &nm.GroupHeader
	flags := byte(0)
	if gh.WriterGroupIDEnabled {
		flags |= ghWriterGroupIDMask
	}
	if gh.GroupVersionEnabled {
		flags |= ghGroupVersionMask
	}
	if gh.NetworkMessageNumberEnabled {
		flags |= ghNetworkMessageNumberMask
	}
	if gh.SequenceNumberEnabled {
		flags |= ghSequenceNumberMask
	}
	pos, err := primitives.EncodeByte(buf, pos, flags)
	if err != nil {
		return pos, wrapEncode(err, "GroupHeader flags")
	}
	if gh.WriterGroupIDEnabled {
		if pos, err = primitives.EncodeUint16(buf, pos, gh.WriterGroupID); err != nil {
			return pos, wrapEncode(err, "WriterGroupId")
		}
	}
	if gh.GroupVersionEnabled {
		if pos, err = primitives.EncodeUint32(buf, pos, gh.GroupVersion); err != nil {
			return pos, wrapEncode(err, "GroupVersion")
		}
	}
	if gh.NetworkMessageNumberEnabled {
		if pos, err = primitives.EncodeUint16(buf, pos, gh.NetworkMessageNumber); err != nil {
			return pos, wrapEncode(err, "NetworkMessageNumber")
		}
	}
	if gh.SequenceNumberEnabled {
		if pos, err = primitives.EncodeUint16(buf, pos, gh.SequenceNumber); err != nil {
			return pos, wrapEncode(err, "GroupHeader SequenceNumber")
		}
	}
	return pos, nil
}

func sizeGroupHeader(nm *NetworkMessage) int {
	if !nm.GroupHeaderEnabled {
		return 0
	}
	size := 1
	gh := &nm.GroupHeader
	if gh.WriterGroupIDEnabled {
		size += 2
	}
	if gh.GroupVersionEnabled {
		size += 4
	}
	if gh.NetworkMessageNumberEnabled {
		size += 2
	}
	if gh.SequenceNumberEnabled {
		size += 2
	}
	return size
}

func decodeGroupHeader(nm *NetworkMessage, src []byte, pos int) (int, error) {
	if !nm.GroupHeaderEnabled {
		return pos, nil
	}
	flags, pos, err := primitives.DecodeByte(src, pos)
	if err != nil {
		return pos, wrapDecode(err, "GroupHeader flags")
	}
	gh := &nm.GroupHeader
	gh.WriterGroupIDEnabled = flags&ghWriterGroupIDMask != 0
	gh.GroupVersionEnabled = flags&ghGroupVersionMask != 0
	gh.NetworkMessageNumberEnabled = flags&ghNetworkMessageNumberMask != 0
	gh.SequenceNumberEnabled = flags&ghSequenceNumberMask != 0

	if gh.WriterGroupIDEnabled {
		if gh.WriterGroupID, pos, err = primitives.DecodeUint16(src, pos); err != nil {
			return pos, wrapDecode(err, "WriterGroupId")
		}
	}
	if gh.GroupVersionEnabled {
		if gh.GroupVersion, pos, err = primitives.DecodeUint32(src, pos); err != nil {
			return pos, wrapDecode(err, "GroupVersion")
		}
	}
	if gh.NetworkMessageNumberEnabled {
		if gh.NetworkMessageNumber, pos, err = primitives.DecodeUint16(src, pos); err != nil {
			return pos, wrapDecode(err, "NetworkMessageNumber")
		}
	}
	if gh.SequenceNumberEnabled {
		if gh.SequenceNumber, pos, err = primitives.DecodeUint16(src, pos); err != nil {
			return pos, wrapDecode(err, "GroupHeader SequenceNumber")
		}
	}
	return pos, nil
}

// encodePayloadHeader writes the DataSet payload header: a count byte
// followed by that many writer IDs. Other NetworkMessageType values
// are not implemented, per spec.md §4.1.
func encodePayloadHeader(nm *NetworkMessage, buf []byte, pos int) (int, error) {
	if !nm.PayloadHeaderEnabled {
		return pos, nil
	}
	if nm.NetworkMessageType != NetworkMessageDataSet {
		return pos, newErr(BadNotImplemented, "payload header for networkMessageType %d", nm.NetworkMessageType)
	}
	ids := nm.DataSetPayloadHeader.DataSetWriterIDs
	if ids == nil {
		return pos, newErr(BadEncodingError, "payload header enabled but DataSetWriterIDs is nil")
	}
	pos, err := primitives.EncodeByte(buf, pos, byte(len(ids)))
	if err != nil {
		return pos, wrapEncode(err, "DataSetPayloadHeader count")
	}
	for _, id := range ids {
		if pos, err = primitives.EncodeUint16(buf, pos, id); err != nil {
			return pos, wrapEncode(err, "DataSetWriterId")
		}
	}
	return pos, nil
}

func sizePayloadHeader(nm *NetworkMessage) int {
	if !nm.PayloadHeaderEnabled {
		return 0
	}
	return 1 + 2*len(nm.DataSetPayloadHeader.DataSetWriterIDs)
}

func decodePayloadHeader(nm *NetworkMessage, src []byte, pos int) (int, error) {
	if !nm.PayloadHeaderEnabled {
		return pos, nil
	}
	if nm.NetworkMessageType != NetworkMessageDataSet {
		return pos, newErr(BadNotImplemented, "payload header for networkMessageType %d", nm.NetworkMessageType)
	}
	count, pos, err := primitives.DecodeByte(src, pos)
	if err != nil {
		return pos, wrapDecode(err, "DataSetPayloadHeader count")
	}
	ids := make([]uint16, count)
	for i := range ids {
		if ids[i], pos, err = primitives.DecodeUint16(src, pos); err != nil {
			return pos, wrapDecode(err, "DataSetWriterId")
		}
	}
	nm.DataSetPayloadHeader.DataSetWriterIDs = ids
	return pos, nil
}

// encodeExtendedHeader writes timestamp, picoseconds, and promoted
// fields, each only if its enable flag is set.
func encodeExtendedHeader(nm *NetworkMessage, buf []byte, pos int) (int, error) {
	var err error
	if nm.TimestampEnabled {
		if pos, err = primitives.EncodeDateTime(buf, pos, nm.Timestamp); err != nil {
			return pos, wrapEncode(err, "Timestamp")
		}
	}
	if nm.PicosecondsEnabled {
		if pos, err = primitives.EncodeUint16(buf, pos, nm.Picoseconds); err != nil {
			return pos, wrapEncode(err, "Picoseconds")
		}
	}
	if nm.PromotedFieldsEnabled {
		pfSize, err := sizePromotedFields(nm)
		if err != nil {
			return pos, err
		}
		if pos, err = primitives.EncodeUint16(buf, pos, uint16(pfSize)); err != nil {
			return pos, wrapEncode(err, "PromotedFields size")
		}
		for _, v := range nm.PromotedFields {
			if pos, err = primitives.EncodeVariant(buf, pos, v); err != nil {
				return pos, wrapEncode(err, "PromotedFields")
			}
		}
	}
	return pos, nil
}

func sizePromotedFields(nm *NetworkMessage) (int, error) {
	size := 0
	for _, v := range nm.PromotedFields {
		n, err := primitives.SizeVariant(v)
		if err != nil {
			return 0, newErr(BadEncodingError, "sizing promoted field: %v", err)
		}
		size += n
	}
	return size, nil
}

func sizeExtendedHeader(nm *NetworkMessage) (int, error) {
	size := 0
	if nm.TimestampEnabled {
		size += 8
	}
	if nm.PicosecondsEnabled {
		size += 2
	}
	if nm.PromotedFieldsEnabled {
		pfSize, err := sizePromotedFields(nm)
		if err != nil {
			return 0, err
		}
		size += 2 + pfSize
	}
	return size, nil
}

func decodeExtendedHeader(nm *NetworkMessage, src []byte, pos int) (int, error) {
	var err error
	if nm.TimestampEnabled {
		if nm.Timestamp, pos, err = primitives.DecodeDateTime(src, pos); err != nil {
			return pos, wrapDecode(err, "Timestamp")
		}
	}
	if nm.PicosecondsEnabled {
		if nm.Picoseconds, pos, err = primitives.DecodeUint16(src, pos); err != nil {
			return pos, wrapDecode(err, "Picoseconds")
		}
	}
	if nm.PromotedFieldsEnabled {
		var pfSize uint16
		if pfSize, pos, err = primitives.DecodeUint16(src, pos); err != nil {
			return pos, wrapDecode(err, "PromotedFields size")
		}
		end := pos + int(pfSize)
		var fields []primitives.Variant
		for pos < end {
			var v primitives.Variant
			if v, pos, err = primitives.DecodeVariant(src, pos); err != nil {
				return pos, wrapDecode(err, "PromotedFields")
			}
			fields = append(fields, v)
		}
		if pos != end {
			return pos, newErr(BadDecodingError, "promoted fields overran declared size")
		}
		nm.PromotedFields = fields
	}
	return pos, nil
}

// encodeSecurityHeader writes the security flag byte, token id, nonce
// length and nonce, and (when FooterEnabled) the footer size.
func encodeSecurityHeader(nm *NetworkMessage, buf []byte, pos int) (int, error) {
	if !nm.SecurityEnabled {
		return pos, nil
	}
	sh := &nm.SecurityHeader
	flags := byte(0)
	if sh.Signed {
		flags |= shSignedMask
	}
	if sh.Encrypted {
		flags |= shEncryptedMask
	}
	if sh.FooterEnabled {
		flags |= shFooterEnabledMask
	}
	if sh.ForceKeyReset {
		flags |= shForceKeyResetMask
	}
	pos, err := primitives.EncodeByte(buf, pos, flags)
	if err != nil {
		return pos, wrapEncode(err, "SecurityHeader flags")
	}
	if pos, err = primitives.EncodeUint32(buf, pos, sh.SecurityTokenID); err != nil {
		return pos, wrapEncode(err, "SecurityTokenId")
	}
	if len(sh.MessageNonce) > MaxNonceLength {
		return pos, newErr(BadSecurityChecksFailed, "nonce length %d exceeds %d", len(sh.MessageNonce), MaxNonceLength)
	}
	if pos, err = primitives.EncodeByte(buf, pos, byte(len(sh.MessageNonce))); err != nil {
		return pos, wrapEncode(err, "nonceLength")
	}
	if pos, err = primitives.EncodeBytes(buf, pos, sh.MessageNonce); err != nil {
		return pos, wrapEncode(err, "messageNonce")
	}
	if sh.FooterEnabled {
		if pos, err = primitives.EncodeUint16(buf, pos, sh.SecurityFooterSize); err != nil {
			return pos, wrapEncode(err, "securityFooterSize")
		}
	}
	return pos, nil
}

func sizeSecurityHeader(nm *NetworkMessage) int {
	if !nm.SecurityEnabled {
		return 0
	}
	size := 1 + 4 + 1 + len(nm.SecurityHeader.MessageNonce)
	if nm.SecurityHeader.FooterEnabled {
		size += 2
	}
	return size
}

func decodeSecurityHeader(nm *NetworkMessage, src []byte, pos int) (int, error) {
	if !nm.SecurityEnabled {
		return pos, nil
	}
	sh := &nm.SecurityHeader
	flags, pos, err := primitives.DecodeByte(src, pos)
	if err != nil {
		return pos, wrapDecode(err, "SecurityHeader flags")
	}
	sh.Signed = flags&shSignedMask != 0
	sh.Encrypted = flags&shEncryptedMask != 0
	sh.FooterEnabled = flags&shFooterEnabledMask != 0
	sh.ForceKeyReset = flags&shForceKeyResetMask != 0

	if sh.SecurityTokenID, pos, err = primitives.DecodeUint32(src, pos); err != nil {
		return pos, wrapDecode(err, "SecurityTokenId")
	}
	nonceLen, pos, err := primitives.DecodeByte(src, pos)
	if err != nil {
		return pos, wrapDecode(err, "nonceLength")
	}
	if nonceLen > MaxNonceLength {
		return pos, newErr(BadSecurityChecksFailed, "nonce length %d exceeds %d", nonceLen, MaxNonceLength)
	}
	if sh.MessageNonce, pos, err = primitives.DecodeBytes(src, pos, int(nonceLen)); err != nil {
		return pos, wrapDecode(err, "messageNonce")
	}
	if sh.FooterEnabled {
		if sh.SecurityFooterSize, pos, err = primitives.DecodeUint16(src, pos); err != nil {
			return pos, wrapDecode(err, "securityFooterSize")
		}
	}
	return pos, nil
}

func wrapEncode(err error, field string) error {
	return newErr(BadEncodingError, "%s: %v", field, err)
}

func wrapDecode(err error, field string) error {
	return newErr(BadDecodingError, "%s: %v", field, err)
}
