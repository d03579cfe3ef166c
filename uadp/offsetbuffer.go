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

// CalcSizeBinaryOffsets walks the same layout as CalcSizeBinary but
// additionally records, into ob, the byte offset and semantic kind of
// every field the realtime publish/subscribe paths may need to patch
// in place later: PublisherId, WriterGroupId, the GroupHeader sequence
// number, DataSetWriterId, Timestamp, Timestamp_Picoseconds, and (per
// DataSetMessage) FieldEncoding, the DataSetMessage sequence number,
// and each KeyFrame payload field. Only a single DataSetMessage is
// supported here, mirroring the reference implementation's own
// "considering one DSM in RT" restriction on the subscribe-side patch
// path (UpdateBufferedNwMessage).
func CalcSizeBinaryOffsets(nm *NetworkMessage, ob *NetworkMessageOffsetBuffer) (int, error) {
	size, err := sizeBaseHeaderOffsets(nm, ob)
	if err != nil {
		return 0, err
	}

	size += sizeGroupHeaderOffsets(nm, ob, size)
	size += sizePayloadHeaderOffsets(nm, ob, size)

	if nm.TimestampEnabled {
		ob.record(size, OffsetTimestamp, OffsetContent{})
		size += 8
	}
	if nm.PicosecondsEnabled {
		ob.record(size, OffsetTimestampPicoseconds, OffsetContent{})
		size += 2
	}
	if nm.PromotedFieldsEnabled {
		pfSize, err := sizePromotedFields(nm)
		if err != nil {
			return 0, err
		}
		size += 2 + pfSize
	}

	size += sizeSecurityHeader(nm)

	if nm.NetworkMessageType != NetworkMessageDataSet {
		return 0, newErr(BadNotImplemented, "payload sizing for networkMessageType %d", nm.NetworkMessageType)
	}
	msgs := nm.Payload.DataSetMessages
	if len(msgs) > 1 {
		size += 2 * len(msgs)
	}
	if len(msgs) == 1 {
		ob.record(size, OffsetFieldEncoding, OffsetContent{})
		n, err := sizeDataSetMessageOffsets(msgs[0], ob, size)
		if err != nil {
			return 0, err
		}
		size += n
	} else {
		for _, dsm := range msgs {
			n, err := sizeDataSetMessage(dsm)
			if err != nil {
				return 0, err
			}
			size += n
		}
	}

	if nm.SecurityEnabled && nm.SecurityHeader.FooterEnabled {
		size += len(nm.SecurityFooter)
	}
	return size, nil
}

// sizeBaseHeaderOffsets mirrors sizeBaseHeader, additionally recording
// the PublisherId offset.
func sizeBaseHeaderOffsets(nm *NetworkMessage, ob *NetworkMessageOffsetBuffer) (int, error) {
	size := 1
	if extendedFlags1Required(nm) {
		size++
		if extendedFlags2Required(nm) {
			size++
		}
	}
	if nm.PublisherIDEnabled {
		ob.record(size, OffsetPublisherID, OffsetContent{})
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

func (ob *NetworkMessageOffsetBuffer) record(offset int, kind OffsetKind, content OffsetContent) {
	if ob == nil {
		return
	}
	ob.Offsets = append(ob.Offsets, NetworkMessageOffset{Offset: offset, ContentType: kind, Content: content})
}

func sizeGroupHeaderOffsets(nm *NetworkMessage, ob *NetworkMessageOffsetBuffer, base int) int {
	if !nm.GroupHeaderEnabled {
		return 0
	}
	size := 1
	gh := &nm.GroupHeader
	if gh.WriterGroupIDEnabled {
		ob.record(base+size, OffsetWriterGroupID, OffsetContent{})
		size += 2
	}
	if gh.GroupVersionEnabled {
		size += 4
	}
	if gh.NetworkMessageNumberEnabled {
		size += 2
	}
	if gh.SequenceNumberEnabled {
		ob.record(base+size, OffsetNetworkMessageSequenceNumber, OffsetContent{SequenceNumber: gh.SequenceNumber})
		size += 2
	}
	return size
}

func sizePayloadHeaderOffsets(nm *NetworkMessage, ob *NetworkMessageOffsetBuffer, base int) int {
	if !nm.PayloadHeaderEnabled {
		return 0
	}
	ids := nm.DataSetPayloadHeader.DataSetWriterIDs
	if len(ids) > 0 {
		ob.record(base+1, OffsetDataSetWriterID, OffsetContent{})
	}
	return 1 + 2*len(ids)
}

// sizeDataSetMessageOffsets mirrors sizeDataSetMessage for the single
// supported realtime DataSetMessage, additionally recording the
// message's sequence-number and KeyFrame payload-field offsets.
func sizeDataSetMessageOffsets(dsm *DataSetMessage, ob *NetworkMessageOffsetBuffer, base int) (int, error) {
	h := &dsm.Header
	size := 1
	if dataSetFlags2Required(h) {
		size++
	}
	if h.SequenceNumberEnabled {
		ob.record(base+size, OffsetDataSetMessageSequenceNumber, OffsetContent{SequenceNumber: h.SequenceNumber})
		size += 2
	}
	if h.TimestampEnabled {
		size += 8
	}
	if h.PicosecondsEnabled {
		size += 2
	}
	if h.StatusEnabled {
		size += 2
	}
	if h.ConfigVersionMajorEnabled {
		size += 4
	}
	if h.ConfigVersionMinorEnabled {
		size += 4
	}

	if h.DataSetMessageType != DataSetMessageKeyFrame {
		n, err := sizeDataSetMessage(dsm)
		if err != nil {
			return 0, err
		}
		return n, nil
	}
	if dsm.FieldCount == 0 {
		return size, nil
	}
	size += 2

	switch h.FieldEncoding {
	case FieldEncodingVariant:
		for i, v := range dsm.VariantFields {
			ob.record(base+size, OffsetPayloadVariant, OffsetContent{Value: primitives.DataValue{Value: &dsm.VariantFields[i]}})
			n, err := primitives.SizeVariant(v)
			if err != nil {
				return 0, newErr(BadEncodingError, "sizing KeyFrame Variant field: %v", err)
			}
			size += n
		}
	case FieldEncodingDataValue:
		for i, v := range dsm.DataValueFields {
			ob.record(base+size, OffsetPayloadDataValue, OffsetContent{Value: dsm.DataValueFields[i]})
			n, err := primitives.SizeDataValue(v)
			if err != nil {
				return 0, newErr(BadEncodingError, "sizing KeyFrame DataValue field: %v", err)
			}
			size += n
		}
	case FieldEncodingRawData:
		n := len(dsm.RawFields)
		if n == 0 {
			n = rawKeyFrameFallbackSize
		}
		ob.record(base+size, OffsetPayloadRaw, OffsetContent{RawValue: dsm.RawFields, Borrowed: true})
		if ob != nil {
			ob.RawMessageLength = n
		}
		size += n
	default:
		return 0, newErr(BadInternalError, "unknown fieldEncoding %d", h.FieldEncoding)
	}
	return size, nil
}

// UpdateBufferedMessage re-encodes, in place, every mutable field of a
// previously-encoded publish buffer: it advances each recorded
// sequence number and re-serializes any payload value entries, but
// leaves every other field untouched on the assumption that it cannot
// change between successive publications of the same buffer (spec.md
// §4.4, §9).
func UpdateBufferedMessage(ob *NetworkMessageOffsetBuffer) error {
	for i := range ob.Offsets {
		o := &ob.Offsets[i]
		pos := o.Offset
		var err error
		switch o.ContentType {
		case OffsetNetworkMessageSequenceNumber, OffsetDataSetMessageSequenceNumber:
			_, err = primitives.EncodeUint16(ob.Buffer, pos, o.Content.SequenceNumber)
			o.Content.SequenceNumber++
		case OffsetPayloadDataValue:
			_, err = primitives.EncodeDataValue(ob.Buffer, pos, o.Content.Value)
		case OffsetPayloadVariant:
			if o.Content.Value.Value == nil {
				err = newErr(BadEncodingError, "offset entry has no Variant value")
			} else {
				_, err = primitives.EncodeVariant(ob.Buffer, pos, *o.Content.Value.Value)
			}
		case OffsetPayloadRaw:
			_, err = primitives.EncodeBytes(ob.Buffer, pos, o.Content.RawValue)
		default:
			// Every other field is assumed stable between publications;
			// only realtime decoding (UpdateBufferedNwMessage) touches it.
		}
		if err != nil {
			return wrapEncode(err, o.ContentType.String())
		}
	}
	return nil
}

// UpdateBufferedNwMessage patches ob.NM, a pre-shaped NetworkMessage,
// by decoding each recorded offset directly out of src at
// bufferPosition, without re-running the full NetworkMessage decode
// cascade. Only a single DataSetMessage is supported, matching
// CalcSizeBinaryOffsets: a pre-shaped message with more than one is
// rejected with BadNotSupported. A Raw payload entry sets the
// DataSetMessage's RawFields to a slice of src (not a copy) of
// RawMessageLength bytes; no advanced position is returned.
func UpdateBufferedNwMessage(ob *NetworkMessageOffsetBuffer, src []byte, bufferPosition int) error {
	if ob.NM == nil {
		return newErr(BadInternalError, "offset buffer has no pre-shaped NetworkMessage")
	}
	if len(src) < len(ob.Buffer)+bufferPosition {
		return newErr(BadDecodingError, "source too short for buffered message")
	}

	nm := ob.NM
	if len(nm.Payload.DataSetMessages) > 1 {
		return newErr(BadNotSupported, "realtime decoding supports one DataSetMessage, got %d", len(nm.Payload.DataSetMessages))
	}
	var dsm *DataSetMessage
	if len(nm.Payload.DataSetMessages) > 0 {
		dsm = nm.Payload.DataSetMessages[0]
	}
	payloadCounter := 0

	for _, o := range ob.Offsets {
		pos := o.Offset + bufferPosition
		var err error
		switch o.ContentType {
		case OffsetFieldEncoding:
			if dsm == nil {
				return newErr(BadInternalError, "offset buffer has no DataSetMessage to decode a header into")
			}
			var hdr DataSetMessageHeader
			if _, err = decodeDataSetMessageHeader(&hdr, src, pos); err == nil {
				dsm.Header = hdr
			}
		case OffsetPublisherID:
			err = decodeRealtimePublisherID(nm, src, pos)
		case OffsetWriterGroupID:
			nm.GroupHeader.WriterGroupID, _, err = primitives.DecodeUint16(src, pos)
		case OffsetDataSetWriterID:
			if len(nm.DataSetPayloadHeader.DataSetWriterIDs) == 0 {
				return newErr(BadInternalError, "offset buffer has no DataSetWriterId slot to decode into")
			}
			nm.DataSetPayloadHeader.DataSetWriterIDs[0], _, err = primitives.DecodeUint16(src, pos)
		case OffsetNetworkMessageSequenceNumber:
			nm.GroupHeader.SequenceNumber, _, err = primitives.DecodeUint16(src, pos)
		case OffsetDataSetMessageSequenceNumber:
			if dsm == nil {
				return newErr(BadInternalError, "offset buffer has no DataSetMessage to decode a sequence number into")
			}
			dsm.Header.SequenceNumber, _, err = primitives.DecodeUint16(src, pos)
		case OffsetPayloadDataValue:
			if dsm == nil || payloadCounter >= len(dsm.DataValueFields) {
				return newErr(BadInternalError, "offset buffer payload index out of range")
			}
			dsm.DataValueFields[payloadCounter], _, err = primitives.DecodeDataValue(src, pos)
			payloadCounter++
		case OffsetPayloadVariant:
			if dsm == nil || payloadCounter >= len(dsm.VariantFields) {
				return newErr(BadInternalError, "offset buffer payload index out of range")
			}
			dsm.VariantFields[payloadCounter], _, err = primitives.DecodeVariant(src, pos)
			payloadCounter++
		case OffsetTimestamp:
			nm.Timestamp, _, err = primitives.DecodeDateTime(src, pos)
		case OffsetTimestampPicoseconds:
			nm.Picoseconds, _, err = primitives.DecodeUint16(src, pos)
		case OffsetPayloadRaw:
			if dsm == nil {
				return newErr(BadInternalError, "offset buffer has no DataSetMessage to slice raw fields into")
			}
			rawEnd := pos + ob.RawMessageLength
			if rawEnd > len(src) {
				return newErr(BadDecodingError, "raw payload exceeds source length")
			}
			dsm.RawFields = src[pos:rawEnd]
		}
		if err != nil {
			return wrapDecode(err, o.ContentType.String())
		}
	}
	return nil
}

func decodeRealtimePublisherID(nm *NetworkMessage, src []byte, pos int) error {
	var err error
	switch nm.PublisherIDType {
	case PublisherIDByte:
		nm.PublisherID.Byte, _, err = primitives.DecodeByte(src, pos)
	case PublisherIDUInt16:
		nm.PublisherID.UInt16, _, err = primitives.DecodeUint16(src, pos)
	case PublisherIDUInt32:
		nm.PublisherID.UInt32, _, err = primitives.DecodeUint32(src, pos)
	case PublisherIDUInt64:
		nm.PublisherID.UInt64, _, err = primitives.DecodeUint64(src, pos)
	default:
		return newErr(BadNotSupported, "String PublisherId is not supported in realtime decoding")
	}
	return err
}
