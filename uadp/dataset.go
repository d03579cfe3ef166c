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

// encodeDataSetMessageHeader writes DataSetFlags1 and, when required,
// DataSetFlags2, followed by the enabled metadata fields, per spec.md
// §4.2.
func encodeDataSetMessageHeader(h *DataSetMessageHeader, buf []byte, pos int) (int, error) {
	b1 := byte(0)
	if h.Valid {
		b1 |= dsValidMask
	}
	b1 |= byte(h.FieldEncoding) << dsFieldEncodingShift
	if h.SequenceNumberEnabled {
		b1 |= dsSeqNrMask
	}
	if h.StatusEnabled {
		b1 |= dsStatusMask
	}
	if h.ConfigVersionMajorEnabled {
		b1 |= dsCfgMajorMask
	}
	if h.ConfigVersionMinorEnabled {
		b1 |= dsCfgMinorMask
	}
	df2 := dataSetFlags2Required(h)
	if df2 {
		b1 |= dsFlags2Mask
	}
	pos, err := primitives.EncodeByte(buf, pos, b1)
	if err != nil {
		return pos, wrapEncode(err, "DataSetMessage DataSetFlags1")
	}

	if df2 {
		b2 := byte(h.DataSetMessageType) & dsMessageTypeMask
		if h.TimestampEnabled {
			b2 |= dsTimestampMask
		}
		if h.PicosecondsEnabled {
			b2 |= dsPicosecondsMask
		}
		pos, err = primitives.EncodeByte(buf, pos, b2)
		if err != nil {
			return pos, wrapEncode(err, "DataSetMessage DataSetFlags2")
		}
	}

	if h.SequenceNumberEnabled {
		if pos, err = primitives.EncodeUint16(buf, pos, h.SequenceNumber); err != nil {
			return pos, wrapEncode(err, "DataSetMessage SequenceNumber")
		}
	}
	if h.TimestampEnabled {
		if pos, err = primitives.EncodeDateTime(buf, pos, h.Timestamp); err != nil {
			return pos, wrapEncode(err, "DataSetMessage Timestamp")
		}
	}
	if h.PicosecondsEnabled {
		if pos, err = primitives.EncodeUint16(buf, pos, h.Picoseconds); err != nil {
			return pos, wrapEncode(err, "DataSetMessage Picoseconds")
		}
	}
	if h.StatusEnabled {
		if pos, err = primitives.EncodeUint16(buf, pos, h.Status); err != nil {
			return pos, wrapEncode(err, "DataSetMessage Status")
		}
	}
	if h.ConfigVersionMajorEnabled {
		if pos, err = primitives.EncodeUint32(buf, pos, h.ConfigVersionMajor); err != nil {
			return pos, wrapEncode(err, "ConfigVersionMajorVersion")
		}
	}
	if h.ConfigVersionMinorEnabled {
		if pos, err = primitives.EncodeUint32(buf, pos, h.ConfigVersionMinor); err != nil {
			return pos, wrapEncode(err, "ConfigVersionMinorVersion")
		}
	}
	return pos, nil
}

func sizeDataSetMessageHeader(h *DataSetMessageHeader) int {
	size := 1
	if dataSetFlags2Required(h) {
		size++
	}
	if h.SequenceNumberEnabled {
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
	return size
}

func decodeDataSetMessageHeader(h *DataSetMessageHeader, src []byte, pos int) (int, error) {
	b1, pos, err := primitives.DecodeByte(src, pos)
	if err != nil {
		return pos, wrapDecode(err, "DataSetMessage DataSetFlags1")
	}
	h.Valid = b1&dsValidMask != 0
	h.FieldEncoding = FieldEncoding((b1 & dsFieldEncodingMask) >> dsFieldEncodingShift)
	h.SequenceNumberEnabled = b1&dsSeqNrMask != 0
	h.StatusEnabled = b1&dsStatusMask != 0
	h.ConfigVersionMajorEnabled = b1&dsCfgMajorMask != 0
	h.ConfigVersionMinorEnabled = b1&dsCfgMinorMask != 0
	df2 := b1&dsFlags2Mask != 0

	if df2 {
		var b2 byte
		b2, pos, err = primitives.DecodeByte(src, pos)
		if err != nil {
			return pos, wrapDecode(err, "DataSetMessage DataSetFlags2")
		}
		h.DataSetMessageType = DataSetMessageType(b2 & dsMessageTypeMask)
		h.TimestampEnabled = b2&dsTimestampMask != 0
		h.PicosecondsEnabled = b2&dsPicosecondsMask != 0
	} else {
		h.DataSetMessageType = DataSetMessageKeyFrame
		h.TimestampEnabled = false
		h.PicosecondsEnabled = false
	}

	if h.SequenceNumberEnabled {
		if h.SequenceNumber, pos, err = primitives.DecodeUint16(src, pos); err != nil {
			return pos, wrapDecode(err, "DataSetMessage SequenceNumber")
		}
	}
	if h.TimestampEnabled {
		if h.Timestamp, pos, err = primitives.DecodeDateTime(src, pos); err != nil {
			return pos, wrapDecode(err, "DataSetMessage Timestamp")
		}
	}
	if h.PicosecondsEnabled {
		if h.Picoseconds, pos, err = primitives.DecodeUint16(src, pos); err != nil {
			return pos, wrapDecode(err, "DataSetMessage Picoseconds")
		}
	}
	if h.StatusEnabled {
		if h.Status, pos, err = primitives.DecodeUint16(src, pos); err != nil {
			return pos, wrapDecode(err, "DataSetMessage Status")
		}
	}
	if h.ConfigVersionMajorEnabled {
		if h.ConfigVersionMajor, pos, err = primitives.DecodeUint32(src, pos); err != nil {
			return pos, wrapDecode(err, "ConfigVersionMajorVersion")
		}
	}
	if h.ConfigVersionMinorEnabled {
		if h.ConfigVersionMinor, pos, err = primitives.DecodeUint32(src, pos); err != nil {
			return pos, wrapDecode(err, "ConfigVersionMinorVersion")
		}
	}
	return pos, nil
}

// encodeDataSetMessage writes a message's header followed by its
// payload, dispatched on (DataSetMessageType, FieldEncoding) per
// spec.md §4.2. A KeyFrame with FieldCount 0 is a Heartbeat: header
// only, no payload.
func encodeDataSetMessage(dsm *DataSetMessage, buf []byte, pos int) (int, error) {
	pos, err := encodeDataSetMessageHeader(&dsm.Header, buf, pos)
	if err != nil {
		return pos, err
	}

	switch dsm.Header.DataSetMessageType {
	case DataSetMessageKeyFrame:
		if dsm.FieldCount == 0 {
			return pos, nil
		}
		if pos, err = primitives.EncodeUint16(buf, pos, dsm.FieldCount); err != nil {
			return pos, wrapEncode(err, "DataSetMessage FieldCount")
		}
		return encodeKeyFramePayload(dsm, buf, pos)
	case DataSetMessageDeltaFrame:
		if pos, err = primitives.EncodeUint16(buf, pos, uint16(len(dsm.DeltaFrameFields))); err != nil {
			return pos, wrapEncode(err, "DataSetMessage FieldCount")
		}
		return encodeDeltaFramePayload(dsm, buf, pos)
	case DataSetMessageKeepAlive:
		return pos, nil
	default:
		return pos, newErr(BadNotImplemented, "dataSetMessageType %d", dsm.Header.DataSetMessageType)
	}
}

func encodeKeyFramePayload(dsm *DataSetMessage, buf []byte, pos int) (int, error) {
	var err error
	switch dsm.Header.FieldEncoding {
	case FieldEncodingVariant:
		for i := range dsm.VariantFields {
			if pos, err = primitives.EncodeVariant(buf, pos, dsm.VariantFields[i]); err != nil {
				return pos, wrapEncode(err, "KeyFrame Variant field")
			}
		}
	case FieldEncodingDataValue:
		for i := range dsm.DataValueFields {
			if pos, err = primitives.EncodeDataValue(buf, pos, dsm.DataValueFields[i]); err != nil {
				return pos, wrapEncode(err, "KeyFrame DataValue field")
			}
		}
	case FieldEncodingRawData:
		if pos, err = primitives.EncodeBytes(buf, pos, dsm.RawFields); err != nil {
			return pos, wrapEncode(err, "KeyFrame Raw fields")
		}
	default:
		return pos, newErr(BadInternalError, "unknown fieldEncoding %d", dsm.Header.FieldEncoding)
	}
	return pos, nil
}

func encodeDeltaFramePayload(dsm *DataSetMessage, buf []byte, pos int) (int, error) {
	if dsm.Header.FieldEncoding == FieldEncodingRawData {
		return pos, newErr(BadNotImplemented, "DeltaFrame with Raw field encoding")
	}
	var err error
	for _, f := range dsm.DeltaFrameFields {
		if pos, err = primitives.EncodeUint16(buf, pos, f.FieldIndex); err != nil {
			return pos, wrapEncode(err, "DeltaFrame FieldIndex")
		}
		switch dsm.Header.FieldEncoding {
		case FieldEncodingVariant:
			if f.FieldValue.Value == nil {
				return pos, newErr(BadEncodingError, "DeltaFrame Variant field missing value")
			}
			if pos, err = primitives.EncodeVariant(buf, pos, *f.FieldValue.Value); err != nil {
				return pos, wrapEncode(err, "DeltaFrame Variant field")
			}
		case FieldEncodingDataValue:
			if pos, err = primitives.EncodeDataValue(buf, pos, f.FieldValue); err != nil {
				return pos, wrapEncode(err, "DeltaFrame DataValue field")
			}
		default:
			return pos, newErr(BadInternalError, "unknown fieldEncoding %d", dsm.Header.FieldEncoding)
		}
	}
	return pos, nil
}

// sizeDataSetMessage mirrors encodeDataSetMessage without writing
// bytes. rawKeyFrameFallbackSize gives the byte length to use for a Raw
// KeyFrame's payload: it is 1500 when dsm.RawFields is empty but the
// message is enabled for raw encoding, matching the fallback the
// reference implementation applies to size an as-yet-unpopulated Raw
// buffer (original_source/src/pubsub/ua_pubsub_networkmessage.c around
// its dsmSize==0 handling — see DESIGN.md).
func sizeDataSetMessage(dsm *DataSetMessage) (int, error) {
	size := sizeDataSetMessageHeader(&dsm.Header)

	switch dsm.Header.DataSetMessageType {
	case DataSetMessageKeyFrame:
		if dsm.FieldCount == 0 {
			return size, nil
		}
		size += 2
		n, err := sizeKeyFramePayload(dsm)
		if err != nil {
			return 0, err
		}
		return size + n, nil
	case DataSetMessageDeltaFrame:
		size += 2
		n, err := sizeDeltaFramePayload(dsm)
		if err != nil {
			return 0, err
		}
		return size + n, nil
	case DataSetMessageKeepAlive:
		return size, nil
	default:
		return 0, newErr(BadNotImplemented, "dataSetMessageType %d", dsm.Header.DataSetMessageType)
	}
}

func sizeKeyFramePayload(dsm *DataSetMessage) (int, error) {
	switch dsm.Header.FieldEncoding {
	case FieldEncodingVariant:
		size := 0
		for i := range dsm.VariantFields {
			n, err := primitives.SizeVariant(dsm.VariantFields[i])
			if err != nil {
				return 0, newErr(BadEncodingError, "sizing KeyFrame Variant field: %v", err)
			}
			size += n
		}
		return size, nil
	case FieldEncodingDataValue:
		size := 0
		for i := range dsm.DataValueFields {
			n, err := primitives.SizeDataValue(dsm.DataValueFields[i])
			if err != nil {
				return 0, newErr(BadEncodingError, "sizing KeyFrame DataValue field: %v", err)
			}
			size += n
		}
		return size, nil
	case FieldEncodingRawData:
		if len(dsm.RawFields) == 0 {
			return rawKeyFrameFallbackSize, nil
		}
		return len(dsm.RawFields), nil
	default:
		return 0, newErr(BadInternalError, "unknown fieldEncoding %d", dsm.Header.FieldEncoding)
	}
}

// rawKeyFrameFallbackSize is the size CalcSizeBinary reports for a Raw
// KeyFrame whose RawFields has not yet been populated: the caller is
// expected to allocate a buffer this large and fill it in before the
// buffered message is published. Matches the reference implementation's
// fallback for an unsized raw buffer.
const rawKeyFrameFallbackSize = 1500

func sizeDeltaFramePayload(dsm *DataSetMessage) (int, error) {
	if dsm.Header.FieldEncoding == FieldEncodingRawData {
		return 0, newErr(BadNotImplemented, "DeltaFrame with Raw field encoding")
	}
	size := 0
	for _, f := range dsm.DeltaFrameFields {
		size += 2
		switch dsm.Header.FieldEncoding {
		case FieldEncodingVariant:
			if f.FieldValue.Value == nil {
				return 0, newErr(BadEncodingError, "DeltaFrame Variant field missing value")
			}
			n, err := primitives.SizeVariant(*f.FieldValue.Value)
			if err != nil {
				return 0, newErr(BadEncodingError, "sizing DeltaFrame Variant field: %v", err)
			}
			size += n
		case FieldEncodingDataValue:
			n, err := primitives.SizeDataValue(f.FieldValue)
			if err != nil {
				return 0, newErr(BadEncodingError, "sizing DeltaFrame DataValue field: %v", err)
			}
			size += n
		default:
			return 0, newErr(BadInternalError, "unknown fieldEncoding %d", dsm.Header.FieldEncoding)
		}
	}
	return size, nil
}

// decodeDataSetMessage mirrors encodeDataSetMessage. end bounds a Raw
// KeyFrame's payload, since that field encoding carries no explicit
// length prefix of its own; src[pos:end] is sliced directly rather
// than copied, matching spec.md §9's zero-copy Raw decode.
func decodeDataSetMessage(dsm *DataSetMessage, src []byte, pos, end int) (int, error) {
	pos, err := decodeDataSetMessageHeader(&dsm.Header, src, pos)
	if err != nil {
		return pos, err
	}

	switch dsm.Header.DataSetMessageType {
	case DataSetMessageKeyFrame:
		if pos >= end {
			dsm.FieldCount = 0
			return pos, nil
		}
		if dsm.FieldCount, pos, err = primitives.DecodeUint16(src, pos); err != nil {
			return pos, wrapDecode(err, "DataSetMessage FieldCount")
		}
		return decodeKeyFramePayload(dsm, src, pos, end)
	case DataSetMessageDeltaFrame:
		var count uint16
		if count, pos, err = primitives.DecodeUint16(src, pos); err != nil {
			return pos, wrapDecode(err, "DataSetMessage FieldCount")
		}
		return decodeDeltaFramePayload(dsm, src, pos, count)
	case DataSetMessageKeepAlive:
		return pos, nil
	default:
		return pos, newErr(BadNotImplemented, "dataSetMessageType %d", dsm.Header.DataSetMessageType)
	}
}

func decodeKeyFramePayload(dsm *DataSetMessage, src []byte, pos, end int) (int, error) {
	var err error
	switch dsm.Header.FieldEncoding {
	case FieldEncodingVariant:
		fields := make([]primitives.Variant, dsm.FieldCount)
		for i := range fields {
			if fields[i], pos, err = primitives.DecodeVariant(src, pos); err != nil {
				return pos, wrapDecode(err, "KeyFrame Variant field")
			}
		}
		dsm.VariantFields = fields
	case FieldEncodingDataValue:
		fields := make([]primitives.DataValue, dsm.FieldCount)
		for i := range fields {
			if fields[i], pos, err = primitives.DecodeDataValue(src, pos); err != nil {
				return pos, wrapDecode(err, "KeyFrame DataValue field")
			}
		}
		dsm.DataValueFields = fields
	case FieldEncodingRawData:
		if end < pos || end > len(src) {
			return pos, newErr(BadDecodingError, "Raw KeyFrame payload bounds out of range")
		}
		dsm.RawFields = src[pos:end]
		pos = end
	default:
		return pos, newErr(BadInternalError, "unknown fieldEncoding %d", dsm.Header.FieldEncoding)
	}
	return pos, nil
}

func decodeDeltaFramePayload(dsm *DataSetMessage, src []byte, pos int, count uint16) (int, error) {
	if dsm.Header.FieldEncoding == FieldEncodingRawData {
		return pos, newErr(BadNotImplemented, "DeltaFrame with Raw field encoding")
	}
	fields := make([]DeltaFrameField, count)
	var err error
	for i := range fields {
		if fields[i].FieldIndex, pos, err = primitives.DecodeUint16(src, pos); err != nil {
			return pos, wrapDecode(err, "DeltaFrame FieldIndex")
		}
		switch dsm.Header.FieldEncoding {
		case FieldEncodingVariant:
			var v primitives.Variant
			if v, pos, err = primitives.DecodeVariant(src, pos); err != nil {
				return pos, wrapDecode(err, "DeltaFrame Variant field")
			}
			fields[i].FieldValue = primitives.DataValue{Value: &v}
		case FieldEncodingDataValue:
			if fields[i].FieldValue, pos, err = primitives.DecodeDataValue(src, pos); err != nil {
				return pos, wrapDecode(err, "DeltaFrame DataValue field")
			}
		default:
			return pos, newErr(BadInternalError, "unknown fieldEncoding %d", dsm.Header.FieldEncoding)
		}
	}
	dsm.DeltaFrameFields = fields
	return pos, nil
}

// Clear drops dsm's slice-backed fields (VariantFields,
// DataValueFields, RawFields, DeltaFrameFields) and resets FieldCount
// and the header, leaving dsm equal to the zero DataSetMessage
// (spec.md §4.5). A RawFields slice aliasing a decode source is only
// dropped; the source bytes themselves are not modified.
func (dsm *DataSetMessage) Clear() {
	if dsm == nil {
		return
	}
	dsm.VariantFields = nil
	dsm.DataValueFields = nil
	dsm.RawFields = nil
	dsm.DeltaFrameFields = nil
	dsm.FieldCount = 0
	dsm.Header = DataSetMessageHeader{}
}
