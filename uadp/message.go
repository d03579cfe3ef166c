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

// EncodeBinary serializes nm into buf starting at pos, returning the
// position after the last byte written. The header blocks are written
// base, group, payload, extended, security — the order spec.md §4.3
// fixes for encode.
func EncodeBinary(nm *NetworkMessage, buf []byte, pos int) (int, error) {
	pos, err := EncodeHeaders(nm, buf, pos)
	if err != nil {
		return pos, err
	}
	pos, err = EncodePayload(nm, buf, pos)
	if err != nil {
		return pos, err
	}
	return EncodeFooters(nm, buf, pos)
}

// EncodeHeaders writes every header block preceding the payload: base
// flags/PublisherId/DataSetClassId, GroupHeader, payload header, the
// extended header (timestamp/picoseconds/promoted fields), and finally
// SecurityHeader. Extended precedes Security here even though decode
// reads them in the opposite order (see DecodeHeaders) — the wire
// format's own asymmetry, not a mistake in this codec.
func EncodeHeaders(nm *NetworkMessage, buf []byte, pos int) (int, error) {
	pos, err := encodeBaseHeader(nm, buf, pos)
	if err != nil {
		return pos, err
	}
	pos, err = encodeGroupHeader(nm, buf, pos)
	if err != nil {
		return pos, err
	}
	pos, err = encodePayloadHeader(nm, buf, pos)
	if err != nil {
		return pos, err
	}
	pos, err = encodeExtendedHeader(nm, buf, pos)
	if err != nil {
		return pos, err
	}
	return encodeSecurityHeader(nm, buf, pos)
}

// EncodePayload writes the DataSet payload: an optional per-message
// size array (when more than one message is present and sizes weren't
// otherwise implied), followed by each DataSetMessage in turn. A zero
// entry in Payload.Sizes is written as that message's computed size.
func EncodePayload(nm *NetworkMessage, buf []byte, pos int) (int, error) {
	if nm.NetworkMessageType != NetworkMessageDataSet {
		return pos, newErr(BadNotImplemented, "payload encoding for networkMessageType %d", nm.NetworkMessageType)
	}
	msgs := nm.Payload.DataSetMessages
	var err error
	if len(msgs) > 1 {
		if len(nm.Payload.Sizes) != len(msgs) {
			return pos, newErr(BadEncodingError, "Payload.Sizes length %d does not match %d DataSetMessages", len(nm.Payload.Sizes), len(msgs))
		}
		for i, sz := range nm.Payload.Sizes {
			if sz == 0 {
				n, err := sizeDataSetMessage(msgs[i])
				if err != nil {
					return pos, err
				}
				sz = uint16(n)
			}
			if pos, err = primitives.EncodeUint16(buf, pos, sz); err != nil {
				return pos, wrapEncode(err, "Payload size")
			}
		}
	}
	for _, dsm := range msgs {
		if pos, err = encodeDataSetMessage(dsm, buf, pos); err != nil {
			return pos, err
		}
	}
	return pos, nil
}

// EncodeFooters writes the (already-encrypted, by the security layer)
// SecurityFooter.
func EncodeFooters(nm *NetworkMessage, buf []byte, pos int) (int, error) {
	if nm.SecurityEnabled && nm.SecurityHeader.FooterEnabled {
		pos, err := primitives.EncodeBytes(buf, pos, nm.SecurityFooter)
		if err != nil {
			return pos, wrapEncode(err, "SecurityFooter")
		}
		return pos, nil
	}
	return pos, nil
}

// CalcSizeBinary returns the encoded byte length of nm, without
// writing anything. Callers use it to size a buffer before calling
// EncodeBinary. The offset-buffer engine's CalcSizeBinaryOffsets walks
// the same layout to additionally collect the mutable-field offsets
// (see offsetbuffer.go).
func CalcSizeBinary(nm *NetworkMessage) (int, error) {
	size, err := sizeBaseHeader(nm)
	if err != nil {
		return 0, err
	}
	size += sizeGroupHeader(nm)
	size += sizePayloadHeader(nm)
	extSize, err := sizeExtendedHeader(nm)
	if err != nil {
		return 0, err
	}
	size += extSize

	if nm.NetworkMessageType != NetworkMessageDataSet {
		return 0, newErr(BadNotImplemented, "payload sizing for networkMessageType %d", nm.NetworkMessageType)
	}
	msgs := nm.Payload.DataSetMessages
	if len(msgs) > 1 {
		size += 2 * len(msgs)
	}
	for _, dsm := range msgs {
		n, err := sizeDataSetMessage(dsm)
		if err != nil {
			return 0, err
		}
		size += n
	}

	size += sizeSecurityHeader(nm)
	if nm.SecurityEnabled && nm.SecurityHeader.FooterEnabled {
		size += len(nm.SecurityFooter)
	}
	return size, nil
}

// DecodeBinary parses src starting at pos into nm, returning the
// position after the last byte consumed. Header blocks are read base,
// group, payload, security, extended — spec.md §4.3's decode order,
// which differs from encode's because the security-enabled flag
// gating the extended-header-adjacent SecurityHeader block is only
// known once the base header has been read, and the reference
// implementation reads SecurityHeader before the timestamp/picosecond/
// promoted-fields block on the wire.
func DecodeBinary(nm *NetworkMessage, src []byte, pos int) (int, error) {
	pos, err := DecodeHeaders(nm, src, pos)
	if err != nil {
		return pos, err
	}
	end := len(src)
	if nm.SecurityEnabled && nm.SecurityHeader.FooterEnabled {
		end -= int(nm.SecurityHeader.SecurityFooterSize)
		if end < pos {
			return pos, newErr(BadDecodingError, "securityFooterSize exceeds remaining message length")
		}
	}
	pos, err = DecodePayload(nm, src, pos, end)
	if err != nil {
		return pos, err
	}
	return DecodeFooters(nm, src, pos)
}

// DecodeHeaders reads every header block preceding the payload, in the
// order base, group, payload, security, extended — security before
// extended, the opposite of EncodeHeaders' order. That asymmetry is
// carried over from the reference decoder rather than invented here.
func DecodeHeaders(nm *NetworkMessage, src []byte, pos int) (int, error) {
	pos, err := decodeBaseHeader(nm, src, pos)
	if err != nil {
		return pos, err
	}
	pos, err = decodeGroupHeader(nm, src, pos)
	if err != nil {
		return pos, err
	}
	pos, err = decodePayloadHeader(nm, src, pos)
	if err != nil {
		return pos, err
	}
	pos, err = decodeSecurityHeader(nm, src, pos)
	if err != nil {
		return pos, err
	}
	return decodeExtendedHeader(nm, src, pos)
}

// DecodePayload reads the DataSet payload up to end, the position
// immediately preceding the SecurityFooter (or the end of src when no
// footer is present).
func DecodePayload(nm *NetworkMessage, src []byte, pos, end int) (int, error) {
	if nm.NetworkMessageType != NetworkMessageDataSet {
		return pos, newErr(BadNotImplemented, "payload decoding for networkMessageType %d", nm.NetworkMessageType)
	}

	count := 1
	if nm.PayloadHeaderEnabled {
		count = len(nm.DataSetPayloadHeader.DataSetWriterIDs)
	}

	var sizes []uint16
	var err error
	if count > 1 {
		sizes = make([]uint16, count)
		for i := range sizes {
			if sizes[i], pos, err = primitives.DecodeUint16(src, pos); err != nil {
				return pos, wrapDecode(err, "Payload size")
			}
		}
	}

	msgs := make([]*DataSetMessage, count)
	for i := range msgs {
		dsm := &DataSetMessage{}
		msgEnd := end
		if sizes != nil {
			msgEnd = pos + int(sizes[i])
			if msgEnd > end {
				return pos, newErr(BadDecodingError, "DataSetMessage size exceeds remaining message length")
			}
		}
		if pos, err = decodeDataSetMessage(dsm, src, pos, msgEnd); err != nil {
			return pos, err
		}
		msgs[i] = dsm
	}
	nm.Payload.Sizes = sizes
	nm.Payload.DataSetMessages = msgs
	return pos, nil
}

// DecodeFooters reads the (still-encrypted, for the security layer to
// handle) SecurityFooter trailing the message.
func DecodeFooters(nm *NetworkMessage, src []byte, pos int) (int, error) {
	if nm.SecurityEnabled && nm.SecurityHeader.FooterEnabled {
		n := int(nm.SecurityHeader.SecurityFooterSize)
		footer, newPos, err := primitives.DecodeBytes(src, pos, n)
		if err != nil {
			return pos, wrapDecode(err, "SecurityFooter")
		}
		nm.SecurityFooter = footer
		return newPos, nil
	}
	return pos, nil
}

// Clear releases nm's slice-backed fields and nested DataSetMessages,
// then resets it to the zero value, per spec.md §4.5.
func (nm *NetworkMessage) Clear() {
	if nm == nil {
		return
	}
	for _, dsm := range nm.Payload.DataSetMessages {
		dsm.Clear()
	}
	*nm = NetworkMessage{}
}
