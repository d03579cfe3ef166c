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

// Wire-level flag bit masks, named after the open62541 reference
// implementation's NM_*/GROUP_HEADER_*/SECURITY_HEADER_*/
// DS_MESSAGEHEADER_* constants (see original_source in DESIGN.md).
// Carrying the same names keeps size/encode/decode visibly consistent
// with each other, the way the teacher's Flag* constants do for PTP.
const (
	nmVersionMask              byte = 0x0F
	nmPublisherIDEnabledMask   byte = 0x10
	nmGroupHeaderEnabledMask   byte = 0x20
	nmPayloadHeaderEnabledMask byte = 0x40
	nmExtendedFlags1Mask       byte = 0x80

	nmPublisherIDTypeMask      byte = 0x07
	nmDataSetClassIDMask       byte = 0x08
	nmSecurityEnabledMask      byte = 0x10
	nmTimestampEnabledMask     byte = 0x20
	nmPicosecondsEnabledMask   byte = 0x40
	nmExtendedFlags2Mask       byte = 0x80

	nmChunkMessageMask       byte = 0x01
	nmPromotedFieldsMask     byte = 0x02
	nmNetworkMessageTypeMask byte = 0x1C // bits 2-4
	nmNetworkMessageTypeShift     = 2

	ghWriterGroupIDMask        byte = 0x01
	ghGroupVersionMask         byte = 0x02
	ghNetworkMessageNumberMask byte = 0x04
	ghSequenceNumberMask       byte = 0x08

	shSignedMask        byte = 0x01
	shEncryptedMask     byte = 0x02
	shFooterEnabledMask byte = 0x04
	shForceKeyResetMask byte = 0x08

	dsFieldEncodingMask byte = 0x06
	dsFieldEncodingShift     = 1
	dsValidMask         byte = 0x01
	dsSeqNrMask         byte = 0x08
	dsStatusMask        byte = 0x10
	dsCfgMajorMask      byte = 0x20
	dsCfgMinorMask      byte = 0x40
	dsFlags2Mask        byte = 0x80

	dsMessageTypeMask  byte = 0x0F
	dsTimestampMask    byte = 0x10
	dsPicosecondsMask  byte = 0x20
)

// extendedFlags1Required reports whether ExtendedFlags1 must appear
// on the wire for nm, per spec.md §4.1's predicate.
func extendedFlags1Required(nm *NetworkMessage) bool {
	return nm.PublisherIDType != PublisherIDByte ||
		nm.DataSetClassIDEnabled ||
		nm.SecurityEnabled ||
		nm.TimestampEnabled ||
		nm.PicosecondsEnabled ||
		extendedFlags2Required(nm)
}

// extendedFlags2Required reports whether ExtendedFlags2 must appear
// on the wire for nm.
func extendedFlags2Required(nm *NetworkMessage) bool {
	return nm.ChunkMessage ||
		nm.PromotedFieldsEnabled ||
		nm.NetworkMessageType != NetworkMessageDataSet
}

// dataSetFlags2Required reports whether a DataSetMessage's
// DataSetFlags2 byte must appear on the wire.
func dataSetFlags2Required(h *DataSetMessageHeader) bool {
	return h.DataSetMessageType != DataSetMessageKeyFrame ||
		h.TimestampEnabled ||
		h.PicosecondsEnabled
}
