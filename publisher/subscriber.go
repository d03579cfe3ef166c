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

package publisher

import (
	"github.com/opcfoundation-pubsub/uadp-codec/stats"
	"github.com/opcfoundation-pubsub/uadp-codec/uadp"
)

// Reader is the subscribe-side counterpart of WriterGroup: it holds a
// pre-shaped NetworkMessage matching a known WriterGroup's layout and
// patches it in place from incoming frames, instead of running the
// full decode cascade on every message.
type Reader struct {
	ob    *uadp.NetworkMessageOffsetBuffer
	stats stats.Recorder
}

// NewReader shapes a pre-decoded NetworkMessage from a sample frame so
// later calls to Update only need to patch the recorded offsets.
func NewReader(sample *uadp.NetworkMessage, st stats.Recorder) (*Reader, error) {
	nm := &uadp.NetworkMessage{}
	if _, err := uadp.DecodeBinary(nm, sampleBuffer(sample), 0); err != nil {
		return nil, err
	}

	ob := &uadp.NetworkMessageOffsetBuffer{NM: nm}
	if _, err := uadp.CalcSizeBinaryOffsets(sample, ob); err != nil {
		return nil, err
	}

	return &Reader{ob: ob, stats: st}, nil
}

// Update patches the Reader's pre-shaped NetworkMessage from buf,
// which must carry the same layout the Reader was built from.
func (r *Reader) Update(buf []byte) error {
	err := uadp.UpdateBufferedNwMessage(r.ob, buf, 0)
	if r.stats != nil {
		r.stats.ObserveDecode(len(buf), err)
		if err == nil {
			r.stats.IncRealtimeUpdate("subscribe")
		}
	}
	return err
}

// NetworkMessage returns the Reader's pre-shaped NetworkMessage. The
// returned pointer is reused across Update calls; callers that need a
// stable snapshot must copy out the fields they care about.
func (r *Reader) NetworkMessage() *uadp.NetworkMessage {
	return r.ob.NM
}

func sampleBuffer(nm *uadp.NetworkMessage) []byte {
	size, err := uadp.CalcSizeBinary(nm)
	if err != nil {
		return nil
	}
	buf := make([]byte, size)
	if _, err := uadp.EncodeBinary(nm, buf, 0); err != nil {
		return nil
	}
	return buf
}
