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

package stats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opcfoundation-pubsub/uadp-codec/uadp"
)

func counterValue(t *testing.T, r *PrometheusRecorder, name, label, labelValue string) float64 {
	t.Helper()
	families, err := r.registry.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == labelValue {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestObserveEncodeSuccessCountsGoodAndSize(t *testing.T) {
	r := NewPrometheusRecorder()
	r.ObserveEncode(128, nil)
	require.Equal(t, float64(1), counterValue(t, r, "uadp_encode_total", "status", "Good"))
}

func TestObserveEncodeFailureCountsByStatus(t *testing.T) {
	r := NewPrometheusRecorder()
	nm := &uadp.NetworkMessage{NetworkMessageType: uadp.NetworkMessageEvent}
	buf := make([]byte, 16)
	_, err := uadp.EncodeBinary(nm, buf, 0)
	require.Error(t, err)
	r.ObserveEncode(0, err)
	require.Equal(t, float64(1), counterValue(t, r, "uadp_encode_total", "status", "BadNotImplemented"))
}

func TestObserveDecodeSuccessAndFailure(t *testing.T) {
	r := NewPrometheusRecorder()
	r.ObserveDecode(64, nil)

	nm := &uadp.NetworkMessage{}
	_, err := uadp.DecodeBinary(nm, nil, 0)
	require.Error(t, err)
	r.ObserveDecode(0, err)

	require.Equal(t, float64(1), counterValue(t, r, "uadp_decode_total", "status", "Good"))
	require.Equal(t, float64(1), counterValue(t, r, "uadp_decode_total", "status", "BadDecodingError"))
}

func TestIncRealtimeUpdate(t *testing.T) {
	r := NewPrometheusRecorder()
	r.IncRealtimeUpdate("publish")
	r.IncRealtimeUpdate("publish")
	r.IncRealtimeUpdate("subscribe")
	require.Equal(t, float64(2), counterValue(t, r, "uadp_realtime_update_total", "kind", "publish"))
	require.Equal(t, float64(1), counterValue(t, r, "uadp_realtime_update_total", "kind", "subscribe"))
}
