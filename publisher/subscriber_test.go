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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opcfoundation-pubsub/uadp-codec/uadp"
)

func TestReaderTracksRepublishedSequenceNumbers(t *testing.T) {
	nm := sampleWriterGroupMessage()

	reader, err := NewReader(nm, nil)
	require.NoError(t, err)
	require.Equal(t, uint16(1), reader.NetworkMessage().GroupHeader.SequenceNumber)

	wg, err := NewWriterGroup(nm, func(buf []byte) {
		require.NoError(t, reader.Update(buf))
	}, nil)
	require.NoError(t, err)

	require.NoError(t, wg.publishOnce())
	require.Equal(t, uint16(1), reader.NetworkMessage().GroupHeader.SequenceNumber)

	require.NoError(t, wg.publishOnce())
	require.Equal(t, uint16(2), reader.NetworkMessage().GroupHeader.SequenceNumber)
}

func TestReaderRejectsShortBuffer(t *testing.T) {
	nm := sampleWriterGroupMessage()
	reader, err := NewReader(nm, nil)
	require.NoError(t, err)

	err = reader.Update([]byte{0, 1, 2})
	require.Error(t, err)
	require.Equal(t, uadp.BadDecodingError, uadp.StatusOf(err))
}
