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

package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonePolicyRoundTrip(t *testing.T) {
	var p NonePolicy
	plaintext := []byte("hello")
	ct, err := p.Seal(1, nil, plaintext)
	require.NoError(t, err)
	pt, err := p.Open(1, nil, ct)
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt)
}

func TestBasicPolicyRoundTrip(t *testing.T) {
	p := NewBasicPolicy()
	require.NoError(t, p.SetKey(1, []byte("a passphrase that's not 32 bytes")))

	nonce, err := NewNonce(p.NonceSize())
	require.NoError(t, err)

	plaintext := []byte("NetworkMessage payload bytes")
	ct, err := p.Seal(1, nonce, plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ct)

	pt, err := p.Open(1, nonce, ct)
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt)
}

func TestBasicPolicyUnknownToken(t *testing.T) {
	p := NewBasicPolicy()
	_, err := p.Seal(99, []byte{1, 2, 3}, []byte("x"))
	require.ErrorIs(t, err, ErrUnknownToken)
}

func TestBasicPolicyTamperedCiphertextFailsOpen(t *testing.T) {
	p := NewBasicPolicy()
	require.NoError(t, p.SetKey(1, []byte("key")))
	nonce, err := NewNonce(p.NonceSize())
	require.NoError(t, err)

	ct, err := p.Seal(1, nonce, []byte("payload"))
	require.NoError(t, err)
	ct[0] ^= 0xFF

	_, err = p.Open(1, nonce, ct)
	require.ErrorIs(t, err, ErrOpenFailed)
}

func TestBasicPolicyKeyTooLong(t *testing.T) {
	p := NewBasicPolicy()
	err := p.SetKey(1, make([]byte, 33))
	require.Error(t, err)
}
