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

// Package security implements the pluggable sign/encrypt hook a
// NetworkMessage's SecurityHeader gates: a Policy turns a
// SecurityTokenId into the key material needed to seal or open a
// NetworkMessage's payload and SecurityFooter.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/opcfoundation-pubsub/uadp-codec/uadp"
)

// ErrUnknownToken is returned when a Policy has no key material for a
// requested SecurityTokenId.
var ErrUnknownToken = errors.New("security: unknown security token id")

// ErrOpenFailed is returned when Open fails authentication, meaning
// either the ciphertext was tampered with or the wrong key was used.
var ErrOpenFailed = errors.New("security: message failed authentication")

// Policy seals and opens a NetworkMessage's payload for one or more
// security tokens. Implementations are looked up by SecurityTokenId so
// a publisher/subscriber pair can roll keys without restarting.
type Policy interface {
	// NonceSize returns the length of MessageNonce this policy expects
	// a caller to generate for Seal, bounded by uadp.MaxNonceLength.
	NonceSize() int

	// Seal encrypts and authenticates plaintext using the key for
	// tokenID and nonce, returning ciphertext the caller places in the
	// NetworkMessage's DataSet payload bytes.
	Seal(tokenID uint32, nonce []byte, plaintext []byte) (ciphertext []byte, err error)

	// Open authenticates and decrypts ciphertext using the key for
	// tokenID and nonce.
	Open(tokenID uint32, nonce []byte, ciphertext []byte) (plaintext []byte, err error)
}

// NonePolicy implements Policy as a no-op: Seal and Open return their
// input unchanged. It suits a NetworkMessage built with
// SecurityEnabled false, and is a useful stand-in in tests that exercise
// the wire format without exercising real cryptography.
type NonePolicy struct{}

// NonceSize always returns 0: NonePolicy never reads a nonce.
func (NonePolicy) NonceSize() int { return 0 }

// Seal returns plaintext unchanged.
func (NonePolicy) Seal(_ uint32, _ []byte, plaintext []byte) ([]byte, error) {
	return plaintext, nil
}

// Open returns ciphertext unchanged.
func (NonePolicy) Open(_ uint32, _ []byte, ciphertext []byte) ([]byte, error) {
	return ciphertext, nil
}

// BasicPolicy implements Policy with XSalsa20-Poly1305 authenticated
// encryption (golang.org/x/crypto/nacl/secretbox), keyed per
// SecurityTokenId. It is a concrete, testable stand-in for one of the
// AEAD constructions a PubSub security profile would plug in here; it
// does not reproduce the PubSub-Aes128/256-CTR profiles' exact byte
// layout, which additionally HMAC-sign a header span this policy
// treats as opaque to the codec.
type BasicPolicy struct {
	keys map[uint32]*[32]byte
}

// NewBasicPolicy builds a BasicPolicy with no keys installed; call
// SetKey before Seal/Open is used for a given token.
func NewBasicPolicy() *BasicPolicy {
	return &BasicPolicy{keys: make(map[uint32]*[32]byte)}
}

// SetKey installs the 32-byte key used for tokenID. A key shorter than
// 32 bytes is stretched via SHA-256; a key longer than 32 bytes is an
// error, since silently truncating key material would weaken it
// without the caller noticing.
func (p *BasicPolicy) SetKey(tokenID uint32, key []byte) error {
	if len(key) > 32 {
		return fmt.Errorf("security: key for token %d is %d bytes, want at most 32", tokenID, len(key))
	}
	var k [32]byte
	if len(key) == 32 {
		copy(k[:], key)
	} else {
		k = sha256.Sum256(key)
	}
	p.keys[tokenID] = &k
	return nil
}

// NonceSize returns uadp.MaxNonceLength (16), the longest
// NetworkMessage.SecurityHeader.MessageNonce the wire allows. secretbox
// requires a 24-byte XSalsa20 nonce, so BasicPolicy derives its full
// 24-byte nonce by hashing the wire nonce rather than using it
// directly.
func (p *BasicPolicy) NonceSize() int {
	return uadp.MaxNonceLength
}

func (p *BasicPolicy) expandNonce(nonce []byte) [24]byte {
	sum := sha256.Sum256(nonce)
	var n [24]byte
	copy(n[:], sum[:24])
	return n
}

// Seal encrypts plaintext with the key for tokenID.
func (p *BasicPolicy) Seal(tokenID uint32, nonce []byte, plaintext []byte) ([]byte, error) {
	key, ok := p.keys[tokenID]
	if !ok {
		return nil, ErrUnknownToken
	}
	n := p.expandNonce(nonce)
	return secretbox.Seal(nil, plaintext, &n, key), nil
}

// Open decrypts and authenticates ciphertext with the key for tokenID.
func (p *BasicPolicy) Open(tokenID uint32, nonce []byte, ciphertext []byte) ([]byte, error) {
	key, ok := p.keys[tokenID]
	if !ok {
		return nil, ErrUnknownToken
	}
	n := p.expandNonce(nonce)
	out, ok := secretbox.Open(nil, ciphertext, &n, key)
	if !ok {
		return nil, ErrOpenFailed
	}
	return out, nil
}

// NewNonce generates a random MessageNonce of size n, n <=
// uadp.MaxNonceLength.
func NewNonce(n int) ([]byte, error) {
	if n > uadp.MaxNonceLength {
		return nil, fmt.Errorf("security: requested nonce length %d exceeds %d", n, uadp.MaxNonceLength)
	}
	nonce := make([]byte, n)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("security: generating nonce: %w", err)
	}
	return nonce, nil
}
