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

package primitives

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	n, err := EncodeUint32(buf, 0, 0xDEADBEEF)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0xEF, 0xBE, 0xAD, 0xDE}, buf[:4])

	v, n, err := DecodeUint32(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, uint32(0xDEADBEEF), v)
}

func TestEncodeShortBuffer(t *testing.T) {
	buf := make([]byte, 1)
	_, err := EncodeUint32(buf, 0, 1)
	require.ErrorIs(t, err, ErrShortBuffer)
}

func TestDecodeShortSource(t *testing.T) {
	src := make([]byte, 1)
	_, _, err := DecodeUint32(src, 0)
	require.ErrorIs(t, err, ErrShortSource)
}

func TestStringRoundTrip(t *testing.T) {
	s := "hello"
	buf := make([]byte, SizeString(&s))
	n, err := EncodeString(buf, 0, &s)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)

	got, _, err := DecodeString(buf, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s, *got)
}

func TestStringNull(t *testing.T) {
	buf := make([]byte, 4)
	_, err := EncodeString(buf, 0, nil)
	require.NoError(t, err)
	got, _, err := DecodeString(buf, 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGUIDRoundTrip(t *testing.T) {
	id := uuid.New()
	g := NewGUID(id)
	buf := make([]byte, guidSize)
	_, err := EncodeGUID(buf, 0, g)
	require.NoError(t, err)

	got, n, err := DecodeGUID(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, guidSize, n)
	assert.True(t, g.Equal(got))
}

func TestDateTimeRoundTrip(t *testing.T) {
	ref := time.Date(2024, 3, 1, 12, 30, 0, 500, time.UTC)
	dt := NewDateTime(ref)
	buf := make([]byte, 8)
	_, err := EncodeDateTime(buf, 0, dt)
	require.NoError(t, err)

	got, _, err := DecodeDateTime(buf, 0)
	require.NoError(t, err)
	assert.WithinDuration(t, ref, got.Time(), time.Microsecond)
}

func TestVariantScalarRoundTrip(t *testing.T) {
	v := Variant{Type: TypeUInt32, Value: uint32(42)}
	size, err := SizeVariant(v)
	require.NoError(t, err)
	buf := make([]byte, size)
	n, err := EncodeVariant(buf, 0, v)
	require.NoError(t, err)
	assert.Equal(t, size, n)

	got, _, err := DecodeVariant(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, v.Type, got.Type)
	assert.Equal(t, v.Value, got.Value)
}

func TestVariantArrayRejected(t *testing.T) {
	buf := []byte{byte(TypeUInt32) | variantArrayMask, 0, 0, 0, 0}
	_, _, err := DecodeVariant(buf, 0)
	require.Error(t, err)
}

func TestDataValueRoundTrip(t *testing.T) {
	v := Variant{Type: TypeInt16, Value: int16(-7)}
	status := uint32(0)
	ts := NewDateTime(time.Now())
	dv := DataValue{Value: &v, Status: &status, SourceTimestamp: &ts}

	size, err := SizeDataValue(dv)
	require.NoError(t, err)
	buf := make([]byte, size)
	n, err := EncodeDataValue(buf, 0, dv)
	require.NoError(t, err)
	assert.Equal(t, size, n)

	got, _, err := DecodeDataValue(buf, 0)
	require.NoError(t, err)
	require.NotNil(t, got.Value)
	assert.Equal(t, v.Value, got.Value.Value)
	require.NotNil(t, got.Status)
	assert.Equal(t, status, *got.Status)
	require.NotNil(t, got.SourceTimestamp)
	assert.Equal(t, ts, *got.SourceTimestamp)
	assert.Nil(t, got.ServerTimestamp)
}
