package secret

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(n int) string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x42}, n))
}

func newTestBox(t *testing.T) *Box {
	t.Helper()
	box, err := NewBox(testKey(32))
	require.NoError(t, err)
	return box
}

func TestParseKey(t *testing.T) {
	for _, n := range []int{16, 24, 32} {
		key, err := ParseKey(testKey(n))
		require.NoError(t, err)
		assert.Len(t, key, n)
	}

	_, err := ParseKey("")
	assert.ErrorIs(t, err, ErrNoKey)

	_, err = ParseKey(testKey(20))
	assert.ErrorIs(t, err, ErrKeyLength)

	_, err = ParseKey("not base64!!")
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	box := newTestBox(t)
	for _, plain := range []string{"", "x", "my secret", "日本語の秘密"} {
		token, err := box.EncryptString(plain)
		require.NoError(t, err)

		got, err := box.Decrypt(token)
		require.NoError(t, err)
		assert.Equal(t, plain, string(got))
	}
}

func TestTokenLayout(t *testing.T) {
	box := newTestBox(t)
	token, err := box.EncryptString("hello")
	require.NoError(t, err)

	blob, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, blob, nonceSize+len("hello")+box.aead.Overhead())
}

func TestFreshNoncePerValue(t *testing.T) {
	box := newTestBox(t)
	a, err := box.EncryptString("same")
	require.NoError(t, err)
	b, err := box.EncryptString("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptEmptyToken(t *testing.T) {
	got, err := newTestBox(t).Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecryptRejectsTampering(t *testing.T) {
	box := newTestBox(t)
	token, err := box.EncryptString("payload")
	require.NoError(t, err)

	blob, _ := base64.StdEncoding.DecodeString(token)
	blob[len(blob)-1] ^= 0x01
	_, err = box.Decrypt(base64.StdEncoding.EncodeToString(blob))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformed)
}

func TestDecryptMalformed(t *testing.T) {
	box := newTestBox(t)

	_, err := box.Decrypt("%%%")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = box.Decrypt(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecryptWrongKey(t *testing.T) {
	token, err := newTestBox(t).EncryptString("payload")
	require.NoError(t, err)

	other, err := NewBox(testKey(16))
	require.NoError(t, err)
	_, err = other.Decrypt(token)
	assert.Error(t, err)
}
