package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeSequenceToken(t *testing.T) {
	token := EncodeSequenceToken("acc-1", 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	seq, err := DecodeSequenceToken(token, "acc-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), seq)

	// Large sequences survive the round trip.
	token = EncodeSequenceToken("acc-1", 9_000_000_000_000)
	seq, err = DecodeSequenceToken(token, "acc-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(9_000_000_000_000), seq)
}

func TestDecodeSequenceTokenErrors(t *testing.T) {
	_, err := DecodeSequenceToken("this is not base64!", "acc-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeSequenceToken(EncodeSequenceToken("acc-2", 7), "acc-1")
	assert.Error(t, err, "token from another account must be rejected")
	assert.Contains(t, err.Error(), "different listing")

	_, err = DecodeSequenceToken(EncodeMultiFieldToken("seq", "acc-1", "abc"), "acc-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sequence parse")

	_, err = DecodeSequenceToken(EncodeMultiFieldToken("date", "2023-05-15"), "acc-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fields")
}

func TestMultiFieldToken(t *testing.T) {
	token := EncodeMultiFieldToken("a", "b", "c")
	fields, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, fields)
}
