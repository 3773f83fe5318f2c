package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeReportsAge(t *testing.T) {
	writtenAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	raw, err := encodeEnvelope([]string{"a", "b"}, writtenAt)
	require.NoError(t, err)

	// Four minutes later the entry is still inside a five-minute window.
	value, age, err := decodeEnvelope(raw, writtenAt.Add(4*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 4*time.Minute, age)
	assert.True(t, age < 5*time.Minute)

	var decoded []string
	require.NoError(t, json.Unmarshal(value, &decoded))
	assert.Equal(t, []string{"a", "b"}, decoded)

	// Six minutes later it is past the window.
	_, age, err = decodeEnvelope(raw, writtenAt.Add(6*time.Minute))
	require.NoError(t, err)
	assert.False(t, age < 5*time.Minute)
}

func TestDecodeEnvelopeRejectsCorruptEntries(t *testing.T) {
	_, _, err := decodeEnvelope([]byte("{not json"), time.Now())
	assert.Error(t, err)
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache

	_, _, ok := c.Read(context.Background(), "key")
	assert.False(t, ok)

	assert.NoError(t, c.Write(context.Background(), "key", "value"))
}
