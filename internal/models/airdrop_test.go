package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagsUnmarshalList(t *testing.T) {
	var tags Tags

	require.NoError(t, json.Unmarshal([]byte(`["DeFi"," NFT ",""]`), &tags))
	assert.Equal(t, Tags{"DeFi", "NFT"}, tags)
}

func TestTagsUnmarshalCommaString(t *testing.T) {
	var tags Tags

	require.NoError(t, json.Unmarshal([]byte(`"DeFi, NFT"`), &tags))
	assert.Equal(t, Tags{"DeFi", "NFT"}, tags)
}

func TestTagsUnmarshalRejectsOtherShapes(t *testing.T) {
	var tags Tags

	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &tags))
	assert.Error(t, json.Unmarshal([]byte(`42`), &tags))
}

func TestTagsValueScanRoundTrip(t *testing.T) {
	original := Tags{"DeFi", "NFT"}

	value, err := original.Value()
	require.NoError(t, err)

	var scanned Tags
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, original, scanned)
}

func TestTagsValueOfNilIsEmptyList(t *testing.T) {
	var tags Tags

	value, err := tags.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(value.([]byte)))
}
