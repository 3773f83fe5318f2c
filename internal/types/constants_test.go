package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedOriginsReadsEnvironmentPerCall(t *testing.T) {
	t.Setenv("CLIENT_URL", "https://app.example.com")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	origins := AllowedOrigins()

	assert.Contains(t, origins, "https://app.example.com")
	assert.Contains(t, origins, "https://a.example.com")
	assert.Contains(t, origins, "https://b.example.com")
	assert.Contains(t, origins, "http://localhost:3000")

	// Values set after startup (e.g. by a dotenv load) must be picked up
	// on the next call rather than frozen at package init.
	t.Setenv("CLIENT_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	assert.NotContains(t, AllowedOrigins(), "https://app.example.com")
}

func TestValidStageAndType(t *testing.T) {
	assert.True(t, ValidStage("testnet"))
	assert.True(t, ValidStage("Claimable"))
	assert.False(t, ValidStage("moon"))

	assert.True(t, ValidType("retroactive"))
	assert.False(t, ValidType("unknown"))
}
