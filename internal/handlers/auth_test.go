package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCookieDomainReadsEnvironmentPerCall(t *testing.T) {
	t.Setenv("DOMAIN", "dropdeck.example.com")
	assert.Equal(t, "dropdeck.example.com", cookieDomain())

	// A value appearing only after a dotenv load must still be seen.
	t.Setenv("DOMAIN", "")
	assert.Equal(t, "", cookieDomain())
}
