package utils

import (
	"testing"
	"time"

	"github.com/dropdeck-dev/dropdeck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRawDomain(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://a.io/x", "a.io"},
		{"https://www.a.io/y", "a.io"},
		{"http://B.io", "b.io"},
		{"a.io/claim", "a.io"},
		{"www.a.io", "a.io"},
	}

	for _, tt := range tests {
		domain, err := ExtractRawDomain(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, domain, tt.input)
	}
}

func TestExtractRawDomainRejectsEmpty(t *testing.T) {
	_, err := ExtractRawDomain("")
	assert.Error(t, err)
}

func TestUniqueByDomainFirstOccurrenceWins(t *testing.T) {
	airdrops := []models.Airdrop{
		{ID: "1", Link: "https://a.io/x"},
		{ID: "2", Link: "https://a.io/y"},
		{ID: "3", Link: "https://b.io"},
	}

	unique := UniqueByDomain(airdrops)

	require.Len(t, unique, 2)
	assert.Equal(t, "1", unique[0].ID)
	assert.Equal(t, "3", unique[1].ID)
}

func TestUniqueByDomainKeepsUnparseableLinks(t *testing.T) {
	airdrops := []models.Airdrop{
		{ID: "1", Link: ""},
		{ID: "2", Link: ""},
	}

	assert.Len(t, UniqueByDomain(airdrops), 2)
}

func TestSortAirdropsActiveFirst(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	airdrops := []models.Airdrop{
		{ID: "inactive-new", Active: false, LastActivity: newer},
		{ID: "active-old", Active: true, LastActivity: older},
	}

	SortAirdrops(airdrops)

	assert.Equal(t, "active-old", airdrops[0].ID)
	assert.Equal(t, "inactive-new", airdrops[1].ID)
}

func TestSortAirdropsByActivityWithinGroup(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	airdrops := []models.Airdrop{
		{ID: "a", Active: true, LastActivity: t1},
		{ID: "b", Active: true, LastActivity: t3},
		{ID: "c", Active: true, LastActivity: t2},
	}

	SortAirdrops(airdrops)

	assert.Equal(t, []string{"b", "c", "a"}, []string{airdrops[0].ID, airdrops[1].ID, airdrops[2].ID})
}

func TestMatchesQueryAcrossFields(t *testing.T) {
	airdrop := models.Airdrop{
		Name:  "ZkDrop",
		Chain: "zkSync",
		Notes: "claim opens soon",
		Tags:  models.Tags{"DeFi", "NFT"},
	}

	assert.True(t, MatchesQuery(airdrop, "defi"))
	assert.True(t, MatchesQuery(airdrop, "ZKSYNC"))
	assert.True(t, MatchesQuery(airdrop, "claim"))
	assert.True(t, MatchesQuery(airdrop, ""))
	assert.False(t, MatchesQuery(airdrop, "solana"))
}

func TestFilterAirdrops(t *testing.T) {
	airdrops := []models.Airdrop{
		{ID: "1", Name: "ZkDrop", Tags: models.Tags{"DeFi", "NFT"}},
		{ID: "2", Name: "NodeRunner"},
	}

	matched := FilterAirdrops(airdrops, "defi")

	require.Len(t, matched, 1)
	assert.Equal(t, "1", matched[0].ID)

	assert.Len(t, FilterAirdrops(airdrops, "  "), 2)
}
