package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dropdeck-dev/dropdeck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAirdropRequestLegacyNames(t *testing.T) {
	var req AirdropRequest

	body := `{"project":"ZkDrop","image":"https://a.io/logo.png","status":"active","join_date":"2024-01-15"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, "ZkDrop", req.name())
	assert.Equal(t, "https://a.io/logo.png", req.logo())

	active := req.active()
	require.NotNil(t, active)
	assert.True(t, *active)

	joined, ok := req.joinDate()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), joined)
}

func TestAirdropRequestCanonicalNamesWin(t *testing.T) {
	var req AirdropRequest

	body := `{"name":"Canonical","project":"Legacy","logo":"https://a.io/new.png","image":"https://a.io/old.png"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, "Canonical", req.name())
	assert.Equal(t, "https://a.io/new.png", req.logo())
}

func TestAirdropRequestActivePrecedence(t *testing.T) {
	var req AirdropRequest

	// The boolean spellings outrank the string enum.
	body := `{"is_active":false,"status":"active"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	active := req.active()
	require.NotNil(t, active)
	assert.False(t, *active)
}

func TestAirdropRequestActiveAbsent(t *testing.T) {
	var req AirdropRequest

	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","status":"pending"}`), &req))
	assert.Nil(t, req.active())
}

func TestAirdropRequestTagsAcceptBothShapes(t *testing.T) {
	var req AirdropRequest

	require.NoError(t, json.Unmarshal([]byte(`{"tags":["DeFi","NFT"]}`), &req))
	require.NotNil(t, req.Tags)
	assert.Equal(t, models.Tags{"DeFi", "NFT"}, *req.Tags)

	req = AirdropRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"tags":"DeFi, NFT"}`), &req))
	require.NotNil(t, req.Tags)
	assert.Equal(t, models.Tags{"DeFi", "NFT"}, *req.Tags)
}

func TestToAirdropResponseNeverEmitsNilTags(t *testing.T) {
	response := toAirdropResponse(models.Airdrop{ID: "1"})

	body, err := json.Marshal(response)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"tags":[]`)
}

func TestTimeOfDayPattern(t *testing.T) {
	assert.True(t, timeOfDayPattern.MatchString("07:00"))
	assert.True(t, timeOfDayPattern.MatchString("23:59"))
	assert.False(t, timeOfDayPattern.MatchString("24:00"))
	assert.False(t, timeOfDayPattern.MatchString("7:00"))
	assert.False(t, timeOfDayPattern.MatchString("noon"))
}
